package analytics

import (
	"cmp"
	"slices"

	"review_insights/internal/domain"
)

// USDToINR is the fixed conversion used for local prices.
const USDToINR = 83.0

type AdvisorModel struct {
	Brand                string   `json:"brand"`
	Model                string   `json:"model"`
	AvgRating            *float64 `json:"avg_rating"`
	AvgPriceUSD          *float64 `json:"avg_price_usd"`
	AvgPriceINR          *float64 `json:"avg_price_inr"`
	AvgBatteryRating     *float64 `json:"avg_battery_rating"`
	AvgCameraRating      *float64 `json:"avg_camera_rating"`
	AvgDisplayRating     *float64 `json:"avg_display_rating"`
	AvgPerformanceRating *float64 `json:"avg_performance_rating"`
	ReviewCount          int      `json:"review_count"`
}

type AdvisorBrand struct {
	Brand  string         `json:"brand"`
	Models []AdvisorModel `json:"models"`
}

type Currency struct {
	USDToINR float64 `json:"usd_to_inr"`
}

type AdvisorSummary struct {
	BrandCount  int      `json:"brand_count"`
	ModelCount  int      `json:"model_count"`
	MinPriceUSD *float64 `json:"min_price_usd"`
	MaxPriceUSD *float64 `json:"max_price_usd"`
}

// ModelAdvisor is the e-commerce model recommender response.
type ModelAdvisor struct {
	Brands   []AdvisorBrand `json:"brands"`
	Models   []AdvisorModel `json:"models"`
	Currency Currency       `json:"currency"`
	Summary  AdvisorSummary `json:"summary"`
}

// mean accumulates optional values.
type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v *float64) {
	if v != nil {
		m.sum += *v
		m.n++
	}
}

func (m mean) value() *float64 {
	if m.n == 0 {
		return nil
	}
	v := m.sum / float64(m.n)
	return &v
}

func aspectRating(r domain.Review, a domain.Aspect) *float64 {
	if v, ok := r.AspectRatings[a]; ok {
		return &v
	}
	return nil
}

// BuildModelRecommender averages ratings and prices per e-commerce model.
// Models are ranked by (avg rating, -avg price) descending; brands are listed
// by name. Without e-commerce data the response is empty but well formed.
func BuildModelRecommender(datasets []domain.Dataset) ModelAdvisor {
	out := ModelAdvisor{
		Brands:   []AdvisorBrand{},
		Models:   []AdvisorModel{},
		Currency: Currency{USDToINR: USDToINR},
	}
	var ecommerce domain.Dataset
	found := false
	for _, ds := range datasets {
		if ds.Name == domain.OriginEcommerce {
			ecommerce, found = ds, true
			break
		}
	}
	if !found {
		return out
	}

	reviews := filterReviews(ecommerce.Reviews, func(r domain.Review) bool {
		return r.Brand != "" && r.Brand != domain.Unknown && r.Model != "" && r.Model != domain.Unknown
	})
	groups := groupBy(reviews, byBrandModel)
	slices.SortFunc(groups, func(a, b group[brandModel]) int {
		if c := cmp.Compare(a.key.brand, b.key.brand); c != 0 {
			return c
		}
		return cmp.Compare(a.key.model, b.key.model)
	})

	var minPrice, maxPrice *float64
	byBrandName := map[string][]AdvisorModel{}
	for _, g := range groups {
		var rating, price, battery, camera, display, perf mean
		for _, r := range g.reviews {
			rating.add(r.Rating)
			price.add(r.PriceUSD)
			battery.add(aspectRating(r, domain.AspectBattery))
			camera.add(aspectRating(r, domain.AspectCamera))
			display.add(aspectRating(r, domain.AspectDisplay))
			perf.add(aspectRating(r, domain.AspectPerformance))
		}
		var inr *float64
		if p := price.value(); p != nil {
			v := *p * USDToINR
			inr = &v
			if minPrice == nil || *p < *minPrice {
				minPrice = p
			}
			if maxPrice == nil || *p > *maxPrice {
				maxPrice = p
			}
		}
		m := AdvisorModel{
			Brand:                g.key.brand,
			Model:                g.key.model,
			AvgRating:            round2Ptr(rating.value()),
			AvgPriceUSD:          round2Ptr(price.value()),
			AvgPriceINR:          round2Ptr(inr),
			AvgBatteryRating:     round2Ptr(battery.value()),
			AvgCameraRating:      round2Ptr(camera.value()),
			AvgDisplayRating:     round2Ptr(display.value()),
			AvgPerformanceRating: round2Ptr(perf.value()),
			ReviewCount:          rating.n,
		}
		byBrandName[m.Brand] = append(byBrandName[m.Brand], m)
		out.Models = append(out.Models, m)
	}

	rank := func(a, b AdvisorModel) int {
		if c := cmpDesc(orZero(a.AvgRating), orZero(b.AvgRating)); c != 0 {
			return c
		}
		return cmpDesc(-orZero(a.AvgPriceUSD), -orZero(b.AvgPriceUSD))
	}
	slices.SortStableFunc(out.Models, rank)

	names := make([]string, 0, len(byBrandName))
	for b := range byBrandName {
		names = append(names, b)
	}
	slices.Sort(names)
	for _, b := range names {
		models := byBrandName[b]
		slices.SortStableFunc(models, rank)
		out.Brands = append(out.Brands, AdvisorBrand{Brand: b, Models: models})
	}

	out.Summary = AdvisorSummary{
		BrandCount:  len(names),
		ModelCount:  len(out.Models),
		MinPriceUSD: round2Ptr(minPrice),
		MaxPriceUSD: round2Ptr(maxPrice),
	}
	return out
}

func orZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
