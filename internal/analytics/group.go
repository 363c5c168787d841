package analytics

import (
	"time"

	"review_insights/internal/domain"
)

// group is one bucket of records sharing a key.
type group[K comparable] struct {
	key     K
	reviews []domain.Review
}

// groupBy buckets records by key, keeping groups in first-encounter order.
func groupBy[K comparable](reviews []domain.Review, key func(domain.Review) K) []group[K] {
	idx := map[K]int{}
	var out []group[K]
	for _, r := range reviews {
		k := key(r)
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, group[K]{key: k})
		}
		out[i].reviews = append(out[i].reviews, r)
	}
	return out
}

type brandModel struct {
	brand string
	model string
}

func byBrand(r domain.Review) string { return r.Brand }
func byCountry(r domain.Review) string { return r.Country }
func byModel(r domain.Review) string { return r.Model }
func byBrandModel(r domain.Review) brandModel { return brandModel{r.Brand, r.Model} }

func filterReviews(reviews []domain.Review, keep func(domain.Review) bool) []domain.Review {
	out := make([]domain.Review, 0, len(reviews))
	for _, r := range reviews {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

/********** age bands **********/

var (
	ageBins   = []int{0, 18, 25, 35, 45, 55, 120}
	ageLabels = []string{"<18", "18-24", "25-34", "35-44", "45-54", "55+"}
)

// AgeBand returns the band index for an age, or -1 when it falls outside
// every band. Bands are left-inclusive and right-exclusive.
func AgeBand(age int) int {
	for i := 0; i < len(ageLabels); i++ {
		if age >= ageBins[i] && age < ageBins[i+1] {
			return i
		}
	}
	return -1
}

func AgeLabel(band int) string { return ageLabels[band] }

/********** months **********/

// monthStart truncates a timestamp to the first instant of its UTC month.
func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
