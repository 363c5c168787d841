package analytics

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"review_insights/internal/domain"
)

// RecommendationCount is the fixed number of recommendations per report.
const RecommendationCount = 5

const (
	buyerFiller    = "Always verify warranty, return policy, and after-sales support before making your purchase."
	supplierFiller = "Implement continuous monitoring dashboard to track sentiment trends in real-time."
)

// BuyerRecommendations produces exactly five buyer-facing recommendations.
func BuyerRecommendations(reviews []domain.Review, top []ModelRank, tiles []FeatureTile) []string {
	recs := make([]string, 0, RecommendationCount)

	if len(top) > 0 {
		best := top[0]
		recs = append(recs, fmt.Sprintf(
			"Top Choice: %s %s leads with %s%% positive sentiment and %s/5 rating across %d reviews.",
			best.Brand, best.Model, formatNumber(best.PositiveRatio), formatOptional(best.AvgRating), best.TotalReviews))
	} else {
		recs = append(recs, "Explore multiple brands to find the best fit for your needs based on available reviews.")
	}

	if len(tiles) > 0 {
		t := tiles[0]
		recs = append(recs, fmt.Sprintf(
			"Prioritize %s: Most discussed feature with %s%% positive feedback. Compare models based on this critical aspect.",
			capitalize(string(t.Feature)), formatNumber(t.PositivePct)))
	} else {
		recs = append(recs, "Focus on features that matter most to your usage patterns when comparing models.")
	}

	var praised []string
	for _, t := range tiles {
		if t.PositivePct >= 75 && len(praised) < 2 {
			praised = append(praised, capitalize(string(t.Feature)))
		}
	}
	if len(praised) > 0 {
		recs = append(recs, fmt.Sprintf(
			"Strong Performers: %s receive consistently high praise. Look for models excelling in these areas.",
			strings.Join(praised, " and ")))
	} else {
		recs = append(recs, "Read detailed reviews to understand real-world performance across different use cases.")
	}

	switch {
	case len(tiles) == 0:
		recs = append(recs, "Compare prices across platforms and wait for sales if budget is a primary concern.")
	default:
		i := slices.IndexFunc(tiles, func(t FeatureTile) bool { return t.PositivePct < 50 && t.Total > 10 })
		if i >= 0 {
			recs = append(recs, fmt.Sprintf(
				"Watch Out: %s shows only %s%% satisfaction. Verify this aspect carefully before purchase.",
				capitalize(string(tiles[i].Feature)), formatNumber(tiles[i].PositivePct)))
		} else {
			recs = append(recs, "Check verified purchase reviews and recent feedback to get the most current product insights.")
		}
	}

	if total := len(reviews); total > recentWindow {
		recent := mostRecent(reviews, recentWindow)
		pct := Percentage(CountSentiments(recent).Positive, len(recent))
		recs = append(recs, fmt.Sprintf(
			"Recent Trends: Latest reviews show %s%% positive sentiment. Consider recent feedback as it reflects current product quality.",
			formatNumber(pct)))
	} else {
		recs = append(recs, fmt.Sprintf(
			"Limited Data: Only %d reviews available. Cross-reference with other sources for a complete picture.", total))
	}

	return padRecommendations(recs, buyerFiller)
}

// SupplierRecommendations produces exactly five supplier-facing
// recommendations. brands must be in group encounter order, not health order.
func SupplierRecommendations(reviews []domain.Review, brands []BrandHealth, models []ModelPerformance, complaints []Complaint) []string {
	recs := make([]string, 0, RecommendationCount)

	if len(complaints) > 0 {
		top := complaints[0]
		recs = append(recs, fmt.Sprintf(
			"Critical Priority: %s issues reported in %d reviews. Conduct immediate engineering review and quality control audit.",
			capitalize(string(top.Feature)), top.Complaints))
	} else {
		recs = append(recs, "Continue current quality standards while monitoring emerging customer feedback trends.")
	}

	switch {
	case len(brands) == 0:
		recs = append(recs, "Expand review monitoring to capture more market feedback.")
	default:
		i := slices.IndexFunc(brands, func(b BrandHealth) bool { return b.HealthScore < 50 })
		if i >= 0 {
			recs = append(recs, fmt.Sprintf(
				"Portfolio Alert: %s has %s%% negative sentiment. Investigate manufacturing processes and component sourcing for this line.",
				brands[i].Brand, formatNumber(brands[i].NegativePct)))
		} else {
			recs = append(recs, "All brands show strong performance. Maintain current production standards across the portfolio.")
		}
	}

	switch {
	case len(models) == 0:
		recs = append(recs, "Develop model-specific tracking to identify improvement opportunities.")
	default:
		var flagged []ModelPerformance
		for _, m := range models {
			if m.NegativePct > 40 {
				flagged = append(flagged, m)
			}
		}
		if len(flagged) > 0 {
			slices.SortStableFunc(flagged, func(a, b ModelPerformance) int { return cmpDesc(a.NegativePct, b.NegativePct) })
			recs = append(recs, fmt.Sprintf(
				"Model Action Required: %s shows %s%% negative feedback. Consider recalls, firmware updates, or production line modifications.",
				flagged[0].Model, formatNumber(flagged[0].NegativePct)))
		} else {
			recs = append(recs, "Individual models performing well. Focus on incremental feature enhancements.")
		}
	}

	if len(complaints) > 1 {
		names := make([]string, 0, 3)
		for _, c := range complaints[:min(3, len(complaints))] {
			names = append(names, capitalize(string(c.Feature)))
		}
		recs = append(recs, fmt.Sprintf(
			"R&D Focus Areas: Prioritize improvements in %s. Allocate resources to address these pain points in next product cycle.",
			strings.Join(names, ", ")))
	} else {
		recs = append(recs, "Invest in innovative features that differentiate from competitors based on positive feedback trends.")
	}

	if total := len(reviews); total > 50 {
		pct := Percentage(CountSentiments(reviews).Positive, total)
		switch {
		case pct > 60:
			recs = append(recs, fmt.Sprintf(
				"Market Position: %s%% positive sentiment across %d reviews indicates strong market acceptance. Leverage this in marketing and consider premium pricing strategies.",
				formatNumber(pct), total))
		case pct < 40:
			recs = append(recs, fmt.Sprintf(
				"Urgent Action: Only %s%% positive sentiment. Launch comprehensive customer satisfaction initiative and consider temporary quality assurance freeze on new releases.",
				formatNumber(pct)))
		default:
			recs = append(recs, "Mixed sentiment detected. Conduct detailed customer interviews to understand specific pain points and expectations.")
		}
	} else {
		recs = append(recs, "Expand feedback collection channels to gather more comprehensive market intelligence.")
	}

	return padRecommendations(recs, supplierFiller)
}

func padRecommendations(recs []string, filler string) []string {
	for len(recs) < RecommendationCount {
		recs = append(recs, filler)
	}
	return recs[:RecommendationCount]
}

// formatNumber renders a float the way report text shows it: shortest
// representation, always with a decimal part ("75.0", "66.67").
func formatNumber(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}

func formatOptional(f *float64) string {
	if f == nil {
		return "N/A"
	}
	return formatNumber(*f)
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
