package analytics

import (
	"strings"
	"time"

	"review_insights/internal/domain"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ReviewFilters are AND-combined. Empty strings and nil pointers mean
// "no filter".
type ReviewFilters struct {
	Dataset   string
	Brand     string
	Model     string
	Sentiment string
	Feature   string
	Source    string
	Country   string
	Search    string
	MinRating *float64
	MaxRating *float64
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	PageSize  int
}

type ReviewPage struct {
	Reviews    []domain.Review `json:"reviews"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

func (f ReviewFilters) match(r domain.Review) bool {
	if f.Brand != "" && r.Brand != f.Brand {
		return false
	}
	if f.Model != "" && r.Model != f.Model {
		return false
	}
	if s, ok := domain.ParseSentiment(f.Sentiment); ok && r.Sentiment != s {
		return false
	}
	if f.Source != "" && r.Source != f.Source {
		return false
	}
	if f.Country != "" && r.Country != f.Country {
		return false
	}
	if f.MinRating != nil && (r.Rating == nil || *r.Rating < *f.MinRating) {
		return false
	}
	if f.MaxRating != nil && (r.Rating == nil || *r.Rating > *f.MaxRating) {
		return false
	}
	if f.Feature != "" {
		if _, ok := r.FeatureSentiments[domain.Aspect(f.Feature)]; !ok {
			return false
		}
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(r.Text), strings.ToLower(f.Search)) {
		return false
	}
	if f.StartDate != nil && (r.CreatedAt == nil || r.CreatedAt.Before(*f.StartDate)) {
		return false
	}
	if f.EndDate != nil && (r.CreatedAt == nil || r.CreatedAt.After(*f.EndDate)) {
		return false
	}
	return true
}

// QueryReviews filters, sorts by created_at descending (missing last) and
// paginates. An unknown dataset name yields an empty page.
func QueryReviews(datasets []domain.Dataset, f ReviewFilters) ReviewPage {
	pageSize := min(max(f.PageSize, 1), MaxPageSize)
	page := max(f.Page, 1)
	out := ReviewPage{Reviews: []domain.Review{}, Page: page, PageSize: pageSize}

	var pool []domain.Review
	if f.Dataset != "" {
		found := false
		for _, ds := range datasets {
			if ds.Name == f.Dataset {
				pool, found = ds.Reviews, true
				break
			}
		}
		if !found {
			return out
		}
	} else {
		pool = domain.Combined(datasets)
	}

	matched := filterReviews(pool, f.match)
	sortByCreatedDesc(matched)

	out.Total = len(matched)
	out.TotalPages = (out.Total + pageSize - 1) / pageSize
	if page <= out.TotalPages {
		start := (page - 1) * pageSize
		out.Reviews = matched[start:min(start+pageSize, out.Total)]
	}
	return out
}
