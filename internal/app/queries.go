package app

import (
	"review_insights/internal/analytics"
	"review_insights/internal/domain"
)

// QueryService answers read requests against the live snapshot.
type QueryService struct {
	state *State
}

func NewQueryService(s *State) *QueryService {
	return &QueryService{state: s}
}

func (q *QueryService) snapshot() (*domain.Snapshot, error) {
	snap := q.state.Current()
	if snap == nil {
		return nil, domain.ErrUnavailable
	}
	return snap, nil
}

func (q *QueryService) BuyerInsights() (analytics.BuyerInsights, error) {
	snap, err := q.snapshot()
	if err != nil {
		return analytics.BuyerInsights{}, err
	}
	return analytics.BuildBuyerInsights(snap.Datasets), nil
}

func (q *QueryService) SupplierInsights() (analytics.SupplierInsights, error) {
	snap, err := q.snapshot()
	if err != nil {
		return analytics.SupplierInsights{}, err
	}
	return analytics.BuildSupplierInsights(snap.Datasets), nil
}

func (q *QueryService) Filters() (analytics.FilterOptions, error) {
	snap, err := q.snapshot()
	if err != nil {
		return analytics.FilterOptions{}, err
	}
	return analytics.BuildFilterOptions(snap.Datasets), nil
}

func (q *QueryService) ModelAdvisor() (analytics.ModelAdvisor, error) {
	snap, err := q.snapshot()
	if err != nil {
		return analytics.ModelAdvisor{}, err
	}
	return analytics.BuildModelRecommender(snap.Datasets), nil
}

func (q *QueryService) Reviews(f analytics.ReviewFilters) (analytics.ReviewPage, error) {
	snap, err := q.snapshot()
	if err != nil {
		return analytics.ReviewPage{}, err
	}
	return analytics.QueryReviews(snap.Datasets, f), nil
}

// Snapshot exposes the live snapshot for health reporting; nil when none.
func (q *QueryService) Snapshot() *domain.Snapshot {
	return q.state.Current()
}
