package analytics

import (
	"slices"

	"review_insights/internal/domain"
)

// FilterSet lists the distinct values present in a record set.
type FilterSet struct {
	Brands    []string        `json:"brands"`
	Models    []string        `json:"models"`
	Sources   []string        `json:"sources"`
	Countries []string        `json:"countries"`
	Features  []domain.Aspect `json:"features"`
}

type FilterOptions struct {
	Datasets   map[string]FilterSet `json:"datasets"`
	Overall    *FilterSet           `json:"overall,omitempty"`
	Sentiments []domain.Sentiment   `json:"sentiments"`
}

// FiltersFor collects sorted, de-duplicated filter values. Unknown brands,
// models and countries are left out.
func FiltersFor(reviews []domain.Review) FilterSet {
	brands, models, sources, countries := set{}, set{}, set{}, set{}
	features := map[domain.Aspect]struct{}{}
	for _, r := range reviews {
		brands.add(r.Brand, true)
		models.add(r.Model, true)
		sources.add(r.Source, false)
		countries.add(r.Country, true)
		for a := range r.FeatureSentiments {
			features[a] = struct{}{}
		}
	}
	fs := make([]domain.Aspect, 0, len(features))
	for a := range features {
		fs = append(fs, a)
	}
	slices.Sort(fs)
	return FilterSet{
		Brands:    brands.sorted(),
		Models:    models.sorted(),
		Sources:   sources.sorted(),
		Countries: countries.sorted(),
		Features:  fs,
	}
}

func BuildFilterOptions(datasets []domain.Dataset) FilterOptions {
	out := FilterOptions{
		Datasets:   make(map[string]FilterSet, len(datasets)),
		Sentiments: slices.Clone(domain.Sentiments),
	}
	for _, ds := range datasets {
		out.Datasets[ds.Name] = FiltersFor(ds.Reviews)
	}
	if len(datasets) > 0 {
		overall := FiltersFor(domain.Combined(datasets))
		out.Overall = &overall
	}
	return out
}

type set map[string]struct{}

func (s set) add(v string, skipUnknown bool) {
	if v == "" || (skipUnknown && v == domain.Unknown) {
		return
	}
	s[v] = struct{}{}
}

func (s set) sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}
