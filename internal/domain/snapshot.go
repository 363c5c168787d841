package domain

import "time"

// Origin names double as dataset names.
const (
	OriginTwitter   = "twitter"
	OriginEcommerce = "ecommerce"
	OriginReddit    = "reddit"
)

// Origins lists every known origin in load order.
var Origins = []string{OriginTwitter, OriginEcommerce, OriginReddit}

// Dataset is an ordered collection of records sharing one origin.
type Dataset struct {
	Name    string
	Reviews []Review
}

// Snapshot is the read-only view of every loaded dataset. It is replaced
// wholesale on reload and never modified in place.
type Snapshot struct {
	ID       string
	LoadedAt time.Time
	Datasets []Dataset
}

func (s *Snapshot) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.Datasets))
	for _, d := range s.Datasets {
		out = append(out, d.Name)
	}
	return out
}

func (s *Snapshot) Dataset(name string) (Dataset, bool) {
	if s == nil {
		return Dataset{}, false
	}
	for _, d := range s.Datasets {
		if d.Name == name {
			return d, true
		}
	}
	return Dataset{}, false
}

// Combined concatenates all datasets' records in dataset order.
func Combined(datasets []Dataset) []Review {
	n := 0
	for _, d := range datasets {
		n += len(d.Reviews)
	}
	out := make([]Review, 0, n)
	for _, d := range datasets {
		out = append(out, d.Reviews...)
	}
	return out
}
