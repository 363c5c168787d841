package domain

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

type Sentiment string

const (
	Positive Sentiment = "Positive"
	Neutral  Sentiment = "Neutral"
	Negative Sentiment = "Negative"
)

// Sentiments is the fixed enumeration in display order.
var Sentiments = []Sentiment{Positive, Neutral, Negative}

// PolarityThreshold separates Positive/Negative from Neutral. Comparisons are strict.
const PolarityThreshold = 0.1

func (s Sentiment) Valid() bool {
	return s == Positive || s == Neutral || s == Negative
}

// ParseSentiment accepts the exact enum spelling only.
func ParseSentiment(s string) (Sentiment, bool) {
	v := Sentiment(s)
	return v, v.Valid()
}

// ClassifyPolarity maps a polarity score onto the sentiment enum.
func ClassifyPolarity(p float64) Sentiment {
	switch {
	case p > PolarityThreshold:
		return Positive
	case p < -PolarityThreshold:
		return Negative
	default:
		return Neutral
	}
}

type Aspect string

const (
	AspectBattery     Aspect = "battery"
	AspectCamera      Aspect = "camera"
	AspectHeating     Aspect = "heating"
	AspectPerformance Aspect = "performance"
	AspectDisplay     Aspect = "display"
	AspectPrice       Aspect = "price"
	AspectDesign      Aspect = "design"
	AspectUI          Aspect = "ui"
)

// Aspects is the closed aspect vocabulary.
var Aspects = []Aspect{
	AspectBattery, AspectCamera, AspectHeating, AspectPerformance,
	AspectDisplay, AspectPrice, AspectDesign, AspectUI,
}

func (a Aspect) Valid() bool {
	for _, x := range Aspects {
		if x == a {
			return true
		}
	}
	return false
}

const (
	Unknown       = "Unknown"
	MaxTextLength = 1000
)

// Review is one normalized review record. Records are never mutated after Finalize.
type Review struct {
	ID                string               `json:"review_id"`
	Dataset           string               `json:"dataset"`
	Brand             string               `json:"brand"`
	Model             string               `json:"model"`
	Source            string               `json:"source"`
	Sentiment         Sentiment            `json:"sentiment"`
	Rating            *float64             `json:"rating"`
	Polarity          float64              `json:"polarity"`
	Country           string               `json:"country"`
	Date              string               `json:"date"`
	CreatedAt         *time.Time           `json:"created_at"`
	Text              string               `json:"text"`
	FeatureSentiments map[Aspect]Sentiment `json:"feature_sentiments"`

	// origin-specific
	Age       *int     `json:"age,omitempty"`
	PriceUSD  *float64 `json:"price_usd,omitempty"`
	Verified  *bool    `json:"verified,omitempty"`
	Subreddit *string  `json:"subreddit,omitempty"`

	// e-commerce numeric sub-ratings, keyed by aspect
	AspectRatings map[Aspect]float64 `json:"-"`
}

// Finalize enforces the record invariants: label defaults, the sentiment enum,
// the aspect vocabulary, the rating range and the text length cap.
func (r Review) Finalize() Review {
	r.Brand = orUnknown(r.Brand)
	r.Model = orUnknown(r.Model)
	r.Country = orUnknown(r.Country)
	r.Source = orUnknown(r.Source)
	if !r.Sentiment.Valid() {
		r.Sentiment = Neutral
	}
	if r.Rating != nil && !(*r.Rating >= 1 && *r.Rating <= 5) {
		r.Rating = nil
	}
	if r.PriceUSD != nil && !finite(*r.PriceUSD) {
		r.PriceUSD = nil
	}
	if !finite(r.Polarity) {
		r.Polarity = 0
	}
	var dropped map[Aspect]bool
	if len(r.AspectRatings) > 0 {
		ar := make(map[Aspect]float64, len(r.AspectRatings))
		for a, v := range r.AspectRatings {
			if finite(v) {
				ar[a] = v
				continue
			}
			if dropped == nil {
				dropped = map[Aspect]bool{}
			}
			dropped[a] = true
		}
		r.AspectRatings = ar
	}
	fs := make(map[Aspect]Sentiment, len(r.FeatureSentiments))
	for a, s := range r.FeatureSentiments {
		if a.Valid() && s.Valid() && !dropped[a] {
			fs[a] = s
		}
	}
	r.FeatureSentiments = fs
	r.Text = Truncate(r.Text, MaxTextLength)
	if r.CreatedAt != nil {
		t := r.CreatedAt.UTC()
		r.CreatedAt = &t
	}
	return r
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Truncate cuts s to at most n characters.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return Unknown
	}
	return s
}
