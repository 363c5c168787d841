package normalize

import (
	"context"
	"strings"

	"review_insights/internal/domain"
)

// aspectKeywords is the fixed keyword vocabulary, one list per aspect.
var aspectKeywords = map[domain.Aspect][]string{
	domain.AspectBattery:     {"battery", "charge", "charging", "power", "battery life", "mah"},
	domain.AspectCamera:      {"camera", "photo", "picture", "selfie", "video", "lens", "megapixel", "mp"},
	domain.AspectHeating:     {"heat", "heating", "hot", "warm", "temperature", "overheat"},
	domain.AspectPerformance: {"performance", "speed", "fast", "slow", "lag", "smooth", "processor", "ram"},
	domain.AspectDisplay:     {"display", "screen", "brightness", "resolution", "amoled", "lcd"},
	domain.AspectPrice:       {"price", "cost", "expensive", "cheap", "value", "money", "worth"},
	domain.AspectDesign:      {"design", "look", "build", "quality", "premium", "elegant"},
	domain.AspectUI:          {"ui", "interface", "software", "update", "android", "ios"},
}

// Extractor derives per-aspect sentiment from free text.
type Extractor struct {
	scorer domain.PolarityScorer
}

func NewExtractor(scorer domain.PolarityScorer) *Extractor {
	return &Extractor{scorer: scorer}
}

// Extract returns the sentiment of every aspect mentioned in text. For each
// aspect with at least one keyword hit, the sentences (split on '.') that
// contain a hit are scored and the mean polarity is classified.
func (e *Extractor) Extract(ctx context.Context, text string) map[domain.Aspect]domain.Sentiment {
	out := map[domain.Aspect]domain.Sentiment{}
	if strings.TrimSpace(text) == "" {
		return out
	}
	lower := strings.ToLower(text)

	var (
		sentences []string
		lowered   []string
		scores    map[int]float64
	)

	for _, aspect := range domain.Aspects {
		var hits []string
		for _, kw := range aspectKeywords[aspect] {
			if strings.Contains(lower, kw) {
				hits = append(hits, kw)
			}
		}
		if len(hits) == 0 {
			continue
		}

		if sentences == nil {
			sentences = strings.Split(text, ".")
			lowered = make([]string, len(sentences))
			for i, s := range sentences {
				lowered[i] = strings.ToLower(s)
			}
			scores = make(map[int]float64, len(sentences))
		}

		var sum float64
		n := 0
		for i, ls := range lowered {
			if !containsAny(ls, hits) {
				continue
			}
			p, ok := scores[i]
			if !ok {
				p = e.scorer.Score(ctx, sentences[i])
				scores[i] = p
			}
			sum += p
			n++
		}
		if n == 0 {
			continue
		}
		out[aspect] = domain.ClassifyPolarity(sum / float64(n))
	}
	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
