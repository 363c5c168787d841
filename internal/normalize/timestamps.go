package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// NormalizeTimestamp parses a best-effort timestamp and returns it in UTC.
// Numeric input is read as Unix seconds, except eight-digit yyyymmdd dates.
// Anything unparsable yields nil.
func NormalizeTimestamp(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) && len(s) != 8 && !strings.ContainsAny(s, "-/:") {
		sec := int64(f)
		t := time.Unix(sec, int64((f-float64(sec))*1e9)).UTC()
		return &t
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}
