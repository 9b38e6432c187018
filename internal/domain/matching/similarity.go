// Package matching implements the pure scoring functions used to pair bank
// movements with open financial records.
package matching

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/decor-finance/backend/internal/domain/valueobject"
)

const (
	// valueBandCeiling is the relative difference beyond which amounts score 0.
	valueBandCeiling = 0.20

	hoursPerDay = 24
)

// TextSimilarity scores how much two descriptions refer to the same party.
func TextSimilarity(a, b string) int {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return 0
	}

	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return 100
	}

	ta, tb := distinct(Tokenize(na)), distinct(Tokenize(nb))
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	var matched int
	switch {
	case len(ta) < len(tb):
		matched = countContained(ta, tb)
	case len(tb) < len(ta):
		matched = countContained(tb, ta)
	default:
		// Equal sizes: evaluate both sides so the score does not depend on argument order.
		matched = max(countContained(ta, tb), countContained(tb, ta))
	}

	return clampScore(math.Round(float64(matched) / float64(max(len(ta), len(tb))) * 100))
}

// ValueSimilarity scores how close two amounts are.
// Differences within tolerance score 70 to 100; up to 20% score 35 to 50.
func ValueSimilarity(v1, v2 decimal.Decimal, tolerance float64) int {
	if tolerance <= 0 {
		tolerance = valueobject.DefaultValueTolerance
	}

	if v1.IsZero() && v2.IsZero() {
		return 100
	}
	if v1.IsZero() || v2.IsZero() {
		return 0
	}

	larger := decimal.Max(v1.Abs(), v2.Abs())
	percentDiff, _ := v1.Sub(v2).Abs().Div(larger).Float64()

	switch {
	case percentDiff <= tolerance:
		return clampScore(math.Round(100 - (percentDiff/tolerance)*30))
	case percentDiff <= valueBandCeiling:
		return clampScore(math.Round(50 - (percentDiff-tolerance)*100))
	}
	return 0
}

// DateProximity scores how close two dates are, by calendar day.
func DateProximity(d1, d2 time.Time) int {
	days := CalendarDaysBetween(d1, d2)

	switch {
	case days <= 3:
		return 100 - days*3
	case days <= 7:
		return 90 - (days-3)*2
	case days <= 15:
		return 80 - (days-7)*2
	case days <= 30:
		return 60 - (days - 15)
	case days <= 60:
		// Three points per day, not one: a 40 day gap must already score 0.
		return max(0, 30-(days-30)*3)
	}
	return 0
}

// CalendarDaysBetween returns the absolute number of UTC calendar days between two instants.
func CalendarDaysBetween(d1, d2 time.Time) int {
	y1, m1, day1 := d1.UTC().Date()
	y2, m2, day2 := d2.UTC().Date()
	a := time.Date(y1, m1, day1, 0, 0, 0, 0, time.UTC)
	b := time.Date(y2, m2, day2, 0, 0, 0, 0, time.UTC)

	days := math.Round(math.Abs(a.Sub(b).Hours()) / hoursPerDay)
	if days > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(days)
}

// countContained counts tokens of needles that contain, or are contained by, any token of haystack.
func countContained(needles, haystack []string) int {
	count := 0
	for _, n := range needles {
		for _, h := range haystack {
			if strings.Contains(h, n) || strings.Contains(n, h) {
				count++
				break
			}
		}
	}
	return count
}

func distinct(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func clampScore(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}
