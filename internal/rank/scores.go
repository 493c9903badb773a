package rank

import "strings"

// Recency scoring:
//   - 1.0 at day 0
//   - 0.5 at day 7
//   - 0 once older than the cutoff
const (
	recencyCutoffDays = 7
	recencySlopeDenom = 14.0
)

// RecencyScore maps a listing's age in whole days onto [0,1].
func RecencyScore(daysOld int) float64 {
	if daysOld > recencyCutoffDays {
		return 0
	}
	r := 1 - float64(daysOld)/recencySlopeDenom
	if r < 0 {
		return 0
	}
	return r
}

// KeywordScore normalizes a match count against the configured keyword
// total. No keywords configured means no keyword signal, not an error.
func KeywordScore(matches, totalKeywords int) float64 {
	if totalKeywords == 0 {
		return 0
	}
	return float64(matches) / float64(totalKeywords)
}

// CompensationScore is a disclosure indicator: 1 when the listing says
// anything at all about pay, 0 when the field is missing or blank. It
// makes no attempt to parse amounts.
func CompensationScore(salary string) float64 {
	if strings.TrimSpace(salary) == "" {
		return 0
	}
	return 1
}

// Weights combines the three sub-scores into the ranking score. The
// defaults sum to 1.0; that sum is a configuration convention, not
// enforced here.
type Weights struct {
	Recency      float64 `yaml:"recency" json:"recency"`
	Keyword      float64 `yaml:"keyword" json:"keyword"`
	Compensation float64 `yaml:"compensation" json:"compensation"`
}

// DefaultWeights mirrors the stock configuration: recency dominates,
// keywords close behind, compensation disclosure as a tiebreaker.
func DefaultWeights() Weights {
	return Weights{Recency: 0.50, Keyword: 0.40, Compensation: 0.10}
}

// Aggregate computes the weighted sum. Callers supply sub-scores already
// in [0,1].
func (w Weights) Aggregate(recency, keyword, compensation float64) float64 {
	return w.Recency*recency + w.Keyword*keyword + w.Compensation*compensation
}
