package rank

import (
	"time"

	"remotive-ranker/internal/domain"
)

// Filter is the admission predicate over one listing. Every check is
// toggled off by its empty value: no keywords means no keyword filter,
// empty category means no category filter.
type Filter struct {
	Keywords   []string `yaml:"keywords" json:"keywords"`
	Category   string   `yaml:"category" json:"category"`
	MaxDaysOld int      `yaml:"max_days_old" json:"max_days_old"`
}

// Admit decides whether a listing proceeds to scoring. Checks run in a
// fixed short-circuit order: keywords, then category, then recency.
// The reason names the first check that failed.
func (f Filter) Admit(l domain.Listing, now time.Time) (admit bool, reason string) {
	if len(f.Keywords) > 0 {
		if CountMatches(l.Title+" "+l.Description, f.Keywords) == 0 {
			return false, "no_keyword_match"
		}
	}

	// Exact, case-sensitive match; Remotive categories are fixed strings.
	if f.Category != "" && l.Category != f.Category {
		return false, "category"
	}

	posted, ok := ParseDate(l.PublishedAt)
	if DaysSince(posted, ok, now) > f.MaxDaysOld {
		return false, "too_old"
	}

	return true, ""
}
