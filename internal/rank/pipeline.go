package rank

import (
	"sort"
	"time"

	"remotive-ranker/internal/domain"
)

// Rank admits listings through the filter, scores each admitted listing
// exactly once, and returns them ordered by ranking score descending.
// The sort is stable: listings with equal scores keep their input order,
// so a run over the same snapshot with the same now is byte-identical.
//
// now is explicit so callers (and tests) control the clock; nothing here
// touches global state.
func Rank(listings []domain.Listing, f Filter, w Weights, now time.Time) []domain.ScoredListing {
	scored := make([]domain.ScoredListing, 0, len(listings))

	for _, l := range listings {
		if ok, _ := f.Admit(l, now); !ok {
			continue
		}

		posted, hasDate := ParseDate(l.PublishedAt)
		daysOld := DaysSince(posted, hasDate, now)
		matches := CountMatches(l.Title+" "+l.Description, f.Keywords)

		r := RecencyScore(daysOld)
		k := KeywordScore(matches, len(f.Keywords))
		c := CompensationScore(l.Salary)

		scored = append(scored, domain.ScoredListing{
			Listing:           l,
			DaysOld:           daysOld,
			KeywordMatches:    matches,
			RecencyScore:      r,
			KeywordScore:      k,
			CompensationScore: c,
			Score:             w.Aggregate(r, k, c),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored
}
