package rank

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// MissingDateDays is the age substituted when a listing has no usable
// publication date. Large enough that no sane max_days_old admits it.
const MissingDateDays = 9999

// ParseDate parses a listing's publication timestamp. Remotive sends
// ISO-8601 ("2024-07-30T10:21:11+00:00"); a timestamp without an explicit
// zone is taken as UTC. Empty or unparseable input is not an error: it
// returns ok=false and the caller treats the listing as maximally old.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DaysSince returns the whole days elapsed between posted and now (both
// compared in UTC). ok=false yields MissingDateDays. Future-dated
// listings (clock skew) clamp to 0 rather than going negative, so the
// recency score never exceeds 1.
func DaysSince(posted time.Time, ok bool, now time.Time) int {
	if !ok {
		return MissingDateDays
	}
	d := int(now.UTC().Sub(posted.UTC()).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}
