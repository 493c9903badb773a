package config

import (
	"fmt"
	"math"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate trims obvious junk and reports problems. Keywords
// are trimmed but deliberately NOT de-duplicated: a repeated keyword
// inflates match count and denominator by the same amount, and dropping
// it silently would change scores users may have tuned around. Duplicates
// warn instead.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	trimmed := make([]string, 0, len(out.Filters.Keywords))
	for _, kw := range out.Filters.Keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		trimmed = append(trimmed, kw)
	}
	out.Filters.Keywords = trimmed

	seen := map[string]bool{}
	for _, kw := range out.Filters.Keywords {
		key := strings.ToLower(kw)
		if seen[key] {
			res.addWarn("filters.keywords contains %q more than once; it will count twice in the keyword score", kw)
		}
		seen[key] = true
	}

	out.Filters.Category = strings.TrimSpace(out.Filters.Category)
	out.Source.BaseURL = strings.TrimSpace(out.Source.BaseURL)

	searches := make([]string, 0, len(out.Source.Searches))
	for _, s := range out.Source.Searches {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		searches = append(searches, s)
	}
	out.Source.Searches = searches

	// ---- Validation rules ----

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}
	if out.Source.BaseURL == "" {
		res.addErr("source.base_url is required")
	}
	if out.Source.RequestTimeoutSeconds <= 0 {
		res.addErr("source.request_timeout_seconds must be > 0")
	}
	if strings.TrimSpace(out.Polling.RefreshSpec) == "" {
		res.addErr("polling.refresh_spec is required (e.g. \"@every 6h\")")
	}

	if out.Filters.MaxDaysOld <= 0 {
		res.addErr("filters.max_days_old must be > 0")
	}
	if len(out.Filters.Keywords) == 0 {
		res.addWarn("filters.keywords is empty; keyword filtering is off and every keyword score will be 0")
	}

	if out.Weights.Recency < 0 || out.Weights.Keyword < 0 || out.Weights.Compensation < 0 {
		res.addErr("weights must be non-negative")
	}
	sum := out.Weights.Recency + out.Weights.Keyword + out.Weights.Compensation
	if math.Abs(sum-1.0) > 0.001 {
		res.addWarn("weights sum to %.3f, not 1.0; scores will not be normalized", sum)
	}

	if out.Notify.Enabled {
		if out.Notify.ChatID == 0 {
			res.addErr("notify.chat_id is required when notify.enabled=true")
		}
		if out.Notify.MinScore < 0 || out.Notify.MinScore > 1 {
			res.addErr("notify.min_score must be within 0..1")
		}
		if out.Notify.MaxPerRun <= 0 {
			res.addErr("notify.max_per_run must be > 0 when notify.enabled=true")
		}
	}

	if out.Export.SummaryTop <= 0 {
		res.addErr("export.summary_top must be > 0")
	}

	return out, res
}
