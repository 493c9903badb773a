package rank

import "strings"

// CountMatches counts how many of the configured keywords occur in text,
// case-insensitive, each keyword at most once. Substring semantics apply
// verbatim, so the empty keyword occurs in every text. Duplicate keywords
// count independently on purpose: the denominator in KeywordScore grows
// by the same amount, so the ratio is unchanged for listings that match.
// Text is lowercased once, not per keyword.
func CountMatches(text string, keywords []string) int {
	lower := strings.ToLower(text)
	count := 0
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			count++
		}
	}
	return count
}
