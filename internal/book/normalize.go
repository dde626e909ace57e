package book

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	leadingArticleRe = regexp.MustCompile(`^(the|a|an)\s+`)
	nonAlnumRe       = regexp.MustCompile(`[^a-z0-9\s]`)
)

// NormalizeTitle reduces a title to the form used for cross-catalog
// matching: lowercase, subtitle (anything after the first colon)
// dropped, a single leading English article removed, all characters
// outside [a-z0-9] and whitespace stripped. Two titles refer to the
// same book exactly when their normalized forms are equal.
func NormalizeTitle(title string) string {
	t := strings.ToLower(strings.TrimSpace(title))
	if i := strings.Index(t, ":"); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	t = leadingArticleRe.ReplaceAllString(t, "")
	t = nonAlnumRe.ReplaceAllString(t, "")
	return strings.TrimSpace(t)
}

// ExtractYear parses the leading four digits of a date-like string
// ("2024-01-15", "2024"). Returns 0 when the string is too short, not
// numeric, or outside the plausible range [1000, 9999].
func ExtractYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	if year < 1000 || year > 9999 {
		return 0
	}
	return year
}
