package pii

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var placeholderPattern = regexp.MustCompile(`\[[A-Z][A-Z0-9_]*\]`)

// Reinsert substitutes original values back into generated text and stamps
// the report date. It fails when the text still carries a placeholder the
// mapping cannot resolve; a delivered report with a raw [OWNER_NAME] in it
// is worse than no report.
func Reinsert(text string, mapping Mapping, reportDate time.Time) (string, error) {
	for placeholder, original := range mapping {
		text = strings.ReplaceAll(text, placeholder, original)
	}
	text = strings.ReplaceAll(text, PlaceholderDate, reportDate.Format("January 2, 2006"))

	if leftover := placeholderPattern.FindAllString(text, -1); len(leftover) > 0 {
		seen := map[string]bool{}
		var unique []string
		for _, ph := range leftover {
			if !seen[ph] {
				seen[ph] = true
				unique = append(unique, ph)
			}
		}
		return "", fmt.Errorf("unresolved placeholders after reinsertion: %s", strings.Join(unique, ", "))
	}
	return text, nil
}
