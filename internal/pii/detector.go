// Package pii anonymizes submissions before any text leaves the process and
// re-personalizes the finished report. Detection is regex-based and
// deliberately eager: a false positive costs a placeholder, a false negative
// leaks PII to an external backend.
package pii

import (
	"fmt"
	"regexp"
	"strings"
)

// Placeholder tokens substituted into outbound text.
const (
	PlaceholderName    = "[OWNER_NAME]"
	PlaceholderEmail   = "[EMAIL]"
	PlaceholderPhone   = "[PHONE]"
	PlaceholderSSN     = "[SSN]"
	PlaceholderCompany = "[COMPANY_NAME]"
	PlaceholderDate    = "[REPORT_DATE]"
)

// Mapping records placeholder -> original value for one run. Finalize needs
// it intact to re-personalize the report; it never leaves the process.
type Mapping map[string]string

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`(\+?\d{1,2}[\s.-]?)?\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}\b`)
	ssnPattern   = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)

	// Company names are matched by legal-suffix, the only reliable signal in
	// free text: "Acme Holdings LLC", "Smith & Sons Ltd".
	companyPattern = regexp.MustCompile(`\b([A-Z][A-Za-z&'.-]*(?:\s+[A-Z&][A-Za-z&'.-]*){0,4}\s+(?:LLC|L\.L\.C\.|Inc\.?|Incorporated|Corp\.?|Corporation|Ltd\.?|Limited|LLP|PLC|Pty\.?(?:\s+Ltd\.?)?))`)
)

// Redact replaces detected PII in text with placeholders, accumulating the
// originals into mapping. Repeated values reuse their placeholder so the
// reverse substitution is unambiguous.
func Redact(text string, mapping Mapping) string {
	text = replaceAll(text, emailPattern, PlaceholderEmail, mapping)
	text = replaceAll(text, ssnPattern, PlaceholderSSN, mapping)
	text = replaceAll(text, phonePattern, PlaceholderPhone, mapping)
	text = replaceAll(text, companyPattern, PlaceholderCompany, mapping)
	return text
}

// RedactKnown replaces an exact known value (the owner's name, their company
// from the form) wherever it appears, case-insensitively.
func RedactKnown(text, value, placeholder string, mapping Mapping) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return text
	}
	if _, ok := mapping[placeholder]; !ok {
		mapping[placeholder] = value
	}
	pattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(value))
	return pattern.ReplaceAllString(text, placeholder)
}

func replaceAll(text string, re *regexp.Regexp, base string, mapping Mapping) string {
	return re.ReplaceAllStringFunc(text, func(match string) string {
		// First occurrence of a kind claims the bare placeholder; later
		// distinct values get numbered variants.
		for ph, orig := range mapping {
			if orig == match && strings.HasPrefix(ph, base[:len(base)-1]) {
				return ph
			}
		}
		ph := base
		if _, taken := mapping[ph]; taken {
			for i := 2; ; i++ {
				ph = fmt.Sprintf("%s_%d]", base[:len(base)-1], i)
				if _, taken := mapping[ph]; !taken {
					break
				}
			}
		}
		mapping[ph] = match
		return ph
	})
}
