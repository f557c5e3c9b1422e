package coerce

import "strings"

// A repairFunc rewrites raw backend text into something closer to a
// parseable object. Repairs run in order; each sees the previous one's
// output. Returning the input unchanged means the repair did not apply.
//
// The built-in list covers the malformed shapes seen in practice from
// structured-output mode (missing leading or trailing brace, prose wrapped
// around an object). The list is a starting point, not a contract: new
// failure modes get a new entry, appended in order of aggressiveness.
type repairFunc func(raw string, expectedKeys []string) string

var repairs = []repairFunc{
	stripFences,
	prependBrace,
	balanceBraces,
}

// stripFences removes markdown code fences and surrounding prose markers
// that backends sometimes wrap around an object.
func stripFences(raw string, _ []string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		return strings.TrimSpace(s)
	}
	return s
}

// prependBrace adds the missing leading brace when the text starts at a
// known field name instead of an open brace.
func prependBrace(raw string, expectedKeys []string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "{") {
		return s
	}
	head := s[:min(len(s), 80)]
	for _, key := range expectedKeys {
		quoted := `"` + key + `"`
		if strings.HasPrefix(s, quoted) {
			return "{" + s
		}
		if i := strings.Index(head, quoted); i >= 0 {
			return "{" + s[i:]
		}
	}
	return s
}

// balanceBraces appends close braces when the text has more opens than
// closes, the truncated-object failure mode.
func balanceBraces(raw string, _ []string) string {
	open := strings.Count(raw, "{")
	closed := strings.Count(raw, "}")
	for ; open > closed; closed++ {
		raw += "}"
	}
	return raw
}

// largestBalancedObject scans for the largest balanced-brace substring, the
// last-resort extraction when prose surrounds the object. Returns "" when no
// balanced object exists.
func largestBalancedObject(raw string) string {
	best := ""
	for i := 0; i < len(raw); i++ {
		if raw[i] != '{' {
			continue
		}
		depth := 0
		inString := false
		for j := i; j < len(raw); j++ {
			c := raw[j]
			switch {
			case inString:
				if c == '\\' {
					j++
				} else if c == '"' {
					inString = false
				}
			case c == '"':
				inString = true
			case c == '{':
				depth++
			case c == '}':
				depth--
				if depth == 0 {
					if cand := raw[i : j+1]; len(cand) > len(best) {
						best = cand
					}
					j = len(raw)
				}
			}
		}
	}
	return best
}
