// Package scorers holds the category scorer implementations. Each scorer
// registers itself with the scoring registry from init(); importing this
// package for side effects (as cmd/exitready does) makes all five
// categories available.
package scorers

import (
	"strings"

	"exitready/internal/benchmarks"
)

// parseScale reads a 0-10 self-reported score from an answer, which may be
// bare ("7") or embedded in text ("about a 7 out of 10"). Out-of-range
// values clamp; answers with no digits report !ok.
func parseScale(answer string) (int, bool) {
	n, ok := benchmarks.ParseFirstInt(answer)
	if !ok {
		return 0, false
	}
	if n < 0 {
		n = 0
	}
	if n > 10 {
		n = 10
	}
	return n, true
}

// daysWithoutOwner maps the bucketed time-away answer to a day count.
// Returns -1 when the answer is empty or carries no recognizable duration.
func daysWithoutOwner(answer string) int {
	switch {
	case answer == "":
		return -1
	case strings.Contains(answer, "None"), strings.Contains(answer, "0 days"):
		return 0
	case strings.Contains(answer, "Less than 3 days"):
		return 2
	case strings.Contains(answer, "3-7 days"):
		return 5
	case strings.Contains(answer, "1-2 weeks"):
		return 10
	case strings.Contains(answer, "2-4 weeks"):
		return 21
	case strings.Contains(answer, "More than a month"):
		return 35
	}
	if n, ok := benchmarks.ParseFirstInt(answer); ok {
		return n
	}
	return -1
}

// concentrationMidpoint maps the bucketed largest-customer answer to the
// midpoint percentage of its range ("20-40%" -> 30). A single number is
// taken as-is. Returns -1 when unanswered or unrecognizable.
func concentrationMidpoint(answer string) int {
	if answer == "" {
		return -1
	}
	low, ok := benchmarks.ParseFirstInt(answer)
	if !ok {
		return -1
	}
	if i := strings.Index(answer, "-"); i >= 0 {
		if high, ok := benchmarks.ParseFirstInt(answer[i+1:]); ok && high > low {
			return (low + high) / 2
		}
	}
	return low
}

func containsAny(haystack string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

// deniesValue reports whether a unique-value answer amounts to "we have
// none". Matched conservatively so words like "know" don't trip it.
func deniesValue(answer string) bool {
	if answer == "no" || answer == "none" {
		return true
	}
	return containsAny(answer, "not really", "nothing unique", "no real", "none that")
}
