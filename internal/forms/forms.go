package forms

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
)

// QuestionCount is the number of free-text questionnaire answers a complete
// submission carries (q1..q10).
const QuestionCount = 10

// Responses maps question IDs ("q1".."q10") to the owner's free-text answers.
type Responses map[string]string

// Get returns the trimmed answer for a question ID, or "" if absent.
func (r Responses) Get(id string) string {
	return strings.TrimSpace(r[id])
}

// Submission is one completed exit-readiness questionnaire.
//
// The submission is the authoritative input snapshot for a run: stages read
// from it but never write to it. Convenience copies of a few fields live on
// the run context, but this struct stays the source of truth.
type Submission struct {
	RunID        string    `json:"uuid"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Industry     string    `json:"industry"`
	YearsInBiz   string    `json:"years_in_business"`
	AgeRange     string    `json:"age_range"`
	ExitTimeline string    `json:"exit_timeline"`
	Location     string    `json:"location"`
	RevenueRange string    `json:"revenue_range,omitempty"`
	Responses    Responses `json:"responses"`
}

// Clone returns a deep copy. Stages that rewrite answers (PII redaction)
// work on a clone so the input snapshot stays intact.
func (s *Submission) Clone() *Submission {
	if s == nil {
		return nil
	}
	dup := *s
	dup.Responses = make(Responses, len(s.Responses))
	for k, v := range s.Responses {
		dup.Responses[k] = v
	}
	return &dup
}

// ValidationError reports required submission fields that are missing or
// empty. It is fatal: the pipeline halts at Intake when validation fails.
type ValidationError struct {
	MissingFields    []string
	MissingResponses []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.MissingFields) > 0 {
		parts = append(parts, "missing fields: "+strings.Join(e.MissingFields, ", "))
	}
	if len(e.MissingResponses) > 0 {
		parts = append(parts, "missing responses: "+strings.Join(e.MissingResponses, ", "))
	}
	return "invalid submission: " + strings.Join(parts, "; ")
}

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// ValidEmail reports whether the address looks deliverable. A bad email is a
// warning, not a validation failure; the report is still produced.
func ValidEmail(addr string) bool {
	return emailPattern.MatchString(addr)
}

// Validate checks that every required field and all ten question responses
// are present and non-empty. revenue_range is optional.
func (s *Submission) Validate() error {
	var verr ValidationError

	required := []struct {
		name  string
		value string
	}{
		{"uuid", s.RunID},
		{"name", s.Name},
		{"email", s.Email},
		{"industry", s.Industry},
		{"years_in_business", s.YearsInBiz},
		{"age_range", s.AgeRange},
		{"exit_timeline", s.ExitTimeline},
		{"location", s.Location},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			verr.MissingFields = append(verr.MissingFields, f.name)
		}
	}

	if len(s.Responses) == 0 {
		verr.MissingFields = append(verr.MissingFields, "responses")
	} else {
		for i := 1; i <= QuestionCount; i++ {
			id := fmt.Sprintf("q%d", i)
			if s.Responses.Get(id) == "" {
				verr.MissingResponses = append(verr.MissingResponses, id)
			}
		}
		sort.Strings(verr.MissingResponses)
	}

	if len(verr.MissingFields) > 0 || len(verr.MissingResponses) > 0 {
		return &verr
	}
	return nil
}

// Locale returns the report locale for a region answer. Unknown regions
// default to "us".
func Locale(location string) string {
	switch location {
	case "United Kingdom":
		return "uk"
	case "Australia/New Zealand":
		return "au"
	default:
		return "us"
	}
}

// Load reads a submission from a JSON file.
func Load(path string) (*Submission, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open submission: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a submission from JSON.
func Decode(r io.Reader) (*Submission, error) {
	var s Submission
	dec := json.NewDecoder(r)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode submission: %w", err)
	}
	if s.Responses == nil {
		s.Responses = Responses{}
	}
	return &s, nil
}
