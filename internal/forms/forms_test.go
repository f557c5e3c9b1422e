package forms

import (
	"errors"
	"strings"
	"testing"
)

func validSubmission() *Submission {
	resp := Responses{}
	for _, id := range []string{"q1", "q2", "q3", "q4", "q5", "q6", "q7", "q8", "q9", "q10"} {
		resp[id] = "answer"
	}
	return &Submission{
		RunID:        "run-1",
		Name:         "Pat Example",
		Email:        "pat@example.com",
		Industry:     "Technology",
		YearsInBiz:   "10-20 years",
		AgeRange:     "45-54",
		ExitTimeline: "1-2 years",
		Location:     "United States",
		Responses:    resp,
	}
}

func TestValidateAccepts(t *testing.T) {
	if err := validSubmission().Validate(); err != nil {
		t.Fatalf("valid submission rejected: %v", err)
	}
}

func TestValidateMissingFields(t *testing.T) {
	sub := validSubmission()
	sub.Email = ""
	sub.Industry = "  "

	err := sub.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	want := []string{"email", "industry"}
	if len(verr.MissingFields) != len(want) {
		t.Fatalf("missing fields = %v, want %v", verr.MissingFields, want)
	}
	for i, f := range want {
		if verr.MissingFields[i] != f {
			t.Errorf("missing fields = %v, want %v", verr.MissingFields, want)
		}
	}
}

func TestValidateMissingResponses(t *testing.T) {
	sub := validSubmission()
	delete(sub.Responses, "q3")
	sub.Responses["q7"] = "   "

	err := sub.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	if got := strings.Join(verr.MissingResponses, ","); got != "q3,q7" {
		t.Fatalf("missing responses = %q, want q3,q7", got)
	}
}

func TestValidateNoResponses(t *testing.T) {
	sub := validSubmission()
	sub.Responses = nil

	err := sub.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	if len(verr.MissingFields) != 1 || verr.MissingFields[0] != "responses" {
		t.Fatalf("missing fields = %v, want [responses]", verr.MissingFields)
	}
}

func TestCloneIsDeep(t *testing.T) {
	sub := validSubmission()
	dup := sub.Clone()
	dup.Responses["q1"] = "changed"
	if sub.Responses["q1"] == "changed" {
		t.Fatal("Clone shares the responses map")
	}
}

func TestLocale(t *testing.T) {
	cases := []struct {
		location string
		want     string
	}{
		{"United Kingdom", "uk"},
		{"Australia/New Zealand", "au"},
		{"United States", "us"},
		{"Elsewhere", "us"},
		{"", "us"},
	}
	for _, tc := range cases {
		if got := Locale(tc.location); got != tc.want {
			t.Errorf("Locale(%q) = %q, want %q", tc.location, got, tc.want)
		}
	}
}

func TestValidEmail(t *testing.T) {
	cases := []struct {
		addr string
		want bool
	}{
		{"pat@example.com", true},
		{"pat+tag@sub.example.co.uk", true},
		{"not-an-email", false},
		{"missing@tld", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidEmail(tc.addr); got != tc.want {
			t.Errorf("ValidEmail(%q) = %t, want %t", tc.addr, got, tc.want)
		}
	}
}

func TestDecodeDefaultsResponses(t *testing.T) {
	sub, err := Decode(strings.NewReader(`{"uuid": "run-9", "name": "Pat"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sub.RunID != "run-9" {
		t.Errorf("RunID = %q, want run-9", sub.RunID)
	}
	if sub.Responses == nil {
		t.Error("Responses should be initialized")
	}
}
