package pii

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestRedactPatterns(t *testing.T) {
	mapping := Mapping{}
	text := "Reach me at jo@acme.com or 555-123-4567. My SSN is 123-45-6789 and I run Acme Holdings LLC."
	got := Redact(text, mapping)

	for _, leaked := range []string{"jo@acme.com", "555-123-4567", "123-45-6789", "Acme Holdings LLC"} {
		if strings.Contains(got, leaked) {
			t.Errorf("redacted text still contains %q: %s", leaked, got)
		}
	}
	for _, ph := range []string{PlaceholderEmail, PlaceholderPhone, PlaceholderSSN, PlaceholderCompany} {
		if !strings.Contains(got, ph) {
			t.Errorf("redacted text missing %s: %s", ph, got)
		}
		if mapping[ph] == "" {
			t.Errorf("mapping missing original for %s", ph)
		}
	}
}

func TestRedactRepeatedValueReusesPlaceholder(t *testing.T) {
	mapping := Mapping{}
	got := Redact("write to jo@acme.com, again: jo@acme.com", mapping)
	if strings.Count(got, PlaceholderEmail) != 2 {
		t.Errorf("repeated value not reusing placeholder: %s", got)
	}
	if len(mapping) != 1 {
		t.Errorf("mapping = %v, want single entry", mapping)
	}
}

func TestRedactDistinctValuesGetDistinctPlaceholders(t *testing.T) {
	mapping := Mapping{}
	got := Redact("jo@acme.com and sam@acme.com", mapping)
	if strings.Contains(got, "@") {
		t.Errorf("an email survived: %s", got)
	}
	if len(mapping) != 2 {
		t.Errorf("mapping = %v, want two entries", mapping)
	}
}

func TestRedactKnownCaseInsensitive(t *testing.T) {
	mapping := Mapping{}
	got := RedactKnown("PAT SMITH founded it. pat smith still runs it.", "Pat Smith", PlaceholderName, mapping)
	if strings.Contains(strings.ToLower(got), "pat smith") {
		t.Errorf("known value survived: %s", got)
	}
	if mapping[PlaceholderName] != "Pat Smith" {
		t.Errorf("mapping = %v", mapping)
	}
}

func TestReinsertRoundTrip(t *testing.T) {
	mapping := Mapping{
		PlaceholderName:  "Pat Smith",
		PlaceholderEmail: "pat@example.com",
	}
	draft := "Dear [OWNER_NAME], this report was prepared on [REPORT_DATE] for [EMAIL]."
	date := time.Date(2026, time.August, 25, 0, 0, 0, 0, time.UTC)

	got, err := Reinsert(draft, mapping, date)
	if err != nil {
		t.Fatalf("Reinsert: %v", err)
	}
	want := "Dear Pat Smith, this report was prepared on August 25, 2026 for pat@example.com."
	if got != want {
		t.Errorf("Reinsert = %q, want %q", got, want)
	}
}

func TestReinsertLeftoverPlaceholderFails(t *testing.T) {
	_, err := Reinsert("Hello [OWNER_NAME], call [PHONE].", Mapping{PlaceholderName: "Pat"}, time.Now())
	if err == nil {
		t.Fatal("Reinsert accepted text with unresolved placeholder")
	}
	if !strings.Contains(err.Error(), "[PHONE]") {
		t.Errorf("error does not name the leftover placeholder: %v", err)
	}
}

func TestMemoryStoreLifecycle(t *testing.T) {
	store := NewMemoryStore()

	if _, ok, _ := store.Get("missing"); ok {
		t.Fatal("Get reported a mapping that was never stored")
	}

	mapping := Mapping{PlaceholderName: "Pat"}
	if err := store.Put("run-1", mapping); err != nil {
		t.Fatal(err)
	}

	// The store must hold its own copy.
	mapping[PlaceholderName] = "mutated"
	got, ok, err := store.Get("run-1")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%t err=%v", ok, err)
	}
	if got[PlaceholderName] != "Pat" {
		t.Errorf("stored mapping mutated through caller's map: %v", got)
	}

	if err := store.Delete("run-1"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := store.Get("run-1"); ok {
		t.Error("mapping survived Delete")
	}
}

func TestMemoryStoreConcurrent(t *testing.T) {
	store := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			runID := fmt.Sprintf("run-%d", n)
			m := Mapping{PlaceholderName: runID}
			if err := store.Put(runID, m); err != nil {
				t.Errorf("Put %s: %v", runID, err)
				return
			}
			got, ok, err := store.Get(runID)
			if err != nil || !ok || got[PlaceholderName] != runID {
				t.Errorf("Get %s: %v ok=%t got=%v", runID, err, ok, got)
			}
			_ = store.Delete(runID)
		}(i)
	}
	wg.Wait()
}
