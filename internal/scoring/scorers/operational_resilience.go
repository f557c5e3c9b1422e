package scorers

import (
	"fmt"
	"strings"

	"exitready/internal/scoring"
)

func init() {
	scoring.Register(operationalResilience{})
}

// operationalResilience grades key-person risk (q7) and process
// documentation (q8), with the documentation bar raised for industries
// whose buyers expect unusual rigor.
type operationalResilience struct{}

func (operationalResilience) Category() scoring.Category { return scoring.OperationalResilience }
func (operationalResilience) Title() string              { return "Operational Resilience" }
func (operationalResilience) Description() string {
	return "Key-person risk and the depth of documented process"
}

func (operationalResilience) Score(in scoring.Input) scoring.CategoryScore {
	b := scoring.NewBuilder(scoring.OperationalResilience, 5.0)

	keyPerson := strings.ToLower(in.Responses.Get("q7"))
	switch {
	case keyPerson == "":
	case containsAny(keyPerson, "only i", "only me", "no one else", "just me", "critical knowledge", "specialized knowledge"):
		b.Rebase(2.0, "critical knowledge sits with one person")
		b.Gap("A single departure could stop the business")
	case containsAny(keyPerson, "team", "several people", "distributed", "cross-trained", "documented"):
		b.Rebase(7.0, "knowledge is spread across the team")
		b.Strength("No single person is irreplaceable")
	default:
		b.Rebase(4.0, "key-person coverage is unclear")
		b.Gap("Key-person risk has not been addressed")
	}

	if doc, ok := parseScale(in.Responses.Get("q8")); ok {
		// High-rigor industries shift every documentation threshold up a
		// point; "good enough" elsewhere is a gap there.
		shift := 0
		if strings.Contains(in.DocumentationRigor, "High") {
			shift = 1
		}
		switch {
		case doc >= 8+shift:
			b.Adjust(2.5, fmt.Sprintf("documentation rated %d/10", doc))
			b.Strength("Processes are documented to a transferable standard")
		case doc >= 6+shift:
			b.Adjust(1.5, fmt.Sprintf("documentation rated %d/10", doc))
		case doc >= 4+shift:
			b.Adjust(0.5, fmt.Sprintf("documentation rated %d/10", doc))
		default:
			b.Adjust(-1.0, fmt.Sprintf("documentation rated only %d/10", doc))
			b.Gap("Undocumented processes will slow diligence and transition")
		}
	}

	ctx := scoring.IndustryContext{
		Benchmark: fmt.Sprintf("Buyers expect documented processes and backup for key roles; %s documentation rigor is typical for %s",
			orDefault(in.DocumentationRigor, "Medium"), in.Industry),
		Impact: "Weak documentation can extend due diligence by 2-3 months",
	}
	return b.Finish(ctx,
		"Operations are within the normal resilience range",
		"Document core processes and cross-train key roles")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
