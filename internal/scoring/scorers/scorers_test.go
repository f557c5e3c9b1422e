package scorers

import (
	"testing"

	"exitready/internal/benchmarks"
	"exitready/internal/forms"
	"exitready/internal/scoring"
)

func input(resp map[string]string) scoring.Input {
	return scoring.Input{
		Responses:          forms.Responses(resp),
		Benchmarks:         benchmarks.Defaults(),
		Industry:           "Technology",
		DocumentationRigor: "Medium",
		ExitTimeline:       "1-2 years",
	}
}

func score(t *testing.T, c scoring.Category, in scoring.Input) scoring.CategoryScore {
	t.Helper()
	s, err := scoring.Resolve(c.Key())
	if err != nil {
		t.Fatalf("resolve %s: %v", c, err)
	}
	return s.Score(in)
}

func TestAllRegistered(t *testing.T) {
	if err := scoring.ValidateWeights(); err != nil {
		t.Fatal(err)
	}
}

func TestBoundsAtExtremes(t *testing.T) {
	inputs := []scoring.Input{
		input(map[string]string{}),
		input(map[string]string{
			"q1": "I do everything myself, all of it", "q2": "None", "q3": "Consulting",
			"q4": "More than 70%", "q5": "0", "q6": "Declining fast", "q7": "Only I know the work",
			"q8": "0", "q9": "none", "q10": "0",
		}),
		input(map[string]string{
			"q1": "My team handles operations, I delegate", "q2": "More than a month",
			"q3": "Subscriptions, consulting, training and support contracts", "q4": "Less than 10%",
			"q5": "10", "q6": "Growing steadily",
			"q7": "Knowledge is distributed across a cross-trained team",
			"q8": "10", "q9": "proprietary patent exclusive market leader unique recurring contract relationship",
			"q10": "10",
		}),
		input(map[string]string{
			"q1": "9999", "q2": "garbage", "q3": ",,,", "q4": "-5%", "q5": "over 9000",
			"q6": "sideways", "q7": "?", "q8": "-3", "q9": "!!", "q10": "eleven out of ten",
		}),
	}
	for i, in := range inputs {
		for _, c := range scoring.All {
			cs := score(t, c, in)
			if cs.Score < scoring.MinScore || cs.Score > scoring.MaxScore {
				t.Errorf("input %d: %s score %.1f out of bounds", i, c, cs.Score)
			}
			if len(cs.Strengths) == 0 || len(cs.Gaps) == 0 {
				t.Errorf("input %d: %s missing strengths/gaps", i, c)
			}
			if cs.Weight != scoring.Weights[c] {
				t.Errorf("input %d: %s weight %.2f, want %.2f", i, c, cs.Weight, scoring.Weights[c])
			}
		}
	}
}

func TestOwnerDependenceZeroDays(t *testing.T) {
	cs := score(t, scoring.OwnerDependence, input(map[string]string{"q2": "None"}))
	if cs.Score >= 5.0 {
		t.Errorf("zero-day absence scored %.1f, want penalty below base", cs.Score)
	}
}

func TestOwnerDependenceFullCreditAtTwiceThreshold(t *testing.T) {
	// 35 days >= 2*14: full +3.5 on top of base 5.0.
	cs := score(t, scoring.OwnerDependence, input(map[string]string{"q2": "More than a month"}))
	if cs.Score != 8.5 {
		t.Errorf("score = %.1f, want 8.5", cs.Score)
	}
}

func TestOwnerDependenceDelegation(t *testing.T) {
	in := input(map[string]string{"q1": "My team handles operations, I delegate decisions"})
	cs := score(t, scoring.OwnerDependence, in)
	if cs.Score != 7.0 {
		t.Errorf("delegation answer scored %.1f, want 7.0", cs.Score)
	}
}

func TestRevenueQualityConcentrationGrades(t *testing.T) {
	// Threshold 25: buckets pick the range midpoint.
	cases := []struct {
		q4   string
		want float64
	}{
		{"Less than 10%", 7.5},  // mid 10 <= 20: +2.5
		{"20-40%", 6.0},         // mid 30 <= 35: +1.0
		{"40-55%", 4.0},         // mid 47 between: -1.0
		{"More than 70%", 2.5},  // mid 70 >= 55: -2.5
	}
	for _, tc := range cases {
		cs := score(t, scoring.RevenueQuality, input(map[string]string{"q4": tc.q4}))
		if cs.Score != tc.want {
			t.Errorf("q4=%q scored %.1f, want %.1f", tc.q4, cs.Score, tc.want)
		}
	}
}

func TestRevenueQualityStreamsAndRecurring(t *testing.T) {
	in := input(map[string]string{"q3": "Subscriptions, consulting and training"})
	cs := score(t, scoring.RevenueQuality, in)
	// 3 streams (+1.0) with recurring language (+1.5).
	if cs.Score != 7.5 {
		t.Errorf("score = %.1f, want 7.5", cs.Score)
	}

	single := score(t, scoring.RevenueQuality, input(map[string]string{"q3": "Retail sales"}))
	if single.Score != 4.0 {
		t.Errorf("single stream scored %.1f, want 4.0", single.Score)
	}
}

func TestFinancialReadinessConfidenceGrades(t *testing.T) {
	cases := []struct {
		q5   string
		want float64
	}{
		{"9", 7.5},
		{"7", 6.5},
		{"5", 5.5},
		{"2", 3.5},
	}
	for _, tc := range cases {
		cs := score(t, scoring.FinancialReadiness, input(map[string]string{"q5": tc.q5}))
		if cs.Score != tc.want {
			t.Errorf("confidence %s scored %.1f, want %.1f", tc.q5, cs.Score, tc.want)
		}
	}
}

func TestFinancialReadinessMarginTrend(t *testing.T) {
	cases := []struct {
		q6   string
		want float64
	}{
		// The questionnaire's answer options, worst to best.
		{"Declined significantly", 2.5},
		{"Declined slightly", 4.0},
		{"Stayed flat", 6.0},
		{"Improved slightly", 6.5},
		{"Improved significantly", 7.5},
		// Free-text answers fall back to keyword matching.
		{"Declining year over year", 3.0},
		{"Volatile, up and down", 4.0},
		{"Stable and steady", 6.0},
		{"Growing every year", 7.0},
	}
	for _, tc := range cases {
		cs := score(t, scoring.FinancialReadiness, input(map[string]string{"q6": tc.q6}))
		if cs.Score != tc.want {
			t.Errorf("trend %q scored %.1f, want %.1f", tc.q6, cs.Score, tc.want)
		}
	}
}

func TestFinancialReadinessMarginBucketsOrdered(t *testing.T) {
	buckets := []string{
		"Declined significantly",
		"Declined slightly",
		"Stayed flat",
		"Improved slightly",
		"Improved significantly",
	}
	prev := 0.0
	for i, q6 := range buckets {
		cs := score(t, scoring.FinancialReadiness, input(map[string]string{"q6": q6}))
		if i > 0 && cs.Score <= prev {
			t.Errorf("%q scored %.1f, not above previous bucket's %.1f", q6, cs.Score, prev)
		}
		prev = cs.Score
	}
}

func TestOperationalResilienceKeyPerson(t *testing.T) {
	sole := score(t, scoring.OperationalResilience, input(map[string]string{"q7": "Only I hold the critical knowledge"}))
	if sole.Score != 2.0 {
		t.Errorf("sole-person answer scored %.1f, want 2.0", sole.Score)
	}
	team := score(t, scoring.OperationalResilience, input(map[string]string{"q7": "Spread across a cross-trained team"}))
	if team.Score != 7.0 {
		t.Errorf("distributed answer scored %.1f, want 7.0", team.Score)
	}
}

func TestOperationalResilienceRigorShiftsBar(t *testing.T) {
	in := input(map[string]string{"q8": "8"})
	medium := score(t, scoring.OperationalResilience, in)

	in.DocumentationRigor = "Very High"
	high := score(t, scoring.OperationalResilience, in)

	// 8/10 earns the top bonus at Medium rigor but only the middle one when
	// the industry bar is a point higher.
	if medium.Score <= high.Score {
		t.Errorf("rigor shift had no effect: medium %.1f, high %.1f", medium.Score, high.Score)
	}
}

func TestGrowthValueKeywordCap(t *testing.T) {
	in := input(map[string]string{
		"q9": "proprietary patent exclusive market leader unique recurring contract relationship platform api churn",
	})
	cs := score(t, scoring.GrowthValue, in)
	// Base 3.0 plus the bonus cap.
	if cs.Score != 7.0 {
		t.Errorf("stuffed keywords scored %.1f, want capped 7.0", cs.Score)
	}
}

func TestGrowthValueDenial(t *testing.T) {
	cs := score(t, scoring.GrowthValue, input(map[string]string{"q9": "none"}))
	if cs.Score != 2.0 {
		t.Errorf("denial scored %.1f, want 2.0", cs.Score)
	}
	// "know" must not trip the denial match.
	neutral := score(t, scoring.GrowthValue, input(map[string]string{"q9": "customers know our service"}))
	if neutral.Score != 3.0 {
		t.Errorf("neutral answer scored %.1f, want base 3.0", neutral.Score)
	}
}

func TestGrowthValueIndustryKeywords(t *testing.T) {
	in := input(map[string]string{"q9": "our platform has api integrations"})
	cs := score(t, scoring.GrowthValue, in)
	// platform 1.0 + api 0.8 on base 3.0.
	if cs.Score != 4.8 {
		t.Errorf("industry keywords scored %.1f, want 4.8", cs.Score)
	}
}

func TestScenarioNotReady(t *testing.T) {
	in := input(map[string]string{
		"q1": "I handle everything in the business myself",
		"q2": "None",
		"q3": "Consulting",
		"q4": "More than 70%",
		"q5": "2",
		"q6": "Declining",
		"q7": "Only I know how the work gets done",
		"q8": "2",
		"q9": "none",
		"q10": "2",
	})

	var scores []scoring.CategoryScore
	for _, s := range scoring.List() {
		scores = append(scores, s.Score(in))
	}

	byCat := map[scoring.Category]float64{}
	for _, cs := range scores {
		byCat[cs.Category] = cs.Score
	}
	if byCat[scoring.OwnerDependence] >= 4.0 {
		t.Errorf("owner dependence = %.1f, want < 4.0", byCat[scoring.OwnerDependence])
	}
	if byCat[scoring.OperationalResilience] >= 4.0 {
		t.Errorf("operational resilience = %.1f, want < 4.0", byCat[scoring.OperationalResilience])
	}

	_, tier := scoring.Overall(scores)
	if tier != scoring.TierNotReady {
		t.Errorf("tier = %q, want %q", tier, scoring.TierNotReady)
	}
}

func TestScenarioExitReady(t *testing.T) {
	in := input(map[string]string{
		"q1": "My team handles day to day operations, I delegate",
		"q2": "More than a month",
		"q3": "Subscriptions, consulting, training and support contracts",
		"q4": "Less than 10%",
		"q5": "9",
		"q6": "Growing steadily",
		"q7": "Knowledge is distributed across the team",
		"q8": "9",
		"q9": "We have a proprietary platform and recurring contracts",
		"q10": "8",
	})

	var scores []scoring.CategoryScore
	for _, s := range scoring.List() {
		scores = append(scores, s.Score(in))
	}
	overall, tier := scoring.Overall(scores)
	if overall < 7.0 {
		t.Errorf("overall = %.1f, want >= 7.0", overall)
	}
	if tier != scoring.TierExitReady && tier != scoring.TierApproachingReady {
		t.Errorf("tier = %q", tier)
	}
}

func TestAuditTrailPresent(t *testing.T) {
	in := input(map[string]string{"q2": "1-2 weeks", "q4": "20-40%", "q5": "7"})
	for _, c := range []scoring.Category{scoring.OwnerDependence, scoring.RevenueQuality, scoring.FinancialReadiness} {
		cs := score(t, c, in)
		if len(cs.Adjustments) == 0 {
			t.Errorf("%s produced no audit trail", c)
		}
		for _, adj := range cs.Adjustments {
			if adj.Reason == "" {
				t.Errorf("%s has adjustment without reason", c)
			}
		}
	}
}
