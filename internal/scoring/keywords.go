package scoring

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Keyword is one value-driver phrase and the bonus it contributes when it
// appears in the unique-value answer.
type Keyword struct {
	Phrase      string  `yaml:"phrase"`
	Points      float64 `yaml:"points"`
	Description string  `yaml:"description"`
}

// GenericValueKeywords apply to every industry. Points reflect how strongly
// buyers weight the driver.
var GenericValueKeywords = []Keyword{
	{Phrase: "proprietary", Points: 2.0, Description: "Proprietary technology/IP"},
	{Phrase: "patent", Points: 2.0, Description: "Patent protection"},
	{Phrase: "exclusive", Points: 1.5, Description: "Exclusive agreements"},
	{Phrase: "market leader", Points: 1.5, Description: "Market leadership position"},
	{Phrase: "unique", Points: 1.0, Description: "Unique market position"},
	{Phrase: "recurring", Points: 1.0, Description: "Recurring revenue model"},
	{Phrase: "contract", Points: 0.8, Description: "Long-term contracts"},
	{Phrase: "relationship", Points: 0.5, Description: "Strong customer relationships"},
}

// industryValueKeywords is the per-industry keyword table. The growth-value
// scorer scans the industry's set in addition to the generic one.
var industryValueKeywords = map[string][]Keyword{
	"Professional Services": {
		{Phrase: "retainer", Points: 1.2, Description: "Retainer-based engagements"},
		{Phrase: "certification", Points: 0.8, Description: "Professional certifications"},
		{Phrase: "referral", Points: 0.6, Description: "Referral network"},
	},
	"Manufacturing": {
		{Phrase: "iso", Points: 1.0, Description: "ISO certification"},
		{Phrase: "supply agreement", Points: 1.2, Description: "Long-term supply agreements"},
		{Phrase: "capacity", Points: 0.6, Description: "Spare production capacity"},
	},
	"Healthcare": {
		{Phrase: "license", Points: 1.2, Description: "Licenses and accreditations"},
		{Phrase: "patient base", Points: 1.0, Description: "Established patient base"},
		{Phrase: "compliance", Points: 0.6, Description: "Compliance track record"},
	},
	"Technology": {
		{Phrase: "platform", Points: 1.0, Description: "Platform product"},
		{Phrase: "api", Points: 0.8, Description: "API integrations"},
		{Phrase: "churn", Points: 0.6, Description: "Low-churn customer base"},
	},
	"Retail": {
		{Phrase: "location", Points: 1.0, Description: "Prime location"},
		{Phrase: "brand", Points: 1.0, Description: "Brand recognition"},
		{Phrase: "foot traffic", Points: 0.6, Description: "Established foot traffic"},
	},
}

var keywordMu sync.RWMutex

// IndustryValueKeywords returns the keyword set for an industry. Unknown
// industries get only the generic set.
func IndustryValueKeywords(industry string) []Keyword {
	keywordMu.RLock()
	defer keywordMu.RUnlock()
	return industryValueKeywords[industry]
}

// LoadKeywordOverrides replaces per-industry keyword sets from a YAML file:
//
//	Manufacturing:
//	  - phrase: "iso 9001"
//	    points: 1.2
//	    description: ISO 9001 certified
//
// Industries absent from the file keep their built-in sets.
func LoadKeywordOverrides(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read keyword overrides: %w", err)
	}
	var overrides map[string][]Keyword
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		return fmt.Errorf("parse keyword overrides: %w", err)
	}
	keywordMu.Lock()
	defer keywordMu.Unlock()
	for industry, kws := range overrides {
		cleaned := make([]Keyword, 0, len(kws))
		for _, kw := range kws {
			kw.Phrase = strings.ToLower(strings.TrimSpace(kw.Phrase))
			if kw.Phrase == "" || kw.Points <= 0 {
				return fmt.Errorf("keyword override for %s: phrase and positive points required", industry)
			}
			cleaned = append(cleaned, kw)
		}
		industryValueKeywords[industry] = cleaned
	}
	return nil
}
