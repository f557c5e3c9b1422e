package engine

import (
	"context"

	"exitready/internal/benchmarks"
	"exitready/internal/coerce"
	"exitready/internal/research"
)

// researchKeys are the payload sections the extractor and later stages read.
var researchKeys = []string{"valuation_benchmarks"}

// runResearch queries the search collaborator for current industry
// benchmarks. Any failure, including unparseable research text, substitutes
// the complete fallback payload; this stage never fails a run.
func (e *Engine) runResearch(ctx context.Context, rc *RunContext) error {
	data, source := e.fetchResearch(ctx, rc)

	result := &ResearchResult{
		Data:               data,
		Benchmarks:         benchmarks.Extract(data, rc.Industry),
		DocumentationRigor: benchmarks.DocumentationRigor(data, rc.Industry),
		Source:             source,
		Citations:          stringList(data["citations"]),
		Strategies:         stringList(data["improvement_strategies"]),
	}
	rc.Research = result
	rc.Status("research complete: %s benchmarks via %s", rc.Industry, source)
	return nil
}

func (e *Engine) fetchResearch(ctx context.Context, rc *RunContext) (map[string]any, string) {
	if e.skipResearch || e.search == nil {
		return research.Fallback(rc.Industry, rc.Region), research.SourceFallback
	}

	query := research.Query(rc.Industry, rc.Region)
	text, err := e.search.Search(ctx, query)
	if err != nil {
		rc.Warn("research backend unavailable, using fallback benchmarks: %v", err)
		return research.Fallback(rc.Industry, rc.Region), research.SourceFallback
	}

	payload, err := coerce.Parse(text, researchKeys)
	if err != nil {
		rc.Warn("research response unparseable, using fallback benchmarks: %v", err)
		return research.Fallback(rc.Industry, rc.Region), research.SourceFallback
	}
	payload["data_source"] = research.SourceLive
	return payload, research.SourceLive
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
