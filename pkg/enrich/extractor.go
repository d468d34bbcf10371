// Package enrich implements the optimistic enrichment pipeline: records are
// inserted immediately and augmented in the background by remote text/JSON
// generation calls.
package enrich

import (
	"context"
	"fmt"

	"casefile/pkg/casefile"
	"casefile/pkg/llm"
)

// Prompt template operation keys. The store may carry per-operation
// overrides under these keys; the built-in templates below are the
// fallbacks.
const (
	OpEnrichEvidence = "enrichEvidence"
	OpAssessArgument = "assessArgument"
)

// defaultEvidencePrompt asks for the fixed evidence-enrichment schema.
// The {description} placeholder is substituted before sending.
const defaultEvidencePrompt = `You are an assistant organizing case evidence.

Extract structured entities and suggest tags for this piece of evidence:
---
{description}
---

Return ONLY valid JSON with this exact shape:
{"entities": {"dates": [], "names": [], "refs": [], "orgs": []}, "tags": []}

- dates: dates or time periods mentioned
- names: people mentioned
- refs: case numbers, document references, identifiers
- orgs: organizations, agencies, companies
- tags: 2-5 short lowercase topical tags`

// EvidenceEnrichment is the fixed response schema for evidence enrichment.
// List fields use llm.StringList so non-compliant responses still decode.
type EvidenceEnrichment struct {
	Entities struct {
		Dates llm.StringList `json:"dates"`
		Names llm.StringList `json:"names"`
		Refs  llm.StringList `json:"refs"`
		Orgs  llm.StringList `json:"orgs"`
	} `json:"entities"`
	Tags llm.StringList `json:"tags"`
}

// Entities converts the extracted entities into the store's record shape.
func (e EvidenceEnrichment) AsEntities() casefile.Entities {
	return casefile.Entities{
		Dates: e.Entities.Dates.Strings(),
		Names: e.Entities.Names.Strings(),
		Refs:  e.Entities.Refs.Strings(),
		Orgs:  e.Entities.Orgs.Strings(),
	}
}

// EvidenceExtractor extracts entities and tag suggestions from an evidence
// description.
type EvidenceExtractor struct {
	Client llm.Client

	// Template overrides the built-in prompt when non-empty.
	Template string
}

// Extract runs the enrichment call for one description. An empty
// description yields an empty enrichment without a remote call.
func (x *EvidenceExtractor) Extract(ctx context.Context, description string) (EvidenceEnrichment, error) {
	var result EvidenceEnrichment
	if description == "" {
		return result, nil
	}

	template := x.Template
	if template == "" {
		template = defaultEvidencePrompt
	}
	prompt := llm.RenderTemplate(template, map[string]string{"description": description})

	if err := x.Client.CompleteWithSchema(ctx, prompt, &result); err != nil {
		return EvidenceEnrichment{}, fmt.Errorf("extract evidence entities: %w", err)
	}
	return result, nil
}
