package enrich

import (
	"context"
	"fmt"
	"log"
	"strings"

	"casefile/pkg/casefile"
	"casefile/pkg/llm"
)

// defaultStrengthPrompt asks for the fixed argument-strength schema.
// Placeholders: {claim}, {evidence}.
const defaultStrengthPrompt = `You are assessing how well an argument is supported by its evidence.

Argument:
{claim}

Evidence on record:
{evidence}

Rate the argument's strength as exactly one of:
Weak, Moderate, Strong, Very Strong

Return ONLY valid JSON: {"strength": "..."}`

// strengthResponse is the fixed response schema for strength assessment.
type strengthResponse struct {
	Strength string `json:"strength"`
}

// StrengthAssessor rates an argument against its linked evidence.
type StrengthAssessor struct {
	Client llm.Client

	// Template overrides the built-in prompt when non-empty.
	Template string
}

// Assess returns the model's strength rating for a claim given the linked
// evidence descriptions. Unrecognized ratings are normalized to Unknown.
func (a *StrengthAssessor) Assess(ctx context.Context, claim string, evidence []string) (casefile.Strength, error) {
	template := a.Template
	if template == "" {
		template = defaultStrengthPrompt
	}

	evidenceText := "(none)"
	if len(evidence) > 0 {
		evidenceText = "- " + strings.Join(evidence, "\n- ")
	}
	prompt := llm.RenderTemplate(template, map[string]string{
		"claim":    claim,
		"evidence": evidenceText,
	})

	var resp strengthResponse
	if err := a.Client.CompleteWithSchema(ctx, prompt, &resp); err != nil {
		return casefile.StrengthUnknown, fmt.Errorf("assess argument strength: %w", err)
	}

	strength := casefile.ParseStrength(strings.TrimSpace(resp.Strength))
	if strength == casefile.StrengthUnknown && resp.Strength != "" && resp.Strength != string(casefile.StrengthUnknown) {
		log.Printf("casefile: unrecognized strength rating %q, normalizing to Unknown", resp.Strength)
	}
	return strength, nil
}
