package llm

import "context"

// Generator is the generative-model collaborator our pipeline depends on:
// prompt in, raw completion out. The output carries no well-formedness
// guarantee; ParseAnalysis exists to tolerate that.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Clause is one model-extracted provision summary.
type Clause struct {
	Title           string `json:"title"`
	Explanation     string `json:"explanation"`
	Importance      string `json:"importance"`                 // High | Medium | Low
	OriginalExcerpt string `json:"original_excerpt,omitempty"` // verbatim source text, if the model identified it
}

// RiskAssessment aggregates the model's risk view of the document.
type RiskAssessment struct {
	OverallRisk int      `json:"overall_risk"` // 1..10, defaults to 5
	RiskFactors []string `json:"risk_factors"`
	// BareScore is set when the model returned a lone number instead of the
	// aggregate object; consumers render it differently.
	BareScore bool `json:"bare_score,omitempty"`
}

// Analysis is the normalized shape we want from the LLM.
type Analysis struct {
	Summary     string            `json:"summary"`
	KeyClauses  []Clause          `json:"key_clauses"`
	Risk        RiskAssessment    `json:"risk_assessment"`
	Terms       map[string]string `json:"important_terms"`
	ActionItems []string          `json:"action_items"`
}
