package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/plainclause/plainclause/constants"
	"github.com/plainclause/plainclause/internal/llm"
)

// AnalysisRecord is the render-ready output of one pipeline run. The
// rendered fields keep the response keys the frontend already consumes;
// Analysis carries the normalized data alongside for non-HTML consumers.
type AnalysisRecord struct {
	Summary             string              `json:"SIMPLIFIED_SUMMARY"`
	KeyClauses          []string            `json:"KEY_CLAUSES"`
	RiskAssessment      string              `json:"RISK_ASSESSMENT"`
	ImportantTerms      string              `json:"IMPORTANT_TERMS"`
	ActionItems         string              `json:"ACTION_ITEMS"`
	HighlightedDocument string              `json:"highlighted_document"`
	ClauseReferences    map[string][]string `json:"clause_references"`

	Analysis llm.Analysis `json:"analysis"`

	// NeedsReview is set when the model's response could not be parsed and
	// the record carries the fallback analysis.
	NeedsReview bool `json:"needs_review,omitempty"`
}

// Document represents a processed document for data transfer between layers.
type Document struct {
	ID           uuid.UUID                `json:"id"`
	Filename     string                   `json:"filename"`
	DocumentType string                   `json:"document_type"`
	OriginalText string                   `json:"original_text"`
	Analysis     *AnalysisRecord          `json:"analysis,omitempty"`
	RiskScore    int                      `json:"risk_score"`
	Status       constants.DocumentStatus `json:"status"`
	CreatedAt    time.Time                `json:"created_at"`
}
