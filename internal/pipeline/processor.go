// Package pipeline sequences the simplification run: prompt -> model ->
// tolerant parse -> clause grounding -> annotation -> rendering.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/plainclause/plainclause/internal/annotate"
	"github.com/plainclause/plainclause/internal/common"
	"github.com/plainclause/plainclause/internal/entity"
	"github.com/plainclause/plainclause/internal/ground"
	"github.com/plainclause/plainclause/internal/llm"
	"github.com/plainclause/plainclause/internal/render"
)

// Processor coordinates the model call, parsing, grounding and rendering
// for one document. It holds no per-request state; independent documents
// can be processed concurrently on the same Processor.
type Processor struct {
	generator llm.Generator
	grounder  *ground.Grounder
	logger    *slog.Logger
}

func NewProcessor(generator llm.Generator, grounder *ground.Grounder, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{generator: generator, grounder: grounder, logger: logger}
}

// Process runs the full simplification pipeline over documentText. The only
// hard failures are the model call and grounding; malformed model output
// degrades into the fallback record with the document left unhighlighted.
// No retries are performed.
func (p *Processor) Process(ctx context.Context, documentText, documentType string) (*entity.AnalysisRecord, error) {
	start := time.Now()

	prompt := llm.BuildSimplifyPrompt(documentType, documentText)
	raw, err := p.generator.Generate(ctx, prompt)
	if err != nil {
		p.logger.Error("pipeline.process.model_failed", "error", err)
		return nil, common.NewAppError("MODEL_CALL", "model call failed", fmt.Errorf("%w: %w", common.ErrModelCall, err))
	}

	analysis, ok := llm.ParseAnalysis(raw, p.logger)
	if !ok {
		// No clause explanations exist to ground; return the fallback
		// record with the original text unwrapped.
		p.logger.Warn("pipeline.process.fallback", "raw_bytes", len(raw))
		rec := p.assemble(analysis, annotate.Document(documentText, nil), ground.References{})
		rec.NeedsReview = true
		return rec, nil
	}

	explanations := make([]string, len(analysis.KeyClauses))
	for i, c := range analysis.KeyClauses {
		explanations[i] = c.Explanation
	}

	refs, err := p.grounder.Ground(ctx, documentText, explanations)
	if err != nil {
		p.logger.Error("pipeline.process.ground_failed", "error", err)
		return nil, common.NewAppError("GROUNDING", "clause grounding failed", err)
	}

	rec := p.assemble(analysis, annotate.Document(documentText, refs), refs)

	p.logger.Info("pipeline.process.ok",
		"clauses", len(analysis.KeyClauses),
		"overall_risk", analysis.Risk.OverallRisk,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rec, nil
}

// Answer runs the independent follow-up question flow: one model call, no
// parsing, grounding or annotation.
func (p *Processor) Answer(ctx context.Context, documentText, question string) (string, error) {
	start := time.Now()

	raw, err := p.generator.Generate(ctx, llm.BuildQuestionPrompt(documentText, question))
	if err != nil {
		p.logger.Error("pipeline.answer.model_failed", "error", err)
		return "", common.NewAppError("MODEL_CALL", "model call failed", fmt.Errorf("%w: %w", common.ErrModelCall, err))
	}

	p.logger.Info("pipeline.answer.ok",
		"question_len", len(question),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return render.Answer(raw), nil
}

func (p *Processor) assemble(analysis llm.Analysis, highlighted string, refs ground.References) *entity.AnalysisRecord {
	return &entity.AnalysisRecord{
		Summary:             render.Summary(analysis.Summary),
		KeyClauses:          render.Clauses(analysis.KeyClauses),
		RiskAssessment:      render.Risk(analysis.Risk),
		ImportantTerms:      render.Terms(analysis.Terms),
		ActionItems:         render.Actions(analysis.ActionItems),
		HighlightedDocument: highlighted,
		ClauseReferences:    refs.TextsByID(),
		Analysis:            analysis,
	}
}
