// Package ground links model-extracted clause summaries back to the literal
// source sentences they were derived from, via embedding similarity.
package ground

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/plainclause/plainclause/constants"
	"github.com/plainclause/plainclause/internal/embedding"
	"github.com/plainclause/plainclause/internal/segment"
)

// SentenceSpan is one matched source sentence with its byte offsets into
// the original document text.
type SentenceSpan struct {
	Text  string  `json:"text"`
	Start int     `json:"start"`
	End   int     `json:"end"`
	Score float64 `json:"score"`
}

// Reference links one clause to its best-matching source sentences.
// ClauseID is strictly positional ("clause_1", "clause_2", ...): reordering
// the input clauses changes ids even when content is unchanged.
type Reference struct {
	ClauseID string         `json:"clause_id"`
	Spans    []SentenceSpan `json:"spans"`
}

// References holds one Reference per input clause, in clause order.
type References []Reference

// TextsByID flattens the references into the id -> sentence-texts mapping
// the presentation layer consumes.
func (rs References) TextsByID() map[string][]string {
	out := make(map[string][]string, len(rs))
	for _, r := range rs {
		texts := make([]string, 0, len(r.Spans))
		for _, s := range r.Spans {
			texts = append(texts, s.Text)
		}
		out[r.ClauseID] = texts
	}
	return out
}

// Grounder matches clause explanations against document sentences.
type Grounder struct {
	embedder embedding.Embedder
	topK     int
	logger   *slog.Logger
}

func NewGrounder(embedder embedding.Embedder, logger *slog.Logger) *Grounder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Grounder{embedder: embedder, topK: constants.GroundingTopK, logger: logger}
}

// Ground maps each clause explanation (in order) onto up to topK source
// sentences. Zero usable sentences is not an error: every clause gets an
// empty span list. Document sentences are embedded exactly once and reused
// across all clause queries.
func (g *Grounder) Ground(ctx context.Context, documentText string, explanations []string) (References, error) {
	start := time.Now()

	refs := make(References, len(explanations))
	for i := range explanations {
		refs[i].ClauseID = clauseID(i)
	}

	sentences := segment.Collect(documentText)
	if len(sentences) == 0 || len(explanations) == 0 {
		g.logger.Info("ground.degenerate",
			"sentences", len(sentences), "clauses", len(explanations),
		)
		return refs, nil
	}

	sentenceTexts := make([]string, len(sentences))
	for i, s := range sentences {
		sentenceTexts[i] = s.Text
	}
	sentenceVecs, err := g.embedder.Embed(ctx, sentenceTexts)
	if err != nil {
		return nil, fmt.Errorf("embed sentences: %w", err)
	}
	index := embedding.NewIndex(sentenceVecs)

	// Batch-embed the non-empty explanations in one call.
	queryIdx := make([]int, 0, len(explanations))
	queryTexts := make([]string, 0, len(explanations))
	for i, e := range explanations {
		if strings.TrimSpace(e) != "" {
			queryIdx = append(queryIdx, i)
			queryTexts = append(queryTexts, e)
		}
	}
	if len(queryTexts) == 0 {
		return refs, nil
	}
	queryVecs, err := g.embedder.Embed(ctx, queryTexts)
	if err != nil {
		return nil, fmt.Errorf("embed clauses: %w", err)
	}

	for qi, i := range queryIdx {
		hits := index.TopK(queryVecs[qi], g.topK)
		spans := make([]SentenceSpan, 0, len(hits))
		for _, h := range hits {
			s := sentences[h.Index]
			spans = append(spans, SentenceSpan{
				Text:  s.Text,
				Start: s.Start,
				End:   s.End,
				Score: h.Score,
			})
		}
		refs[i].Spans = spans
	}

	g.logger.Info("ground.ok",
		"sentences", len(sentences),
		"clauses", len(explanations),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return refs, nil
}

func clauseID(i int) string {
	return fmt.Sprintf("clause_%d", i+1)
}
