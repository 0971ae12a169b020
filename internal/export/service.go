package export

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/plainclause/plainclause/internal/common"
	"github.com/plainclause/plainclause/internal/repository"
)

// Service is a tiny façade over the document repository that produces
// XLSX review sheets for exports.
type Service struct {
	docs   repository.DocumentRepository
	logger *slog.Logger
}

func NewService(docs repository.DocumentRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{docs: docs, logger: logger}
}

// ExportAnalysisXLSX returns an XLSX workbook (as bytes) with the analysis
// of one document laid out for manual review: one sheet for key clauses
// with their grounded source sentences, one for risk, terms and action
// items. Documents without a stored analysis cannot be exported.
func (s *Service) ExportAnalysisXLSX(ctx context.Context, documentID uuid.UUID) ([]byte, error) {
	start := time.Now()

	doc, err := s.docs.GetByID(ctx, documentID)
	if err != nil {
		return nil, common.WrapError(err, "query document")
	}
	if doc.Analysis == nil {
		return nil, fmt.Errorf("document %s has no analysis", documentID)
	}
	analysis := doc.Analysis.Analysis

	f := excelize.NewFile()
	const clausesSheet = "Key Clauses"
	_ = f.SetSheetName("Sheet1", clausesSheet)

	headers := []string{
		"Clause ID",
		"Title",
		"Importance",
		"Explanation",
		"Source Sentences",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(clausesSheet, cell, h)
	}

	for i, c := range analysis.KeyClauses {
		clauseID := fmt.Sprintf("clause_%d", i+1)
		row := i + 2

		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(clausesSheet, cell, v)
		}

		write(1, clauseID)
		write(2, c.Title)
		write(3, c.Importance)
		write(4, truncate(c.Explanation, 500))
		write(5, truncate(strings.Join(doc.Analysis.ClauseReferences[clauseID], "\n"), 500))
	}

	_ = f.SetColWidth(clausesSheet, "A", "A", 12)
	_ = f.SetColWidth(clausesSheet, "B", "B", 28)
	_ = f.SetColWidth(clausesSheet, "C", "C", 12)
	_ = f.SetColWidth(clausesSheet, "D", "E", 60)

	const reviewSheet = "Risk & Actions"
	if _, err := f.NewSheet(reviewSheet); err != nil {
		return nil, err
	}
	row := 1
	writeRow := func(a, b string) {
		cellA, _ := excelize.CoordinatesToCellName(1, row)
		cellB, _ := excelize.CoordinatesToCellName(2, row)
		_ = f.SetCellValue(reviewSheet, cellA, a)
		_ = f.SetCellValue(reviewSheet, cellB, b)
		row++
	}

	writeRow("Document", doc.Filename)
	writeRow("Document Type", doc.DocumentType)
	writeRow("Overall Risk Score", fmt.Sprintf("%d/10", analysis.Risk.OverallRisk))
	for _, rf := range analysis.Risk.RiskFactors {
		writeRow("Risk Factor", truncate(rf, 140))
	}

	names := make([]string, 0, len(analysis.Terms))
	for name := range analysis.Terms {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		writeRow("Term: "+name, truncate(analysis.Terms[name], 140))
	}

	for _, a := range analysis.ActionItems {
		writeRow("Action Item", truncate(a, 140))
	}

	_ = f.SetColWidth(reviewSheet, "A", "A", 24)
	_ = f.SetColWidth(reviewSheet, "B", "B", 80)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"document_id", documentID.String(),
		"clauses", len(analysis.KeyClauses),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
