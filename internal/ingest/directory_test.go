package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plainclause/plainclause/constants"
	"github.com/plainclause/plainclause/internal/entity"
	"github.com/plainclause/plainclause/internal/extract"
	"github.com/plainclause/plainclause/internal/llm"
	"github.com/plainclause/plainclause/internal/repository"
)

type stubProcessor struct {
	err   error
	calls int
}

func (s *stubProcessor) Process(_ context.Context, documentText, _ string) (*entity.AnalysisRecord, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &entity.AnalysisRecord{
		HighlightedDocument: documentText,
		Analysis:            llm.Analysis{Risk: llm.RiskAssessment{OverallRisk: 4}},
	}, nil
}

func newTestIngestor(t *testing.T, proc *stubProcessor) (*DirectoryIngestor, repository.DocumentRepository) {
	t.Helper()
	db, err := repository.Open(context.Background(), repository.Config{DSN: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	docs := repository.NewDocumentRepository(db, nil)
	require.NoError(t, docs.Migrate(context.Background()))
	return NewDirectoryIngestor(extract.NewExtractor(nil), proc, docs, nil), docs
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestIngestDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lease.txt", "The tenant must pay rent monthly.")
	writeFile(t, dir, "nda.md", "Both parties agree to keep terms confidential.")
	writeFile(t, dir, "notes.log", "not a supported extension")
	writeFile(t, dir, ".hidden.txt", "skipped")

	proc := &stubProcessor{}
	ing, docs := newTestIngestor(t, proc)

	results, stats, err := ing.IngestDirectory(context.Background(), dir, "contract")
	require.NoError(t, err)

	assert.Equal(t, uint32(2), stats.Matched)
	assert.Equal(t, uint32(2), stats.Succeeded)
	assert.Equal(t, uint32(0), stats.Failed)
	assert.Equal(t, 2, proc.calls)
	require.Len(t, results, 2)

	stored, err := docs.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 2)
	for _, d := range stored {
		assert.Equal(t, "contract", d.DocumentType)
		assert.Equal(t, constants.StatusCompleted, d.Status)
	}
}

func TestIngestDeduplicatesIdenticalContent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "The tenant must pay rent monthly.")
	writeFile(t, dir, "b.txt", "The tenant must pay rent monthly.")

	proc := &stubProcessor{}
	ing, docs := newTestIngestor(t, proc)

	_, stats, err := ing.IngestDirectory(context.Background(), dir, "lease")
	require.NoError(t, err)

	assert.Equal(t, uint32(1), stats.Succeeded)
	assert.Equal(t, uint32(1), stats.Deduplicated)
	assert.Equal(t, 1, proc.calls)

	stored, err := docs.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestIngestContinuesPastFailures(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ok.txt", "The tenant must pay rent monthly.")
	writeFile(t, dir, "bad.pdf", "not really a pdf")

	proc := &stubProcessor{}
	ing, _ := newTestIngestor(t, proc)

	results, stats, err := ing.IngestDirectory(context.Background(), dir, "contract")
	require.NoError(t, err)

	assert.Equal(t, uint32(1), stats.Succeeded)
	assert.Equal(t, uint32(1), stats.Failed)
	require.Len(t, results, 2)
}

func TestIngestRecordsFailedProcessing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lease.txt", "The tenant must pay rent monthly.")

	proc := &stubProcessor{err: errors.New("model down")}
	ing, docs := newTestIngestor(t, proc)

	results, stats, err := ing.IngestDirectory(context.Background(), dir, "lease")
	require.NoError(t, err)

	assert.Equal(t, uint32(1), stats.Failed)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Err, "model down")

	stored, err := docs.List(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, constants.StatusFailed, stored[0].Status)
}
