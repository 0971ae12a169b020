package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plainclause/plainclause/constants"
	"github.com/plainclause/plainclause/internal/common"
	"github.com/plainclause/plainclause/internal/entity"
)

func newTestRepo(t *testing.T) DocumentRepository {
	t.Helper()
	db, err := Open(context.Background(), Config{DSN: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	repo := NewDocumentRepository(db, nil)
	require.NoError(t, repo.Migrate(context.Background()))
	return repo
}

func sampleDocument() *entity.Document {
	return &entity.Document{
		ID:           uuid.New(),
		Filename:     "lease.pdf",
		DocumentType: "rental agreement",
		OriginalText: "The tenant must pay rent monthly.",
		Analysis: &entity.AnalysisRecord{
			Summary:             "<div class='summary-section'><p>Pay rent monthly.</p></div>",
			KeyClauses:          []string{"<div class='clause-item'>Rent</div>"},
			HighlightedDocument: "<div class='document-text'>The tenant must pay rent monthly.</div>",
			ClauseReferences:    map[string][]string{"clause_1": {"The tenant must pay rent monthly."}},
		},
		RiskScore: 4,
		Status:    constants.StatusCompleted,
		CreatedAt: time.Now().UTC(),
	}
}

func TestDocumentSaveAndGet(t *testing.T) {
	repo := newTestRepo(t)
	doc := sampleDocument()

	require.NoError(t, repo.Save(context.Background(), doc))

	got, err := repo.GetByID(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, got.ID)
	assert.Equal(t, doc.Filename, got.Filename)
	assert.Equal(t, doc.DocumentType, got.DocumentType)
	assert.Equal(t, doc.OriginalText, got.OriginalText)
	assert.Equal(t, doc.RiskScore, got.RiskScore)
	assert.Equal(t, constants.StatusCompleted, got.Status)
	require.NotNil(t, got.Analysis)
	assert.Equal(t, doc.Analysis.Summary, got.Analysis.Summary)
	assert.Equal(t, doc.Analysis.ClauseReferences, got.Analysis.ClauseReferences)
	assert.WithinDuration(t, doc.CreatedAt, got.CreatedAt, time.Millisecond)
}

func TestDocumentGetMissing(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDocumentSaveWithoutAnalysis(t *testing.T) {
	repo := newTestRepo(t)
	doc := sampleDocument()
	doc.Analysis = nil
	doc.Status = constants.StatusFailed

	require.NoError(t, repo.Save(context.Background(), doc))

	got, err := repo.GetByID(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Analysis)
	assert.Equal(t, constants.StatusFailed, got.Status)
}

func TestDocumentDuplicateIDRejected(t *testing.T) {
	repo := newTestRepo(t)
	doc := sampleDocument()

	require.NoError(t, repo.Save(context.Background(), doc))
	err := repo.Save(context.Background(), doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrDatabase)
}

func TestDocumentListNewestFirst(t *testing.T) {
	repo := newTestRepo(t)

	older := sampleDocument()
	older.Filename = "older.txt"
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	newer := sampleDocument()
	newer.Filename = "newer.txt"

	require.NoError(t, repo.Save(context.Background(), older))
	require.NoError(t, repo.Save(context.Background(), newer))

	docs, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "newer.txt", docs[0].Filename)
	assert.Equal(t, "older.txt", docs[1].Filename)

	// Listing is a summary view.
	assert.Empty(t, docs[0].OriginalText)
	assert.Nil(t, docs[0].Analysis)
}
