package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/plainclause/plainclause/constants"
	"github.com/plainclause/plainclause/internal/common"
	"github.com/plainclause/plainclause/internal/entity"
)

const documentsSchema = `
CREATE TABLE IF NOT EXISTS documents (
	id            TEXT PRIMARY KEY,
	filename      TEXT NOT NULL,
	document_type TEXT NOT NULL,
	original_text TEXT NOT NULL,
	analysis      TEXT,
	risk_score    INTEGER NOT NULL DEFAULT 0,
	status        TEXT NOT NULL,
	created_at    TEXT NOT NULL
)`

// DocumentRepository stores documents together with their analysis. A
// document is written exactly once, after processing finishes; there is
// no partial-update path.
type DocumentRepository interface {
	Migrate(ctx context.Context) error
	Save(ctx context.Context, doc *entity.Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Document, error)
	List(ctx context.Context) ([]*entity.Document, error)
}

type documentRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewDocumentRepository(db *DB, logger *slog.Logger) DocumentRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &documentRepository{db: db, logger: logger}
}

func (r *documentRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, documentsSchema); err != nil {
		return fmt.Errorf("%w: migrate documents: %w", common.ErrDatabase, err)
	}
	return nil
}

func (r *documentRepository) Save(ctx context.Context, doc *entity.Document) error {
	var analysis sql.NullString
	if doc.Analysis != nil {
		raw, err := json.Marshal(doc.Analysis)
		if err != nil {
			return fmt.Errorf("%w: marshal analysis: %w", common.ErrDatabase, err)
		}
		analysis = sql.NullString{String: string(raw), Valid: true}
	}

	const q = `INSERT INTO documents
		(id, filename, document_type, original_text, analysis, risk_score, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, r.db.rebind(q),
		doc.ID.String(),
		doc.Filename,
		doc.DocumentType,
		doc.OriginalText,
		analysis,
		doc.RiskScore,
		string(doc.Status),
		doc.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		r.logger.Error("repo.document.save_failed", "document_id", doc.ID, "error", err)
		return fmt.Errorf("%w: save document: %w", common.ErrDatabase, err)
	}

	r.logger.Info("repo.document.saved",
		"document_id", doc.ID,
		"status", doc.Status,
		"risk_score", doc.RiskScore,
	)
	return nil
}

func (r *documentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	const q = `SELECT id, filename, document_type, original_text, analysis, risk_score, status, created_at
		FROM documents WHERE id = ?`
	doc, err := scanDocument(r.db.QueryRowContext(ctx, r.db.rebind(q), id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: document %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get document: %w", common.ErrDatabase, err)
	}
	return doc, nil
}

// List returns all documents newest first, without original text or
// analysis payloads.
func (r *documentRepository) List(ctx context.Context) ([]*entity.Document, error) {
	const q = `SELECT id, filename, document_type, risk_score, status, created_at
		FROM documents ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: list documents: %w", common.ErrDatabase, err)
	}
	defer rows.Close()

	var docs []*entity.Document
	for rows.Next() {
		var (
			doc       entity.Document
			id        string
			status    string
			createdAt string
		)
		if err := rows.Scan(&id, &doc.Filename, &doc.DocumentType, &doc.RiskScore, &status, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: scan document: %w", common.ErrDatabase, err)
		}
		if doc.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("%w: parse document id: %w", common.ErrDatabase, err)
		}
		doc.Status = constants.DocumentStatus(status)
		if doc.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("%w: parse created_at: %w", common.ErrDatabase, err)
		}
		docs = append(docs, &doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list documents: %w", common.ErrDatabase, err)
	}
	return docs, nil
}

func scanDocument(row *sql.Row) (*entity.Document, error) {
	var (
		doc       entity.Document
		id        string
		analysis  sql.NullString
		status    string
		createdAt string
	)
	err := row.Scan(&id, &doc.Filename, &doc.DocumentType, &doc.OriginalText,
		&analysis, &doc.RiskScore, &status, &createdAt)
	if err != nil {
		return nil, err
	}

	if doc.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse document id: %w", err)
	}
	doc.Status = constants.DocumentStatus(status)
	if doc.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if analysis.Valid {
		doc.Analysis = new(entity.AnalysisRecord)
		if err := json.Unmarshal([]byte(analysis.String), doc.Analysis); err != nil {
			return nil, fmt.Errorf("unmarshal analysis: %w", err)
		}
	}
	return &doc, nil
}
