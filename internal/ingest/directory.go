// Package ingest analyzes every supported document under a local
// directory. It exists for bulk onboarding; the HTTP upload path handles
// one document at a time.
package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/plainclause/plainclause/constants"
	"github.com/plainclause/plainclause/internal/entity"
	"github.com/plainclause/plainclause/internal/extract"
	"github.com/plainclause/plainclause/internal/repository"
)

// FileResult is the per-file ingest outcome.
type FileResult struct {
	Path         string
	DocumentID   uuid.UUID
	Deduplicated bool
	HashHex      string
	Err          string
}

type DirStats struct {
	Scanned      uint32
	Matched      uint32
	Succeeded    uint32
	Deduplicated uint32
	Failed       uint32
}

type processor interface {
	Process(ctx context.Context, documentText, documentType string) (*entity.AnalysisRecord, error)
}

// DirectoryIngestor reads from the local filesystem.
type DirectoryIngestor struct {
	extractor extract.TextExtractor
	processor processor
	docs      repository.DocumentRepository
	logger    *slog.Logger
}

func NewDirectoryIngestor(extractor extract.TextExtractor, proc processor, docs repository.DocumentRepository, logger *slog.Logger) *DirectoryIngestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &DirectoryIngestor{
		extractor: extractor,
		processor: proc,
		docs:      docs,
		logger:    logger,
	}
}

// IngestDirectory walks root, filters by the allowed extensions, skips
// hidden entries, and runs the pipeline on each remaining file. Identical
// file contents (by SHA-256) are analyzed once per run. One bad file does
// not stop the walk.
func (d *DirectoryIngestor) IngestDirectory(ctx context.Context, root, documentType string) ([]FileResult, DirStats, error) {
	start := time.Now()
	var (
		results []FileResult
		stats   DirStats
		seen    = map[string]uuid.UUID{}
	)

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if entry.Name() != "." && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		stats.Scanned++
		if strings.HasPrefix(entry.Name(), ".") {
			return nil
		}
		if _, ok := constants.AllowedExtensions[constants.NormalizeExt(filepath.Ext(path))]; !ok {
			return nil
		}
		stats.Matched++

		if err := ctx.Err(); err != nil {
			return err
		}
		res := d.ingestFile(ctx, path, documentType, seen)
		results = append(results, res)
		switch {
		case res.Err != "":
			stats.Failed++
		case res.Deduplicated:
			stats.Deduplicated++
		default:
			stats.Succeeded++
		}
		return nil
	})
	if err != nil {
		return results, stats, fmt.Errorf("walk %s: %w", root, err)
	}

	d.logger.Info("ingest.dir.done",
		"root", root,
		"matched", stats.Matched,
		"succeeded", stats.Succeeded,
		"deduplicated", stats.Deduplicated,
		"failed", stats.Failed,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return results, stats, nil
}

func (d *DirectoryIngestor) ingestFile(ctx context.Context, path, documentType string, seen map[string]uuid.UUID) FileResult {
	result := FileResult{Path: path}

	content, err := os.ReadFile(path)
	if err != nil {
		result.Err = fmt.Sprintf("read: %v", err)
		return result
	}

	sum := sha256.Sum256(content)
	result.HashHex = hex.EncodeToString(sum[:])
	if id, ok := seen[result.HashHex]; ok {
		result.DocumentID = id
		result.Deduplicated = true
		d.logger.Info("ingest.file.deduplicated", "path", path, "document_id", id)
		return result
	}

	format := constants.MapExtToFormat(filepath.Ext(path))
	res, err := d.extractor.Extract(ctx, content, format)
	if err != nil {
		result.Err = fmt.Sprintf("extract: %v", err)
		return result
	}
	if strings.TrimSpace(res.Text) == "" {
		result.Err = "no extractable text"
		return result
	}

	doc := &entity.Document{
		ID:           uuid.New(),
		Filename:     filepath.Base(path),
		DocumentType: documentType,
		OriginalText: res.Text,
		Status:       constants.StatusCompleted,
		CreatedAt:    time.Now().UTC(),
	}
	rec, err := d.processor.Process(ctx, res.Text, documentType)
	if err != nil {
		doc.Status = constants.StatusFailed
		if saveErr := d.docs.Save(ctx, doc); saveErr != nil {
			d.logger.Error("ingest.file.save_failed", "path", path, "error", saveErr)
		}
		result.DocumentID = doc.ID
		result.Err = fmt.Sprintf("process: %v", err)
		return result
	}
	doc.Analysis = rec
	doc.RiskScore = rec.Analysis.Risk.OverallRisk

	if err := d.docs.Save(ctx, doc); err != nil {
		result.Err = fmt.Sprintf("save: %v", err)
		return result
	}

	seen[result.HashHex] = doc.ID
	result.DocumentID = doc.ID
	d.logger.Info("ingest.file.ok", "path", path, "document_id", doc.ID, "risk_score", doc.RiskScore)
	return result
}
