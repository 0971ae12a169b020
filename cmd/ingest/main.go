// Command ingest analyzes every supported document under a directory and
// stores the results, for bulk onboarding of an existing document folder.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/plainclause/plainclause/internal/common"
	"github.com/plainclause/plainclause/internal/embedding"
	"github.com/plainclause/plainclause/internal/extract"
	"github.com/plainclause/plainclause/internal/ground"
	"github.com/plainclause/plainclause/internal/ingest"
	"github.com/plainclause/plainclause/internal/llm/openai"
	"github.com/plainclause/plainclause/internal/pipeline"
	"github.com/plainclause/plainclause/internal/repository"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		logger.Error("usage: ingest <directory> [document_type]")
		os.Exit(2)
	}
	root := os.Args[1]
	documentType := "general"
	if len(os.Args) >= 3 {
		documentType = os.Args[2]
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	db, err := repository.Open(ctx, repository.Config{
		DSN:              cfg.Database.DSN,
		MaxConns:         cfg.Database.MaxConns,
		MinConns:         cfg.Database.MinConns,
		MaxConnLifetime:  cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
		DialTimeout:      cfg.Database.DialTimeout,
		StatementTimeout: cfg.Database.StatementTimeout,
	}, logger)
	if err != nil {
		logger.Error("open db", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	docs := repository.NewDocumentRepository(db, logger)
	if err := docs.Migrate(ctx); err != nil {
		logger.Error("migrate", "error", err)
		os.Exit(1)
	}

	generator := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)
	embedder := embedding.NewOpenAIClient(embedding.Config{
		APIKey:    cfg.LLM.APIKey,
		BaseURL:   cfg.LLM.BaseURL,
		Model:     cfg.Embedding.Model,
		BatchSize: cfg.Embedding.BatchSize,
		Timeout:   cfg.Embedding.Timeout,
	}, logger)
	processor := pipeline.NewProcessor(generator, ground.NewGrounder(embedder, logger), logger)

	ingestor := ingest.NewDirectoryIngestor(extract.NewExtractor(logger), processor, docs, logger)
	results, stats, err := ingestor.IngestDirectory(ctx, root, documentType)
	if err != nil {
		logger.Error("ingest failed", "root", root, "error", err)
		os.Exit(1)
	}

	for _, r := range results {
		if r.Err != "" {
			logger.Warn("file failed", "path", r.Path, "error", r.Err)
		}
	}
	logger.Info("done",
		"matched", stats.Matched,
		"succeeded", stats.Succeeded,
		"deduplicated", stats.Deduplicated,
		"failed", stats.Failed,
	)
	if stats.Failed > 0 {
		os.Exit(1)
	}
}
