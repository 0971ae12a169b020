// Command analyze runs the simplification pipeline over a single local
// file and prints the resulting analysis as JSON. Useful for trying
// prompts and documents without standing up the server.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/plainclause/plainclause/constants"
	"github.com/plainclause/plainclause/internal/common"
	"github.com/plainclause/plainclause/internal/embedding"
	"github.com/plainclause/plainclause/internal/extract"
	"github.com/plainclause/plainclause/internal/ground"
	"github.com/plainclause/plainclause/internal/llm/openai"
	"github.com/plainclause/plainclause/internal/pipeline"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		logger.Error("usage: analyze <file> [document_type]")
		os.Exit(2)
	}
	path := os.Args[1]
	documentType := "general"
	if len(os.Args) >= 3 {
		documentType = os.Args[2]
	}

	cfg := common.LoadConfig()
	if cfg.LLM.APIKey == "" {
		logger.Error("OPENAI_API_KEY env var is required")
		os.Exit(2)
	}

	format := constants.MapExtToFormat(filepath.Ext(path))
	if format == "" {
		logger.Error("unsupported file type", "path", path)
		os.Exit(2)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		logger.Error("read file", "path", path, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	res, err := extract.NewExtractor(logger).Extract(ctx, content, format)
	if err != nil {
		logger.Error("extract", "path", path, "error", err)
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

	rec, err := processor.Process(ctx, res.Text, documentType)
	if err != nil {
		logger.Error("process", "path", path, "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		logger.Error("encode", "error", err)
		os.Exit(1)
	}
}
