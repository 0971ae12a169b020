package embedding

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/plainclause/plainclause/internal/llm"
)

// Config for the OpenAI embeddings client.
type Config struct {
	APIKey    string        // if empty, falls back to env OPENAI_API_KEY
	BaseURL   string        // default https://api.openai.com/v1
	Model     string        // e.g., "text-embedding-3-small"
	BatchSize int           // texts per request, default 64
	Timeout   time.Duration // http client timeout
}

// OpenAIClient implements Embedder against an OpenAI-compatible /embeddings
// endpoint. Large inputs are chunked into batches; batches run in a bounded
// errgroup and results are reassembled in input order.
type OpenAIClient struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewOpenAIClient(cfg Config, logger *slog.Logger) *OpenAIClient {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 64
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAIClient{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

const maxConcurrentBatches = 4

// Embed returns one vector per input text, in input order.
func (c *OpenAIClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	rid := uuid.New().String()
	start := time.Now()
	c.logger.Info("embedding.embed.start",
		"req_id", rid, "model", c.cfg.Model, "texts", len(texts), "batch_size", c.cfg.BatchSize,
	)

	out := make([][]float32, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentBatches)

	for offset := 0; offset < len(texts); offset += c.cfg.BatchSize {
		lo := offset
		hi := lo + c.cfg.BatchSize
		if hi > len(texts) {
			hi = len(texts)
		}
		g.Go(func() error {
			vecs, err := c.embedBatch(gctx, texts[lo:hi])
			if err != nil {
				return fmt.Errorf("embed batch [%d:%d]: %w", lo, hi, err)
			}
			copy(out[lo:hi], vecs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.logger.Error("embedding.embed.failed",
			"req_id", rid, "error", err, "elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	c.logger.Info("embedding.embed.ok",
		"req_id", rid, "texts", len(texts), "elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

func (c *OpenAIClient) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	body := map[string]any{
		"model": c.cfg.Model,
		"input": texts,
	}
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/embeddings"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}

	raw, _, err := llm.SendJSON(ctx, c.http, endpoint, body, headers, c.logger)
	if err != nil {
		return nil, err
	}

	var er struct {
		Data []struct {
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &er); err != nil {
		return nil, fmt.Errorf("decode embeddings response: %w", err)
	}
	if len(er.Data) != len(texts) {
		return nil, fmt.Errorf("embeddings count mismatch: want %d, got %d", len(texts), len(er.Data))
	}

	// Output order must match input order; reassemble by the declared index field.
	sort.Slice(er.Data, func(a, b int) bool { return er.Data[a].Index < er.Data[b].Index })
	vecs := make([][]float32, len(er.Data))
	for i, d := range er.Data {
		vecs[i] = d.Embedding
	}
	return vecs, nil
}
