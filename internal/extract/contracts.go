package extract

import (
	"context"
	"time"
)

// TextExtractor is Stage 1: document bytes -> text. An empty result is a
// valid (if degenerate) extraction, not an error.
type TextExtractor interface {
	Extract(ctx context.Context, content []byte, format string) (Result, error)
}

type Result struct {
	Text     string
	Format   string // constants.PDF | constants.TEXT
	Method   string // "pdf-text" | "utf8-passthrough"
	Duration time.Duration
}
