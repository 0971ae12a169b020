// Package extract turns uploaded document bytes into raw text. Only digital
// sources are handled here (UTF-8 text and PDFs with a text layer); OCR of
// scanned documents belongs to an external service.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/plainclause/plainclause/constants"
	"github.com/plainclause/plainclause/internal/common"
)

type Extractor struct {
	logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract picks a strategy based on the document format.
func (e *Extractor) Extract(ctx context.Context, content []byte, format string) (Result, error) {
	start := time.Now()

	var res Result
	var err error
	switch format {
	case constants.PDF:
		res, err = e.extractPDF(ctx, content)
	case constants.TEXT:
		res = Result{
			Text:   string(bytes.ToValidUTF8(content, nil)),
			Format: constants.TEXT,
			Method: "utf8-passthrough",
		}
	default:
		err = fmt.Errorf("unsupported format: %q", format)
	}
	if err != nil {
		e.logger.Error("extract.failed", "format", format, "error", err)
		return Result{}, fmt.Errorf("%w: %w", common.ErrExtraction, err)
	}

	res.Duration = time.Since(start)
	e.logger.Info("extract.ok",
		"format", res.Format,
		"method", res.Method,
		"text_bytes", len(res.Text),
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func (e *Extractor) extractPDF(ctx context.Context, content []byte) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return Result{}, fmt.Errorf("open pdf: %w", err)
	}

	plain, err := r.GetPlainText()
	if err != nil {
		return Result{}, fmt.Errorf("read pdf text: %w", err)
	}
	var b strings.Builder
	if _, err := io.Copy(&b, plain); err != nil {
		return Result{}, fmt.Errorf("read pdf text: %w", err)
	}

	return Result{
		Text:   b.String(),
		Format: constants.PDF,
		Method: "pdf-text",
	}, nil
}
