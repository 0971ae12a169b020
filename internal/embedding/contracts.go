package embedding

import "context"

// Embedder turns text spans into vectors. Implementations must be
// deterministic for identical input (same model, same version) and must
// preserve input order in the returned slice.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
