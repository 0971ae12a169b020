package embedding

import (
	"math"
	"sort"
)

// Hit is one nearest-neighbor result: the candidate's position in the
// indexed slice and its cosine similarity to the query.
type Hit struct {
	Index int
	Score float64
}

// Index is an immutable in-memory nearest-neighbor index over a fixed set
// of candidate vectors. Build it once per document and reuse it across all
// clause queries; re-encoding candidates per query is the expensive mistake
// this type exists to avoid.
type Index struct {
	vectors [][]float32
}

// NewIndex wraps the candidate vectors. The slice is retained, not copied;
// callers must not mutate it afterward.
func NewIndex(vectors [][]float32) *Index {
	return &Index{vectors: vectors}
}

// Len reports the number of indexed candidates.
func (ix *Index) Len() int { return len(ix.vectors) }

// TopK returns the k candidates most similar to query by cosine similarity,
// highest first. Ties keep original candidate order (stable sort). k larger
// than the candidate count returns everything.
func (ix *Index) TopK(query []float32, k int) []Hit {
	if k <= 0 || len(ix.vectors) == 0 {
		return nil
	}

	hits := make([]Hit, len(ix.vectors))
	for i, v := range ix.vectors {
		hits[i] = Hit{Index: i, Score: Cosine(query, v)}
	}
	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Score > hits[b].Score
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k]
}

// Cosine computes cosine similarity between two vectors. Mismatched lengths
// are compared over the shorter prefix; a zero vector scores 0.
func Cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
