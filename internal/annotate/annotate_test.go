package annotate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plainclause/plainclause/internal/ground"
)

func refsFor(pairs ...[2]string) ground.References {
	var refs ground.References
	for _, p := range pairs {
		refs = append(refs, ground.Reference{
			ClauseID: p[0],
			Spans:    []ground.SentenceSpan{{Text: p[1]}},
		})
	}
	return refs
}

func TestDocumentEmptyReferences(t *testing.T) {
	doc := "This agreement is valid for one year. The tenant must pay rent monthly."

	got := Document(doc, nil)
	assert.Equal(t, documentOpen+doc+documentClose, got)

	got = Document(doc, ground.References{{ClauseID: "clause_1"}})
	assert.Equal(t, documentOpen+doc+documentClose, got)
}

func TestDocumentWrapsSingleUniqueSpan(t *testing.T) {
	span := "the quick brown fox jumped high" // 31 chars, unique
	doc := "Before text. " + span + ". After text continues here."

	got := Document(doc, refsFor([2]string{"clause_1", span}))

	wrapped := spanOpen("clause_1") + span + spanClose
	assert.Equal(t, documentOpen+strings.Replace(doc, span, wrapped, 1)+documentClose, got)

	// Everything outside the markup is untouched.
	stripped := strings.ReplaceAll(got, spanOpen("clause_1"), "")
	stripped = strings.ReplaceAll(stripped, spanClose, "")
	assert.Equal(t, documentOpen+doc+documentClose, stripped)
}

func TestDocumentWrapsEveryOccurrence(t *testing.T) {
	span := "this sentence repeats in the document"
	doc := span + ". Some middle text sits here. " + span + "."

	got := Document(doc, refsFor([2]string{"clause_1", span}))
	assert.Equal(t, 2, strings.Count(got, spanOpen("clause_1")))
	assert.Equal(t, 2, strings.Count(got, spanClose))
}

func TestDocumentSkipsShortSpans(t *testing.T) {
	doc := "A tiny span. This other sentence is long enough to wrap."

	refs := refsFor(
		[2]string{"clause_1", "A tiny span"},
		[2]string{"clause_2", "This other sentence is long enough to wrap"},
	)
	got := Document(doc, refs)
	assert.NotContains(t, got, spanOpen("clause_1"))
	assert.Contains(t, got, spanOpen("clause_2"))
}

func TestDocumentIdenticalSpansFirstClauseWins(t *testing.T) {
	span := "both clauses matched this same sentence"
	doc := "Intro words. " + span + ". Closing words."

	got := Document(doc, refsFor(
		[2]string{"clause_1", span},
		[2]string{"clause_2", span},
	))

	// One wrap only, owned by the earlier clause; no nesting or duplication.
	assert.Equal(t, 1, strings.Count(got, spanOpen("clause_1")))
	assert.NotContains(t, got, spanOpen("clause_2"))
	assert.Equal(t, 1, strings.Count(got, span))
}

func TestDocumentOverlappingSpansDoNotCorrupt(t *testing.T) {
	doc := "The landlord may terminate this lease with sixty days notice."
	refs := refsFor(
		[2]string{"clause_1", "The landlord may terminate this lease"},
		[2]string{"clause_2", "terminate this lease with sixty days notice"},
	)

	got := Document(doc, refs)
	require.Contains(t, got, spanOpen("clause_1"))
	assert.NotContains(t, got, spanOpen("clause_2"))

	// Original characters survive exactly once, in order.
	stripped := strings.ReplaceAll(got, spanOpen("clause_1"), "")
	stripped = strings.ReplaceAll(stripped, spanClose, "")
	stripped = strings.TrimPrefix(stripped, documentOpen)
	stripped = strings.TrimSuffix(stripped, documentClose)
	assert.Equal(t, doc, stripped)
}
