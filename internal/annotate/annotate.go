// Package annotate rewrites document text with highlight markup around the
// sentences each clause was grounded to. Matching is literal: every
// occurrence of a referenced sentence is a candidate, not just the offsets
// recorded at grounding time, so repeated boilerplate highlights everywhere
// it appears.
package annotate

import (
	"sort"
	"strings"

	"github.com/plainclause/plainclause/constants"
	"github.com/plainclause/plainclause/internal/ground"
)

const (
	documentOpen  = "<div class='document-text'>"
	documentClose = "</div>"

	spanClose = "</span>"
)

func spanOpen(clauseID string) string {
	return `<span class="highlighted-clause" data-clause-id="` + clauseID + `" title="Key Clause">`
}

// span is one candidate highlight range inside the document.
type span struct {
	start    int
	end      int
	clauseID string
	order    int // clause position, for deterministic tie-breaking
}

// Document wraps documentText in the outer document markup, highlighting
// every referenced sentence. Ranges are computed once against the immutable
// original text and applied in a single pass sorted by start offset; a range
// overlapping an already-applied one is skipped (earlier start wins, ties go
// to the earlier clause). Characters outside the inserted markup are
// preserved byte-for-byte. An empty reference set returns the document
// unchanged inside the wrapper.
func Document(documentText string, refs ground.References) string {
	spans := collectSpans(documentText, refs)

	var b strings.Builder
	b.Grow(len(documentText) + len(documentOpen) + len(documentClose) + len(spans)*96)
	b.WriteString(documentOpen)

	pos := 0
	for _, s := range spans {
		if s.start < pos {
			continue // overlaps an applied range
		}
		b.WriteString(documentText[pos:s.start])
		b.WriteString(spanOpen(s.clauseID))
		b.WriteString(documentText[s.start:s.end])
		b.WriteString(spanClose)
		pos = s.end
	}
	b.WriteString(documentText[pos:])
	b.WriteString(documentClose)
	return b.String()
}

// collectSpans finds every literal occurrence of every referenced sentence,
// sorted by start offset (ties: earlier clause, then longer match).
func collectSpans(documentText string, refs ground.References) []span {
	var out []span
	for order, ref := range refs {
		for _, s := range ref.Spans {
			text := s.Text
			if len(strings.TrimSpace(text)) < constants.MinSentenceLength {
				continue
			}
			for from := 0; ; {
				i := strings.Index(documentText[from:], text)
				if i < 0 {
					break
				}
				start := from + i
				out = append(out, span{
					start:    start,
					end:      start + len(text),
					clauseID: ref.ClauseID,
					order:    order,
				})
				from = start + len(text)
			}
		}
	}

	sort.Slice(out, func(a, b int) bool {
		if out[a].start != out[b].start {
			return out[a].start < out[b].start
		}
		if out[a].order != out[b].order {
			return out[a].order < out[b].order
		}
		return out[a].end > out[b].end
	})
	return out
}
