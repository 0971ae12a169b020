// Package segment splits raw document text into candidate sentences for
// grounding and highlighting. Splitting is a period heuristic, not a
// linguistic parser: abbreviations and decimal numbers produce false splits
// and that is accepted.
package segment

import (
	"iter"
	"strings"

	"github.com/plainclause/plainclause/constants"
)

// Sentence is a contiguous span of the source text. Start and End are byte
// offsets of the trimmed span within the original string, so Text is always
// source[Start:End].
type Sentence struct {
	Text  string
	Start int
	End   int
}

// Sentences returns a lazy, restartable sequence of usable sentences in
// text. Spans are split on '.', trimmed of surrounding whitespace, and
// dropped when shorter than constants.MinSentenceLength. Empty input yields
// an empty sequence.
func Sentences(text string) iter.Seq[Sentence] {
	return func(yield func(Sentence) bool) {
		offset := 0
		for {
			rest := text[offset:]
			i := strings.IndexByte(rest, '.')
			var raw string
			if i < 0 {
				raw = rest
			} else {
				raw = rest[:i]
			}

			trimmed := strings.TrimSpace(raw)
			if len(trimmed) >= constants.MinSentenceLength {
				start := offset + strings.Index(raw, trimmed)
				s := Sentence{
					Text:  trimmed,
					Start: start,
					End:   start + len(trimmed),
				}
				if !yield(s) {
					return
				}
			}

			if i < 0 {
				return
			}
			offset += i + 1
		}
	}
}

// Collect materializes the sentence sequence. Convenient when the caller
// needs indexed access (e.g. to embed all sentences as one batch).
func Collect(text string) []Sentence {
	var out []Sentence
	for s := range Sentences(text) {
		out = append(out, s)
	}
	return out
}
