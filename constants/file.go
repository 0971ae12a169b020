package constants

import "strings"

const (
	PDF  = "PDF"
	TEXT = "TEXT"
)

// AllowedExtensions holds the file extensions accepted for document upload.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
	"txt": {},
	"md":  {},
}

// MinSentenceLength is the shortest sentence (in bytes) considered usable
// for grounding or highlighting; anything shorter is noise.
const MinSentenceLength = 20

// GroundingTopK is how many source sentences are linked to each clause.
const GroundingTopK = 2

// QuestionContextLimit caps how much of the document is quoted in a
// follow-up question prompt.
const QuestionContextLimit = 2000

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a (possibly dotted) extension to a document format,
// or "" when the extension is not supported.
func MapExtToFormat(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "txt", "md", "text":
		return TEXT
	default:
		return ""
	}
}
