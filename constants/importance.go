package constants

import (
	"strings"
)

type Importance string

const (
	ImportanceHigh   Importance = "High"
	ImportanceMedium Importance = "Medium"
	ImportanceLow    Importance = "Low"
)

var allImportances = []Importance{
	ImportanceHigh,
	ImportanceMedium,
	ImportanceLow,
}

func ImportancesAsStringSlice() []string {
	result := make([]string, len(allImportances))
	for i, imp := range allImportances {
		result[i] = string(imp)
	}
	return result
}

// CanonicalizeImportance maps a model-provided importance label onto the
// High/Medium/Low enum, case-insensitively. Unknown or empty labels fall
// back to Medium; the bool reports whether the input matched.
func CanonicalizeImportance(input string) (Importance, bool) {
	if input == "" {
		return ImportanceMedium, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// synonyms map
	synonyms := map[string]Importance{
		"critical":  ImportanceHigh,
		"severe":    ImportanceHigh,
		"major":     ImportanceHigh,
		"moderate":  ImportanceMedium,
		"normal":    ImportanceMedium,
		"minor":     ImportanceLow,
		"trivial":   ImportanceLow,
		"low risk":  ImportanceLow,
		"high risk": ImportanceHigh,
	}

	if imp, ok := synonyms[normalized]; ok {
		return imp, true
	}

	for _, imp := range allImportances {
		if normalized == strings.ToLower(string(imp)) {
			return imp, true
		}
	}

	return ImportanceMedium, false
}
