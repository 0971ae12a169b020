package llm

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"github.com/plainclause/plainclause/constants"
)

// Top-level keys the model is instructed to use in its JSON response.
const (
	KeySummary = "SIMPLIFIED_SUMMARY"
	KeyClauses = "KEY_CLAUSES"
	KeyRisk    = "RISK_ASSESSMENT"
	KeyTerms   = "IMPORTANT_TERMS"
	KeyActions = "ACTION_ITEMS"
)

// DefaultOverallRisk is used when the model omits overall_risk or returns
// something non-numeric.
const DefaultOverallRisk = 5

// StripResponseWrappers removes the formatting the model tends to wrap
// around its JSON: a leading literal "json" token (case-sensitive, removed
// once) and triple-backtick fences, optionally tagged "json".
func StripResponseWrappers(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "json") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "json"))
	}
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimPrefix(s, "json")
		s = strings.TrimSpace(s)
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

// ParseAnalysis turns a raw model completion into a normalized Analysis.
// It never fails: malformed input yields FallbackAnalysis(raw) and ok=false
// so the caller can skip grounding. Missing sections default to their zero
// values; overall_risk defaults to DefaultOverallRisk; clause importance is
// canonicalized with Medium as the default.
func ParseAnalysis(raw string, logger *slog.Logger) (Analysis, bool) {
	if logger == nil {
		logger = slog.Default()
	}

	clean := StripResponseWrappers(raw)

	var m map[string]any
	if err := json.Unmarshal([]byte(clean), &m); err != nil {
		logger.Warn("llm.parse.fallback", "reason", "decode", "error", err, "raw_bytes", len(raw))
		return FallbackAnalysis(raw), false
	}
	if err := ValidateJSONAgainstSchema(BuildAnalysisJSONSchema(), []byte(clean)); err != nil {
		logger.Warn("llm.parse.fallback", "reason", "schema", "error", err)
		return FallbackAnalysis(raw), false
	}

	out := Analysis{
		Summary:     stringOr(m[KeySummary], ""),
		KeyClauses:  normalizeClauses(m[KeyClauses]),
		Risk:        normalizeRisk(m[KeyRisk]),
		Terms:       normalizeTerms(m[KeyTerms]),
		ActionItems: normalizeStrings(m[KeyActions]),
	}

	logger.Info("llm.parse.ok",
		"clauses", len(out.KeyClauses),
		"overall_risk", out.Risk.OverallRisk,
		"risk_factors", len(out.Risk.RiskFactors),
		"terms", len(out.Terms),
		"actions", len(out.ActionItems),
	)
	return out, true
}

// FallbackAnalysis is the fixed, always-valid result for unparseable model
// output. The raw response becomes the summary so nothing the model said is
// lost, and a placeholder clause flags the document for manual review.
func FallbackAnalysis(raw string) Analysis {
	return Analysis{
		Summary: raw,
		KeyClauses: []Clause{{
			Title:       "Unable to parse",
			Explanation: "Please review manually",
			Importance:  string(constants.ImportanceMedium),
		}},
		Risk:        RiskAssessment{OverallRisk: DefaultOverallRisk},
		Terms:       map[string]string{},
		ActionItems: []string{"Review document carefully"},
	}
}

func normalizeClauses(v any) []Clause {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]Clause, 0, len(items))
	for _, item := range items {
		switch c := item.(type) {
		case map[string]any:
			imp, _ := constants.CanonicalizeImportance(stringOr(c["importance"], ""))
			out = append(out, Clause{
				Title:           stringOr(c["title"], ""),
				Explanation:     stringOr(c["explanation"], ""),
				Importance:      string(imp),
				OriginalExcerpt: stringOr(c["original_excerpt"], ""),
			})
		case string:
			// Some completions list clauses as bare strings.
			out = append(out, Clause{
				Explanation: c,
				Importance:  string(constants.ImportanceMedium),
			})
		}
	}
	return out
}

func normalizeRisk(v any) RiskAssessment {
	switch r := v.(type) {
	case map[string]any:
		return RiskAssessment{
			OverallRisk: intOr(r["overall_risk"], DefaultOverallRisk),
			RiskFactors: normalizeStrings(r["risk_factors"]),
		}
	case []any:
		// Bare list of factors, no aggregate score.
		return RiskAssessment{
			OverallRisk: DefaultOverallRisk,
			RiskFactors: normalizeStrings(r),
		}
	case float64:
		return RiskAssessment{OverallRisk: int(r), BareScore: true}
	default:
		return RiskAssessment{OverallRisk: DefaultOverallRisk}
	}
}

func normalizeTerms(v any) map[string]string {
	m, ok := v.(map[string]any)
	if !ok {
		return map[string]string{}
	}
	out := make(map[string]string, len(m))
	for term, def := range m {
		if s := stringOr(def, ""); s != "" {
			out[term] = s
		}
	}
	return out
}

func normalizeStrings(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func stringOr(v any, def string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return def
}

func intOr(v any, def int) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i
		}
	}
	return def
}
