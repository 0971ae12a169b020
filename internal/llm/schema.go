package llm

// BuildAnalysisJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. It is deliberately permissive: every section is optional and
// the shapes the model is known to drift between (clause objects vs bare
// strings, risk object vs bare factor list vs bare number) all validate.
// Normalization, not the schema, supplies defaults.
func BuildAnalysisJSONSchema() map[string]any {
	clauseObject := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":            map[string]any{"type": "string"},
			"explanation":      map[string]any{"type": "string"},
			"importance":       map[string]any{"type": "string"},
			"original_excerpt": map[string]any{"type": "string"},
		},
	}

	riskObject := map[string]any{
		"type": "object",
		"properties": map[string]any{
			// overall_risk left unconstrained: a non-numeric value is
			// normalized to the default, not rejected.
			"overall_risk": map[string]any{},
			"risk_factors": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			KeySummary: map[string]any{"type": "string"},
			KeyClauses: map[string]any{
				"type": "array",
				"items": map[string]any{
					"anyOf": []any{
						clauseObject,
						map[string]any{"type": "string"},
					},
				},
			},
			KeyRisk: map[string]any{
				"anyOf": []any{
					riskObject,
					map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					map[string]any{"type": "number"},
				},
			},
			KeyTerms: map[string]any{
				"type":                 "object",
				"additionalProperties": map[string]any{"type": "string"},
			},
			KeyActions: map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
	}
}
