package vocab

// BuildVocabularySchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. Vocabulary overrides are validated against it before use.
func BuildVocabularySchema() map[string]any {
	stringList := func(minItems int) map[string]any {
		return map[string]any{
			"type":     "array",
			"minItems": minItems,
			"items":    map[string]any{"type": "string", "minLength": 1},
		}
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"causa_aliases":  stringList(1),
			"accion_aliases": stringList(1),
			"expediente_patterns": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties": map[string]any{
						"pattern":       map[string]any{"type": "string", "minLength": 1},
						"capture_group": map[string]any{"type": "integer", "minimum": 1},
						"weight":        map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
					},
					"required": []string{"pattern", "capture_group"},
				},
			},
			"stopwords":        stringList(0),
			"context_keywords": stringList(0),
			"currencies": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties": map[string]any{
						"symbol": map[string]any{"type": "string", "minLength": 1},
						"code":   map[string]any{"type": "string", "minLength": 3, "maxLength": 3},
					},
					"required": []string{"symbol", "code"},
				},
			},
			"amount_keywords": stringList(0),
		},
	}
}
