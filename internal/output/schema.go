package output

// BuildResultSchema returns the JSON-Schema the result artifact is validated
// against before it reaches disk. Deliberately permissive on nested objects:
// the contract is the envelope (identity, paging, fields), not every OCR
// diagnostic.
func BuildResultSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":          map[string]any{"type": "string", "minLength": 36, "maxLength": 36},
			"source_path": map[string]any{"type": "string", "minLength": 1},
			"page_number": map[string]any{"type": "integer", "minimum": 1},
			"total_pages": map[string]any{"type": "integer", "minimum": 1},
			"ocr_result":  map[string]any{"type": "object"},
			"fields": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"expediente":        map[string]any{"type": "string"},
					"causa":             map[string]any{"type": "string"},
					"accion_solicitada": map[string]any{"type": "string"},
					"fechas": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
					},
					"montos": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type":     "object",
							"required": []string{"value", "currency"},
						},
					},
				},
				"required": []string{"fechas", "montos"},
			},
			"output_path": map[string]any{"type": "string"},
			"processing_errors": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []string{"id", "source_path", "page_number", "total_pages", "fields"},
	}
}
