package extract

import (
	"log/slog"

	"github.com/govdocs-mx/expediente-ocr/internal/textnorm"
	"github.com/govdocs-mx/expediente-ocr/internal/vocab"
)

// ExtractedFields is the structured record produced for one page of text.
// All fields default to empty/absent; invalid candidates are dropped rather
// than surfaced as errors.
type ExtractedFields struct {
	Expediente       string       `json:"expediente,omitempty"`
	Causa            string       `json:"causa,omitempty"`
	AccionSolicitada string       `json:"accion_solicitada,omitempty"`
	Fechas           []string     `json:"fechas"`
	Montos           []AmountData `json:"montos"`
}

// FieldAggregator composes the individual extractors into one structured
// record using an injected document vocabulary.
type FieldAggregator struct {
	vocab      *vocab.Vocabulary
	expediente *ExpedienteExtractor
	logger     *slog.Logger
}

// NewFieldAggregator wires the extractors for the given vocabulary.
func NewFieldAggregator(v *vocab.Vocabulary, logger *slog.Logger) (*FieldAggregator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if v == nil {
		v = vocab.Default()
	}
	exp, err := NewExpedienteExtractor(v)
	if err != nil {
		return nil, err
	}
	return &FieldAggregator{vocab: v, expediente: exp, logger: logger}, nil
}

// ExtractStructuredFields runs every extractor over the page text. Pure with
// respect to its inputs and total over arbitrary text: a field that cannot be
// extracted stays empty. ocrConfidence is the page's mean word confidence
// (0..100) and is only used for diagnostics.
func (a *FieldAggregator) ExtractStructuredFields(text string, ocrConfidence float64) ExtractedFields {
	fields := ExtractedFields{
		Fechas: []string{},
		Montos: []AmountData{},
	}
	if text == "" {
		return fields
	}

	if id, ok := a.expediente.Extract(text); ok {
		fields.Expediente = id
	}
	if causa, ok := ExtractSection(text, a.vocab.CausaAliases, a.vocab.AccionAliases, false); ok {
		fields.Causa = textnorm.NormalizeText(causa)
	}
	// acción solicitada has no end alias: the section runs to end of text
	if accion, ok := ExtractSection(text, a.vocab.AccionAliases, nil, false); ok {
		fields.AccionSolicitada = textnorm.NormalizeText(accion)
	}
	fields.Fechas = ExtractDates(text, true, true)
	fields.Montos = ExtractAmounts(text, a.vocab.Currencies, a.vocab.AmountKeywords)

	a.logger.Debug("fields.extracted",
		"expediente", fields.Expediente != "",
		"causa", fields.Causa != "",
		"accion", fields.AccionSolicitada != "",
		"fechas", len(fields.Fechas),
		"montos", len(fields.Montos),
		"ocr_confidence", ocrConfidence,
	)
	return fields
}
