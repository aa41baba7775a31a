package vocab

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"github.com/govdocs-mx/expediente-ocr/internal/common"
)

// PatternSpec is a declarative expediente pattern descriptor. Patterns are
// applied in order; CaptureGroup selects the submatch holding the candidate
// identifier and Weight can bias the candidate's base score.
type PatternSpec struct {
	Pattern      string  `json:"pattern"`
	CaptureGroup int     `json:"capture_group"`
	Weight       float64 `json:"weight,omitempty"`
}

// CurrencySpec pairs a symbol or code as it appears in text with its ISO code.
// List order sets matching priority.
type CurrencySpec struct {
	Symbol string `json:"symbol"`
	Code   string `json:"code"`
}

// Vocabulary is the injected document vocabulary: section header aliases,
// expediente patterns, and the keyword/currency tables used by the extractors.
// Different jurisdictions or document families supply their own instance.
type Vocabulary struct {
	CausaAliases       []string       `json:"causa_aliases"`
	AccionAliases      []string       `json:"accion_aliases"`
	ExpedientePatterns []PatternSpec  `json:"expediente_patterns"`
	Stopwords          []string       `json:"stopwords"`
	ContextKeywords    []string       `json:"context_keywords"`
	Currencies         []CurrencySpec `json:"currencies"`
	AmountKeywords     []string       `json:"amount_keywords"`
}

// Default returns the built-in vocabulary for Mexican legal/administrative
// requerimientos.
func Default() *Vocabulary {
	return &Vocabulary{
		CausaAliases: []string{
			"CAUSA QUE MOTIVA EL REQUERIMIENTO",
			"CAUSA DEL REQUERIMIENTO",
			"MOTIVO DEL REQUERIMIENTO",
			"CAUSA",
		},
		AccionAliases: []string{
			"ACCIÓN SOLICITADA",
			"ACCIONES SOLICITADAS",
			"SE SOLICITA",
		},
		ExpedientePatterns: []PatternSpec{
			{Pattern: `(?i)expediente\s*:\s*([A-Za-z0-9](?:[A-Za-z0-9\.]|\s*[/\-]\s*)*)`, CaptureGroup: 1},
			{Pattern: `(?i)no\.?\s*(?:de\s+)?expediente\s*:?\s*([A-Za-z0-9](?:[A-Za-z0-9\.]|\s*[/\-]\s*)*)`, CaptureGroup: 1},
			{Pattern: `(?i)exp\.?\s*no\.?\s*:?\s*([A-Za-z0-9](?:[A-Za-z0-9\.]|\s*[/\-]\s*)*)`, CaptureGroup: 1},
			{Pattern: `(?i)expediente\s*n[úu]m(?:ero)?\.?\s*:?\s*([A-Za-z0-9](?:[A-Za-z0-9\.]|\s*[/\-]\s*)*)`, CaptureGroup: 1},
		},
		Stopwords:       []string{"de", "del", "la", "el", "en", "por", "para"},
		ContextKeywords: []string{"tribunal", "juzgado", "corte", "judicial", "legal"},
		Currencies: []CurrencySpec{
			{Symbol: "$", Code: "MXN"},
			{Symbol: "USD", Code: "USD"},
			{Symbol: "€", Code: "EUR"},
		},
		AmountKeywords: []string{"monto", "importe", "cantidad", "total"},
	}
}

// LoadFile reads a JSON vocabulary override, validates it against the
// vocabulary schema, and fills any omitted field from the default vocabulary.
func LoadFile(path string) (*Vocabulary, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	return Parse(raw)
}

// Parse validates and decodes a JSON vocabulary document.
func Parse(raw []byte) (*Vocabulary, error) {
	if err := common.ValidateJSONAgainstSchema(BuildVocabularySchema(), raw); err != nil {
		return nil, fmt.Errorf("vocabulary: %w", err)
	}
	v := Default()
	if err := json.Unmarshal(raw, v); err != nil {
		return nil, fmt.Errorf("vocabulary: decode: %w", err)
	}
	if err := v.Check(); err != nil {
		return nil, err
	}
	return v, nil
}

// Check verifies the vocabulary is internally usable: every pattern compiles
// and names a capture group it actually has.
func (v *Vocabulary) Check() error {
	if len(v.ExpedientePatterns) == 0 {
		return fmt.Errorf("vocabulary: at least one expediente pattern is required")
	}
	for i, p := range v.ExpedientePatterns {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return fmt.Errorf("vocabulary: pattern %d: %w", i, err)
		}
		if p.CaptureGroup < 1 || p.CaptureGroup > re.NumSubexp() {
			return fmt.Errorf("vocabulary: pattern %d: capture group %d out of range", i, p.CaptureGroup)
		}
	}
	for i, c := range v.Currencies {
		if c.Symbol == "" || c.Code == "" {
			return fmt.Errorf("vocabulary: currency %d: symbol and code are required", i)
		}
	}
	return nil
}
