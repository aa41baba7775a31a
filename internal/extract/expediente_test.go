package extract

import (
	"math"
	"testing"

	"github.com/govdocs-mx/expediente-ocr/internal/vocab"
)

func newTestExtractor(t *testing.T) *ExpedienteExtractor {
	t.Helper()
	e, err := NewExpedienteExtractor(vocab.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return e
}

func TestExtract(t *testing.T) {
	e := newTestExtractor(t)

	testCases := []struct {
		name      string
		text      string
		want      string
		wantFound bool
	}{
		{
			name:      "ColonForm",
			text:      "El tribunal abre el Expediente: ABC-123/2023 para su estudio.",
			want:      "ABC-123/2023",
			wantFound: true,
		},
		{
			name:      "NoDeExpedienteForm",
			text:      "No. de Expediente 45/2022, Juzgado Tercero de Distrito.",
			want:      "45/2022",
			wantFound: true,
		},
		{
			name:      "ExpNoForm",
			text:      "Exp. No. 2021-778 del juzgado civil",
			want:      "2021-778",
			wantFound: true,
		},
		{
			name:      "StopwordCaptureRejected",
			text:      "sin mencionar el expediente: del asunto nada se sabe",
			wantFound: false,
		},
		{
			name:      "NoMatch",
			text:      "texto sin referencias relevantes",
			wantFound: false,
		},
		{
			name:      "NoPatternTrigger",
			text:      "de la mesa",
			wantFound: false,
		},
		{
			name:      "NoDeOmitted",
			text:      "No. Expediente EXP-2024-001, girado por el tribunal",
			want:      "EXP-2024-001",
			wantFound: true,
		},
		{
			name:      "SpacedSeparatorsNormalized",
			text:      "El tribunal abre el Expediente: ABC - 123 / 2023 conforme a derecho",
			want:      "ABC-123/2023",
			wantFound: true,
		},
		{
			name:      "UppercasesResult",
			text:      "Expediente: abc-99/2020 ante el tribunal",
			want:      "ABC-99/2020",
			wantFound: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, found := e.Extract(tc.text)
			if found != tc.wantFound {
				t.Fatalf("found = %v, want %v (got %q)", found, tc.wantFound, got)
			}
			if found && got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestExtractPicksHighestScoreThenEarliest(t *testing.T) {
	e := newTestExtractor(t)

	// first candidate is digits+separator+year near "tribunal", second is a
	// weaker letters-only identifier
	text := "Tribunal: Expediente: 123/2023 remite. Más adelante, Expediente: ABCDE se cita."
	got, found := e.Extract(text)
	if !found {
		t.Fatal("expected a candidate")
	}
	if got != "123/2023" {
		t.Errorf("got %q, want strongest candidate 123/2023", got)
	}

	// equal-scoring candidates: earliest in the text wins
	text = "Expediente: 111/2023 y también Expediente: 222/2023"
	got, found = e.Extract(text)
	if !found {
		t.Fatal("expected a candidate")
	}
	if got != "111/2023" {
		t.Errorf("got %q, want earliest of equal-scoring candidates", got)
	}
}

func TestValidateExpediente(t *testing.T) {
	e := newTestExtractor(t)

	testCases := []struct {
		candidate string
		want      bool
	}{
		{"ABC-123/2023", true},
		{"45/2022", true},
		{"ab", false},      // too short
		{"del", false},     // stopword
		{"---", false},     // no alphanumeric content
		{"  A1-2  ", true}, // trimmed before checks
	}
	for _, tc := range testCases {
		if got := e.ValidateExpediente(tc.candidate); got != tc.want {
			t.Errorf("ValidateExpediente(%q) = %v, want %v", tc.candidate, got, tc.want)
		}
	}
}

func TestNormalizeExpedienteFormat(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"abc - 123 / 2023", "ABC-123/2023"},
		{"  45/2022  ", "45/2022"},
		{"exp   77 - 8", "EXP 77-8"},
	}
	for _, tc := range testCases {
		if got := NormalizeExpedienteFormat(tc.in); got != tc.want {
			t.Errorf("NormalizeExpedienteFormat(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestScoreExpediente(t *testing.T) {
	e := newTestExtractor(t)

	testCases := []struct {
		name      string
		candidate string
		context   string
		want      float64
	}{
		{"LettersOnlyNoContext", "ABCDE", "sin nada cerca", 0.5},
		{"DigitsOnly", "12345", "", 0.7},
		{"DigitsYearSeparator", "123/2023", "", 0.9},
		{"FullSignalsWithKeyword", "123/2023", "ante el tribunal federal", 1.0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := e.ScoreExpediente(tc.candidate, tc.context)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("ScoreExpediente(%q, %q) = %v, want %v", tc.candidate, tc.context, got, tc.want)
			}
		})
	}
}
