package vocab

import "testing"

func TestDefaultIsUsable(t *testing.T) {
	v := Default()
	if err := v.Check(); err != nil {
		t.Fatalf("default vocabulary failed its own check: %v", err)
	}
	if len(v.CausaAliases) == 0 || len(v.AccionAliases) == 0 {
		t.Error("default vocabulary is missing section aliases")
	}
	if len(v.Currencies) == 0 || v.Currencies[0].Code != "MXN" {
		t.Errorf("first default currency = %+v, want MXN", v.Currencies)
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	raw := []byte(`{
		"causa_aliases": ["MOTIVO"],
		"expediente_patterns": [
			{"pattern": "(?i)carpeta\\s*:\\s*([A-Z0-9/-]+)", "capture_group": 1, "weight": 0.1}
		]
	}`)
	v, err := Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(v.CausaAliases) != 1 || v.CausaAliases[0] != "MOTIVO" {
		t.Errorf("causa aliases = %v, want [MOTIVO]", v.CausaAliases)
	}
	if len(v.ExpedientePatterns) != 1 || v.ExpedientePatterns[0].Weight != 0.1 {
		t.Errorf("patterns = %+v", v.ExpedientePatterns)
	}
	// unspecified fields keep their defaults
	if len(v.AccionAliases) == 0 {
		t.Error("accion aliases should fall back to defaults")
	}
	if len(v.Currencies) == 0 {
		t.Error("currencies should fall back to defaults")
	}
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
	}{
		{"NotJSON", `{"causa_aliases": [`},
		{"UnknownField", `{"causa_alias": ["X"]}`},
		{"WrongType", `{"causa_aliases": "MOTIVO"}`},
		{"MissingCaptureGroup", `{"expediente_patterns": [{"pattern": "abc"}]}`},
		{"BadRegexp", `{"expediente_patterns": [{"pattern": "([", "capture_group": 1}]}`},
		{"CaptureGroupOutOfRange", `{"expediente_patterns": [{"pattern": "(a)", "capture_group": 2}]}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.raw)); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestCheckRejectsBadCurrencies(t *testing.T) {
	v := Default()
	v.Currencies = append(v.Currencies, CurrencySpec{Symbol: "", Code: "XXX"})
	if err := v.Check(); err == nil {
		t.Error("expected an error for a currency without a symbol")
	}
}
