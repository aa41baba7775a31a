package common

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()
	if cfg.OCR.Language != "spa" {
		t.Errorf("language = %q, want spa", cfg.OCR.Language)
	}
	if cfg.OCR.FallbackLanguage != "eng" {
		t.Errorf("fallback = %q, want eng", cfg.OCR.FallbackLanguage)
	}
	if cfg.OCR.DPI != 300 {
		t.Errorf("dpi = %d, want 300", cfg.OCR.DPI)
	}
	if cfg.Batch.Workers != 4 {
		t.Errorf("workers = %d, want 4", cfg.Batch.Workers)
	}
	if cfg.Batch.PageTimeout != 2*time.Minute {
		t.Errorf("timeout = %v, want 2m", cfg.Batch.PageTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("OCR_LANG", "eng")
	t.Setenv("OCR_DPI", "150")
	t.Setenv("BATCH_WORKERS", "8")
	t.Setenv("PAGE_TIMEOUT", "30s")
	t.Setenv("OUTPUT_INCLUDE_SUMMARY", "false")

	cfg := LoadConfig()
	if cfg.OCR.Language != "eng" {
		t.Errorf("language = %q, want eng", cfg.OCR.Language)
	}
	if cfg.OCR.DPI != 150 {
		t.Errorf("dpi = %d, want 150", cfg.OCR.DPI)
	}
	if cfg.Batch.Workers != 8 {
		t.Errorf("workers = %d, want 8", cfg.Batch.Workers)
	}
	if cfg.Batch.PageTimeout != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", cfg.Batch.PageTimeout)
	}
	if cfg.Output.IncludeSummary {
		t.Error("include summary should be disabled")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := LoadConfig()
	cfg.OCR.DPI = 50
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for dpi below 72")
	}

	cfg = LoadConfig()
	cfg.Batch.Workers = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for zero workers")
	}
}
