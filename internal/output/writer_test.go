package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/govdocs-mx/expediente-ocr/internal/extract"
	"github.com/govdocs-mx/expediente-ocr/internal/ocr"
	"github.com/govdocs-mx/expediente-ocr/internal/pipeline"
)

func sampleResult(source string, page, total int) *pipeline.ProcessingResult {
	return &pipeline.ProcessingResult{
		ID:         uuid.New(),
		SourcePath: source,
		PageNumber: page,
		TotalPages: total,
		OCRResult: &ocr.Result{
			Text:          "Expediente: 77/2020\ncontenido reconocido",
			ConfidenceAvg: 88.5,
			LanguageUsed:  "spa",
		},
		Fields: extract.ExtractedFields{
			Expediente: "77/2020",
			Fechas:     []string{"2020-05-01"},
			Montos:     []extract.AmountData{},
		},
	}
}

func TestWriterSinglePageNaming(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "oficio.png")
	w := NewWriter(nil)

	txtPath, err := w.Write(sampleResult(src, 1, 1), nil, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if txtPath != filepath.Join(dir, "oficio.txt") {
		t.Errorf("txt path = %q, want oficio.txt next to the source", txtPath)
	}
	if _, err := os.Stat(filepath.Join(dir, "oficio.json")); err != nil {
		t.Errorf("json artifact missing: %v", err)
	}
	body, err := os.ReadFile(txtPath)
	if err != nil {
		t.Fatalf("read txt: %v", err)
	}
	if string(body) != "Expediente: 77/2020\ncontenido reconocido" {
		t.Errorf("txt body = %q", body)
	}
}

func TestWriterPersistsFailedPage(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "dañado.png")
	res := &pipeline.ProcessingResult{
		ID:         uuid.New(),
		SourcePath: src,
		PageNumber: 1,
		TotalPages: 1,
		Fields: extract.ExtractedFields{
			Fechas: []string{},
			Montos: []extract.AmountData{},
		},
	}
	res.AddError("ocr", os.ErrDeadlineExceeded)

	w := NewWriter(nil)
	txtPath, err := w.Write(res, nil, true)
	if err != nil {
		t.Fatalf("a failed page must still be persisted: %v", err)
	}
	body, err := os.ReadFile(txtPath)
	if err != nil {
		t.Fatalf("read txt: %v", err)
	}
	if !strings.Contains(string(body), "Errores: ocr:") {
		t.Errorf("summary should list the stage error, got %q", body)
	}
	raw, err := os.ReadFile(filepath.Join(dir, "dañado.json"))
	if err != nil {
		t.Fatalf("json artifact missing: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("json artifact not decodable: %v", err)
	}
	fields, ok := decoded["fields"].(map[string]any)
	if !ok {
		t.Fatalf("fields missing from artifact: %v", decoded)
	}
	if _, ok := fields["fechas"].([]any); !ok {
		t.Errorf("fechas should be an array, got %T", fields["fechas"])
	}
}

func TestWriterMultiPageNaming(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "oficio.pdf")
	w := NewWriter(nil)

	txtPath, err := w.Write(sampleResult(src, 2, 3), nil, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(txtPath) != "oficio_p2.txt" {
		t.Errorf("txt path = %q, want oficio_p2.txt", txtPath)
	}
}

func TestWriterOutputDirOverride(t *testing.T) {
	srcDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "resultados")
	src := filepath.Join(srcDir, "oficio.png")
	w := NewWriter(nil)

	txtPath, err := w.Write(sampleResult(src, 1, 1), &outDir, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Dir(txtPath) != outDir {
		t.Errorf("txt written to %q, want %q", filepath.Dir(txtPath), outDir)
	}
}

func TestWriterSummarySection(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "oficio.png")
	w := NewWriter(nil)

	txtPath, err := w.Write(sampleResult(src, 1, 1), nil, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body, err := os.ReadFile(txtPath)
	if err != nil {
		t.Fatalf("read txt: %v", err)
	}
	for _, want := range []string{"RESUMEN", "Expediente: 77/2020", "Fechas: 2020-05-01", "Confianza OCR: 88.5"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("summary missing %q in:\n%s", want, body)
		}
	}
}

func TestWriterJSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "oficio.png")
	w := NewWriter(nil)

	if _, err := w.Write(sampleResult(src, 1, 1), nil, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw, err := os.ReadFile(filepath.Join(dir, "oficio.json"))
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	var decoded pipeline.ProcessingResult
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if decoded.Fields.Expediente != "77/2020" {
		t.Errorf("expediente = %q after round trip", decoded.Fields.Expediente)
	}
	if decoded.SourcePath != src {
		t.Errorf("source = %q, want %q", decoded.SourcePath, src)
	}
}

func TestBuildBatchWorkbook(t *testing.T) {
	results := []*pipeline.ProcessingResult{
		sampleResult("/in/a.png", 1, 1),
		sampleResult("/in/b.pdf", 2, 2),
	}
	results[1].ProcessingErrors = []string{"ocr: timeout"}

	wb, err := BuildBatchWorkbook(results)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(wb) == 0 {
		t.Fatal("empty workbook bytes")
	}
	// xlsx files are zip archives
	if wb[0] != 'P' || wb[1] != 'K' {
		t.Errorf("workbook does not look like a zip archive: % x", wb[:4])
	}
}
