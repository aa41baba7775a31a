// Package output persists page results as text and JSON artifacts next to
// the source file or under a chosen directory.
package output

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/govdocs-mx/expediente-ocr/internal/common"
	"github.com/govdocs-mx/expediente-ocr/internal/pipeline"
)

type Writer struct {
	logger *slog.Logger
}

func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{logger: logger}
}

// Write persists the recognized text as <stem>.txt and the full result as
// <stem>.json; multi-page sources get a _pN suffix. Returns the text path.
func (w *Writer) Write(res *pipeline.ProcessingResult, outputDir *string, includeSummary bool) (string, error) {
	dir := filepath.Dir(res.SourcePath)
	if outputDir != nil && *outputDir != "" {
		dir = *outputDir
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", common.NewAppError(common.CodeWriteError, fmt.Sprintf("creating output dir %q", dir), err)
		}
	}
	stem := strings.TrimSuffix(filepath.Base(res.SourcePath), filepath.Ext(res.SourcePath))
	if res.TotalPages > 1 {
		stem = fmt.Sprintf("%s_p%d", stem, res.PageNumber)
	}

	txtPath := filepath.Join(dir, stem+".txt")
	if err := os.WriteFile(txtPath, []byte(w.renderText(res, includeSummary)), 0o644); err != nil {
		return "", common.NewAppError(common.CodeWriteError, fmt.Sprintf("writing %q", txtPath), err)
	}

	jsonPath := filepath.Join(dir, stem+".json")
	payload, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", common.NewAppError(common.CodeWriteError, "encoding result", err)
	}
	if err := common.ValidateJSONAgainstSchema(BuildResultSchema(), payload); err != nil {
		return "", common.NewAppError(common.CodeWriteError, "result failed schema validation", err)
	}
	if err := os.WriteFile(jsonPath, payload, 0o644); err != nil {
		return "", common.NewAppError(common.CodeWriteError, fmt.Sprintf("writing %q", jsonPath), err)
	}

	w.logger.Debug("output.written", "txt", txtPath, "json", jsonPath)
	return txtPath, nil
}

func (w *Writer) renderText(res *pipeline.ProcessingResult, includeSummary bool) string {
	var sb strings.Builder
	if res.OCRResult != nil {
		sb.WriteString(res.OCRResult.Text)
	}
	if !includeSummary {
		return sb.String()
	}

	sb.WriteString("\n\n--- RESUMEN ---\n")
	fmt.Fprintf(&sb, "Expediente: %s\n", orDash(res.Fields.Expediente))
	fmt.Fprintf(&sb, "Causa: %s\n", orDash(res.Fields.Causa))
	fmt.Fprintf(&sb, "Acción solicitada: %s\n", orDash(res.Fields.AccionSolicitada))
	fmt.Fprintf(&sb, "Fechas: %s\n", orDash(strings.Join(res.Fields.Fechas, ", ")))
	montos := make([]string, 0, len(res.Fields.Montos))
	for _, m := range res.Fields.Montos {
		montos = append(montos, fmt.Sprintf("%s %s", m.Value.String(), m.Currency))
	}
	fmt.Fprintf(&sb, "Montos: %s\n", orDash(strings.Join(montos, ", ")))
	if res.OCRResult != nil {
		fmt.Fprintf(&sb, "Confianza OCR: %.1f\n", res.OCRResult.ConfidenceAvg)
	}
	if len(res.ProcessingErrors) > 0 {
		fmt.Fprintf(&sb, "Errores: %s\n", strings.Join(res.ProcessingErrors, "; "))
	}
	return sb.String()
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
