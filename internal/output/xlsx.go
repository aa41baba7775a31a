package output

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/govdocs-mx/expediente-ocr/internal/common"
	"github.com/govdocs-mx/expediente-ocr/internal/pipeline"
)

// BuildBatchWorkbook renders one row per page result into an XLSX workbook
// for batch review.
func BuildBatchWorkbook(results []*pipeline.ProcessingResult) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Resultados"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, common.NewAppError(common.CodeWriteError, "creating workbook sheet", err)
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	// drop the default sheet so the workbook opens on results
	_ = f.DeleteSheet("Sheet1")

	headers := []string{
		"Archivo",
		"Página",
		"Expediente",
		"Causa",
		"Acción solicitada",
		"Fechas",
		"Montos",
		"Confianza",
		"Errores",
		"Salida",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range results {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		montos := make([]string, 0, len(r.Fields.Montos))
		for _, m := range r.Fields.Montos {
			montos = append(montos, fmt.Sprintf("%s %s", m.Value.String(), m.Currency))
		}
		conf := ""
		if r.OCRResult != nil {
			conf = fmt.Sprintf("%.1f", r.OCRResult.ConfidenceAvg)
		}

		write(1, r.SourcePath)
		write(2, fmt.Sprintf("%d/%d", r.PageNumber, r.TotalPages))
		write(3, r.Fields.Expediente)
		write(4, truncate(r.Fields.Causa, 140))
		write(5, truncate(r.Fields.AccionSolicitada, 140))
		write(6, strings.Join(r.Fields.Fechas, ", "))
		write(7, strings.Join(montos, ", "))
		write(8, conf)
		write(9, strings.Join(r.ProcessingErrors, "; "))
		write(10, r.OutputPath)
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 40)
	_ = f.SetColWidth(sheet, "C", "C", 18)
	_ = f.SetColWidth(sheet, "D", "E", 36)
	_ = f.SetColWidth(sheet, "F", "G", 24)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, common.NewAppError(common.CodeWriteError, "serializing workbook", err)
	}
	return buf.Bytes(), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
