package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/govdocs-mx/expediente-ocr/internal/extract"
	"github.com/govdocs-mx/expediente-ocr/internal/imaging"
	"github.com/govdocs-mx/expediente-ocr/internal/ocr"
)

// ProcessingConfig selects which stages run and how.
type ProcessingConfig struct {
	RemoveWatermark  bool
	Deskew           bool
	Binarize         bool
	Language         string
	FallbackLanguage string
	ExtractSections  bool
	NormalizeText    bool
}

// DefaultConfig enables every stage with Spanish recognition and an English
// fallback.
func DefaultConfig() ProcessingConfig {
	return ProcessingConfig{
		RemoveWatermark:  true,
		Deskew:           true,
		Binarize:         true,
		Language:         "spa",
		FallbackLanguage: "eng",
		ExtractSections:  true,
		NormalizeText:    true,
	}
}

// ProcessingResult is the outcome for one page. Stage failures are recorded
// in ProcessingErrors; everything produced before the failure is kept.
type ProcessingResult struct {
	ID               uuid.UUID               `json:"id"`
	SourcePath       string                  `json:"source_path"`
	PageNumber       int                     `json:"page_number"`
	TotalPages       int                     `json:"total_pages"`
	OCRResult        *ocr.Result             `json:"ocr_result,omitempty"`
	Fields           extract.ExtractedFields `json:"fields"`
	OutputPath       string                  `json:"output_path,omitempty"`
	ProcessingErrors []string                `json:"processing_errors,omitempty"`
}

// newProcessingResult builds a result with empty field slices so a page
// whose extraction never ran still marshals arrays, not nulls.
func newProcessingResult(sourcePath string, page, total int) *ProcessingResult {
	return &ProcessingResult{
		ID:         uuid.New(),
		SourcePath: sourcePath,
		PageNumber: page,
		TotalPages: total,
		Fields: extract.ExtractedFields{
			Fechas: []string{},
			Montos: []extract.AmountData{},
		},
	}
}

// Failed reports whether any stage recorded an error.
func (r *ProcessingResult) Failed() bool { return len(r.ProcessingErrors) > 0 }

// AddError records a stage failure without aborting the result.
func (r *ProcessingResult) AddError(stage string, err error) {
	r.ProcessingErrors = append(r.ProcessingErrors, fmt.Sprintf("%s: %v", stage, err))
}

// Loader yields decoded page images for a source file.
type Loader interface {
	LoadImagesFromPath(ctx context.Context, path string, dpi int) ([]imaging.ImageData, error)
	ListSupportedFiles(root string) ([]string, error)
}

// Preprocessor cleans a page image before recognition.
type Preprocessor interface {
	Apply(img imaging.ImageData, opts imaging.PreprocessOptions) (imaging.ImageData, error)
}

// OutputWriter persists one page result. outputDir == nil writes next to the
// source file. Returns the path of the text artifact.
type OutputWriter interface {
	Write(res *ProcessingResult, outputDir *string, includeSummary bool) (string, error)
}
