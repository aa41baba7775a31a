package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/govdocs-mx/expediente-ocr/constants"
	"github.com/govdocs-mx/expediente-ocr/internal/extract"
	"github.com/govdocs-mx/expediente-ocr/internal/imaging"
	"github.com/govdocs-mx/expediente-ocr/internal/ocr"
	"github.com/govdocs-mx/expediente-ocr/internal/textnorm"
)

// PageProcessor runs one page through preprocess, OCR, normalization and
// field extraction. Every stage is fail-soft: on error the page is marked
// FAILED, the error is recorded, and whatever the earlier stages produced is
// returned.
type PageProcessor struct {
	pre     Preprocessor
	engine  ocr.Engine
	fields  *extract.FieldAggregator
	timeout time.Duration
	dpi     int
	logger  *slog.Logger
}

func NewPageProcessor(pre Preprocessor, engine ocr.Engine, fields *extract.FieldAggregator, timeout time.Duration, dpi int, logger *slog.Logger) *PageProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	if dpi <= 0 {
		dpi = 300
	}
	return &PageProcessor{pre: pre, engine: engine, fields: fields, timeout: timeout, dpi: dpi, logger: logger}
}

// Process never returns an error: failures live in the result.
func (p *PageProcessor) Process(ctx context.Context, img imaging.ImageData, cfg ProcessingConfig) *ProcessingResult {
	res := newProcessingResult(img.SourcePath, img.PageNumber, img.TotalPages)
	state := constants.PageLoaded

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cleaned, err := p.pre.Apply(img, imaging.PreprocessOptions{
		RemoveWatermark: cfg.RemoveWatermark,
		Deskew:          cfg.Deskew,
		Binarize:        cfg.Binarize,
	})
	if err != nil {
		p.fail(res, &state, "preprocess", err)
		return res
	}
	state = constants.PagePreprocessed

	ocrRes, err := p.engine.Run(ctx, cleaned.Image, ocr.Options{
		Language:         cfg.Language,
		FallbackLanguage: cfg.FallbackLanguage,
		DPI:              p.dpi,
	})
	if err != nil {
		p.fail(res, &state, "ocr", err)
		return res
	}
	res.OCRResult = ocrRes
	state = constants.PageOCRDone

	text := ocrRes.Text
	if cfg.NormalizeText {
		text = textnorm.NormalizeText(text)
		ocrRes.Text = text
		state = constants.PageNormalized
	}

	if cfg.ExtractSections {
		res.Fields = p.fields.ExtractStructuredFields(text, ocrRes.ConfidenceAvg)
		state = constants.PageFieldsExtracted
	}

	state = constants.PageResultReady
	p.logger.Debug("page.processed",
		"source", img.SourcePath,
		"page", img.PageNumber,
		"state", state,
		"confidence", ocrRes.ConfidenceAvg,
	)
	return res
}

func (p *PageProcessor) fail(res *ProcessingResult, state *constants.PageState, stage string, err error) {
	*state = constants.PageFailed
	res.AddError(stage, err)
	p.logger.Error("page.stage.failed", "source", res.SourcePath, "page", res.PageNumber, "stage", stage, "error", err)
}
