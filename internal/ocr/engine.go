package ocr

import (
	"context"
	"image"
)

// Options select the recognition languages and rasterization density for a
// single run.
type Options struct {
	Language         string // tesseract language code, e.g. "spa"
	FallbackLanguage string // retried when the primary yields nothing
	DPI              int
}

// Result is the recognized text plus per-word confidence statistics.
// Confidences are on the tesseract 0..100 scale.
type Result struct {
	Text             string
	ConfidenceAvg    float64
	ConfidenceMedian float64
	WordConfidences  []float64
	LanguageUsed     string
}

// Engine recognizes text on a decoded page image.
type Engine interface {
	Run(ctx context.Context, img image.Image, opts Options) (*Result, error)
}
