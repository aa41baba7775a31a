package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/govdocs-mx/expediente-ocr/internal/common"
)

// TesseractEngine runs recognition through libtesseract via gosseract.
// Clients are not safe for concurrent use, so a fixed pool serializes
// access; Run blocks until a client is free.
type TesseractEngine struct {
	clients    chan *gosseract.Client
	tessdata   string
	defaultDPI int
	logger     *slog.Logger
}

// NewTesseractEngine allocates poolSize clients. tessdataDir may be empty to
// use the system default.
func NewTesseractEngine(poolSize int, tessdataDir string, logger *slog.Logger) (*TesseractEngine, error) {
	if poolSize <= 0 {
		poolSize = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	e := &TesseractEngine{
		clients:    make(chan *gosseract.Client, poolSize),
		tessdata:   tessdataDir,
		defaultDPI: 300,
		logger:     logger,
	}
	for i := 0; i < poolSize; i++ {
		c := gosseract.NewClient()
		if tessdataDir != "" {
			if err := c.SetTessdataPrefix(tessdataDir); err != nil {
				c.Close()
				e.Close()
				return nil, common.NewAppError(common.CodeOCRError, "setting tessdata prefix", err)
			}
		}
		e.clients <- c
	}
	return e, nil
}

// Close releases all pooled clients. The engine must not be used afterwards.
func (e *TesseractEngine) Close() error {
	close(e.clients)
	var firstErr error
	for c := range e.clients {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Run recognizes img with opts.Language, retrying with opts.FallbackLanguage
// when the primary run fails or produces no text.
func (e *TesseractEngine) Run(ctx context.Context, img image.Image, opts Options) (*Result, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, common.NewAppError(common.CodeOCRError, "encoding page for recognition", err)
	}

	var client *gosseract.Client
	select {
	case client = <-e.clients:
	case <-ctx.Done():
		return nil, common.NewAppError(common.CodeOCRError, "waiting for ocr client", ctx.Err())
	}
	defer func() { e.clients <- client }()

	lang := opts.Language
	if lang == "" {
		lang = "spa"
	}
	res, err := e.recognize(ctx, client, buf.Bytes(), lang, opts.DPI)
	if (err != nil || res == nil || strings.TrimSpace(res.Text) == "") && opts.FallbackLanguage != "" && opts.FallbackLanguage != lang {
		e.logger.Warn("ocr.fallback", "from", lang, "to", opts.FallbackLanguage, "error", err)
		if fres, ferr := e.recognize(ctx, client, buf.Bytes(), opts.FallbackLanguage, opts.DPI); ferr == nil {
			return fres, nil
		}
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (e *TesseractEngine) recognize(ctx context.Context, client *gosseract.Client, pngBytes []byte, lang string, dpi int) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, common.NewAppError(common.CodeOCRError, "recognition canceled", err)
	}
	if err := client.SetLanguage(lang); err != nil {
		return nil, common.NewAppError(common.CodeOCRError, fmt.Sprintf("setting language %q", lang), err)
	}
	if dpi <= 0 {
		dpi = e.defaultDPI
	}
	if err := client.SetVariable("user_defined_dpi", strconv.Itoa(dpi)); err != nil {
		return nil, common.NewAppError(common.CodeOCRError, "setting dpi", err)
	}
	if err := client.SetImageFromBytes(pngBytes); err != nil {
		return nil, common.NewAppError(common.CodeOCRError, "loading page into tesseract", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, common.NewAppError(common.CodeOCRError, "recognizing text", err)
	}

	res := &Result{Text: text, LanguageUsed: lang}
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		// no word geometry available; fall back to the text heuristic
		res.ConfidenceAvg = heuristicConfidence(text)
		res.ConfidenceMedian = res.ConfidenceAvg
		return res, nil
	}
	confs := make([]float64, 0, len(boxes))
	for _, b := range boxes {
		confs = append(confs, clampConfidence(b.Confidence))
	}
	res.WordConfidences = confs
	res.ConfidenceAvg = blendConfidence(mean(confs), heuristicConfidence(text))
	res.ConfidenceMedian = median(confs)
	return res, nil
}

// blendConfidence weights the engine's word confidence over the text
// heuristic 0.7/0.3 when both are available.
func blendConfidence(engine, heuristic float64) float64 {
	if engine <= 0 {
		return heuristic
	}
	return clampConfidence(0.7*engine + 0.3*heuristic)
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
