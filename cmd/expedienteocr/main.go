package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/govdocs-mx/expediente-ocr/internal/common"
	"github.com/govdocs-mx/expediente-ocr/internal/extract"
	"github.com/govdocs-mx/expediente-ocr/internal/imaging"
	"github.com/govdocs-mx/expediente-ocr/internal/ocr"
	"github.com/govdocs-mx/expediente-ocr/internal/output"
	"github.com/govdocs-mx/expediente-ocr/internal/pipeline"
	"github.com/govdocs-mx/expediente-ocr/internal/vocab"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		input       = flag.String("input", "", "file or directory to process (required)")
		outDir      = flag.String("out", "", "output directory (optional, defaults to next to each source file)")
		xlsxPath    = flag.String("xlsx", "", "write a batch summary workbook to this path")
		vocabPath   = flag.String("vocab", "", "JSON vocabulary file overriding the built-in patterns")
		lang        = flag.String("lang", "", "tesseract language (default from OCR_LANG, spa)")
		fallback    = flag.String("fallback", "", "fallback tesseract language (default from OCR_FALLBACK_LANG, eng)")
		workers     = flag.Int("workers", 0, "directory worker count (default from BATCH_WORKERS)")
		timeout     = flag.Duration("timeout", 0, "per-page processing timeout (default from PAGE_TIMEOUT)")
		noWatermark = flag.Bool("no-watermark", false, "skip watermark removal")
		noDeskew    = flag.Bool("no-deskew", false, "skip deskewing")
		noBinarize  = flag.Bool("no-binarize", false, "skip binarization")
		verbose     = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *input == "" {
		printError("Error: --input is required\n")
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if *lang != "" {
		cfg.OCR.Language = *lang
	}
	if *fallback != "" {
		cfg.OCR.FallbackLanguage = *fallback
	}
	if *workers > 0 {
		cfg.Batch.Workers = *workers
	}
	if *timeout > 0 {
		cfg.Batch.PageTimeout = *timeout
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	voc := vocab.Default()
	if *vocabPath != "" {
		v, err := vocab.LoadFile(*vocabPath)
		if err != nil {
			logger.Error("failed to load vocabulary", "path", *vocabPath, "error", err)
			os.Exit(1)
		}
		voc = v
		logger.Info("vocabulary loaded", "path", *vocabPath)
	}

	aggregator, err := extract.NewFieldAggregator(voc, logger)
	if err != nil {
		logger.Error("invalid vocabulary", "error", err)
		os.Exit(1)
	}

	engine, err := ocr.NewTesseractEngine(cfg.OCR.PoolSize, cfg.OCR.TessdataDir, logger)
	if err != nil {
		logger.Error("failed to initialize ocr engine", "error", err)
		os.Exit(1)
	}
	defer engine.Close()

	loader := imaging.NewLoader(imaging.LoaderConfig{
		Pdftoppm: cfg.OCR.Pdftoppm,
		DPI:      cfg.OCR.DPI,
	}, logger)
	pre := imaging.NewPreprocessor(logger)
	writer := output.NewWriter(logger)

	pageProc := pipeline.NewPageProcessor(pre, engine, aggregator, cfg.Batch.PageTimeout, cfg.OCR.DPI, logger)
	fileProc := pipeline.NewFileProcessor(loader, pageProc, writer, cfg.OCR.DPI, logger)
	dirProc := pipeline.NewDirectoryProcessor(fileProc, cfg.Batch.Workers, logger)
	orch := pipeline.NewOrchestrator(fileProc, dirProc, logger)

	procCfg := pipeline.ProcessingConfig{
		RemoveWatermark:  !*noWatermark,
		Deskew:           !*noDeskew,
		Binarize:         !*noBinarize,
		Language:         cfg.OCR.Language,
		FallbackLanguage: cfg.OCR.FallbackLanguage,
		ExtractSections:  true,
		NormalizeText:    true,
	}

	var outputDir *string
	if *outDir != "" {
		outputDir = outDir
	}

	start := time.Now()
	ctx := context.Background()
	results, err := orch.ProcessPath(ctx, *input, procCfg, outputDir, cfg.Output.IncludeSummary)
	if err != nil {
		logger.Error("processing failed", "input", *input, "error", err)
		os.Exit(1)
	}

	failures := 0
	for _, r := range results {
		if r.Failed() {
			failures++
		}
	}

	if *xlsxPath != "" {
		wb, err := output.BuildBatchWorkbook(results)
		if err != nil {
			logger.Error("failed to build summary workbook", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*xlsxPath, wb, 0o644); err != nil {
			logger.Error("failed to write summary workbook", "path", *xlsxPath, "error", err)
			os.Exit(1)
		}
		logger.Info("summary workbook written", "path", *xlsxPath)
	}

	logger.Info("processing complete",
		"input", *input,
		"pages", len(results),
		"pages_with_errors", failures,
		"duration", time.Since(start).String(),
	)

	fmt.Printf("Processing complete!\n")
	fmt.Printf("- Pages processed: %d\n", len(results))
	fmt.Printf("- Pages with errors: %d\n", failures)
	if *xlsxPath != "" {
		fmt.Printf("- Summary: %s\n", *xlsxPath)
	}
}
