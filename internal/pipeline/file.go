package pipeline

import (
	"context"
	"log/slog"
)

// FileProcessor loads a file into page images and processes each page. A
// file that cannot be loaded still yields a single result carrying the load
// error, so the batch total always accounts for every input.
type FileProcessor struct {
	loader Loader
	page   *PageProcessor
	writer OutputWriter
	dpi    int
	logger *slog.Logger
}

func NewFileProcessor(loader Loader, page *PageProcessor, writer OutputWriter, dpi int, logger *slog.Logger) *FileProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	if dpi <= 0 {
		dpi = 300
	}
	return &FileProcessor{loader: loader, page: page, writer: writer, dpi: dpi, logger: logger}
}

// Process returns one result per page, in page order. Never returns an
// error: load and write failures are recorded on the affected results.
func (f *FileProcessor) Process(ctx context.Context, path string, cfg ProcessingConfig, outputDir *string, includeSummary bool) []*ProcessingResult {
	images, err := f.loader.LoadImagesFromPath(ctx, path, f.dpi)
	if err != nil {
		f.logger.Error("file.load.failed", "path", path, "error", err)
		res := newProcessingResult(path, 1, 1)
		res.AddError("load", err)
		return []*ProcessingResult{res}
	}

	results := make([]*ProcessingResult, 0, len(images))
	for _, img := range images {
		res := f.page.Process(ctx, img, cfg)
		if f.writer != nil {
			if out, werr := f.writer.Write(res, outputDir, includeSummary); werr != nil {
				res.AddError("write", werr)
				f.logger.Error("file.write.failed", "path", path, "page", img.PageNumber, "error", werr)
			} else {
				res.OutputPath = out
			}
		}
		results = append(results, res)
	}
	f.logger.Info("file.processed", "path", path, "pages", len(results))
	return results
}
