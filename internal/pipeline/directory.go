package pipeline

import (
	"context"
	"log/slog"
	"sync"
)

// DirectoryProcessor fans a directory's supported files out to a bounded
// worker pool. Results come back in directory listing order regardless of
// which worker finished first.
type DirectoryProcessor struct {
	file    *FileProcessor
	workers int
	logger  *slog.Logger
}

func NewDirectoryProcessor(file *FileProcessor, workers int, logger *slog.Logger) *DirectoryProcessor {
	if workers <= 0 {
		workers = 4
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DirectoryProcessor{file: file, workers: workers, logger: logger}
}

// Process walks root for supported files and processes them concurrently.
// Only the directory listing itself can fail; per-file problems are recorded
// on the corresponding results.
func (d *DirectoryProcessor) Process(ctx context.Context, root string, cfg ProcessingConfig, outputDir *string, includeSummary bool) ([]*ProcessingResult, error) {
	files, err := d.file.loader.ListSupportedFiles(root)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		d.logger.Warn("directory.empty", "root", root)
		return nil, nil
	}

	perFile := make([][]*ProcessingResult, len(files))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < d.workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for i := range jobs {
				perFile[i] = d.file.Process(ctx, files[i], cfg, outputDir, includeSummary)
				d.logger.Debug("directory.file.done", "worker_id", workerID, "path", files[i])
			}
		}(w + 1)
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var results []*ProcessingResult
	for _, batch := range perFile {
		results = append(results, batch...)
	}
	d.logger.Info("directory.processed", "root", root, "files", len(files), "pages", len(results))
	return results, nil
}
