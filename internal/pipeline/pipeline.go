package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/govdocs-mx/expediente-ocr/internal/common"
)

// Orchestrator dispatches a path to the file or directory processor.
type Orchestrator struct {
	file   *FileProcessor
	dir    *DirectoryProcessor
	logger *slog.Logger
}

func NewOrchestrator(file *FileProcessor, dir *DirectoryProcessor, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{file: file, dir: dir, logger: logger}
}

// ProcessPath handles a single file or a directory tree. This is the only
// entry point that returns an error, and only for dispatch problems: a path
// that does not exist or a file type outside the allow-list. Everything that
// goes wrong inside a unit of work ends up in that unit's result instead.
func (o *Orchestrator) ProcessPath(ctx context.Context, path string, cfg ProcessingConfig, outputDir *string, includeSummary bool) ([]*ProcessingResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, common.NewAppError(common.CodeLoadError, fmt.Sprintf("path %q does not exist", path), common.ErrNotFound)
		}
		return nil, common.NewAppError(common.CodeLoadError, fmt.Sprintf("stat %q", path), err)
	}

	if info.IsDir() {
		return o.dir.Process(ctx, path, cfg, outputDir, includeSummary)
	}
	// an unsupported single file is still a unit of work: the loader's
	// failure lands on its result instead of aborting
	return o.file.Process(ctx, path, cfg, outputDir, includeSummary), nil
}
