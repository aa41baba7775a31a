package imaging

import (
	"context"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/govdocs-mx/expediente-ocr/constants"
	"github.com/govdocs-mx/expediente-ocr/internal/common"
)

// LoaderConfig configures page loading.
type LoaderConfig struct {
	Pdftoppm string // binary name or absolute path; if empty -> "pdftoppm"
	DPI      int    // rasterization DPI for PDFs, default 300
	MaxPages int    // 0 = no limit
}

// Loader turns a file path into 1..N decoded page images. Plain images load
// as a single page; PDFs are rendered one PNG per page through pdftoppm.
type Loader struct {
	cfg    LoaderConfig
	runner Runner
	logger *slog.Logger
}

func NewLoader(cfg LoaderConfig, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Loader{cfg: cfg, runner: newExecRunner(logger), logger: logger}
}

// ListSupportedFiles walks root and returns every file whose extension is in
// the allow-list, skipping hidden entries, in sorted (deterministic) order.
func (l *Loader) ListSupportedFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			l.logger.Warn("loader.walk.skip", "path", path, "error", walkErr)
			return nil // continue walking
		}
		if isHidden(path) && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if constants.IsSupportedPath(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, common.NewAppError(common.CodeLoadError, fmt.Sprintf("walk %s", root), err)
	}
	sort.Strings(files)
	return files, nil
}

// LoadImagesFromPath loads every page of path as an ImageData, one entry per
// rendered page. dpi overrides the configured rasterization DPI when > 0.
func (l *Loader) LoadImagesFromPath(ctx context.Context, path string, dpi int) ([]ImageData, error) {
	if dpi <= 0 {
		dpi = l.cfg.DPI
	}
	switch constants.MapExtToFormat(filepath.Ext(path)) {
	case constants.IMAGE:
		img, err := decodeImageFile(path)
		if err != nil {
			return nil, common.NewAppError(common.CodeLoadError, fmt.Sprintf("decode %s", path), err)
		}
		return []ImageData{{Image: img, SourcePath: path, PageNumber: 1, TotalPages: 1}}, nil
	case constants.PDF:
		return l.loadPDFPages(ctx, path, dpi)
	default:
		return nil, common.NewAppError(common.CodeLoadError,
			fmt.Sprintf("unsupported extension: %q", filepath.Ext(path)), common.ErrUnsupportedFormat)
	}
}

// loadPDFPages renders the PDF with pdftoppm into a temp dir and decodes the
// generated page PNGs in order.
func (l *Loader) loadPDFPages(ctx context.Context, path string, dpi int) ([]ImageData, error) {
	tmpDir, err := os.MkdirTemp("", "eo-pdf-*")
	if err != nil {
		return nil, common.NewAppError(common.CodeLoadError, "create temp dir", err)
	}
	defer func() {
		if rerr := os.RemoveAll(tmpDir); rerr != nil {
			l.logger.Warn("loader.tmpdir.remove", "dir", tmpDir, "error", rerr)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r <dpi> -png <in.pdf> <tmp/page>
	_, errb, err := l.runner.Run(ctx, l.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", dpi), "-png", path, prefix)
	if err != nil {
		return nil, common.NewAppError(common.CodeLoadError,
			fmt.Sprintf("pdftoppm %s: %s", path, strings.TrimSpace(string(errb))), err)
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...); pdftoppm
	// zero-pads page numbers, so the lexical sort is also the page order
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if l.cfg.MaxPages > 0 && len(matches) > l.cfg.MaxPages {
		matches = matches[:l.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return nil, common.NewAppError(common.CodeLoadError,
			fmt.Sprintf("pdftoppm produced no pages for %s", path), common.ErrInternal)
	}

	pages := make([]ImageData, 0, len(matches))
	for i, p := range matches {
		img, err := decodeImageFile(p)
		if err != nil {
			return nil, common.NewAppError(common.CodeLoadError,
				fmt.Sprintf("decode rendered page %d of %s", i+1, path), err)
		}
		pages = append(pages, ImageData{
			Image:      img,
			SourcePath: path,
			PageNumber: i + 1,
			TotalPages: len(matches),
		})
	}
	return pages, nil
}

func decodeImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
