package constants

import (
	"path/filepath"
	"strings"
)

// Formats for a unit of work. A PDF expands to one page image per rendered page.
const (
	PDF   = "PDF"
	IMAGE = "IMAGE"
)

// AllowedExtensions holds the supported file extensions for document ingestion.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"tif":  {},
	"tiff": {},
	"bmp":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a file extension to its processing format,
// or "" if the extension is not supported.
func MapExtToFormat(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "png", "jpg", "jpeg", "tif", "tiff", "bmp":
		return IMAGE
	default:
		return ""
	}
}

// IsSupportedPath reports whether the path's extension is in the allow-list.
func IsSupportedPath(path string) bool {
	_, ok := AllowedExtensions[NormalizeExt(filepath.Ext(path))]
	return ok
}
