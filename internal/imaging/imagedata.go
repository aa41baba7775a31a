package imaging

import "image"

// ImageData is one rendered page: the decoded pixels plus where it came from.
// Treated as an immutable value; preprocessing returns a new instance instead
// of mutating the pixels in place.
type ImageData struct {
	Image      image.Image
	SourcePath string
	PageNumber int
	TotalPages int
}
