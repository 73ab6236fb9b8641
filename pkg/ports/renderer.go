package ports

import (
	"image"
)

// Renderer abstracts the image operations used for debug output.
type Renderer interface {
	// Annotate returns a copy of img with label drawn in its top-left corner.
	Annotate(img image.Image, label string) image.Image

	// Thumbnail scales img down so that it is at most maxWidth pixels wide.
	// Images that are already small enough are returned unchanged.
	Thumbnail(img image.Image, maxWidth int) image.Image

	// EncodeImage encodes an image to the specified format.
	EncodeImage(img image.Image, format ImageFormat, quality int) ([]byte, error)
}

// ImageFormat specifies image encoding format.
type ImageFormat int

const (
	FormatJPEG ImageFormat = iota
	FormatPNG
)
