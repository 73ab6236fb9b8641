package mocks

import (
	"image"

	"github.com/user/timelapse/pkg/ports"
)

// Renderer is a mock implementation of ports.Renderer.
type Renderer struct {
	AnnotateFunc    func(img image.Image, label string) image.Image
	ThumbnailFunc   func(img image.Image, maxWidth int) image.Image
	EncodeImageFunc func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error)

	// Recorded calls for verification
	Labels []string
}

func (m *Renderer) Annotate(img image.Image, label string) image.Image {
	m.Labels = append(m.Labels, label)
	if m.AnnotateFunc != nil {
		return m.AnnotateFunc(img, label)
	}
	return img
}

func (m *Renderer) Thumbnail(img image.Image, maxWidth int) image.Image {
	if m.ThumbnailFunc != nil {
		return m.ThumbnailFunc(img, maxWidth)
	}
	return img
}

func (m *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	if m.EncodeImageFunc != nil {
		return m.EncodeImageFunc(img, format, quality)
	}
	return []byte{0xFF, 0xD8}, nil
}

var _ ports.Renderer = (*Renderer)(nil)
