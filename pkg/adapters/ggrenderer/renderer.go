// Package ggrenderer implements ports.Renderer with the gg 2D library.
package ggrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/user/timelapse/pkg/ports"
)

const labelPadding = 4

// Renderer implements ports.Renderer using the gg library.
type Renderer struct{}

// New creates a new Renderer.
func New() *Renderer {
	return &Renderer{}
}

// Annotate draws label in white on a translucent black box in the top-left corner.
// The built-in bitmap face is used so no font files are needed.
func (r *Renderer) Annotate(img image.Image, label string) image.Image {
	dc := gg.NewContextForImage(img)

	w, h := dc.MeasureString(label)
	dc.SetRGBA(0, 0, 0, 0.6)
	dc.DrawRectangle(0, 0, w+2*labelPadding, h+2*labelPadding)
	dc.Fill()

	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(label, labelPadding, labelPadding+h/2, 0, 0.5)
	return dc.Image()
}

// Thumbnail scales img down to maxWidth keeping its aspect ratio.
func (r *Renderer) Thumbnail(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return img
	}

	height := b.Dy() * maxWidth / b.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// EncodeImage encodes an image to the specified format.
func (r *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case ports.FormatJPEG:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("encode JPEG: %w", err)
		}
	case ports.FormatPNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode PNG: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %d", format)
	}

	return buf.Bytes(), nil
}

var _ ports.Renderer = (*Renderer)(nil)
