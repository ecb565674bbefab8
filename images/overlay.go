// Package images - Overlay views, scaling, and frame composition.
package images

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/nfnt/resize"

	"github.com/nvr-ai/go-facemesh/raster"
)

// Overlay returns the decoded buffer as an image.RGBA view.
//
// The view shares the buffer's pixel memory; the next Decode into the same
// buffer is visible through it.
func Overlay(buf *raster.Buffer) *image.RGBA {
	return buf.RGBA()
}

// ScaleOverlay resizes a decoded overlay to the given display size.
//
// Nearest neighbor keeps one-pixel contour strokes crisp instead of
// feathering their alpha into neighboring pixels.
//
// Arguments:
//   - overlay: The overlay to scale.
//   - width: The width to scale the overlay to.
//   - height: The height to scale the overlay to.
//
// Returns:
//   - image.Image: The scaled overlay.
//   - error: An error if the dimensions are invalid.
func ScaleOverlay(overlay *image.RGBA, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid dimensions: width=%d, height=%d", width, height)
	}
	return resize.Resize(uint(width), uint(height), overlay, resize.NearestNeighbor), nil
}

// CompositeOver alpha-blends an overlay onto dst in place.
//
// Pixels the decoder left transparent keep dst untouched; contour and marker
// pixels are opaque and replace the frame underneath.
func CompositeOver(dst draw.Image, overlay image.Image) {
	draw.Draw(dst, dst.Bounds(), overlay, overlay.Bounds().Min, draw.Over)
}

// CompositeOverJPEG decodes a JPEG camera frame at the overlay's size and
// alpha-blends the overlay onto it.
//
// Arguments:
//   - frameJPEG: The JPEG frame to composite onto.
//   - overlay: The decoded overlay.
//
// Returns:
//   - image.Image: The composed frame.
//   - error: An error if the frame fails to decode.
func CompositeOverJPEG(frameJPEG []byte, overlay *image.RGBA) (image.Image, error) {
	if overlay == nil {
		return nil, fmt.Errorf("nil overlay")
	}

	width := overlay.Bounds().Dx()
	height := overlay.Bounds().Dy()
	frame, err := DecodeJPEGFrame(frameJPEG, width, height)
	if err != nil {
		return nil, err
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), frame, frame.Bounds().Min, draw.Src)
	draw.Draw(dst, dst.Bounds(), overlay, overlay.Bounds().Min, draw.Over)
	return dst, nil
}
