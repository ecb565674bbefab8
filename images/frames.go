package images

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/chai2010/webp"
	"github.com/cshum/vipsgen/vips"
)

// FrameFormat represents supported camera frame encodings.
type FrameFormat int

const (
	FrameJPEG FrameFormat = iota
	FrameWebP
	FramePNG
)

// DecodeJPEGFrame decodes a JPEG camera frame at exactly the given
// composition size, returning a Go-native image.Image.
//
// The frame is forced to width x height so overlay pixels line up with it
// regardless of the camera's native aspect ratio.
//
// Arguments:
//   - b: The JPEG frame bytes.
//   - width: The composition width.
//   - height: The composition height.
//
// Returns:
//   - image.Image: The decoded frame.
//   - error: An error if the frame fails to decode or resize.
func DecodeJPEGFrame(b []byte, width, height int) (image.Image, error) {
	// Load the frame from buffer.
	img, err := vips.NewImageFromBuffer(b, &vips.LoadOptions{
		Access: vips.AccessSequential,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load frame: %w", err)
	}
	defer img.Close()

	// Resize the frame in-place.
	err = img.ThumbnailImage(width, &vips.ThumbnailImageOptions{
		Height: height,
		Size:   vips.SizeForce,
		FailOn: vips.FailOnError,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resize frame: %w", err)
	}

	// Export to JPEG buffer.
	resized, err := img.JpegsaveBuffer(&vips.JpegsaveBufferOptions{})
	if err != nil || len(resized) == 0 {
		return nil, fmt.Errorf("failed to encode resized frame")
	}

	// Decode into image.Image.
	decoded, err := jpeg.Decode(bytes.NewReader(resized))
	if err != nil {
		return nil, fmt.Errorf("failed to decode resized JPEG: %w", err)
	}

	return decoded, nil
}

// DecodeWebPFrame decodes a WebP camera frame at exactly the given
// composition size, returning a Go-native image.Image.
func DecodeWebPFrame(b []byte, width, height int) (image.Image, error) {
	img, err := vips.NewImageFromBuffer(b, &vips.LoadOptions{
		Access: vips.AccessSequential,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load frame: %w", err)
	}
	defer img.Close()

	err = img.ThumbnailImage(width, &vips.ThumbnailImageOptions{
		Height: height,
		Size:   vips.SizeForce,
		FailOn: vips.FailOnError,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resize frame: %w", err)
	}

	resized, err := img.WebpsaveBuffer(&vips.WebpsaveBufferOptions{})
	if err != nil || len(resized) == 0 {
		return nil, fmt.Errorf("failed to encode resized frame")
	}

	decoded, err := webp.Decode(bytes.NewReader(resized))
	if err != nil {
		return nil, fmt.Errorf("failed to decode resized WebP: %w", err)
	}

	return decoded, nil
}

// DecodePNGFrame decodes a PNG camera frame at exactly the given composition
// size, returning a Go-native image.Image.
func DecodePNGFrame(b []byte, width, height int) (image.Image, error) {
	img, err := vips.NewImageFromBuffer(b, &vips.LoadOptions{
		Access: vips.AccessSequential,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load frame: %w", err)
	}
	defer img.Close()

	err = img.ThumbnailImage(width, &vips.ThumbnailImageOptions{
		Height: height,
		Size:   vips.SizeForce,
		FailOn: vips.FailOnError,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resize frame: %w", err)
	}

	resized, err := img.PngsaveBuffer(&vips.PngsaveBufferOptions{})
	if err != nil || len(resized) == 0 {
		return nil, fmt.Errorf("failed to encode resized frame")
	}

	decoded, err := png.Decode(bytes.NewReader(resized))
	if err != nil {
		return nil, fmt.Errorf("failed to decode resized PNG: %w", err)
	}

	return decoded, nil
}

// DecodeFrame provides a unified interface to decode camera frames of
// different formats at the composition size.
func DecodeFrame(b []byte, width, height int, format FrameFormat) (image.Image, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("empty frame data")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid dimensions: width=%d, height=%d", width, height)
	}

	switch format {
	case FrameJPEG:
		return DecodeJPEGFrame(b, width, height)
	case FrameWebP:
		return DecodeWebPFrame(b, width, height)
	case FramePNG:
		return DecodePNGFrame(b, width, height)
	default:
		return nil, fmt.Errorf("unsupported frame format: %d", format)
	}
}
