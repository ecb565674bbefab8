package images

import (
	"image"
	"image/png"
	"io"

	"github.com/chai2010/webp"
)

// EncodePNG writes an overlay or composed frame to w as PNG.
//
// PNG keeps the full alpha channel, so an overlay exported on its own stays
// transparent outside the drawn contours.
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// EncodeWebP writes an overlay or composed frame to w as lossless WebP.
func EncodeWebP(w io.Writer, img image.Image) error {
	return webp.Encode(w, img, &webp.Options{Lossless: true})
}
