package raster

import (
	"crypto/md5"
	"fmt"
)

// Checksum generates a deterministic checksum of the pixel region, used to
// verify decode idempotency.
//
// Arguments:
//   - b: The buffer to fingerprint.
//
// Returns:
//   - A hex-encoded MD5 checksum string, "empty" for a nil or zero-size
//     buffer.
func Checksum(b *Buffer) string {
	if b == nil || len(b.pix) == 0 {
		return "empty"
	}

	hash := md5.New()
	hash.Write(b.pix)
	return fmt.Sprintf("%x", hash.Sum(nil))
}
