package decoder

import "fmt"

// Caps describes the raw-video stream a configured decoder produces, in
// GStreamer caps terms. Overlay frames are always RGBA.
type Caps struct {
	Format     string
	Width      int
	Height     int
	FramerateN int
	FramerateD int
}

// OutputCaps returns the caps of this configuration's overlay stream. The
// framerate starts unset; pipelines that know theirs attach it with
// WithFramerate.
func (c Config) OutputCaps() Caps {
	return Caps{Format: "RGBA", Width: c.OutputWidth, Height: c.OutputHeight}
}

// WithFramerate returns a copy of the caps carrying the pipeline
// framerate as a rational.
func (cp Caps) WithFramerate(n, d int) Caps {
	cp.FramerateN = n
	cp.FramerateD = d
	return cp
}

// String renders the caps in GStreamer syntax, e.g.
// "video/x-raw, format = RGBA, width = 640, height = 480, framerate = 30/1".
func (cp Caps) String() string {
	s := fmt.Sprintf("video/x-raw, format = %s, width = %d, height = %d", cp.Format, cp.Width, cp.Height)
	if cp.FramerateD > 0 {
		s += fmt.Sprintf(", framerate = %d/%d", cp.FramerateN, cp.FramerateD)
	}
	return s
}
