package raster

import (
	"image"
	"image/color"
)

// DrawPoint stamps a filled square of side 2*radius+1 centered on (x, y).
// Pixels falling outside the raster are skipped; a stamp near an edge is
// clipped, never wrapped to the next row. Radius 0 stamps a single pixel,
// a negative radius stamps nothing.
func (b *Buffer) DrawPoint(x, y, radius int, c color.RGBA) {
	for py := y - radius; py <= y+radius; py++ {
		if py < 0 || py >= b.height {
			continue
		}
		row := py * b.width * 4
		for px := x - radius; px <= x+radius; px++ {
			if px < 0 || px >= b.width {
				continue
			}
			off := row + px*4
			p := b.pix[off : off+4 : off+4]
			p[0] = c.R
			p[1] = c.G
			p[2] = c.B
			p[3] = c.A
		}
	}
}

// DrawLine draws a straight segment from (x0, y0) to (x1, y1) with integer
// Bresenham stepping, stamping a point of the given radius at every step.
// Both endpoints are stamped and the walk terminates after at most
// max(|dx|, |dy|) + 1 steps regardless of clipping.
func (b *Buffer) DrawLine(x0, y0, x1, y1, radius int, c color.RGBA) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy

	for {
		b.DrawPoint(x0, y0, radius, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			if x0 == x1 {
				break
			}
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			if y0 == y1 {
				break
			}
			err += dx
			y0 += sy
		}
	}
}

// DrawContour joins consecutive entries of an index chain with line
// segments. Every index must be a valid position in pts; decoders validate
// topologies against the landmark count at configuration time.
func (b *Buffer) DrawContour(pts []image.Point, indices []int, radius int, c color.RGBA) {
	for i := 0; i+1 < len(indices); i++ {
		p0 := pts[indices[i]]
		p1 := pts[indices[i+1]]
		b.DrawLine(p0.X, p0.Y, p1.X, p1.Y, radius, c)
	}
}

// DrawPoints stamps a marker of the given radius at every point.
func (b *Buffer) DrawPoints(pts []image.Point, radius int, c color.RGBA) {
	for _, p := range pts {
		b.DrawPoint(p.X, p.Y, radius, c)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
