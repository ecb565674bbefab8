package raster

import "sync"

// Pool lets video pipelines reuse per-frame overlay buffers to reduce GC
// pressure at 30-60 FPS rates.
type Pool struct {
	buffers sync.Pool // *Buffer
}

// Get returns a buffer of the requested dimensions, reusing a pooled one
// when the size matches. Pooled buffers come back dirty; we skip clearing
// for speed since decode zero-fills before drawing. Callers that draw
// directly should Clear first.
func (p *Pool) Get(width, height int) (*Buffer, error) {
	if p == nil {
		return New(width, height)
	}
	if v := p.buffers.Get(); v != nil {
		b := v.(*Buffer)
		if b.width == width && b.height == height {
			return b, nil
		}
	}
	return New(width, height)
}

// Put returns a buffer for later reuse.
func (p *Pool) Put(b *Buffer) {
	if p == nil || b == nil {
		return
	}
	p.buffers.Put(b)
}
