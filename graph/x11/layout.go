package x11

import (
	"fmt"

	"ftgraph.dev/go/graph"
)

// maxSurfaceBytes bounds a single surface buffer. X11 window sizes are
// 16-bit, so anything larger cannot be presented anyway.
const maxSurfaceBytes = 1 << 30

// A layout is the geometry of a surface, decided before any buffer or
// window exists.
type layout struct {
	entry graph.ModeFormat // catalog entry backing the native image
	gray  bool             // logical bitmap and native image are separate

	width, rows int
	pitch       int // native bytes per scanline
	logical     graph.Bitmap

	// effectiveDepth corrects the depth of 32-bit pixels, which the
	// server files under depth 24.
	effectiveDepth int
}

// planLayout selects the catalog entry for a surface request and computes
// the pitches of both buffers. Buffers are not allocated.
func planLayout(c *catalog, rootDepth int, req graph.Bitmap) (layout, error) {
	if req.Width <= 0 || req.Rows <= 0 || req.Width > 0xffff || req.Rows > 0xffff {
		return layout{}, fmt.Errorf("x11: surface %dx%d: %w", req.Width, req.Rows, graph.ErrBadArgument)
	}
	var l layout
	var ok bool
	if req.Mode == graph.ModeGray && req.Grays >= 2 {
		l.gray = true
		l.entry, ok = c.byDepth(rootDepth)
	} else {
		l.entry, ok = c.byMode(req.Mode)
	}
	if ok && l.gray && l.entry.Format.BitsPerPixel < 8 {
		ok = false
	}
	if !ok {
		return layout{}, fmt.Errorf("x11: no pixel format for mode %v at default depth %d: %w",
			req.Mode, rootDepth, graph.ErrBadArgument)
	}
	f := l.entry.Format
	bits := f.PaddedBits(req.Width)
	l.pitch = bits >> 3
	l.rows = req.Rows
	l.effectiveDepth = f.Depth
	if f.Depth == 24 && f.BitsPerPixel == 32 {
		l.effectiveDepth = 32
	}
	if int64(l.pitch)*int64(l.rows) > maxSurfaceBytes {
		return layout{}, fmt.Errorf("x11: surface %dx%d: %w", req.Width, req.Rows, graph.ErrAllocFailed)
	}

	l.logical = graph.Bitmap{Mode: req.Mode, Rows: req.Rows}
	if l.gray {
		l.width = req.Width
		l.logical.Width = req.Width
		l.logical.Pitch = graph.GrayPitch(req.Width)
		l.logical.Grays = req.Grays
		if l.logical.Grays > 256 {
			l.logical.Grays = 256
		}
	} else {
		// the logical row covers the whole padded scanline
		l.width = bits / f.BitsPerPixel
		l.logical.Width = l.width
		l.logical.Pitch = l.pitch
	}
	return l, nil
}

// nativeSize returns the size of the native image in bytes.
func (l *layout) nativeSize() int {
	return l.pitch * l.rows
}

// logicalSize returns the size of the logical bitmap in bytes.
func (l *layout) logicalSize() int {
	return l.logical.Pitch * l.logical.Rows
}

// allocBuffer returns a zeroed buffer of n bytes, reporting a failed
// runtime allocation as ErrAllocFailed instead of crashing.
func allocBuffer(n int) (buf []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf, err = nil, fmt.Errorf("x11: %d byte buffer: %v: %w", n, r, graph.ErrAllocFailed)
		}
	}()
	return make([]byte, n), nil
}
