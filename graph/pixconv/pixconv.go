// Package pixconv converts logical gray bitmaps into native pixel buffers.
//
// Conversion runs on every refreshed rectangle, so the loops here step
// through the rows directly; the byte order is decided once per call and
// each order has its own loops.
package pixconv

import (
	"image"
	"math/bits"
)

// An Image is a native pixel buffer.
type Image struct {
	Buf           []byte
	Pitch         int  // bytes per scanline
	BytesPerPixel int  // 1 to 4
	MSBFirst      bool // pixel values are stored most significant byte first
}

// A Ramp maps gray indices to native pixel values.
type Ramp [256]uint32

// Clip intersects r with bounds. It reports false when nothing is left.
func Clip(r, bounds image.Rectangle) (image.Rectangle, bool) {
	r = r.Canon().Intersect(bounds)
	if r.Empty() {
		return image.Rectangle{}, false
	}
	return r, true
}

// Gray writes the native pixels for the gray indices of src inside r
// into dst. src rows are srcPitch bytes apart. r must already be clipped
// to both buffers.
func Gray(dst *Image, src []byte, srcPitch int, ramp *Ramp, r image.Rectangle) {
	if r.Empty() {
		return
	}
	switch {
	case dst.BytesPerPixel == 1:
		gray8(dst, src, srcPitch, ramp, r)
	case dst.MSBFirst:
		grayMSB(dst, src, srcPitch, ramp, r)
	default:
		grayLSB(dst, src, srcPitch, ramp, r)
	}
}

func gray8(dst *Image, src []byte, srcPitch int, ramp *Ramp, r image.Rectangle) {
	w := r.Dx()
	read := r.Min.Y*srcPitch + r.Min.X
	write := r.Min.Y*dst.Pitch + r.Min.X
	for h := r.Dy(); h > 0; h-- {
		s := src[read : read+w]
		d := dst.Buf[write : write+w]
		for i, g := range s {
			d[i] = byte(ramp[g])
		}
		read += srcPitch
		write += dst.Pitch
	}
}

func grayLSB(dst *Image, src []byte, srcPitch int, ramp *Ramp, r image.Rectangle) {
	depth := dst.BytesPerPixel
	w := r.Dx()
	read := r.Min.Y*srcPitch + r.Min.X
	write := r.Min.Y*dst.Pitch + depth*r.Min.X
	for h := r.Dy(); h > 0; h-- {
		s := src[read : read+w]
		d := dst.Buf[write : write+depth*w]
		switch depth {
		case 2:
			for _, g := range s {
				p := ramp[g]
				_ = d[1]
				d[0] = byte(p)
				d[1] = byte(p >> 8)
				d = d[2:]
			}
		case 3:
			for _, g := range s {
				p := ramp[g]
				_ = d[2]
				d[0] = byte(p)
				d[1] = byte(p >> 8)
				d[2] = byte(p >> 16)
				d = d[3:]
			}
		case 4:
			for _, g := range s {
				p := ramp[g]
				_ = d[3]
				d[0] = byte(p)
				d[1] = byte(p >> 8)
				d[2] = byte(p >> 16)
				d[3] = byte(p >> 24)
				d = d[4:]
			}
		}
		read += srcPitch
		write += dst.Pitch
	}
}

func grayMSB(dst *Image, src []byte, srcPitch int, ramp *Ramp, r image.Rectangle) {
	depth := dst.BytesPerPixel
	w := r.Dx()
	read := r.Min.Y*srcPitch + r.Min.X
	write := r.Min.Y*dst.Pitch + depth*r.Min.X
	for h := r.Dy(); h > 0; h-- {
		s := src[read : read+w]
		d := dst.Buf[write : write+depth*w]
		switch depth {
		case 2:
			for _, g := range s {
				p := ramp[g]
				_ = d[1]
				d[0] = byte(p >> 8)
				d[1] = byte(p)
				d = d[2:]
			}
		case 3:
			for _, g := range s {
				p := ramp[g]
				_ = d[2]
				d[0] = byte(p >> 16)
				d[1] = byte(p >> 8)
				d[2] = byte(p)
				d = d[3:]
			}
		case 4:
			for _, g := range s {
				p := ramp[g]
				_ = d[3]
				d[0] = byte(p >> 24)
				d[1] = byte(p >> 16)
				d[2] = byte(p >> 8)
				d[3] = byte(p)
				d = d[4:]
			}
		}
		read += srcPitch
		write += dst.Pitch
	}
}

// RepackBitmap copies 1-bit rows packed most significant bit first from
// src into dst in the bit and unit byte order a server asks for.
// unit is the scanline unit in bytes (1, 2 or 4).
func RepackBitmap(dst, src []byte, unit int, lsbBitOrder, lsbByteOrder bool) {
	n := copy(dst, src)
	dst = dst[:n]
	if lsbBitOrder {
		for i, b := range dst {
			dst[i] = bits.Reverse8(b)
		}
	}
	if lsbBitOrder == lsbByteOrder || unit < 2 {
		return
	}
	for i := 0; i+unit <= len(dst); i += unit {
		u := dst[i : i+unit]
		for j, k := 0, unit-1; j < k; j, k = j+1, k-1 {
			u[j], u[k] = u[k], u[j]
		}
	}
}
