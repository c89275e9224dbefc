package graph

import "image"

// A Bitmap is the logical buffer an application draws into.
//
// Rows are Pitch bytes apart. For ModeGray the values are indices into
// the surface's gray ramp and must stay below Grays.
type Bitmap struct {
	Mode   PixelMode
	Width  int
	Rows   int
	Pitch  int
	Grays  int
	Buffer []byte
}

// Bounds returns the rectangle covered by the bitmap.
func (b *Bitmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Width, b.Rows)
}

// Gray returns an *image.Gray sharing b's buffer, so that image/draw
// and font drawers can write gray indices directly.
// It returns nil unless b is an 8-bit gray or palette bitmap.
func (b *Bitmap) Gray() *image.Gray {
	if b.Mode != ModeGray && b.Mode != ModePal8 {
		return nil
	}
	return &image.Gray{
		Pix:    b.Buffer,
		Stride: b.Pitch,
		Rect:   b.Bounds(),
	}
}

// Fill sets every pixel byte of the bitmap to v.
func (b *Bitmap) Fill(v byte) {
	for i := range b.Buffer {
		b.Buffer[i] = v
	}
}

// GrayPitch returns the pitch of a gray bitmap of the given width:
// one byte per pixel, rounded up to a multiple of 4.
func GrayPitch(width int) int {
	return (width + 3) &^ 3
}

// GrayLevel returns the 16-bit luminance of entry i of a ramp of grays
// levels. Entry 0 is full intensity; the ramp fades linearly to black.
func GrayLevel(i, grays int) uint16 {
	return uint16(65535 - (i*65535)/grays)
}
