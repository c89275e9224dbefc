package graph

import "fmt"

// A PixelMode identifies a pixel encoding independently of any
// windowing system.
type PixelMode uint8

const (
	ModeNone   PixelMode = iota
	ModeMono             // 1 bit per pixel, packed most significant bit first
	ModeGray             // 8-bit gray index into the surface's ramp
	ModePal8             // 8-bit colormap index
	ModeRGB565           // 16 bits: rrrrrggggggbbbbb
	ModeRGB555           // 16 bits: xrrrrrgggggbbbbb
	ModeRGB24            // 24 bits per pixel
	ModeRGB32            // 24 bits of color in 32 bits per pixel
	nModes
)

var modeNames = [nModes]string{
	ModeNone:   "none",
	ModeMono:   "mono",
	ModeGray:   "gray",
	ModePal8:   "pal8",
	ModeRGB565: "rgb565",
	ModeRGB555: "rgb555",
	ModeRGB24:  "rgb24",
	ModeRGB32:  "rgb32",
}

// String returns the mode name: "gray", "rgb565" and so on.
func (m PixelMode) String() string {
	if m < nModes {
		return modeNames[m]
	}
	return fmt.Sprintf("PixelMode(%d)", uint8(m))
}

// ParsePixelMode is the reverse of String.
func ParsePixelMode(s string) (PixelMode, error) {
	for m, name := range modeNames {
		if m != int(ModeNone) && name == s {
			return PixelMode(m), nil
		}
	}
	return ModeNone, fmt.Errorf("unknown pixel mode %q", s)
}

// BitsPerPixel returns the number of bits a pixel of mode m occupies
// in a logical bitmap.
func (m PixelMode) BitsPerPixel() int {
	switch m {
	case ModeMono:
		return 1
	case ModeGray, ModePal8:
		return 8
	case ModeRGB565, ModeRGB555:
		return 16
	case ModeRGB24:
		return 24
	case ModeRGB32:
		return 32
	}
	return 0
}

// A Format describes a native pixel encoding as the display server
// reports it.
type Format struct {
	Depth        int // significant bits per pixel
	BitsPerPixel int // storage bits per pixel
	ScanlinePad  int // each scanline starts on a multiple of this many bits
}

func (f Format) String() string {
	return fmt.Sprintf("depth %d, %d bpp, pad %d", f.Depth, f.BitsPerPixel, f.ScanlinePad)
}

// PaddedBits returns the number of bits a scanline of width pixels
// occupies once padded to f.ScanlinePad.
func (f Format) PaddedBits(width int) int {
	bits := width * f.BitsPerPixel
	if f.ScanlinePad > 0 {
		if over := bits % f.ScanlinePad; over != 0 {
			bits += f.ScanlinePad - over
		}
	}
	return bits
}

// Pitch returns the number of bytes of a padded scanline of width pixels.
func (f Format) Pitch(width int) int {
	return f.PaddedBits(width) >> 3
}

// A ModeFormat is one entry of a device's pixel-mode catalog.
type ModeFormat struct {
	Mode   PixelMode
	Format Format
}

func (mf ModeFormat) String() string {
	return fmt.Sprintf("%-6s %v", mf.Mode, mf.Format)
}
