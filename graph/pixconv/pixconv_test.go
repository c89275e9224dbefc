package pixconv

import (
	"bytes"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testW = 13
	testH = 7
)

func testRamp() *Ramp {
	var ramp Ramp
	for i := range ramp {
		ramp[i] = uint32(0x01020304 * (i + 1))
	}
	return &ramp
}

func testSource() ([]byte, int) {
	pitch := 16
	src := make([]byte, pitch*testH)
	for y := 0; y < testH; y++ {
		for x := 0; x < testW; x++ {
			src[y*pitch+x] = byte(y*testW + x)
		}
	}
	return src, pitch
}

func newImage(bpp int, msb bool) *Image {
	pitch := (testW*bpp + 3) &^ 3
	return &Image{
		Buf:           make([]byte, pitch*testH),
		Pitch:         pitch,
		BytesPerPixel: bpp,
		MSBFirst:      msb,
	}
}

var clipTests = []struct {
	r    image.Rectangle
	want image.Rectangle
	ok   bool
}{
	{image.Rect(0, 0, testW, testH), image.Rect(0, 0, testW, testH), true},
	{image.Rect(-5, -2, 4, 3), image.Rect(0, 0, 4, 3), true},
	{image.Rect(10, 5, 20, 20), image.Rect(10, 5, testW, testH), true},
	{image.Rect(testW, 0, testW+4, 3), image.Rectangle{}, false},
	{image.Rect(-4, 0, 0, 3), image.Rectangle{}, false},
	{image.Rect(2, testH, 4, testH+3), image.Rectangle{}, false},
	{image.Rect(2, -6, 4, 0), image.Rectangle{}, false},
}

func TestClip(t *testing.T) {
	bounds := image.Rect(0, 0, testW, testH)
	for _, tt := range clipTests {
		got, ok := Clip(tt.r, bounds)
		assert.Equal(t, tt.ok, ok, "Clip(%v) ok", tt.r)
		assert.Equal(t, tt.want, got, "Clip(%v)", tt.r)
	}
}

func TestGrayDisjointWritesNothing(t *testing.T) {
	src, pitch := testSource()
	for _, bpp := range []int{1, 2, 3, 4} {
		dst := newImage(bpp, false)
		for i := range dst.Buf {
			dst.Buf[i] = 0xAA
		}
		before := append([]byte(nil), dst.Buf...)
		r, ok := Clip(image.Rect(testW+1, 0, testW+10, testH), image.Rect(0, 0, testW, testH))
		require.False(t, ok)
		Gray(dst, src, pitch, testRamp(), r)
		assert.Equal(t, before, dst.Buf, "bpp %d", bpp)
	}
}

func TestGrayPartialMatchesReference(t *testing.T) {
	src, pitch := testSource()
	ramp := testRamp()
	bounds := image.Rect(0, 0, testW, testH)
	for _, bpp := range []int{1, 2, 3, 4} {
		for _, msb := range []bool{false, true} {
			ref := newImage(bpp, msb)
			Gray(ref, src, pitch, ramp, bounds)

			dst := newImage(bpp, msb)
			r, ok := Clip(image.Rect(-3, 4, 6, 12), bounds)
			require.True(t, ok)
			require.Equal(t, image.Rect(0, 4, 6, testH), r)
			Gray(dst, src, pitch, ramp, r)

			for y := 0; y < testH; y++ {
				for x := 0; x < testW; x++ {
					off := y*dst.Pitch + x*bpp
					got := dst.Buf[off : off+bpp]
					if image.Pt(x, y).In(r) {
						assert.Equal(t, ref.Buf[off:off+bpp], got, "bpp %d msb %v at %d,%d", bpp, msb, x, y)
					} else {
						assert.Equal(t, make([]byte, bpp), got, "bpp %d msb %v at %d,%d written", bpp, msb, x, y)
					}
				}
			}
		}
	}
}

func TestGrayRGB24ByteOrder(t *testing.T) {
	const g = 5
	var ramp Ramp
	ramp[g] = 0x00112233 // R=0x11 G=0x22 B=0x33
	src := bytes.Repeat([]byte{g}, 4*2)
	r := image.Rect(0, 0, 4, 2)

	lsb := &Image{Buf: make([]byte, 12*2), Pitch: 12, BytesPerPixel: 3}
	Gray(lsb, src, 4, &ramp, r)
	for i := 0; i < len(lsb.Buf); i += 3 {
		assert.Equal(t, []byte{0x33, 0x22, 0x11}, lsb.Buf[i:i+3])
	}

	msb := &Image{Buf: make([]byte, 12*2), Pitch: 12, BytesPerPixel: 3, MSBFirst: true}
	Gray(msb, src, 4, &ramp, r)
	for i := 0; i < len(msb.Buf); i += 3 {
		assert.Equal(t, []byte{0x11, 0x22, 0x33}, msb.Buf[i:i+3])
	}
}

func TestGray16And32(t *testing.T) {
	var ramp Ramp
	ramp[1] = 0xA1B2C3D4
	src := []byte{1}
	r := image.Rect(0, 0, 1, 1)

	for _, tt := range []struct {
		bpp  int
		msb  bool
		want []byte
	}{
		{2, false, []byte{0xD4, 0xC3}},
		{2, true, []byte{0xC3, 0xD4}},
		{4, false, []byte{0xD4, 0xC3, 0xB2, 0xA1}},
		{4, true, []byte{0xA1, 0xB2, 0xC3, 0xD4}},
	} {
		dst := &Image{Buf: make([]byte, 4), Pitch: 4, BytesPerPixel: tt.bpp, MSBFirst: tt.msb}
		Gray(dst, src, 1, &ramp, r)
		assert.Equal(t, tt.want, dst.Buf[:tt.bpp], "bpp %d msb %v", tt.bpp, tt.msb)
	}
}

var repackTests = []struct {
	unit     int
	lsbBit   bool
	lsbByte  bool
	src, out []byte
}{
	{4, false, false, []byte{0x80, 0x01, 0xF0, 0x0F}, []byte{0x80, 0x01, 0xF0, 0x0F}},
	{4, true, true, []byte{0x80, 0x01, 0xF0, 0x0F}, []byte{0x01, 0x80, 0x0F, 0xF0}},
	{4, false, true, []byte{0x80, 0x01, 0xF0, 0x0F}, []byte{0x0F, 0xF0, 0x01, 0x80}},
	{2, true, false, []byte{0x80, 0x01, 0xF0, 0x0F}, []byte{0x80, 0x01, 0xF0, 0x0F}},
	{1, true, false, []byte{0x80, 0x03}, []byte{0x01, 0xC0}},
}

func TestRepackBitmap(t *testing.T) {
	for _, tt := range repackTests {
		dst := make([]byte, len(tt.src))
		RepackBitmap(dst, tt.src, tt.unit, tt.lsbBit, tt.lsbByte)
		assert.Equal(t, tt.out, dst, "unit %d lsbBit %v lsbByte %v", tt.unit, tt.lsbBit, tt.lsbByte)
	}
}
