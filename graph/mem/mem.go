// Package mem implements a graph.Device without a display. Surfaces live
// in host memory, native pixels use the host byte order and input comes
// only from keys fed to the surface.
package mem

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"io"
	"unsafe"

	"ftgraph.dev/go/graph"
	"ftgraph.dev/go/graph/pixconv"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/sys/cpu"
)

func tracer() tracing.Trace {
	return tracing.Select("graph.mem")
}

var catalog = []graph.ModeFormat{
	{Mode: graph.ModeGray, Format: graph.Format{Depth: 8, BitsPerPixel: 8, ScanlinePad: 8}},
	{Mode: graph.ModeRGB565, Format: graph.Format{Depth: 16, BitsPerPixel: 16, ScanlinePad: 32}},
	{Mode: graph.ModeRGB24, Format: graph.Format{Depth: 24, BitsPerPixel: 24, ScanlinePad: 32}},
	{Mode: graph.ModeRGB32, Format: graph.Format{Depth: 24, BitsPerPixel: 32, ScanlinePad: 32}},
}

// Gray surfaces are converted into 32-bit pixels.
var grayNative = catalog[3].Format

// Device is the in-memory graph.Device.
type Device struct {
	ready bool
	order binary.ByteOrder
}

// New returns an uninitialized memory device.
func New() *Device {
	return &Device{}
}

var _ graph.Device = (*Device)(nil)

func (d *Device) Name() string { return "mem" }

func (d *Device) Init() error {
	if d.ready {
		return fmt.Errorf("mem: device already initialized")
	}
	d.ready = true
	d.order = binary.LittleEndian
	if cpu.IsBigEndian {
		d.order = binary.BigEndian
	}
	return nil
}

func (d *Device) Done() error {
	if !d.ready {
		return graph.ErrNotInitialized
	}
	d.ready = false
	return nil
}

func (d *Device) Info() graph.DeviceInfo {
	info := graph.DeviceInfo{Name: d.Name(), SurfaceSize: unsafe.Sizeof(Surface{})}
	if d.ready {
		info.Modes = append(info.Modes, catalog...)
	}
	return info
}

// Surface is a memory surface. Snapshot shows what a display would.
type Surface struct {
	bitmap graph.Bitmap
	native pixconv.Image
	format graph.Format
	order  binary.ByteOrder
	gray   bool
	ramp   pixconv.Ramp
	title  string
	keys   graph.KeyQueue
}

var _ graph.Surface = (*Surface)(nil)

func (d *Device) NewSurface(bm *graph.Bitmap) (graph.Surface, error) {
	if !d.ready {
		return nil, graph.ErrNotInitialized
	}
	if bm.Width <= 0 || bm.Rows <= 0 {
		return nil, fmt.Errorf("mem: surface %dx%d: %w", bm.Width, bm.Rows, graph.ErrBadArgument)
	}
	s := &Surface{order: d.order}
	s.gray = bm.Mode == graph.ModeGray && bm.Grays >= 2
	if s.gray {
		s.format = grayNative
	} else {
		var ok bool
		if s.format, ok = lookup(bm.Mode); !ok {
			return nil, fmt.Errorf("mem: mode %v: %w", bm.Mode, graph.ErrBadArgument)
		}
	}
	pitch := s.format.Pitch(bm.Width)
	s.native = pixconv.Image{
		Buf:           make([]byte, pitch*bm.Rows),
		Pitch:         pitch,
		BytesPerPixel: s.format.BitsPerPixel / 8,
		MSBFirst:      cpu.IsBigEndian,
	}
	s.bitmap = graph.Bitmap{Mode: bm.Mode, Width: bm.Width, Rows: bm.Rows}
	if s.gray {
		s.bitmap.Grays = bm.Grays
		if s.bitmap.Grays > 256 {
			s.bitmap.Grays = 256
		}
		s.bitmap.Pitch = graph.GrayPitch(bm.Width)
		s.bitmap.Buffer = bm.Buffer
		if len(s.bitmap.Buffer) < s.bitmap.Pitch*bm.Rows {
			s.bitmap.Buffer = make([]byte, s.bitmap.Pitch*bm.Rows)
		}
		for i := 0; i < s.bitmap.Grays; i++ {
			v := uint32(graph.GrayLevel(i, s.bitmap.Grays) >> 8)
			s.ramp[i] = v<<16 | v<<8 | v
		}
	} else {
		s.bitmap.Width = s.format.PaddedBits(bm.Width) / s.format.BitsPerPixel
		s.bitmap.Pitch = pitch
		s.bitmap.Buffer = s.native.Buf
	}
	*bm = s.bitmap
	s.RefreshAll()
	tracer().Debugf("surface %dx%d %v", s.bitmap.Width, s.bitmap.Rows, s.bitmap.Mode)
	return s, nil
}

func lookup(mode graph.PixelMode) (graph.Format, bool) {
	for _, mf := range catalog {
		if mf.Mode == mode {
			return mf.Format, true
		}
	}
	return graph.Format{}, false
}

func (s *Surface) Bitmap() *graph.Bitmap { return &s.bitmap }

func (s *Surface) Refresh(r image.Rectangle) {
	r, ok := pixconv.Clip(r, s.bitmap.Bounds())
	if ok && s.gray && s.native.Buf != nil {
		pixconv.Gray(&s.native, s.bitmap.Buffer, s.bitmap.Pitch, &s.ramp, r)
	}
}

func (s *Surface) RefreshAll() { s.Refresh(s.bitmap.Bounds()) }

func (s *Surface) SetTitle(title string) { s.title = title }

// Title returns the last title set.
func (s *Surface) Title() string { return s.title }

func (s *Surface) Feed(keys string) { s.keys.Push(keys) }

// NextEvent returns the next fed key, or io.EOF once none are left.
func (s *Surface) NextEvent(mask graph.EventMask) (graph.KeyEvent, error) {
	if ev, ok := s.keys.Pop(); ok {
		return ev, nil
	}
	return graph.KeyEvent{}, io.EOF
}

func (s *Surface) Close() error {
	s.native.Buf = nil
	s.bitmap.Buffer = nil
	return nil
}

// Snapshot decodes the native buffer into an image.
func (s *Surface) Snapshot() image.Image {
	w, h := s.bitmap.Width, s.bitmap.Rows
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if s.native.Buf == nil {
		return img
	}
	bpp := s.native.BytesPerPixel
	for y := 0; y < h; y++ {
		row := s.native.Buf[y*s.native.Pitch:]
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, s.pixel(row[x*bpp:x*bpp+bpp]))
		}
	}
	return img
}

func (s *Surface) pixel(b []byte) color.RGBA {
	var p uint32
	switch len(b) {
	case 2:
		p = uint32(s.order.Uint16(b))
		r, g, bl := p>>11&0x1f, p>>5&0x3f, p&0x1f
		return color.RGBA{byte(r<<3 | r>>2), byte(g<<2 | g>>4), byte(bl<<3 | bl>>2), 0xff}
	case 3:
		if s.order == binary.BigEndian {
			p = uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
		} else {
			p = uint32(b[2])<<16 | uint32(b[1])<<8 | uint32(b[0])
		}
	case 4:
		p = s.order.Uint32(b)
	}
	return color.RGBA{byte(p >> 16), byte(p >> 8), byte(p), 0xff}
}
