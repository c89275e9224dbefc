package x11

import (
	"fmt"
	"image"

	"ftgraph.dev/go/graph"
	"ftgraph.dev/go/graph/pixconv"
	"github.com/BurntSushi/xgb/xproto"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// putImageHeader is the size of a PutImage request without its data.
const putImageHeader = 24

// A surface is a mapped window with its logical bitmap and the native
// image presented into it. Gray surfaces keep the two apart; for every
// other mode they share one buffer.
type surface struct {
	b *backend

	bitmap graph.Bitmap
	native pixconv.Image
	format graph.Format
	width  int
	rows   int
	gray   bool

	imageFormat    byte // ZPixmap or XYBitmap
	imageDepth     byte
	effectiveDepth int

	win xproto.Window
	gc  xproto.Gcontext

	ramp   [256]rampEntry
	pixels *pixconv.Ramp

	keys   graph.KeyQueue
	closed bool
}

var _ graph.Surface = (*surface)(nil)

func (b *backend) newSurface(bm *graph.Bitmap) (*surface, error) {
	l, err := planLayout(b.cat, b.rootDepth, *bm)
	if err != nil {
		return nil, err
	}
	s := &surface{
		b:              b,
		bitmap:         l.logical,
		format:         l.entry.Format,
		width:          l.width,
		rows:           l.rows,
		gray:           l.gray,
		imageFormat:    xproto.ImageFormatZPixmap,
		imageDepth:     byte(l.entry.Format.Depth),
		effectiveDepth: l.effectiveDepth,
	}
	s.native = pixconv.Image{
		Pitch:         l.pitch,
		BytesPerPixel: l.entry.Format.BitsPerPixel / 8,
		MSBFirst:      b.imageMSB,
	}
	if l.entry.Mode == graph.ModeMono && !l.gray {
		s.imageFormat = xproto.ImageFormatXYBitmap
		s.native.MSBFirst = true
	}

	if l.gray {
		if s.native.Buf, err = allocBuffer(l.nativeSize()); err != nil {
			return nil, err
		}
		if len(bm.Buffer) >= l.logicalSize() {
			s.bitmap.Buffer = bm.Buffer
		} else if s.bitmap.Buffer, err = allocBuffer(l.logicalSize()); err != nil {
			graph.Fatalf("x11: could not allocate surface bitmap: %v", err)
			return nil, err
		}
		s.ramp = allocGrayRamp(colormapAllocator{dpy: b.dpy, cmap: b.colormap},
			b.rootVisual.Class, l.entry.Format.Depth, s.bitmap.Grays)
		s.pixels = pixels(&s.ramp)
	} else {
		if len(bm.Buffer) >= l.nativeSize() {
			s.native.Buf = bm.Buffer
		} else if s.native.Buf, err = allocBuffer(l.nativeSize()); err != nil {
			return nil, err
		}
		s.bitmap.Buffer = s.native.Buf
	}

	s.win, s.gc, err = b.dpy.CreateWindow(windowParams{
		Depth:  byte(b.rootDepth),
		Visual: b.rootVisual.VisualId,
		Width:  s.width,
		Height: s.rows,
	})
	if err != nil {
		return nil, err
	}
	b.surfaces[s.win] = s
	tracer().Debugf("surface %dx%d %v on %v, colour depth %d, window %d",
		s.width, s.rows, s.bitmap.Mode, s.format, s.effectiveDepth, s.win)

	s.SetTitle(b.title)
	s.convert(s.bitmap.Bounds())
	*bm = s.bitmap
	return s, nil
}

func (s *surface) Bitmap() *graph.Bitmap {
	return &s.bitmap
}

// convert updates the native image inside r from the logical bitmap.
// Only gray surfaces need it.
func (s *surface) convert(r image.Rectangle) (image.Rectangle, bool) {
	r, ok := pixconv.Clip(r, s.bitmap.Bounds())
	if !ok {
		return r, false
	}
	if s.gray {
		pixconv.Gray(&s.native, s.bitmap.Buffer, s.bitmap.Pitch, s.pixels, r)
	}
	return r, true
}

// Refresh converts and presents the part of the bitmap inside r.
func (s *surface) Refresh(r image.Rectangle) {
	if s.closed {
		return
	}
	if r, ok := s.convert(r); ok {
		s.put(r)
	}
}

func (s *surface) RefreshAll() {
	s.Refresh(s.bitmap.Bounds())
}

// put uploads the native image inside r, in bands that fit into one
// request each.
func (s *surface) put(r image.Rectangle) {
	if s.imageFormat == xproto.ImageFormatXYBitmap {
		s.putBitmap(r)
		return
	}
	bpp := s.native.BytesPerPixel
	rowBytes := s.format.Pitch(r.Dx())
	direct := r.Min.X == 0 && rowBytes == s.native.Pitch
	for _, band := range bands(r, rowBytes, s.b.maxRequest) {
		var data []byte
		if direct {
			data = s.native.Buf[band.Min.Y*s.native.Pitch : band.Max.Y*s.native.Pitch]
		} else {
			data = make([]byte, rowBytes*band.Dy())
			n := bpp * band.Dx()
			for y, dst := band.Min.Y, data; y < band.Max.Y; y, dst = y+1, dst[rowBytes:] {
				off := y*s.native.Pitch + bpp*band.Min.X
				copy(dst[:n], s.native.Buf[off:off+n])
			}
		}
		s.b.dpy.PutImage(s.win, s.gc, s.imageFormat, s.imageDepth, band, data)
	}
}

// putBitmap uploads whole rows of a 1-bit image, repacked into the
// server's bitmap order.
func (s *surface) putBitmap(r image.Rectangle) {
	r.Min.X, r.Max.X = 0, s.width
	pad := graph.Format{Depth: 1, BitsPerPixel: 1, ScanlinePad: s.b.bitmapPad}
	rowBytes := pad.Pitch(s.width)
	n := rowBytes
	if s.native.Pitch < n {
		n = s.native.Pitch
	}
	for _, band := range bands(r, rowBytes, s.b.maxRequest) {
		data := make([]byte, rowBytes*band.Dy())
		for y, dst := band.Min.Y, data; y < band.Max.Y; y, dst = y+1, dst[rowBytes:] {
			off := y * s.native.Pitch
			copy(dst[:n], s.native.Buf[off:off+n])
		}
		pixconv.RepackBitmap(data, data, s.b.bitmapUnit, s.b.bitmapLSB, !s.b.imageMSB)
		s.b.dpy.PutImage(s.win, s.gc, s.imageFormat, 1, band, data)
	}
}

// bands splits r into horizontal strips whose PutImage request stays
// within maxRequest bytes. A maxRequest of zero means no limit.
func bands(r image.Rectangle, rowBytes, maxRequest int) []image.Rectangle {
	if r.Empty() {
		return nil
	}
	rows := r.Dy()
	if maxRequest > 0 && rowBytes > 0 {
		rows = (maxRequest - putImageHeader) / rowBytes
		if rows < 1 {
			rows = 1
		}
	}
	var out []image.Rectangle
	for y := r.Min.Y; y < r.Max.Y; y += rows {
		b := r
		b.Min.Y = y
		if y+rows < r.Max.Y {
			b.Max.Y = y + rows
		}
		out = append(out, b)
	}
	return out
}

var latin1 = encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder())

// SetTitle names the window. Window managers that only read the Latin-1
// property see unrepresentable characters replaced.
func (s *surface) SetTitle(title string) {
	if s.closed {
		return
	}
	text, err := latin1.Bytes([]byte(title))
	if err != nil {
		tracer().Infof("title %q: %v", title, err)
		text = nil
	}
	s.b.dpy.SetTitle(s.win, text, title)
}

// Feed queues keys for NextEvent.
func (s *surface) Feed(keys string) {
	s.keys.Push(keys)
}

// Close destroys the window and drops both buffers. Closing twice is
// harmless.
func (s *surface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	delete(s.b.surfaces, s.win)
	s.b.dpy.DestroyWindow(s.win, s.gc)
	s.b.dpy.Flush()
	s.native.Buf = nil
	s.bitmap.Buffer = nil
	s.pixels = nil
	return nil
}

func (s *surface) String() string {
	return fmt.Sprintf("x11 surface %d (%dx%d %v)", s.win, s.width, s.rows, s.bitmap.Mode)
}
