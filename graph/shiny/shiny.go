// Package shiny implements a graph.Device on top of a shiny screen.
//
// Shiny owns the main goroutine on some platforms, so programs run their
// graphics code through Device.Main:
//
//	d := shiny.New()
//	graph.Register(d)
//	d.Main(func() {
//		graph.Init()
//		...
//	})
package shiny

import (
	"errors"
	"fmt"
	"image"
	"unsafe"

	"ftgraph.dev/go/graph"
	"ftgraph.dev/go/graph/pixconv"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
)

func tracer() tracing.Trace {
	return tracing.Select("graph.shiny")
}

var catalog = []graph.ModeFormat{
	{Mode: graph.ModeGray, Format: graph.Format{Depth: 8, BitsPerPixel: 8, ScanlinePad: 8}},
	{Mode: graph.ModeRGB32, Format: graph.Format{Depth: 24, BitsPerPixel: 32, ScanlinePad: 32}},
}

// Device is the shiny graph.Device.
type Device struct {
	title  string
	screen screen.Screen
	ready  bool
}

// New returns a device whose windows are created with the given title.
func New(title string) *Device {
	return &Device{title: title}
}

var _ graph.Device = (*Device)(nil)

// Main starts the shiny driver and runs f while the screen is up.
// It must be called from the main goroutine and returns after f does.
func (d *Device) Main(f func()) {
	driver.Main(func(s screen.Screen) {
		d.screen = s
		defer func() { d.screen = nil }()
		f()
	})
}

func (d *Device) Name() string { return "shiny" }

func (d *Device) Init() error {
	if d.screen == nil {
		return errors.New("shiny: no screen, device must run under Main")
	}
	if d.ready {
		return errors.New("shiny: device already initialized")
	}
	d.ready = true
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
	info := graph.DeviceInfo{Name: d.Name(), SurfaceSize: unsafe.Sizeof(surface{})}
	if d.ready {
		info.Modes = append(info.Modes, catalog...)
	}
	return info
}

func (d *Device) NewSurface(bm *graph.Bitmap) (graph.Surface, error) {
	if !d.ready {
		return nil, graph.ErrNotInitialized
	}
	if err := checkRequest(bm); err != nil {
		return nil, err
	}
	w, err := d.screen.NewWindow(&screen.NewWindowOptions{
		Width:  bm.Width,
		Height: bm.Rows,
		Title:  d.title,
	})
	if err != nil {
		return nil, fmt.Errorf("shiny: new window: %w", err)
	}
	b, err := d.screen.NewBuffer(image.Pt(bm.Width, bm.Rows))
	if err != nil {
		w.Release()
		return nil, fmt.Errorf("shiny: new buffer: %v: %w", err, graph.ErrAllocFailed)
	}
	return newSurface(w, b, bm), nil
}

func checkRequest(bm *graph.Bitmap) error {
	if bm.Width <= 0 || bm.Rows <= 0 {
		return fmt.Errorf("shiny: surface %dx%d: %w", bm.Width, bm.Rows, graph.ErrBadArgument)
	}
	switch {
	case bm.Mode == graph.ModeGray && bm.Grays >= 2, bm.Mode == graph.ModeRGB32:
		return nil
	}
	return fmt.Errorf("shiny: mode %v: %w", bm.Mode, graph.ErrBadArgument)
}

// window is the part of screen.Window a surface uses.
type window interface {
	NextEvent() interface{}
	Upload(dp image.Point, src screen.Buffer, sr image.Rectangle)
	Publish() screen.PublishResult
	Release()
}

// A surface presents its bitmap through an RGBA upload buffer. Gray
// bitmaps are converted into it; rgb32 bitmaps are the buffer, with
// pixels stored as R, G, B, A bytes.
type surface struct {
	w      window
	buf    screen.Buffer
	bitmap graph.Bitmap
	native pixconv.Image
	gray   bool
	ramp   pixconv.Ramp
	keys   graph.KeyQueue
	closed bool
}

func newSurface(w window, buf screen.Buffer, bm *graph.Bitmap) *surface {
	rgba := buf.RGBA()
	s := &surface{
		w:   w,
		buf: buf,
		native: pixconv.Image{
			Buf:           rgba.Pix,
			Pitch:         rgba.Stride,
			BytesPerPixel: 4,
		},
		gray: bm.Mode == graph.ModeGray,
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
			s.ramp[i] = 0xff<<24 | v<<16 | v<<8 | v
		}
	} else {
		s.bitmap.Pitch = rgba.Stride
		s.bitmap.Buffer = rgba.Pix
	}
	*bm = s.bitmap
	return s
}

func (s *surface) Bitmap() *graph.Bitmap { return &s.bitmap }

func (s *surface) Refresh(r image.Rectangle) {
	if s.closed {
		return
	}
	r, ok := pixconv.Clip(r, s.bitmap.Bounds())
	if !ok {
		return
	}
	if s.gray {
		pixconv.Gray(&s.native, s.bitmap.Buffer, s.bitmap.Pitch, &s.ramp, r)
	}
	s.w.Upload(r.Min, s.buf, r)
	s.w.Publish()
}

func (s *surface) RefreshAll() { s.Refresh(s.bitmap.Bounds()) }

// SetTitle cannot rename a shiny window once it exists.
func (s *surface) SetTitle(title string) {
	tracer().Debugf("window title %q not applied", title)
}

func (s *surface) Feed(keys string) { s.keys.Push(keys) }

func (s *surface) NextEvent(mask graph.EventMask) (graph.KeyEvent, error) {
	if ev, ok := s.keys.Pop(); ok {
		return ev, nil
	}
	if s.closed {
		return graph.KeyEvent{}, graph.ErrDisplayClosed
	}
	for {
		switch e := s.w.NextEvent().(type) {
		case key.Event:
			if e.Direction != key.DirPress {
				break
			}
			if k, ok := translate(e); ok {
				return graph.KeyEvent{Kind: graph.EventKeyDown, Key: k}, nil
			}
		case paint.Event:
			s.RefreshAll()
		case size.Event:
			tracer().Debugf("window resized to %dx%d", e.WidthPx, e.HeightPx)
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return graph.KeyEvent{}, graph.ErrDisplayClosed
			}
		case error:
			tracer().Errorf("%v", e)
		}
	}
}

func (s *surface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.buf.Release()
	s.w.Release()
	s.native.Buf = nil
	s.bitmap.Buffer = nil
	return nil
}

// translate maps a key press to a key. It reports false for modifier
// keys.
func translate(e key.Event) (graph.Key, bool) {
	if int(e.Code) < len(codeKeys) {
		if k := codeKeys[e.Code]; k != graph.KeyNone {
			return k, true
		}
	}
	if e.Rune >= 0 && e.Rune <= 0xff {
		return graph.KeyChar(byte(e.Rune)), true
	}
	if modifierCodes[e.Code] {
		return graph.KeyNone, false
	}
	return graph.KeyUnknown, true
}

var codeKeys = [...]graph.Key{
	key.CodeReturnEnter:     graph.KeyReturn,
	key.CodeEscape:          graph.KeyEsc,
	key.CodeDeleteBackspace: graph.KeyBackSpace,
	key.CodeTab:             graph.KeyTab,

	key.CodeF1:  graph.KeyF1,
	key.CodeF2:  graph.KeyF2,
	key.CodeF3:  graph.KeyF3,
	key.CodeF4:  graph.KeyF4,
	key.CodeF5:  graph.KeyF5,
	key.CodeF6:  graph.KeyF6,
	key.CodeF7:  graph.KeyF7,
	key.CodeF8:  graph.KeyF8,
	key.CodeF9:  graph.KeyF9,
	key.CodeF10: graph.KeyF10,
	key.CodeF11: graph.KeyF11,
	key.CodeF12: graph.KeyF12,

	key.CodeInsert:        graph.KeyIns,
	key.CodeHome:          graph.KeyHome,
	key.CodePageUp:        graph.KeyPageUp,
	key.CodeDeleteForward: graph.KeyDel,
	key.CodeEnd:           graph.KeyEnd,
	key.CodePageDown:      graph.KeyPageDown,
	key.CodeRightArrow:    graph.KeyRight,
	key.CodeLeftArrow:     graph.KeyLeft,
	key.CodeDownArrow:     graph.KeyDown,
	key.CodeUpArrow:       graph.KeyUp,
	key.CodeKeypadEnter:   graph.KeyReturn,
}

var modifierCodes = map[key.Code]bool{
	key.CodeCapsLock:      true,
	key.CodeKeypadNumLock: true,
	key.CodeLeftControl:   true,
	key.CodeLeftShift:     true,
	key.CodeLeftAlt:       true,
	key.CodeLeftGUI:       true,
	key.CodeRightControl:  true,
	key.CodeRightShift:    true,
	key.CodeRightAlt:      true,
	key.CodeRightGUI:      true,
}
