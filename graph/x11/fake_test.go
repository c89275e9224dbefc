package x11

import (
	"errors"
	"image"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

type putCall struct {
	format, depth byte
	r             image.Rectangle
	data          []byte
}

// fakeDisplay records requests and serves a scripted event stream.
type fakeDisplay struct {
	events  []xgb.Event
	waits   int
	flushes int
	closed  bool

	refuseColors bool
	colors       []rampEntry

	keys   *keymap
	remaps int

	windows   []windowParams
	destroyed []xproto.Window
	cursor    []bool
	puts      []putCall
	latin1    [][]byte
	utf8      []string
}

func (d *fakeDisplay) WaitForEvent() (xgb.Event, xgb.Error) {
	d.waits++
	if len(d.events) == 0 {
		return nil, nil
	}
	ev := d.events[0]
	d.events = d.events[1:]
	return ev, nil
}

func (d *fakeDisplay) Flush() { d.flushes++ }
func (d *fakeDisplay) Close() { d.closed = true }

func (d *fakeDisplay) AllocColor(cmap xproto.Colormap, red, green, blue uint16) (rampEntry, error) {
	if d.refuseColors {
		return rampEntry{}, errors.New("colormap full")
	}
	e := rampEntry{Red: red, Green: green, Blue: blue, Pixel: uint32(red>>8)<<16 | uint32(green>>8)<<8 | uint32(blue>>8)}
	d.colors = append(d.colors, e)
	return e, nil
}

func (d *fakeDisplay) KeyboardMapping() (*keymap, error) {
	d.remaps++
	if d.keys == nil {
		return nil, errors.New("no keyboard")
	}
	return d.keys, nil
}

// firstWindow is the id of the first window the fake display creates.
const firstWindow xproto.Window = 0x400001

func (d *fakeDisplay) CreateWindow(p windowParams) (xproto.Window, xproto.Gcontext, error) {
	d.windows = append(d.windows, p)
	n := len(d.windows)
	return xproto.Window(0x400000 + n), xproto.Gcontext(0x500000 + n), nil
}

func (d *fakeDisplay) DestroyWindow(win xproto.Window, gc xproto.Gcontext) {
	d.destroyed = append(d.destroyed, win)
}

func (d *fakeDisplay) SetBusy(win xproto.Window, busy bool) {
	d.cursor = append(d.cursor, busy)
}

func (d *fakeDisplay) PutImage(win xproto.Window, gc xproto.Gcontext, format, depth byte, r image.Rectangle, data []byte) {
	d.puts = append(d.puts, putCall{format, depth, r, append([]byte(nil), data...)})
}

func (d *fakeDisplay) SetTitle(win xproto.Window, latin1 []byte, utf8 string) {
	d.latin1 = append(d.latin1, latin1)
	d.utf8 = append(d.utf8, utf8)
}

// Keycodes of the test keyboard.
const (
	kcA      = 38
	kcOne    = 10
	kcReturn = 36
	kcShift  = 50
	kcF5     = 71
	kcKP1    = 87
	kcKPEnt  = 104
	kcMenu   = 135
	kcUnused = 200
)

func testKeymap() *keymap {
	const min, max, per = 8, 255, 2
	syms := make([]xproto.Keysym, (max-min+1)*per)
	set := func(code int, s ...xproto.Keysym) {
		copy(syms[(code-min)*per:], s)
	}
	set(kcA, 'a', 'A')
	set(kcOne, '1', '!')
	set(kcReturn, xkReturn)
	set(kcShift, 0xffe1)
	set(kcF5, xkF1+4)
	set(kcKP1, 0xff9c, 0xffb1)
	set(kcKPEnt, xkKPEnter)
	set(kcMenu, 0xff67)
	return newKeymap(min, &xproto.GetKeyboardMappingReply{KeysymsPerKeycode: per, Keysyms: syms})
}

const (
	rootVisual = 0x21
	visual565  = 0x22
	visual555  = 0x23
	visualOdd  = 0x24
	visualPal  = 0x25
)

func testSetup(formats ...xproto.Format) *xproto.SetupInfo {
	return &xproto.SetupInfo{
		ImageByteOrder:           xproto.ImageOrderLSBFirst,
		BitmapFormatBitOrder:     xproto.ImageOrderLSBFirst,
		BitmapFormatScanlineUnit: 32,
		BitmapFormatScanlinePad:  32,
		MaximumRequestLength:     0xffff,
		MinKeycode:               8,
		MaxKeycode:               255,
		PixmapFormats:            formats,
	}
}

func testScreen(rootDepth byte) *xproto.ScreenInfo {
	return &xproto.ScreenInfo{
		Root:            0x100,
		DefaultColormap: 0x20,
		WhitePixel:      0xffffff,
		RootVisual:      rootVisual,
		RootDepth:       rootDepth,
		AllowedDepths: []xproto.DepthInfo{
			{Depth: rootDepth, Visuals: []xproto.VisualInfo{
				{VisualId: rootVisual, Class: xproto.VisualClassTrueColor,
					BitsPerRgbValue: 8, ColormapEntries: 256,
					RedMask: 0xff0000, GreenMask: 0x00ff00, BlueMask: 0x0000ff},
			}},
			{Depth: 16, Visuals: []xproto.VisualInfo{
				{VisualId: visual565, Class: xproto.VisualClassTrueColor,
					RedMask: 0xf800, GreenMask: 0x07e0, BlueMask: 0x001f},
				{VisualId: visual555, Class: xproto.VisualClassTrueColor,
					RedMask: 0x7c00, GreenMask: 0x03e0, BlueMask: 0x001f},
				{VisualId: visualOdd, Class: xproto.VisualClassTrueColor,
					RedMask: 0x001f, GreenMask: 0x07e0, BlueMask: 0xf800},
			}},
		},
	}
}

// Pixmap formats of a common 24-bit server.
var (
	format1  = xproto.Format{Depth: 1, BitsPerPixel: 1, ScanlinePad: 32}
	format8  = xproto.Format{Depth: 8, BitsPerPixel: 8, ScanlinePad: 32}
	format16 = xproto.Format{Depth: 16, BitsPerPixel: 16, ScanlinePad: 32}
	format24 = xproto.Format{Depth: 24, BitsPerPixel: 32, ScanlinePad: 32}
	format32 = xproto.Format{Depth: 32, BitsPerPixel: 32, ScanlinePad: 32}
)

func newTestBackend(dpy *fakeDisplay, rootDepth byte, formats ...xproto.Format) (*backend, error) {
	if dpy.keys == nil {
		dpy.keys = testKeymap()
	}
	return newBackend(dpy, testSetup(formats...), testScreen(rootDepth), DefaultTitle)
}
