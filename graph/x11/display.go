package x11

import (
	"fmt"
	"image"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// Glyphs of the standard cursor font.
const (
	cursorLeftPtr = 68
	cursorWatch   = 150
)

// A display is the set of X requests the device issues. The xgb
// connection implements it; tests substitute a recording fake.
type display interface {
	WaitForEvent() (xgb.Event, xgb.Error)
	Flush()
	Close()

	AllocColor(cmap xproto.Colormap, red, green, blue uint16) (rampEntry, error)
	KeyboardMapping() (*keymap, error)

	CreateWindow(p windowParams) (xproto.Window, xproto.Gcontext, error)
	DestroyWindow(win xproto.Window, gc xproto.Gcontext)
	SetBusy(win xproto.Window, busy bool)
	PutImage(win xproto.Window, gc xproto.Gcontext, format, depth byte, r image.Rectangle, data []byte)
	SetTitle(win xproto.Window, latin1 []byte, utf8 string)
}

// windowParams describe a top-level window to create.
type windowParams struct {
	Depth         byte
	Visual        xproto.Visualid
	Width, Height int
}

// xgbDisplay talks to a live X server.
type xgbDisplay struct {
	conn   *xgb.Conn
	setup  *xproto.SetupInfo
	screen *xproto.ScreenInfo

	font       xproto.Font
	idle, busy xproto.Cursor
	netWMName  xproto.Atom
	utf8String xproto.Atom
}

// dial connects to the named display, or to $DISPLAY if name is empty.
func dial(name string) (*xgbDisplay, error) {
	conn, err := xgb.NewConnDisplay(name)
	if err != nil {
		return nil, fmt.Errorf("x11: cannot open display %q: %w", name, err)
	}
	d := &xgbDisplay{conn: conn}
	d.setup = xproto.Setup(conn)
	d.screen = d.setup.DefaultScreen(conn)
	if err := d.openCursors(); err != nil {
		conn.Close()
		return nil, err
	}
	d.netWMName = d.atom("_NET_WM_NAME")
	d.utf8String = d.atom("UTF8_STRING")
	return d, nil
}

func (d *xgbDisplay) openCursors() error {
	var err error
	if d.font, err = xproto.NewFontId(d.conn); err != nil {
		return fmt.Errorf("x11: cursor font: %w", err)
	}
	const name = "cursor"
	if err = xproto.OpenFontChecked(d.conn, d.font, uint16(len(name)), name).Check(); err != nil {
		return fmt.Errorf("x11: cursor font: %w", err)
	}
	glyph := func(c uint16) (xproto.Cursor, error) {
		id, err := xproto.NewCursorId(d.conn)
		if err != nil {
			return 0, err
		}
		xproto.CreateGlyphCursor(d.conn, id, d.font, d.font, c, c+1,
			0, 0, 0, 0xffff, 0xffff, 0xffff)
		return id, nil
	}
	if d.idle, err = glyph(cursorLeftPtr); err != nil {
		return fmt.Errorf("x11: idle cursor: %w", err)
	}
	if d.busy, err = glyph(cursorWatch); err != nil {
		return fmt.Errorf("x11: busy cursor: %w", err)
	}
	return nil
}

func (d *xgbDisplay) atom(name string) xproto.Atom {
	reply, err := xproto.InternAtom(d.conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		tracer().Infof("cannot intern atom %s: %v", name, err)
		return xproto.AtomNone
	}
	return reply.Atom
}

func (d *xgbDisplay) WaitForEvent() (xgb.Event, xgb.Error) {
	return d.conn.WaitForEvent()
}

func (d *xgbDisplay) Flush() {
	d.conn.Sync()
}

func (d *xgbDisplay) Close() {
	xproto.FreeCursor(d.conn, d.idle)
	xproto.FreeCursor(d.conn, d.busy)
	xproto.CloseFont(d.conn, d.font)
	d.conn.Sync()
	d.conn.Close()
}

func (d *xgbDisplay) AllocColor(cmap xproto.Colormap, red, green, blue uint16) (rampEntry, error) {
	reply, err := xproto.AllocColor(d.conn, cmap, red, green, blue).Reply()
	if err != nil {
		return rampEntry{}, err
	}
	return rampEntry{Red: reply.Red, Green: reply.Green, Blue: reply.Blue, Pixel: reply.Pixel}, nil
}

func (d *xgbDisplay) KeyboardMapping() (*keymap, error) {
	min, max := d.setup.MinKeycode, d.setup.MaxKeycode
	reply, err := xproto.GetKeyboardMapping(d.conn, min, byte(max-min+1)).Reply()
	if err != nil {
		return nil, fmt.Errorf("x11: keyboard mapping: %w", err)
	}
	return newKeymap(min, reply), nil
}

func (d *xgbDisplay) CreateWindow(p windowParams) (xproto.Window, xproto.Gcontext, error) {
	win, err := xproto.NewWindowId(d.conn)
	if err != nil {
		return 0, 0, fmt.Errorf("x11: window id: %w", err)
	}
	gc, err := xproto.NewGcontextId(d.conn)
	if err != nil {
		return 0, 0, fmt.Errorf("x11: gc id: %w", err)
	}
	s := d.screen
	err = xproto.CreateWindowChecked(d.conn, p.Depth, win, s.Root,
		0, 0, uint16(p.Width), uint16(p.Height), 10,
		xproto.WindowClassInputOutput, p.Visual,
		xproto.CwBackPixel|xproto.CwBorderPixel|xproto.CwEventMask|xproto.CwCursor,
		[]uint32{
			s.WhitePixel,
			s.BlackPixel,
			xproto.EventMaskKeyPress | xproto.EventMaskExposure,
			uint32(d.busy),
		}).Check()
	if err != nil {
		return 0, 0, fmt.Errorf("x11: create window: %w", err)
	}
	xproto.MapWindow(d.conn, win)
	xproto.CreateGC(d.conn, gc, xproto.Drawable(s.Root),
		xproto.GcForeground|xproto.GcBackground,
		[]uint32{s.BlackPixel, s.WhitePixel})
	return win, gc, nil
}

func (d *xgbDisplay) DestroyWindow(win xproto.Window, gc xproto.Gcontext) {
	xproto.UnmapWindow(d.conn, win)
	xproto.DestroyWindow(d.conn, win)
	xproto.FreeGC(d.conn, gc)
}

func (d *xgbDisplay) SetBusy(win xproto.Window, busy bool) {
	c := d.idle
	if busy {
		c = d.busy
	}
	xproto.ChangeWindowAttributes(d.conn, win, xproto.CwCursor, []uint32{uint32(c)})
}

func (d *xgbDisplay) PutImage(win xproto.Window, gc xproto.Gcontext, format, depth byte, r image.Rectangle, data []byte) {
	xproto.PutImage(d.conn, format, xproto.Drawable(win), gc,
		uint16(r.Dx()), uint16(r.Dy()), int16(r.Min.X), int16(r.Min.Y),
		0, depth, data)
}

func (d *xgbDisplay) SetTitle(win xproto.Window, latin1 []byte, utf8 string) {
	for _, prop := range []xproto.Atom{xproto.AtomWmName, xproto.AtomWmIconName} {
		xproto.ChangeProperty(d.conn, xproto.PropModeReplace, win, prop,
			xproto.AtomString, 8, uint32(len(latin1)), latin1)
	}
	if d.netWMName != xproto.AtomNone && d.utf8String != xproto.AtomNone {
		xproto.ChangeProperty(d.conn, xproto.PropModeReplace, win, d.netWMName,
			d.utf8String, 8, uint32(len(utf8)), []byte(utf8))
	}
}
