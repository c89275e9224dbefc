package x11

import (
	"errors"
	"fmt"
	"unsafe"

	"ftgraph.dev/go/graph"
	"github.com/BurntSushi/xgb/xproto"
)

// DefaultTitle is the window title used when Options.Title is empty.
const DefaultTitle = "FreeType"

// Options configure the X11 device.
type Options struct {
	Display string // X display name; empty means $DISPLAY
	Title   string // initial window title
}

// Device is the X11 graph.Device.
type Device struct {
	opts Options
	b    *backend
}

// New returns an uninitialized X11 device.
func New(opts Options) *Device {
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	return &Device{opts: opts}
}

var _ graph.Device = (*Device)(nil)

// A backend holds everything an open display session owns.
type backend struct {
	dpy   display
	title string

	rootDepth  int
	rootVisual xproto.VisualInfo
	colormap   xproto.Colormap
	imageMSB   bool // ZPixmap byte order
	bitmapLSB  bool // XYBitmap bit order
	bitmapUnit int  // XYBitmap scanline unit in bytes
	bitmapPad  int  // XYBitmap scanline pad in bits
	maxRequest int  // in bytes

	cat      *catalog
	keys     *keymap
	surfaces map[xproto.Window]*surface
}

func newBackend(dpy display, setup *xproto.SetupInfo, screen *xproto.ScreenInfo, title string) (*backend, error) {
	b := &backend{
		dpy:        dpy,
		title:      title,
		rootDepth:  int(screen.RootDepth),
		colormap:   screen.DefaultColormap,
		imageMSB:   setup.ImageByteOrder == xproto.ImageOrderMSBFirst,
		bitmapLSB:  setup.BitmapFormatBitOrder == xproto.ImageOrderLSBFirst,
		bitmapUnit: int(setup.BitmapFormatScanlineUnit) / 8,
		bitmapPad:  int(setup.BitmapFormatScanlinePad),
		maxRequest: int(setup.MaximumRequestLength) * 4,
		surfaces:   make(map[xproto.Window]*surface),
	}
	v, ok := findVisual(screen, screen.RootVisual)
	if !ok {
		return nil, fmt.Errorf("x11: root visual %d not among the screen's visuals", screen.RootVisual)
	}
	b.rootVisual = v
	cat, err := discover(setup, screen)
	if err != nil {
		if errors.Is(err, graph.ErrTooManyModes) {
			graph.Fatalf("%v", err)
		}
		return nil, err
	}
	b.cat = cat
	if b.keys, err = dpy.KeyboardMapping(); err != nil {
		tracer().Infof("no keyboard map, keys will not translate: %v", err)
	}
	return b, nil
}

func (d *Device) Name() string {
	return "x11"
}

// Init opens the display and builds the pixel-mode catalog.
// A display that cannot be reached is reported as an error; a catalog
// over capacity is fatal.
func (d *Device) Init() error {
	if d.b != nil {
		return errors.New("x11: device already initialized")
	}
	dpy, err := dial(d.opts.Display)
	if err != nil {
		return err
	}
	b, err := newBackend(dpy, dpy.setup, dpy.screen, d.opts.Title)
	if err != nil {
		dpy.Close()
		return err
	}
	d.b = b
	tracer().Debugf("display opened, default depth %d", b.rootDepth)
	return nil
}

// Done closes every surface still open and the display connection.
func (d *Device) Done() error {
	if d.b == nil {
		return graph.ErrNotInitialized
	}
	for _, s := range d.b.surfaces {
		s.Close()
	}
	d.b.dpy.Close()
	d.b = nil
	return nil
}

func (d *Device) Info() graph.DeviceInfo {
	info := graph.DeviceInfo{
		Name:        d.Name(),
		SurfaceSize: unsafe.Sizeof(surface{}),
	}
	if d.b != nil {
		info.Modes = d.b.cat.modes()
	}
	return info
}

// NewSurface creates a window for bm and maps it.
func (d *Device) NewSurface(bm *graph.Bitmap) (graph.Surface, error) {
	if d.b == nil {
		return nil, graph.ErrNotInitialized
	}
	s, err := d.b.newSurface(bm)
	if err != nil {
		return nil, err
	}
	return s, nil
}
