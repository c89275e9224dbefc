package x11

import (
	"fmt"

	"ftgraph.dev/go/graph"
	"github.com/BurntSushi/xgb/xproto"
)

// maxPixelModes bounds the catalog; a server reporting more is broken.
const maxPixelModes = 100

// grayFormat backs the gray mode whatever the display offers:
// gray bitmaps are always 8 bits per pixel and get converted on refresh.
var grayFormat = graph.Format{Depth: 8, BitsPerPixel: 8, ScanlinePad: 8}

// A catalog is the ordered list of pixel modes a display supports.
type catalog struct {
	entries []graph.ModeFormat
}

func (c *catalog) add(mode graph.PixelMode, f graph.Format) error {
	mf := graph.ModeFormat{Mode: mode, Format: f}
	for _, e := range c.entries {
		if e == mf {
			return nil
		}
	}
	if len(c.entries) >= maxPixelModes {
		return fmt.Errorf("x11: cannot add %v: %w (limit %d)", mf, graph.ErrTooManyModes, maxPixelModes)
	}
	c.entries = append(c.entries, mf)
	return nil
}

// byMode returns the first entry for mode.
func (c *catalog) byMode(mode graph.PixelMode) (graph.ModeFormat, bool) {
	for _, e := range c.entries {
		if e.Mode == mode {
			return e, true
		}
	}
	return graph.ModeFormat{}, false
}

// byDepth returns the first entry whose native depth is depth. Formats
// reported by the server win over the synthetic gray entry, whose 8-bit
// scanline pad the server does not know.
func (c *catalog) byDepth(depth int) (graph.ModeFormat, bool) {
	var gray graph.ModeFormat
	found := false
	for _, e := range c.entries {
		if e.Format.Depth != depth {
			continue
		}
		if e.Mode != graph.ModeGray {
			return e, true
		}
		if !found {
			gray, found = e, true
		}
	}
	return gray, found
}

func (c *catalog) modes() []graph.ModeFormat {
	return append([]graph.ModeFormat(nil), c.entries...)
}

// discover builds the catalog from the connection setup. Gray comes
// first, then the server's pixmap formats in the order reported.
// Formats without an abstract mode are skipped.
func discover(setup *xproto.SetupInfo, screen *xproto.ScreenInfo) (*catalog, error) {
	c := new(catalog)
	if err := c.add(graph.ModeGray, grayFormat); err != nil {
		return nil, err
	}
	tracer().Debugf("available pixmap formats")
	tracer().Debugf("depth  pixbits  scanpad")
	for _, pf := range setup.PixmapFormats {
		f := graph.Format{
			Depth:        int(pf.Depth),
			BitsPerPixel: int(pf.BitsPerPixel),
			ScanlinePad:  int(pf.ScanlinePad),
		}
		tracer().Debugf(" %3d     %3d      %3d", f.Depth, f.BitsPerPixel, f.ScanlinePad)
		var err error
		switch f.Depth {
		case 1:
			err = c.add(graph.ModeMono, f)
		case 8:
			err = c.add(graph.ModePal8, f)
		case 24:
			// 32-bit pixels report a depth of 24
			traceVisuals(screen, f.Depth)
			switch f.BitsPerPixel {
			case 24:
				err = c.add(graph.ModeRGB24, f)
			case 32:
				err = c.add(graph.ModeRGB32, f)
			}
		case 16:
			for _, v := range visualsOfDepth(screen, f.Depth) {
				traceVisual(v)
				if mode, ok := classify16(v.RedMask, v.GreenMask, v.BlueMask); ok {
					if err = c.add(mode, f); err != nil {
						break
					}
				}
			}
		}
		if err != nil {
			return nil, err
		}
	}
	return c, nil
}

// classify16 maps the channel masks of a 16-bit visual to a pixel mode.
func classify16(red, green, blue uint32) (graph.PixelMode, bool) {
	switch {
	case red == 0xf800 && green == 0x07e0 && blue == 0x001f:
		return graph.ModeRGB565, true
	case red == 0x7c00 && green == 0x03e0 && blue == 0x001f:
		return graph.ModeRGB555, true
	}
	return graph.ModeNone, false
}

func visualsOfDepth(screen *xproto.ScreenInfo, depth int) []xproto.VisualInfo {
	if screen == nil {
		return nil
	}
	var vs []xproto.VisualInfo
	for _, d := range screen.AllowedDepths {
		if int(d.Depth) == depth {
			vs = append(vs, d.Visuals...)
		}
	}
	return vs
}

// findVisual returns the visual with the given id.
func findVisual(screen *xproto.ScreenInfo, id xproto.Visualid) (xproto.VisualInfo, bool) {
	for _, d := range screen.AllowedDepths {
		for _, v := range d.Visuals {
			if v.VisualId == id {
				return v, true
			}
		}
	}
	return xproto.VisualInfo{}, false
}

var visualClassNames = map[byte]string{
	xproto.VisualClassStaticGray:  "StaticGray",
	xproto.VisualClassGrayScale:   "GrayScale",
	xproto.VisualClassStaticColor: "StaticColor",
	xproto.VisualClassPseudoColor: "PseudoColor",
	xproto.VisualClassTrueColor:   "TrueColor",
	xproto.VisualClassDirectColor: "DirectColor",
}

func visualClassName(class byte) string {
	if s, ok := visualClassNames[class]; ok {
		return s
	}
	return "unknown"
}

func traceVisuals(screen *xproto.ScreenInfo, depth int) {
	if vs := visualsOfDepth(screen, depth); len(vs) > 0 {
		traceVisual(vs[0])
	}
}

func traceVisual(v xproto.VisualInfo) {
	tracer().Debugf(">   RGB %04x:%04x:%04x, colors %3d, bits %2d  %s",
		v.RedMask, v.GreenMask, v.BlueMask,
		v.ColormapEntries, v.BitsPerRgbValue, visualClassName(v.Class))
}
