package x11

import (
	"ftgraph.dev/go/graph"
	"ftgraph.dev/go/graph/pixconv"
	"github.com/BurntSushi/xgb/xproto"
)

// A rampEntry is one allocated gray level.
type rampEntry struct {
	Red, Green, Blue uint16
	Pixel            uint32
}

// A colorAllocator hands out native pixels for RGB values, adjusting them
// to the nearest color the colormap can show.
type colorAllocator interface {
	AllocColor(red, green, blue uint16) (rampEntry, error)
}

// grayStep returns the spacing of distinctly allocated levels so that a
// PseudoColor visual of the given depth keeps half of its colormap free.
func grayStep(class byte, depth, grays int) int {
	step := 1
	if class != xproto.VisualClassPseudoColor || depth < 1 {
		return step
	}
	half := 1 << uint(depth-1)
	for grays/step > half {
		step++
	}
	return step
}

// allocGrayRamp allocates grays levels fading from white to black.
// On a constrained colormap only every step-th level gets its own color
// and the levels in between share it. A refused allocation is fatal.
func allocGrayRamp(alloc colorAllocator, class byte, depth, grays int) (ramp [256]rampEntry) {
	if grays > len(ramp) {
		grays = len(ramp)
	}
	step := grayStep(class, depth, grays)
	if step > 1 {
		tracer().Infof("warning: number of colours reduced from %d to %d", grays, grays/step)
	}
	for i := 0; i < grays; i += step {
		v := graph.GrayLevel(i, grays)
		e, err := alloc.AllocColor(v, v, v)
		if err != nil {
			graph.Fatalf("x11: cannot allocate colour %04x: %v", v, err)
			return ramp
		}
		for j := 0; j < step && i+j < grays; j++ {
			ramp[i+j] = e
		}
	}
	return ramp
}

// pixels extracts the native pixel values of a ramp.
func pixels(ramp *[256]rampEntry) *pixconv.Ramp {
	var p pixconv.Ramp
	for i, e := range ramp {
		p[i] = e.Pixel
	}
	return &p
}

// colormapAllocator allocates read-only cells of one colormap.
type colormapAllocator struct {
	dpy  display
	cmap xproto.Colormap
}

func (a colormapAllocator) AllocColor(red, green, blue uint16) (rampEntry, error) {
	return a.dpy.AllocColor(a.cmap, red, green, blue)
}
