// Package x11 implements the graph.Device contract on an X11 display,
// speaking the X protocol through xgb.
//
// At Init the device reads the server's pixmap formats and visuals and
// reduces them to a catalog of abstract pixel modes. A gray surface is
// always possible: the bitmap is kept as 8-bit gray indices and converted
// into the native format of the screen's default depth through a ramp of
// allocated colors. Other modes draw straight into the native image.
package x11

import "github.com/npillmayer/schuko/tracing"

// tracer traces to the X11 device tracer.
func tracer() tracing.Trace {
	return tracing.Select("graph.x11")
}
