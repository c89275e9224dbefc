// Package graph defines the pixel-surface contract shared by the display
// devices of the font demos.
//
// Devices
//
// A Device is a windowing backend: X11 (package x11), shiny (package shiny)
// or an in-memory device (package mem). Devices are registered with
// Register and brought up with Init; Init skips devices whose display cannot
// be reached, so a program may register several and use whichever works.
//
// Surfaces
//
// A Surface pairs a logical Bitmap, the buffer the application draws into,
// with a native presentation buffer and a window. For gray surfaces the
// bitmap holds gray indices 0..Grays-1, index 0 being the brightest level,
// and the device converts them into native pixels on every Refresh. For the
// other pixel modes the bitmap is the native buffer and is presented as is.
//
// Input
//
// Surface.NextEvent blocks until a key is pressed. Keys queued with
// Surface.Feed are returned first, without waiting on the display.
package graph

import "github.com/npillmayer/schuko/tracing"

// tracer traces to the graph tracer.
func tracer() tracing.Trace {
	return tracing.Select("graph")
}
