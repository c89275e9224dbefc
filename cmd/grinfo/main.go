// Grinfo prints the pixel modes a graph device can show.
//
// Usage:
//
//	grinfo [-device x11|mem] [-display name] [-trace level]
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"ftgraph.dev/go/graph"
	"ftgraph.dev/go/graph/mem"
	"ftgraph.dev/go/graph/x11"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
)

var (
	device  = flag.String("device", "x11", "graph `device`: x11 or mem")
	display = flag.String("display", "", "X `display` (default $DISPLAY)")
	level   = flag.String("trace", "Error", "trace `level`: Error, Info or Debug")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: grinfo [options]\n")
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	log.SetPrefix("grinfo: ")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 0 {
		usage()
	}

	// one tracer for every key; -trace Debug shows the server's formats
	tracing.SetTraceSelector(tracing.SelectorForAdapter(gologadapter.GetAdapter()))
	tracing.Select("graph").SetTraceLevel(tracing.TraceLevelFromString(*level))

	var d graph.Device
	switch *device {
	case "x11":
		d = x11.New(x11.Options{Display: *display})
	case "mem":
		d = mem.New()
	default:
		usage()
	}
	if err := d.Init(); err != nil {
		log.Fatal(err)
	}
	defer d.Done()
	printInfo(os.Stdout, d.Info())
}

func printInfo(w io.Writer, info graph.DeviceInfo) {
	fmt.Fprintf(w, "device %s, surface record %d bytes\n", info.Name, info.SurfaceSize)
	fmt.Fprintf(w, "mode    depth  pixbits  scanpad\n")
	for _, mf := range info.Modes {
		f := mf.Format
		fmt.Fprintf(w, "%-6s  %5d  %7d  %7d\n", mf.Mode, f.Depth, f.BitsPerPixel, f.ScanlinePad)
	}
}
