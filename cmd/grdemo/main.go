// Grdemo opens a surface on one of the graph devices, draws a test
// picture and echoes the names of the keys pressed.
//
// Usage:
//
//	grdemo [-device x11|shiny|mem] [-display name] [-mode gray] [-geometry WxH]
//	       [-grays n] [-title text] [-k keys] [-trace level] [-png file]
//
// Esc or q quits, F5 rotates the gradient. Keys given with -k are
// processed before any typed on the keyboard. The mem device has no
// keyboard and ends the demo once the -k keys are used up; -png then
// writes what the surface shows.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"os"

	"ftgraph.dev/go/graph"
	"ftgraph.dev/go/graph/mem"
	"ftgraph.dev/go/graph/shiny"
	"ftgraph.dev/go/graph/x11"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
)

func tracer() tracing.Trace {
	return tracing.Select("graph")
}

var (
	device   = flag.String("device", "x11", "graph `device`: x11, shiny or mem")
	display  = flag.String("display", "", "X `display` (default $DISPLAY)")
	mode     = flag.String("mode", "gray", "pixel `mode`")
	geometry = flag.String("geometry", "640x480", "window `size`")
	grays    = flag.Int("grays", 128, "number of gray `levels`")
	title    = flag.String("title", "FreeType", "window `title`")
	keys     = flag.String("k", "", "process `keys` before reading the keyboard")
	level    = flag.String("trace", "Error", "trace `level`: Error, Info or Debug")
	pngFile  = flag.String("png", "", "write the final surface to `file` (mem device)")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: grdemo [options]\n")
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	log.SetPrefix("grdemo: ")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 0 {
		usage()
	}
	if err := setupTracing(*level); err != nil {
		log.Fatal(err)
	}

	var err error
	switch *device {
	case "x11":
		graph.Register(x11.New(x11.Options{Display: *display, Title: *title}))
		err = run()
	case "shiny":
		d := shiny.New(*title)
		graph.Register(d)
		d.Main(func() { err = run() })
	case "mem":
		graph.Register(mem.New())
		err = run()
	default:
		usage()
	}
	if err != nil {
		log.Fatal(err)
	}
}

func setupTracing(level string) error {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":   "go",
		"trace.graph":       level,
		"trace.graph.x11":   level,
		"trace.graph.shiny": level,
		"trace.graph.mem":   level,
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return fmt.Errorf("configuring tracing: %w", err)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	return nil
}

func run() error {
	if err := graph.Init(); err != nil {
		return err
	}
	defer graph.Done()

	m, err := graph.ParsePixelMode(*mode)
	if err != nil {
		return err
	}
	r, _, err := parseGeometry(*geometry)
	if err != nil {
		return err
	}
	s, err := graph.NewScreenSurface(*device, m, r.Dx(), r.Dy(), *grays)
	if err != nil {
		return err
	}
	defer s.Close()
	s.SetTitle(*title)

	p := &picture{bm: s.Bitmap()}
	p.draw()
	s.RefreshAll()
	s.Feed(*keys)

	err = loop(s, p)
	if errors.Is(err, io.EOF) {
		err = nil
	}
	if err == nil && *pngFile != "" {
		err = writePNG(s, *pngFile)
	}
	return err
}

// loop echoes keys until the user quits or the device runs out of input.
func loop(s graph.Surface, p *picture) error {
	for {
		ev, err := s.NextEvent(graph.EventKey)
		if err != nil {
			return err
		}
		fmt.Println(ev.Key)
		switch ev.Key {
		case graph.KeyEsc, 'q':
			return nil
		case graph.KeyF5:
			p.rotate()
		}
		p.status = "last key: " + ev.Key.String()
		p.draw()
		s.RefreshAll()
	}
}

func writePNG(s graph.Surface, name string) error {
	snap, ok := s.(interface{ Snapshot() image.Image })
	if !ok {
		return fmt.Errorf("-png: the %s device cannot take snapshots", *device)
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := png.Encode(f, snap.Snapshot()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
