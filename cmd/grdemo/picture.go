package main

import (
	"image"
	"image/color"

	"ftgraph.dev/go/graph"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// A picture draws the demo scene into a gray bitmap: a gradient over the
// whole ramp, a table of the printable Latin-1 characters and a status line.
type picture struct {
	bm       *graph.Bitmap
	rotation int // quarter turns of the gradient
	status   string
}

var face = basicfont.Face7x13

func (p *picture) draw() {
	img := p.bm.Gray()
	if img == nil {
		p.bm.Fill(0)
		return
	}
	p.gradient(img)

	ink := image.NewUniform(color.Gray{Y: byte(p.bm.Grays - 1)})
	d := &font.Drawer{Dst: img, Src: ink, Face: face}
	m := face.Metrics()
	lineHeight := m.Height.Ceil()
	cell := face.Advance + 3

	const perLine = 16
	y := m.Ascent.Ceil() + 4
	for row := 2; row < 16; row++ {
		if row == 8 || row == 9 {
			continue
		}
		x := 4
		for col := 0; col < perLine; col++ {
			c := byte(row*perLine + col)
			d.Dot = fixed.P(x, y)
			d.DrawString(latin1String(c))
			x += cell
		}
		y += lineHeight
	}
	if p.status != "" {
		d.Dot = fixed.P(4, p.bm.Rows-m.Descent.Ceil()-2)
		d.DrawString(p.status)
	}
}

// gradient fills img with the levels of the ramp, brightest at the edge
// selected by the rotation.
func (p *picture) gradient(img *image.Gray) {
	levels := p.bm.Grays / 2
	if levels < 1 {
		levels = 1
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[y*img.Stride:]
		for x := b.Min.X; x < b.Max.X; x++ {
			var t, n int
			switch p.rotation % 4 {
			case 0:
				t, n = x, b.Dx()
			case 1:
				t, n = y, b.Dy()
			case 2:
				t, n = b.Dx()-1-x, b.Dx()
			case 3:
				t, n = b.Dy()-1-y, b.Dy()
			}
			row[x] = byte(t * levels / n)
		}
	}
}

func (p *picture) rotate() {
	p.rotation = (p.rotation + 1) % 4
}

func latin1String(c byte) string {
	return string(rune(c))
}
