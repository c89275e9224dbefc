package shiny

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"ftgraph.dev/go/graph"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/paint"
)

type fakeBuffer struct {
	rgba     *image.RGBA
	released bool
}

func (b *fakeBuffer) Release()                { b.released = true }
func (b *fakeBuffer) Size() image.Point       { return b.rgba.Rect.Size() }
func (b *fakeBuffer) Bounds() image.Rectangle { return b.rgba.Rect }
func (b *fakeBuffer) RGBA() *image.RGBA       { return b.rgba }

type fakeWindow struct {
	events    []interface{}
	uploads   []image.Rectangle
	publishes int
	released  bool
}

func (w *fakeWindow) NextEvent() interface{} {
	if len(w.events) == 0 {
		return lifecycle.Event{To: lifecycle.StageDead}
	}
	e := w.events[0]
	w.events = w.events[1:]
	return e
}

func (w *fakeWindow) Upload(dp image.Point, src screen.Buffer, sr image.Rectangle) {
	w.uploads = append(w.uploads, sr)
}

func (w *fakeWindow) Publish() screen.PublishResult {
	w.publishes++
	return screen.PublishResult{}
}

func (w *fakeWindow) Release() { w.released = true }

func newTestSurface(bm *graph.Bitmap, events ...interface{}) (*fakeWindow, *fakeBuffer, *surface) {
	w := &fakeWindow{events: events}
	b := &fakeBuffer{rgba: image.NewRGBA(image.Rect(0, 0, bm.Width, bm.Rows))}
	return w, b, newSurface(w, b, bm)
}

func TestGrayRefresh(t *testing.T) {
	bm := &graph.Bitmap{Mode: graph.ModeGray, Width: 5, Rows: 2, Grays: 4}
	w, b, s := newTestSurface(bm)
	assert.Equal(t, 8, bm.Pitch)

	bm.Buffer[3] = 2
	s.Refresh(image.Rect(2, 0, 10, 1))
	assert.Equal(t, []image.Rectangle{image.Rect(2, 0, 5, 1)}, w.uploads)
	assert.Equal(t, 1, w.publishes)
	assert.Equal(t, color.RGBA{0x80, 0x80, 0x80, 0xff}, b.rgba.At(3, 0))
	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, b.rgba.At(2, 0))
	assert.Equal(t, color.RGBA{}, b.rgba.At(1, 0), "outside the refreshed area")

	s.Refresh(image.Rect(6, 0, 9, 2))
	assert.Len(t, w.uploads, 1)
}

func TestRGB32SharesBuffer(t *testing.T) {
	bm := &graph.Bitmap{Mode: graph.ModeRGB32, Width: 3, Rows: 3}
	_, b, _ := newTestSurface(bm)
	assert.Equal(t, &b.rgba.Pix[0], &bm.Buffer[0])
	assert.Equal(t, 12, bm.Pitch)
}

var translateTests = []struct {
	e    key.Event
	want graph.Key
	ok   bool
}{
	{key.Event{Rune: -1, Code: key.CodeF5}, graph.KeyF5, true},
	{key.Event{Rune: '\r', Code: key.CodeReturnEnter}, graph.KeyReturn, true},
	{key.Event{Rune: 'a', Code: key.CodeA}, 'a', true},
	{key.Event{Rune: 'é', Code: key.CodeE}, 0xe9, true},
	{key.Event{Rune: -1, Code: key.CodeLeftShift}, graph.KeyNone, false},
	{key.Event{Rune: '€', Code: key.CodeE}, graph.KeyUnknown, true},
	{key.Event{Rune: -1, Code: key.CodePageDown}, graph.KeyPageDown, true},
}

func TestTranslate(t *testing.T) {
	for _, tt := range translateTests {
		k, ok := translate(tt.e)
		assert.Equal(t, tt.ok, ok, "%v", tt.e)
		assert.Equal(t, tt.want, k, "%v", tt.e)
	}
}

func TestNextEvent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "graph.shiny")
	defer teardown()

	bm := &graph.Bitmap{Mode: graph.ModeGray, Width: 4, Rows: 4, Grays: 2}
	w, _, s := newTestSurface(bm,
		paint.Event{},
		key.Event{Rune: 'x', Code: key.CodeX, Direction: key.DirRelease},
		key.Event{Rune: -1, Code: key.CodeLeftShift, Direction: key.DirPress},
		key.Event{Rune: -1, Code: key.CodeF5, Direction: key.DirPress},
	)
	s.Feed("a")
	ev, err := s.NextEvent(graph.EventKey)
	require.NoError(t, err)
	assert.Equal(t, graph.Key('a'), ev.Key)
	assert.Len(t, w.events, 4, "fed keys do not touch the window")

	ev, err = s.NextEvent(graph.EventKey)
	require.NoError(t, err)
	assert.Equal(t, graph.KeyEvent{Kind: graph.EventKeyDown, Key: graph.KeyF5}, ev)
	assert.Equal(t, []image.Rectangle{bm.Bounds()}, w.uploads, "paint presents the surface")

	_, err = s.NextEvent(graph.EventKey)
	assert.True(t, errors.Is(err, graph.ErrDisplayClosed))
}

func TestClose(t *testing.T) {
	w, b, s := newTestSurface(&graph.Bitmap{Mode: graph.ModeRGB32, Width: 2, Rows: 2})
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.True(t, w.released)
	assert.True(t, b.released)
	s.RefreshAll()
	assert.Empty(t, w.uploads)
}

func TestDeviceWithoutScreen(t *testing.T) {
	d := New("test")
	assert.Error(t, d.Init())
	_, err := d.NewSurface(&graph.Bitmap{Mode: graph.ModeGray, Width: 1, Rows: 1, Grays: 2})
	assert.True(t, errors.Is(err, graph.ErrNotInitialized))
	assert.True(t, errors.Is(checkRequest(&graph.Bitmap{Mode: graph.ModeRGB565, Width: 1, Rows: 1}), graph.ErrBadArgument))
}
