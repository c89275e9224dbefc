package x11

import (
	"image"

	"ftgraph.dev/go/graph"
	"github.com/BurntSushi/xgb/xproto"
)

var keyTable = map[xproto.Keysym]graph.Key{
	xkBackSpace: graph.KeyBackSpace,
	xkTab:       graph.KeyTab,
	xkReturn:    graph.KeyReturn,
	xkEscape:    graph.KeyEsc,
	xkHome:      graph.KeyHome,
	xkBegin:     graph.KeyHome,
	xkLeft:      graph.KeyLeft,
	xkUp:        graph.KeyUp,
	xkRight:     graph.KeyRight,
	xkDown:      graph.KeyDown,
	xkPrior:     graph.KeyPageUp,
	xkNext:      graph.KeyPageDown,
	xkEnd:       graph.KeyEnd,
	xkInsert:    graph.KeyIns,
	xkDelete:    graph.KeyDel,

	// keypad with NumLock off
	0xff95: graph.KeyHome,
	0xff96: graph.KeyLeft,
	0xff97: graph.KeyUp,
	0xff98: graph.KeyRight,
	0xff99: graph.KeyDown,
	0xff9a: graph.KeyPageUp,
	0xff9b: graph.KeyPageDown,
	0xff9c: graph.KeyEnd,
	0xff9d: graph.KeyHome,
	0xff9e: graph.KeyIns,
	0xff9f: graph.KeyDel,
}

func init() {
	for i := 0; i < 12; i++ {
		keyTable[xproto.Keysym(xkF1+i)] = graph.KeyF1 + graph.Key(i)
	}
}

// NextEvent blocks until a key is pressed in the surface's window.
// Queued keys are returned first without touching the display. While
// waiting, exposed parts of every surface are presented again, keys
// pressed in other surfaces' windows are queued there and keyboard
// remappings are picked up. The mask is advisory.
func (s *surface) NextEvent(mask graph.EventMask) (graph.KeyEvent, error) {
	if ev, ok := s.keys.Pop(); ok {
		return ev, nil
	}
	if s.closed {
		return graph.KeyEvent{}, graph.ErrDisplayClosed
	}
	b := s.b
	b.dpy.SetBusy(s.win, false)
	b.dpy.Flush()
	for {
		xev, xerr := b.dpy.WaitForEvent()
		if xev == nil && xerr == nil {
			return graph.KeyEvent{}, graph.ErrDisplayClosed
		}
		if xerr != nil {
			tracer().Errorf("%v", xerr)
			continue
		}
		switch ev := xev.(type) {
		case xproto.ExposeEvent:
			b.expose(ev)
		case xproto.MappingNotifyEvent:
			if ev.Request == xproto.MappingKeyboard {
				b.remap()
			}
		case xproto.KeyPressEvent:
			owner, known := b.surfaces[ev.Event]
			if !known {
				continue
			}
			key, rest, ok := owner.translate(ev)
			if !ok {
				continue
			}
			if owner != s {
				// kept for the owner's next NextEvent
				owner.keys.PushKey(key)
				owner.keys.PushBytes(rest)
				continue
			}
			s.keys.PushBytes(rest)
			b.dpy.SetBusy(s.win, true)
			b.dpy.Flush()
			return graph.KeyEvent{Kind: graph.EventKeyDown, Key: key}, nil
		}
	}
}

// translate turns a key press into a key and the composed text beyond
// its first byte. It reports false for presses that carry no key of
// their own, such as Shift.
func (s *surface) translate(ev xproto.KeyPressEvent) (graph.Key, []byte, bool) {
	sym, text := s.b.keys.lookup(ev.Detail, ev.State)
	if len(text) == 0 || sym > graph.MaxChar+1 {
		if k, ok := keyTable[sym]; ok {
			return k, nil, true
		}
	}
	if len(text) > 0 {
		return graph.KeyChar(text[0]), text[1:], true
	}
	if isModifier(sym) || sym == 0 {
		return graph.KeyNone, nil, false
	}
	tracer().Debugf("unknown keysym %#x", uint32(sym))
	return graph.KeyUnknown, nil, true
}

// expose presents an exposed area of the surface that owns its window.
func (b *backend) expose(ev xproto.ExposeEvent) {
	s, ok := b.surfaces[ev.Window]
	if !ok {
		return
	}
	b.dpy.SetBusy(s.win, true)
	s.Refresh(image.Rect(int(ev.X), int(ev.Y), int(ev.X)+int(ev.Width), int(ev.Y)+int(ev.Height)))
	b.dpy.SetBusy(s.win, false)
}

func (b *backend) remap() {
	keys, err := b.dpy.KeyboardMapping()
	if err != nil {
		tracer().Errorf("keyboard remapping: %v", err)
		return
	}
	b.keys = keys
}
