package x11

import "github.com/BurntSushi/xgb/xproto"

// Keysyms the translator cares about.
const (
	xkBackSpace = 0xff08
	xkTab       = 0xff09
	xkLinefeed  = 0xff0a
	xkReturn    = 0xff0d
	xkEscape    = 0xff1b
	xkHome      = 0xff50
	xkLeft      = 0xff51
	xkUp        = 0xff52
	xkRight     = 0xff53
	xkDown      = 0xff54
	xkPrior     = 0xff55
	xkNext      = 0xff56
	xkEnd       = 0xff57
	xkBegin     = 0xff58
	xkInsert    = 0xff63
	xkKPSpace   = 0xff80
	xkKPTab     = 0xff89
	xkKPEnter   = 0xff8d
	xkKPMul     = 0xffaa
	xkKP9       = 0xffb9
	xkKPEqual   = 0xffbd
	xkF1        = 0xffbe
	xkF12       = 0xffc9
	xkDelete    = 0xffff

	xkUnicode = 0x01000000
)

// Modifier bits of a key event state.
const (
	stateShift   = xproto.ModMaskShift
	stateLock    = xproto.ModMaskLock
	stateControl = xproto.ModMaskControl
	stateNumLock = xproto.ModMask2
)

// A keymap is the server's keycode to keysym table.
type keymap struct {
	min    xproto.Keycode
	perKey int
	syms   []xproto.Keysym
}

func newKeymap(min xproto.Keycode, reply *xproto.GetKeyboardMappingReply) *keymap {
	return &keymap{
		min:    min,
		perKey: int(reply.KeysymsPerKeycode),
		syms:   reply.Keysyms,
	}
}

func (m *keymap) row(code xproto.Keycode) []xproto.Keysym {
	if m == nil || m.perKey == 0 || code < m.min {
		return nil
	}
	i := int(code-m.min) * m.perKey
	if i+m.perKey > len(m.syms) {
		return nil
	}
	return m.syms[i : i+m.perKey]
}

// keysym picks the symbol of code for the modifier state, following the
// core protocol rules for the first keysym group.
func (m *keymap) keysym(code xproto.Keycode, state uint16) xproto.Keysym {
	row := m.row(code)
	if len(row) == 0 {
		return 0
	}
	lower := row[0]
	upper := lower
	if len(row) > 1 && row[1] != 0 {
		upper = row[1]
	} else {
		lower, upper = caseOf(lower)
	}
	shift := state&stateShift != 0
	switch {
	case state&stateNumLock != 0 && isKeypad(upper):
		if shift {
			return lower
		}
		return upper
	case shift:
		return upper
	case state&stateLock != 0:
		_, u := caseOf(lower)
		return u
	}
	return lower
}

// lookup returns the keysym of a key press and the Latin-1 text it
// composes, which is empty for function and modifier keys.
func (m *keymap) lookup(code xproto.Keycode, state uint16) (xproto.Keysym, []byte) {
	sym := m.keysym(code, state)
	c, ok := keysymByte(sym)
	if !ok {
		return sym, nil
	}
	if state&stateControl != 0 {
		c = control(c)
	}
	return sym, []byte{c}
}

// caseOf returns the lower and upper case variants of a Latin-1 letter.
func caseOf(sym xproto.Keysym) (xproto.Keysym, xproto.Keysym) {
	switch {
	case sym >= 'a' && sym <= 'z':
		return sym, sym - 'a' + 'A'
	case sym >= 'A' && sym <= 'Z':
		return sym - 'A' + 'a', sym
	case sym >= 0xe0 && sym <= 0xfe && sym != 0xf7:
		return sym, sym - 0x20
	case sym >= 0xc0 && sym <= 0xde && sym != 0xd7:
		return sym + 0x20, sym
	}
	return sym, sym
}

func isKeypad(sym xproto.Keysym) bool {
	return sym >= xkKPSpace && sym <= xkKPEqual
}

func isModifier(sym xproto.Keysym) bool {
	switch {
	case sym >= 0xffe1 && sym <= 0xffee: // Shift_L .. Hyper_R
		return true
	case sym == 0xff7e || sym == 0xff7f: // Mode_switch, Num_Lock
		return true
	case sym >= 0xfe01 && sym <= 0xfe0f: // ISO lock and shift keys
		return true
	}
	return false
}

// keysymByte returns the Latin-1 character a keysym types, if any.
func keysymByte(sym xproto.Keysym) (byte, bool) {
	switch {
	case sym >= 0x20 && sym <= 0x7e, sym >= 0xa0 && sym <= 0xff:
		return byte(sym), true
	case sym == xkBackSpace, sym == xkTab, sym == xkLinefeed, sym == xkReturn, sym == xkEscape:
		return byte(sym), true
	case sym == xkDelete:
		return 0x7f, true
	case sym == xkKPSpace:
		return ' ', true
	case sym == xkKPTab:
		return '\t', true
	case sym == xkKPEnter:
		return '\r', true
	case sym == xkKPEqual:
		return '=', true
	case sym >= xkKPMul && sym <= xkKP9:
		return byte(sym - 0xff80), true
	case sym >= xkUnicode+0x20 && sym <= xkUnicode+0xff:
		return byte(sym - xkUnicode), true
	}
	return 0, false
}

func control(c byte) byte {
	switch {
	case c >= '@' && c < 0x7f, c == ' ':
		return c & 0x1f
	case c == '?':
		return 0x7f
	}
	return c
}
