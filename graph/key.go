package graph

import "fmt"

// A Key is a portable key symbol. Values 0 to 511 are character codes;
// the special keys start at 512, except for the four keys that have an
// ASCII control code.
type Key int32

const (
	KeyNone      Key = 0
	KeyBackSpace Key = 8
	KeyTab       Key = 9
	KeyReturn    Key = 13
	KeyEsc       Key = 27
	KeySpace     Key = ' '
)

const (
	KeyF1 Key = 512 + iota
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyIns
	KeyDel
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUnknown // a key press with no portable meaning
)

// MaxChar is the largest character code a Key can carry.
const MaxChar = 511

// KeyChar returns the Key for character code c.
func KeyChar(c byte) Key {
	return Key(c)
}

// IsChar reports whether k is a character code.
func (k Key) IsChar() bool {
	return k >= 0 && k <= MaxChar
}

var keyNames = map[Key]string{
	KeyF1:        "F1",
	KeyF2:        "F2",
	KeyF3:        "F3",
	KeyF4:        "F4",
	KeyF5:        "F5",
	KeyF6:        "F6",
	KeyF7:        "F7",
	KeyF8:        "F8",
	KeyF9:        "F9",
	KeyF10:       "F10",
	KeyF11:       "F11",
	KeyF12:       "F12",
	KeyEsc:       "Esc",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyIns:       "Insert",
	KeyDel:       "Delete",
	KeyPageUp:    "Page_Up",
	KeyPageDown:  "Page_Down",
	KeyLeft:      "Left",
	KeyRight:     "Right",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyBackSpace: "BackSpace",
	KeyReturn:    "Return",
	KeyTab:       "Tab",
	KeyUnknown:   "Unknown",
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	if k.IsChar() {
		return fmt.Sprintf("char '%c'", rune(k))
	}
	return fmt.Sprintf("Key(%d)", int32(k))
}

// EventKind is the kind of an input event.
type EventKind uint8

const (
	EventNone EventKind = iota
	EventKeyDown
)

// EventMask selects the event kinds a caller waits for.
// Devices currently treat it as advisory and always wait for a key.
type EventMask uint32

const (
	EventKey EventMask = 1 << iota
	EventMouse
)

// A KeyEvent is a translated key press.
type KeyEvent struct {
	Kind EventKind
	Key  Key
}

// KeyQueue holds keystrokes that are delivered before any native input:
// keys fed by the application, the bytes left over when a native key
// press composed more than one character, and keys pressed in another
// surface's window while this one was waiting.
type KeyQueue struct {
	buf []Key
}

// Push appends the bytes of keys to the queue, one character key each.
func (q *KeyQueue) Push(keys string) {
	for i := 0; i < len(keys); i++ {
		q.buf = append(q.buf, KeyChar(keys[i]))
	}
}

// PushBytes appends raw character bytes to the queue.
func (q *KeyQueue) PushBytes(b []byte) {
	for _, c := range b {
		q.buf = append(q.buf, KeyChar(c))
	}
}

// PushKey appends a single key, named or not.
func (q *KeyQueue) PushKey(k Key) {
	q.buf = append(q.buf, k)
}

// Len returns the number of queued keys.
func (q *KeyQueue) Len() int {
	return len(q.buf)
}

// Pop removes and returns the next queued key.
func (q *KeyQueue) Pop() (KeyEvent, bool) {
	if len(q.buf) == 0 {
		return KeyEvent{}, false
	}
	k := q.buf[0]
	q.buf = q.buf[1:]
	if len(q.buf) == 0 {
		q.buf = nil
	}
	return KeyEvent{Kind: EventKeyDown, Key: k}, true
}
