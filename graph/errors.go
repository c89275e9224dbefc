package graph

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrBadArgument reports a surface request no catalog entry can serve.
	ErrBadArgument = errors.New("graph: bad argument")
	// ErrAllocFailed reports that a surface buffer could not be allocated.
	ErrAllocFailed = errors.New("graph: allocation failed")
	// ErrTooManyModes reports a pixel-mode catalog over its capacity.
	ErrTooManyModes = errors.New("graph: too many pixel modes")
	// ErrNotInitialized is returned by devices used before Init or after Done.
	ErrNotInitialized = errors.New("graph: device not initialized")
	// ErrDisplayClosed is returned by NextEvent when the display goes away.
	ErrDisplayClosed = errors.New("graph: display connection closed")
	// ErrNoDevice is returned when no registered device could be initialized.
	ErrNoDevice = errors.New("graph: no usable device")
)

// Exit terminates the process after a fatal error. Tests replace it.
var Exit = os.Exit

// Fatalf is the single termination path for unrecoverable conditions:
// resource exhaustion or a broken assumption about the windowing system.
// It reports the message and calls Exit(1).
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	tracer().Errorf("%s", msg)
	fmt.Fprintln(os.Stderr, msg)
	Exit(1)
}
