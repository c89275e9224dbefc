package graph

import (
	"fmt"
	"image"
)

// A Device is a display backend.
//
// Init opens the device's display connection; it fails, without being
// fatal, when the display cannot be reached. Done releases the
// connection and must be the last call made on the device.
type Device interface {
	Name() string
	Init() error
	Done() error
	Info() DeviceInfo

	// NewSurface creates a window-backed surface for bm.Mode, bm.Width,
	// bm.Rows and bm.Grays. A non-nil bm.Buffer large enough for the
	// surface is used as the logical buffer. On success bm is updated
	// with the actual geometry and aliases the surface's bitmap.
	NewSurface(bm *Bitmap) (Surface, error)
}

// DeviceInfo is the metadata a device reports once initialized.
type DeviceInfo struct {
	Name        string
	SurfaceSize uintptr      // size of the device's surface record in bytes
	Modes       []ModeFormat // the pixel-mode catalog, in discovery order
}

// A Surface is a window plus the buffers presented into it.
type Surface interface {
	// Bitmap returns the logical bitmap the application draws into.
	Bitmap() *Bitmap

	// Refresh converts and presents the part of the bitmap inside r.
	Refresh(r image.Rectangle)

	// RefreshAll presents the whole bitmap.
	RefreshAll()

	SetTitle(title string)

	// Feed queues keys that NextEvent returns before any native input.
	Feed(keys string)

	// NextEvent blocks until a key is pressed and returns it. Expose
	// events that arrive meanwhile are served. The mask is advisory.
	NextEvent(mask EventMask) (KeyEvent, error)

	Close() error
}

var (
	registered []Device
	active     []Device
)

// Register adds d to the devices tried by Init, in registration order.
func Register(d Device) {
	registered = append(registered, d)
}

// Init initializes every registered device and keeps those that succeed.
// It fails with ErrNoDevice only if none does.
func Init() error {
	active = active[:0]
	for _, d := range registered {
		if err := d.Init(); err != nil {
			tracer().Infof("device %s unavailable: %v", d.Name(), err)
			continue
		}
		tracer().Debugf("device %s initialized", d.Name())
		active = append(active, d)
	}
	if len(active) == 0 {
		return ErrNoDevice
	}
	return nil
}

// Devices returns the initialized devices.
func Devices() []Device {
	return append([]Device(nil), active...)
}

// Lookup returns the initialized device called name, or the first one
// if name is empty.
func Lookup(name string) (Device, error) {
	for _, d := range active {
		if name == "" || d.Name() == name {
			return d, nil
		}
	}
	if name == "" {
		return nil, ErrNoDevice
	}
	return nil, fmt.Errorf("graph: device %q: %w", name, ErrNoDevice)
}

// NewScreenSurface creates a surface of the given mode and size on the
// named device (or the first initialized one).
func NewScreenSurface(device string, mode PixelMode, width, height, grays int) (Surface, error) {
	d, err := Lookup(device)
	if err != nil {
		return nil, err
	}
	bm := &Bitmap{Mode: mode, Width: width, Rows: height, Grays: grays}
	return d.NewSurface(bm)
}

// Done shuts down the initialized devices and forgets the registrations.
func Done() {
	for _, d := range active {
		if err := d.Done(); err != nil {
			tracer().Errorf("device %s: %v", d.Name(), err)
		}
	}
	active = nil
	registered = nil
}
