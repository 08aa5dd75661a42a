//go:build linux

package joystick

import (
	"bytes"
	"errors"
	"fmt"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// ioctl requests from linux/joystick.h
const (
	jsiocgAxes    = 0x80016a11 // JSIOCGAXES, u8
	jsiocgButtons = 0x80016a12 // JSIOCGBUTTONS, u8
	jsiocgName    = 0x80006a13 + (nameLen << 16)

	nameLen = 128
)

// Device is an open js device node
type Device struct {
	path     string
	fd       int
	name     string
	axes     int
	buttons  int
	blocking bool
	buf      [EventSize]byte
	closed   atomic.Bool
}

// Open opens the js device at path. In non-blocking mode ReadEvent returns
// ErrNoData when nothing is queued; in blocking mode it suspends until the
// next event or a disconnect.
func Open(path string, blocking bool) (*Device, error) {
	flags := unix.O_RDONLY | unix.O_CLOEXEC
	if !blocking {
		flags |= unix.O_NONBLOCK
	}

	fd, err := unix.Open(path, flags, 0)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrOpen, path, err)
	}

	d := &Device{
		path:     path,
		fd:       fd,
		blocking: blocking,
	}

	var axes, buttons uint8
	if err := ioctl(fd, jsiocgAxes, unsafe.Pointer(&axes)); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("%w %s: axis count: %v", ErrOpen, path, err)
	}
	if err := ioctl(fd, jsiocgButtons, unsafe.Pointer(&buttons)); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("%w %s: button count: %v", ErrOpen, path, err)
	}
	d.axes = int(axes)
	d.buttons = int(buttons)

	// the name is informational only
	name := make([]byte, nameLen)
	if err := ioctl(fd, jsiocgName, unsafe.Pointer(&name[0])); err == nil {
		d.name = cString(name)
	}

	return d, nil
}

// Path returns the device node path
func (d *Device) Path() string { return d.path }

// Name returns the driver-reported device name, if any
func (d *Device) Name() string { return d.name }

// AxisCount returns the number of axes reported by the driver
func (d *Device) AxisCount() int { return d.axes }

// ButtonCount returns the number of buttons reported by the driver
func (d *Device) ButtonCount() int { return d.buttons }

// Blocking reports whether reads suspend until an event arrives
func (d *Device) Blocking() bool { return d.blocking }

// ReadEvent reads the next event record
func (d *Device) ReadEvent() (Event, error) {
	if d.closed.Load() {
		return Event{}, ErrDisconnected
	}

	n, err := unix.Read(d.fd, d.buf[:])
	if err != nil {
		if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
			return Event{}, ErrNoData
		}
		return Event{}, fmt.Errorf("%w: %v", ErrDisconnected, err)
	}
	if n != EventSize {
		return Event{}, fmt.Errorf("%w: read %d of %d bytes", ErrDisconnected, n, EventSize)
	}

	return Decode(d.buf[:])
}

// Close releases the device handle
func (d *Device) Close() error {
	if d.closed.Swap(true) {
		return nil
	}
	return unix.Close(d.fd)
}

func ioctl(fd int, req uintptr, dest unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(dest))
	if errno != 0 {
		return fmt.Errorf("ioctl 0x%x: %w", req, errno)
	}
	return nil
}

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(bytes.TrimSpace(b))
}
