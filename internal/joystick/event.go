// Package joystick reads the Linux joystick (js) interface
package joystick

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// ErrOpen is returned when the device node cannot be opened
	ErrOpen = errors.New("failed to open joystick device")
	// ErrNoData is returned by a non-blocking read when no event is queued
	ErrNoData = errors.New("no event available")
	// ErrDisconnected is returned when a read does not yield a full event record
	ErrDisconnected = errors.New("joystick disconnected")
	// ErrIndexOutOfRange is returned for axis indices beyond the device axis count
	ErrIndexOutOfRange = errors.New("axis index out of range")
	// ErrShortRecord is returned when decoding fewer than EventSize bytes
	ErrShortRecord = errors.New("short event record")
)

// EventSize is the size of a struct js_event on the wire
const EventSize = 8

// Kind is the type byte of a js_event with the init flag masked out
type Kind uint8

const (
	KindButton Kind = 0x01
	KindAxis   Kind = 0x02

	initFlag = 0x80
)

func (k Kind) String() string {
	switch k {
	case KindButton:
		return "button"
	case KindAxis:
		return "axis"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Event is one decoded js_event record.
//
// Init is set for the synthetic events the kernel queues right after the
// device is opened, which report the initial state of every control.
type Event struct {
	Time  uint32 // milliseconds, device clock
	Value int16
	Kind  Kind
	Index uint8
	Init  bool
}

// Decode parses a little-endian js_event record
func Decode(b []byte) (Event, error) {
	if len(b) < EventSize {
		return Event{}, fmt.Errorf("%w: %d bytes", ErrShortRecord, len(b))
	}
	raw := b[6]
	return Event{
		Time:  binary.LittleEndian.Uint32(b[0:4]),
		Value: int16(binary.LittleEndian.Uint16(b[4:6])),
		Kind:  Kind(raw &^ initFlag),
		Index: b[7],
		Init:  raw&initFlag != 0,
	}, nil
}

// Encode is the inverse of Decode
func (e Event) Encode() []byte {
	b := make([]byte, EventSize)
	binary.LittleEndian.PutUint32(b[0:4], e.Time)
	binary.LittleEndian.PutUint16(b[4:6], uint16(e.Value))
	b[6] = byte(e.Kind)
	if e.Init {
		b[6] |= initFlag
	}
	b[7] = e.Index
	return b
}

// IsAxis reports whether the event is an axis motion
func (e Event) IsAxis() bool { return e.Kind == KindAxis }

// IsButton reports whether the event is a button change
func (e Event) IsButton() bool { return e.Kind == KindButton }

// Pressed reports whether a button event is a press
func (e Event) Pressed() bool { return e.Kind == KindButton && e.Value != 0 }

func (e Event) String() string {
	s := fmt.Sprintf("%s %d = %d @%dms", e.Kind, e.Index, e.Value, e.Time)
	if e.Init {
		s += " (init)"
	}
	return s
}
