// Package mapping translates joystick state into synthetic input actions.
//
// The controller numbering and bindings are fixed to the Xbox 360 family
// and are carried in an immutable Layout value rather than globals.
package mapping

import (
	"errors"
	"fmt"
	"strings"
)

// X11 keycodes for the arrow keys
const (
	KeyArrowUp    = 111
	KeyArrowLeft  = 113
	KeyArrowRight = 114
	KeyArrowDown  = 116
)

// DefaultNudgeScale divides raw stick deflection into pointer pixels
const DefaultNudgeScale = 10000

// DefaultDeadzone is applied to every control group unless configured
const DefaultDeadzone = 1000

// ErrNegativeDeadzone is returned by Deadzones.Validate
var ErrNegativeDeadzone = errors.New("deadzone must not be negative")

// Handedness selects which stick drives the pointer
type Handedness int

const (
	RightHanded Handedness = iota
	LeftHanded
)

func (h Handedness) String() string {
	if h == LeftHanded {
		return "left"
	}
	return "right"
}

// ParseHandedness accepts "right", "left", "r", "l" in any case
func ParseHandedness(s string) (Handedness, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "right", "r":
		return RightHanded, nil
	case "left", "l":
		return LeftHanded, nil
	default:
		return RightHanded, fmt.Errorf("unknown handedness %q (want left or right)", s)
	}
}

// Buttons holds controller button indices
type Buttons struct {
	A, B, X, Y int
	LB, RB     int
	Back       int
	Start      int
	Home       int
}

// Axes holds controller axis indices. Horizontal axes are negative to the
// left, vertical axes are negative upward, triggers are positive when
// pulled.
type Axes struct {
	LeftStickH, LeftStickV   int
	LeftTrigger              int
	RightStickH, RightStickV int
	RightTrigger             int
	DPadH, DPadV             int
}

// Keys holds the keycodes the directional pad emits
type Keys struct {
	Up, Left, Right, Down int
}

// Layout is the full, fixed controller description
type Layout struct {
	Buttons Buttons
	Axes    Axes
	Keys    Keys
}

// Xbox360 returns the layout of an Xbox 360 pad on the Linux xpad driver
func Xbox360() Layout {
	return Layout{
		Buttons: Buttons{
			A:     0,
			B:     1,
			X:     2,
			Y:     3,
			LB:    4,
			RB:    5,
			Back:  6,
			Start: 7,
			Home:  8,
		},
		Axes: Axes{
			LeftStickH:   0,
			LeftStickV:   1,
			LeftTrigger:  2,
			RightStickH:  3,
			RightStickV:  4,
			RightTrigger: 5,
			DPadH:        6,
			DPadV:        7,
		},
		Keys: Keys{
			Up:    KeyArrowUp,
			Left:  KeyArrowLeft,
			Right: KeyArrowRight,
			Down:  KeyArrowDown,
		},
	}
}

// Stick returns the horizontal and vertical axis of the pointer stick
func (l Layout) Stick(h Handedness) (hAxis, vAxis int) {
	if h == LeftHanded {
		return l.Axes.LeftStickH, l.Axes.LeftStickV
	}
	return l.Axes.RightStickH, l.Axes.RightStickV
}

// IsStickAxis reports whether index belongs to the pointer stick
func (l Layout) IsStickAxis(h Handedness, index int) bool {
	hAxis, vAxis := l.Stick(h)
	return index == hAxis || index == vAxis
}

// Deadzones are per control group thresholds in raw axis units
type Deadzones struct {
	RightStick   int
	LeftStick    int
	RightTrigger int
	LeftTrigger  int
	DPad         int
}

// DefaultDeadzones returns the stock thresholds
func DefaultDeadzones() Deadzones {
	return Deadzones{
		RightStick:   DefaultDeadzone,
		LeftStick:    DefaultDeadzone,
		RightTrigger: DefaultDeadzone,
		LeftTrigger:  DefaultDeadzone,
		DPad:         DefaultDeadzone,
	}
}

// Stick returns the deadzone of the pointer stick
func (d Deadzones) Stick(h Handedness) int {
	if h == LeftHanded {
		return d.LeftStick
	}
	return d.RightStick
}

// Validate checks every threshold is non-negative
func (d Deadzones) Validate() error {
	checks := []struct {
		name  string
		value int
	}{
		{"right_stick", d.RightStick},
		{"left_stick", d.LeftStick},
		{"right_trigger", d.RightTrigger},
		{"left_trigger", d.LeftTrigger},
		{"dpad", d.DPad},
	}
	for _, c := range checks {
		if c.value < 0 {
			return fmt.Errorf("%w: %s = %d", ErrNegativeDeadzone, c.name, c.value)
		}
	}
	return nil
}
