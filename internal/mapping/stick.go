package mapping

import (
	"fmt"

	"github.com/bnema/js2mouse/internal/joystick"
)

// ComputeNudge turns a raw stick pair into a pointer displacement.
//
// Each axis is zero inside its deadzone (|value| < deadzone) and
// value/scale otherwise, using truncating division. Deflections between
// the deadzone and scale therefore still round to zero; with the default
// thresholds the pointer only starts moving at |value| >= scale.
func ComputeNudge(hValue, vValue, deadzone, scale int) (nudgeH, nudgeV int) {
	if scale <= 0 {
		scale = DefaultNudgeScale
	}
	return nudge(hValue, deadzone, scale), nudge(vValue, deadzone, scale)
}

func nudge(value, deadzone, scale int) int {
	if value < deadzone && value > -deadzone {
		return 0
	}
	return value / scale
}

// IndexError reports a stick axis the device does not have
type IndexError struct {
	HAxis, VAxis int
	AxisCount    int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("stick axes %d,%d outside device axis count %d", e.HAxis, e.VAxis, e.AxisCount)
}

func (e *IndexError) Unwrap() error {
	return joystick.ErrIndexOutOfRange
}

// HandleStick reads a stick pair from state and returns the move action
// for it, or None when both nudges are zero.
func HandleStick(state *joystick.AxisState, hAxis, vAxis, deadzone, scale int) (Action, error) {
	hValue, errH := state.Get(hAxis)
	vValue, errV := state.Get(vAxis)
	if errH != nil || errV != nil {
		return None(), &IndexError{HAxis: hAxis, VAxis: vAxis, AxisCount: state.Len()}
	}

	dx, dy := ComputeNudge(hValue, vValue, deadzone, scale)
	if dx == 0 && dy == 0 {
		return None(), nil
	}
	return Move(dx, dy), nil
}
