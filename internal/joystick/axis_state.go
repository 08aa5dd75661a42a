package joystick

import "fmt"

// AxisState holds the last known raw value of every axis of a device.
// It is owned by the event loop and is not safe for concurrent use.
type AxisState struct {
	values []int
}

// NewAxisState returns a zeroed state for count axes
func NewAxisState(count int) *AxisState {
	if count < 0 {
		count = 0
	}
	return &AxisState{values: make([]int, count)}
}

// Len returns the number of axes tracked
func (s *AxisState) Len() int {
	return len(s.values)
}

// Set stores value at index. Indices come from the device itself, so an
// index outside the reported axis count is dropped rather than growing
// the state.
func (s *AxisState) Set(index, value int) {
	if index < 0 || index >= len(s.values) {
		return
	}
	s.values[index] = value
}

// Get returns the value stored at index
func (s *AxisState) Get(index int) (int, error) {
	if index < 0 || index >= len(s.values) {
		return 0, fmt.Errorf("%w: %d (axis count %d)", ErrIndexOutOfRange, index, len(s.values))
	}
	return s.values[index], nil
}

// Values returns a copy of all axis values
func (s *AxisState) Values() []int {
	out := make([]int, len(s.values))
	copy(out, s.values)
	return out
}
