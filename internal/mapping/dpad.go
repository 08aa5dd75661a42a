package mapping

// Direction is the discrete state of one d-pad axis
type Direction int

const (
	// DirectionUnknown is the state before the first sample, so the
	// first sample always produces an action
	DirectionUnknown Direction = iota
	DirectionNegative
	DirectionIdle
	DirectionPositive
)

func (d Direction) String() string {
	switch d {
	case DirectionNegative:
		return "negative"
	case DirectionIdle:
		return "idle"
	case DirectionPositive:
		return "positive"
	default:
		return "unknown"
	}
}

// DPadDetector converts one analog d-pad axis into arrow key presses.
// It is edge triggered: an action is only produced when the direction
// changes.
type DPadDetector struct {
	deadzone    int
	negativeKey int
	positiveKey int
	state       Direction
}

// NewDPadDetector builds a detector for one axis
func NewDPadDetector(deadzone, negativeKey, positiveKey int) *DPadDetector {
	return &DPadDetector{
		deadzone:    deadzone,
		negativeKey: negativeKey,
		positiveKey: positiveKey,
	}
}

// Classify maps a raw value to a direction without changing state
func (d *DPadDetector) Classify(value int) Direction {
	switch {
	case value > d.deadzone:
		return DirectionPositive
	case value > -d.deadzone:
		return DirectionIdle
	default:
		return DirectionNegative
	}
}

// State returns the current direction
func (d *DPadDetector) State() Direction {
	return d.state
}

// Update feeds a sample. ok is false when the direction did not change.
func (d *DPadDetector) Update(value int) (action Action, ok bool) {
	next := d.Classify(value)
	if next == d.state {
		return None(), false
	}
	prev := d.state
	d.state = next

	switch next {
	case DirectionPositive:
		if prev == DirectionNegative {
			return Sequence(KeyUp(d.negativeKey), KeyDown(d.positiveKey)), true
		}
		return KeyDown(d.positiveKey), true
	case DirectionNegative:
		if prev == DirectionPositive {
			return Sequence(KeyUp(d.positiveKey), KeyDown(d.negativeKey)), true
		}
		return KeyDown(d.negativeKey), true
	default:
		return KeyUp(d.positiveKey, d.negativeKey), true
	}
}

// Release returns the action that lets go of a held key and moves the
// detector back to idle. ok is false when no key is held.
func (d *DPadDetector) Release() (action Action, ok bool) {
	held := d.state
	d.state = DirectionIdle
	switch held {
	case DirectionPositive:
		return KeyUp(d.positiveKey), true
	case DirectionNegative:
		return KeyUp(d.negativeKey), true
	default:
		return None(), false
	}
}

// DPad pairs the horizontal and vertical detectors of a layout
type DPad struct {
	hAxis, vAxis int
	h, v         *DPadDetector
}

// NewDPad wires detectors to the layout's pad axes and arrow keys
func NewDPad(layout Layout, deadzone int) *DPad {
	return &DPad{
		hAxis: layout.Axes.DPadH,
		vAxis: layout.Axes.DPadV,
		h:     NewDPadDetector(deadzone, layout.Keys.Left, layout.Keys.Right),
		v:     NewDPadDetector(deadzone, layout.Keys.Up, layout.Keys.Down),
	}
}

// Owns reports whether index is one of the pad axes
func (p *DPad) Owns(index int) bool {
	return index == p.hAxis || index == p.vAxis
}

// Update routes a sample to the matching detector
func (p *DPad) Update(index, value int) (Action, bool) {
	switch index {
	case p.hAxis:
		return p.h.Update(value)
	case p.vAxis:
		return p.v.Update(value)
	default:
		return None(), false
	}
}

// Release lets go of any arrow key still held on either axis
func (p *DPad) Release() []Action {
	var out []Action
	if a, ok := p.h.Release(); ok {
		out = append(out, a)
	}
	if a, ok := p.v.Release(); ok {
		out = append(out, a)
	}
	return out
}
