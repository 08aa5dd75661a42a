package mapping

// Triggers tracks whether each analog trigger is pulled past its
// deadzone. Triggers carry no binding; a pull is reported once as an
// Unhandled action so the loop can log it.
type Triggers struct {
	left, right     int
	leftDz, rightDz int
	leftOn, rightOn bool
}

// NewTriggers builds trigger tracking for a layout
func NewTriggers(layout Layout, dz Deadzones) *Triggers {
	return &Triggers{
		left:    layout.Axes.LeftTrigger,
		right:   layout.Axes.RightTrigger,
		leftDz:  dz.LeftTrigger,
		rightDz: dz.RightTrigger,
	}
}

// Owns reports whether index is a trigger axis
func (t *Triggers) Owns(index int) bool {
	return index == t.left || index == t.right
}

// Update feeds a trigger sample. ok is true on the transition into the
// pulled state.
func (t *Triggers) Update(index, value int) (Action, bool) {
	switch index {
	case t.left:
		return edge(&t.leftOn, value >= t.leftDz && value > 0, index)
	case t.right:
		return edge(&t.rightOn, value >= t.rightDz && value > 0, index)
	default:
		return None(), false
	}
}

func edge(on *bool, pulled bool, index int) (Action, bool) {
	was := *on
	*on = pulled
	if pulled && !was {
		return Unhandled(index), true
	}
	return None(), false
}
