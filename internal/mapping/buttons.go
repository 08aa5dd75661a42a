package mapping

// Dispatch maps a button change to its action. Releases are never
// actionable.
func Dispatch(layout Layout, button int, pressed bool) Action {
	if !pressed {
		return None()
	}

	b := layout.Buttons
	switch button {
	case b.A:
		return Click(ButtonLeft)
	case b.B:
		return Click(ButtonRight)
	case b.X:
		return Click(ButtonMiddle)
	case b.LB:
		return Scroll(ButtonWheelUp)
	case b.RB:
		return Scroll(ButtonWheelDown)
	case b.Home:
		return Quit()
	default:
		return Unhandled(button)
	}
}
