package mapping

import (
	"fmt"
	"strings"
)

// ActionKind tags an Action
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionMove
	ActionClick
	ActionScroll
	ActionKeyDown
	ActionKeyUp
	ActionSequence
	ActionQuit
	ActionUnhandled
)

func (k ActionKind) String() string {
	switch k {
	case ActionNone:
		return "none"
	case ActionMove:
		return "move"
	case ActionClick:
		return "click"
	case ActionScroll:
		return "scroll"
	case ActionKeyDown:
		return "keydown"
	case ActionKeyUp:
		return "keyup"
	case ActionSequence:
		return "sequence"
	case ActionQuit:
		return "quit"
	case ActionUnhandled:
		return "unhandled"
	default:
		return fmt.Sprintf("action(%d)", int(k))
	}
}

// MouseButton uses X11 pointer button numbering
type MouseButton int

const (
	ButtonLeft      MouseButton = 1
	ButtonMiddle    MouseButton = 2
	ButtonRight     MouseButton = 3
	ButtonWheelUp   MouseButton = 4
	ButtonWheelDown MouseButton = 5
)

func (b MouseButton) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	case ButtonWheelUp:
		return "wheel-up"
	case ButtonWheelDown:
		return "wheel-down"
	default:
		return fmt.Sprintf("button%d", int(b))
	}
}

// Action is one synthetic input command. Only the fields relevant to
// Kind are set.
type Action struct {
	Kind   ActionKind
	DX, DY int
	Button MouseButton
	Keys   []int
	Index  int      // source control for ActionUnhandled
	Steps  []Action // ActionSequence
}

// None is the no-op action
func None() Action { return Action{} }

// Move is a relative pointer move
func Move(dx, dy int) Action { return Action{Kind: ActionMove, DX: dx, DY: dy} }

// Click presses and releases a pointer button
func Click(b MouseButton) Action { return Action{Kind: ActionClick, Button: b} }

// Scroll is a single wheel step; b is ButtonWheelUp or ButtonWheelDown
func Scroll(b MouseButton) Action { return Action{Kind: ActionScroll, Button: b} }

// KeyDown holds a key down
func KeyDown(code int) Action { return Action{Kind: ActionKeyDown, Keys: []int{code}} }

// KeyUp releases one or more keys
func KeyUp(codes ...int) Action { return Action{Kind: ActionKeyUp, Keys: codes} }

// Sequence runs steps in order
func Sequence(steps ...Action) Action { return Action{Kind: ActionSequence, Steps: steps} }

// Quit asks the event loop to terminate
func Quit() Action { return Action{Kind: ActionQuit} }

// Unhandled marks a control with no binding
func Unhandled(index int) Action { return Action{Kind: ActionUnhandled, Index: index} }

// IsNone reports whether the action does nothing
func (a Action) IsNone() bool { return a.Kind == ActionNone }

// Injects reports whether the action reaches the injector
func (a Action) Injects() bool {
	switch a.Kind {
	case ActionMove, ActionClick, ActionScroll, ActionKeyDown, ActionKeyUp, ActionSequence:
		return true
	default:
		return false
	}
}

func (a Action) String() string {
	switch a.Kind {
	case ActionMove:
		return fmt.Sprintf("move %+d %+d", a.DX, a.DY)
	case ActionClick, ActionScroll:
		return fmt.Sprintf("%s %s", a.Kind, a.Button)
	case ActionKeyDown, ActionKeyUp:
		codes := make([]string, len(a.Keys))
		for i, k := range a.Keys {
			codes[i] = fmt.Sprint(k)
		}
		return fmt.Sprintf("%s %s", a.Kind, strings.Join(codes, " "))
	case ActionSequence:
		steps := make([]string, len(a.Steps))
		for i, s := range a.Steps {
			steps[i] = s.String()
		}
		return strings.Join(steps, "; ")
	case ActionUnhandled:
		return fmt.Sprintf("unhandled %d", a.Index)
	default:
		return a.Kind.String()
	}
}
