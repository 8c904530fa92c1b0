// Package action turns the stable gesture stream into pointer and key
// commands. The Machine owns all session state and is driven by one
// goroutine.
package action

import "fmt"

// Mode is the session mode.
type Mode int32

const (
	Normal Mode = iota
	Locked
	Dragging
	Scrolling
	Presenting
)

func (m Mode) String() string {
	switch m {
	case Normal:
		return "NORMAL"
	case Locked:
		return "LOCKED"
	case Dragging:
		return "DRAGGING"
	case Scrolling:
		return "SCROLLING"
	case Presenting:
		return "PRESENTING"
	default:
		return fmt.Sprintf("Mode(%d)", int32(m))
	}
}

// MoverEnabled reports whether continuous pointer motion applies in m.
// Dragging moves the pointer directly; scrolling and locked do not move it.
func (m Mode) MoverEnabled() bool {
	return m == Normal || m == Presenting
}

// Kind identifies a command.
type Kind int

const (
	MoveTarget Kind = iota // continuous motion, handed to the mover
	MoveTo                 // immediate absolute move
	ClickLeft
	ClickRight
	DoubleClickLeft
	DragStart
	DragEnd
	Scroll
	PressKey
)

var kindNames = [...]string{
	MoveTarget:      "move-target",
	MoveTo:          "move-to",
	ClickLeft:       "click-left",
	ClickRight:      "click-right",
	DoubleClickLeft: "double-click-left",
	DragStart:       "drag-start",
	DragEnd:         "drag-end",
	Scroll:          "scroll",
	PressKey:        "press-key",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Command is one output of the machine.
type Command struct {
	Kind   Kind
	X, Y   int    // MoveTarget, MoveTo
	Amount int    // Scroll; positive scrolls up
	Key    string // PressKey, e.g. "alt+f4"
}

func (c Command) String() string {
	switch c.Kind {
	case MoveTarget, MoveTo:
		return fmt.Sprintf("%s(%d,%d)", c.Kind, c.X, c.Y)
	case Scroll:
		return fmt.Sprintf("%s(%d)", c.Kind, c.Amount)
	case PressKey:
		return fmt.Sprintf("%s(%s)", c.Kind, c.Key)
	default:
		return c.Kind.String()
	}
}

// Continuous reports whether c belongs on the motion queue rather than
// being executed directly.
func (c Command) Continuous() bool {
	return c.Kind == MoveTarget
}
