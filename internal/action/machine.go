package action

import (
	"math"
	"time"

	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/stabilizer"
)

// Input is one step of the machine.
type Input struct {
	// Sample is the newest recognition result, or nil when none arrived
	// since the previous step. Timers still advance on nil steps.
	Sample *gesture.Sample

	// Failsafe is true when the real cursor sits in a screen corner.
	Failsafe bool

	Now time.Time
}

// Machine is the gesture-to-command state machine. Transitions fire on
// label edges (the stable label differs from the previous step's) unless
// noted otherwise. It is not safe for concurrent use.
type Machine struct {
	cfg  config.ActionConfig
	stab *stabilizer.Stabilizer

	mode      Mode
	lastLabel gesture.Label

	lastClickAt    time.Time
	pendingClose   bool
	pendingCloseAt time.Time

	scrollOriginY float64
	lastScrollAt  time.Time

	swiping     bool
	swipeFired  bool
	swipeStartX float64

	graceUntil  time.Time
	unlockArmed bool
}

// NewMachine creates a machine in NORMAL mode. The machine takes
// ownership of stab.
func NewMachine(cfg config.ActionConfig, stab *stabilizer.Stabilizer) *Machine {
	return &Machine{cfg: cfg, stab: stab, mode: Normal}
}

// Mode returns the current mode.
func (m *Machine) Mode() Mode { return m.mode }

// LastLabel returns the stable label seen by the previous step.
func (m *Machine) LastLabel() gesture.Label { return m.lastLabel }

// Lock forces LOCKED, releasing any drag in progress.
func (m *Machine) Lock() []Command {
	if m.mode == Locked {
		return nil
	}
	return m.enterLocked()
}

// Step advances the machine by one input and returns the commands to
// execute, in order.
func (m *Machine) Step(in Input) []Command {
	s := in.Sample

	if m.mode == Locked {
		return m.stepLocked(in)
	}

	if in.Failsafe && !in.Now.Before(m.graceUntil) {
		cmds := m.enterLocked()
		if s != nil {
			m.lastLabel = s.Label
			m.unlockArmed = s.Label != gesture.Open
		}
		return cmds
	}

	var cmds []Command
	if m.pendingClose && in.Now.Sub(m.pendingCloseAt) >= m.cfg.SingleClickDelay {
		m.pendingClose = false
		m.lastClickAt = in.Now
		cmds = append(cmds, Command{Kind: ClickRight})
	}

	if s == nil {
		return cmds
	}

	label := s.Label
	edge := label != m.lastLabel
	defer func() { m.lastLabel = label }()

	if label == gesture.PresentToggle {
		if edge {
			cmds = append(cmds, m.togglePresenting()...)
		}
		return cmds
	}

	if m.mode == Presenting {
		cmds = append(cmds, m.stepPresenting(s, edge)...)
	} else {
		cmds = append(cmds, m.stepPointer(s, edge, in.Now)...)
	}

	if s.HasPoint() {
		pos := m.stab.Update(*s.RawPoint, s.FrameWidth, s.FrameHeight)
		switch m.mode {
		case Dragging:
			cmds = append(cmds, moveCommand(MoveTo, pos))
		case Normal, Presenting:
			cmds = append(cmds, moveCommand(MoveTarget, pos))
		}
	}
	return cmds
}

func (m *Machine) stepLocked(in Input) []Command {
	s := in.Sample
	if s == nil {
		return nil
	}
	defer func() { m.lastLabel = s.Label }()

	if s.Label != gesture.Open {
		m.unlockArmed = true
		return nil
	}
	if !m.unlockArmed || s.Confidence <= m.cfg.UnlockConfidence {
		return nil
	}

	m.mode = Normal
	m.resetSession()
	m.graceUntil = in.Now.Add(m.cfg.FailsafeGrace)

	if !s.HasPoint() {
		m.stab.Reset()
		return nil
	}
	pos := m.stab.Recalibrate(*s.RawPoint, s.FrameWidth, s.FrameHeight)
	return []Command{moveCommand(MoveTo, pos)}
}

// stepPointer handles NORMAL, DRAGGING and SCROLLING.
func (m *Machine) stepPointer(s *gesture.Sample, edge bool, now time.Time) []Command {
	var cmds []Command
	label := s.Label

	switch m.mode {
	case Dragging:
		if label == gesture.Pinch {
			return nil
		}
		m.mode = Normal
		cmds = append(cmds, Command{Kind: DragEnd})

	case Scrolling:
		if label == gesture.Scroll {
			if c, ok := m.scrollTick(s, now); ok {
				cmds = append(cmds, c)
			}
			return cmds
		}
		m.mode = Normal
	}

	if !edge {
		return cmds
	}

	switch label {
	case gesture.Pinch:
		m.pendingClose = false
		m.mode = Dragging
		return append(cmds, Command{Kind: DragStart})

	case gesture.Scroll:
		m.pendingClose = false
		m.mode = Scrolling
		m.scrollOriginY = s.Anchor.Y
		m.lastScrollAt = time.Time{}
		return cmds
	}

	if s.Confidence <= m.cfg.ClickConfidence {
		return cmds
	}

	switch label {
	case gesture.Open:
		if !m.pendingClose && now.Sub(m.lastClickAt) >= m.cfg.ClickCooldown {
			m.lastClickAt = now
			cmds = append(cmds, Command{Kind: ClickLeft})
		}

	case gesture.Close:
		if m.pendingClose && now.Sub(m.pendingCloseAt) <= m.cfg.DoubleClickWindow {
			m.pendingClose = false
			m.lastClickAt = now
			cmds = append(cmds, Command{Kind: DoubleClickLeft})
		} else {
			// A second close after the window restarts the wait.
			m.pendingClose = true
			m.pendingCloseAt = now
		}

	case gesture.Colaps:
		m.lastClickAt = now
		cmds = append(cmds, Command{Kind: PressKey, Key: m.cfg.WindowCloseKey})
	}
	return cmds
}

func (m *Machine) scrollTick(s *gesture.Sample, now time.Time) (Command, bool) {
	if !s.HasPoint() {
		return Command{}, false
	}
	delta := m.scrollOriginY - s.Anchor.Y
	if math.Abs(delta) <= m.cfg.ScrollDeadzone || now.Sub(m.lastScrollAt) < m.cfg.ScrollInterval {
		return Command{}, false
	}
	amount := int(math.Round(delta * m.cfg.ScrollSensitivity))
	m.scrollOriginY = s.Anchor.Y
	m.lastScrollAt = now
	if amount == 0 {
		return Command{}, false
	}
	return Command{Kind: Scroll, Amount: amount}, true
}

func (m *Machine) stepPresenting(s *gesture.Sample, edge bool) []Command {
	label := s.Label

	if label != gesture.Scroll {
		m.swiping = false
	}

	switch {
	case label == gesture.Scroll && edge:
		if s.HasPoint() {
			m.swiping = true
			m.swipeFired = false
			m.swipeStartX = s.Anchor.X
		}
		return nil

	case label == gesture.Scroll:
		if !m.swiping || m.swipeFired || !s.HasPoint() {
			return nil
		}
		dx := s.Anchor.X - m.swipeStartX
		if math.Abs(dx) <= m.cfg.SwipeThreshold {
			return nil
		}
		m.swipeFired = true
		key := m.cfg.PrevSlideKey
		if dx < 0 {
			key = m.cfg.NextSlideKey
		}
		return []Command{{Kind: PressKey, Key: key}}

	case !edge || s.Confidence <= m.cfg.ClickConfidence:
		return nil

	case label == gesture.Open:
		return []Command{{Kind: PressKey, Key: m.cfg.SlideshowStartKey}}

	case label == gesture.Close:
		return []Command{{Kind: PressKey, Key: m.cfg.SlideshowEndKey}}
	}
	return nil
}

func (m *Machine) togglePresenting() []Command {
	var cmds []Command
	switch m.mode {
	case Presenting:
		m.mode = Normal
	case Dragging:
		cmds = append(cmds, Command{Kind: DragEnd})
		fallthrough
	default:
		m.mode = Presenting
	}
	m.pendingClose = false
	m.swiping = false
	m.swipeFired = false
	return cmds
}

func (m *Machine) enterLocked() []Command {
	var cmds []Command
	if m.mode == Dragging {
		cmds = append(cmds, Command{Kind: DragEnd})
	}
	m.mode = Locked
	m.unlockArmed = m.lastLabel != gesture.Open
	m.resetSession()
	return cmds
}

// resetSession clears every timer and counter tied to the gesture session.
func (m *Machine) resetSession() {
	m.lastClickAt = time.Time{}
	m.pendingClose = false
	m.pendingCloseAt = time.Time{}
	m.scrollOriginY = 0
	m.lastScrollAt = time.Time{}
	m.swiping = false
	m.swipeFired = false
	m.swipeStartX = 0
}

func moveCommand(k Kind, p stabilizer.Position) Command {
	return Command{Kind: k, X: int(math.Round(p.X)), Y: int(math.Round(p.Y))}
}

// InCorner reports whether (x, y) lies within margin pixels of a corner
// of a w x h screen.
func InCorner(x, y, w, h, margin int) bool {
	nearX := x <= margin || x >= w-1-margin
	nearY := y <= margin || y >= h-1-margin
	return nearX && nearY
}
