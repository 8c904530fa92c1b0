// Package input injects pointer and keyboard events into the desktop.
package input

import (
	"errors"
	"fmt"

	"github.com/ayusman/mudra/internal/config"
)

var (
	// ErrUnknownBackend is returned by New for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown input backend")

	// ErrNoDisplay means the backend could not find a usable screen.
	ErrNoDisplay = errors.New("no display")
)

// Driver is an OS input backend. Implementations must be safe for
// concurrent use: the mover and the action stage call it independently.
type Driver interface {
	MoveTo(x, y int) error
	ClickLeft() error
	ClickRight() error
	DoubleClickLeft() error
	DragStart() error
	DragEnd() error
	// Scroll scrolls by amount wheel steps; positive is up.
	Scroll(amount int) error
	// PressKey taps a key combination such as "alt+f4".
	PressKey(combo string) error
	// ReleaseAll lets go of both buttons and every modifier key,
	// whatever the driver believes is held.
	ReleaseAll() error
	CursorPosition() (x, y int, err error)
	ScreenSize() (w, h int, err error)
}

// New creates the backend selected by cfg.
func New(cfg config.DriverConfig) (Driver, error) {
	switch cfg.Backend {
	case "", "robotgo":
		return NewRobotDriver(), nil
	case "exec":
		return NewExecDriver(cfg.Command, cfg.Timeout), nil
	case "dry-run":
		return newDryRun(NewRobotDriver())
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// newDryRun sizes a Recorder from the real screen.
func newDryRun(screen interface{ ScreenSize() (int, int, error) }) (Driver, error) {
	w, h, err := screen.ScreenSize()
	if err != nil {
		return nil, fmt.Errorf("dry-run backend: %w", err)
	}
	return NewRecorder(w, h), nil
}
