package input

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/log"
)

// CommandError reports a failed injection.
type CommandError struct {
	Op  string
	Err error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("input %s: %v", e.Op, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Dispatcher executes action commands on a Driver. Failures are logged
// and counted; they never stop the pipeline.
type Dispatcher struct {
	driver Driver
	logger *slog.Logger
	errors atomic.Uint64
}

// NewDispatcher creates a dispatcher for driver.
func NewDispatcher(driver Driver, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = log.L()
	}
	return &Dispatcher{driver: driver, logger: logger}
}

// Driver returns the underlying driver.
func (d *Dispatcher) Driver() Driver {
	return d.driver
}

// Execute runs c and returns the wrapped error, if any, after logging it.
func (d *Dispatcher) Execute(c action.Command) error {
	var err error
	switch c.Kind {
	case action.MoveTarget, action.MoveTo:
		err = d.driver.MoveTo(c.X, c.Y)
	case action.ClickLeft:
		err = d.driver.ClickLeft()
	case action.ClickRight:
		err = d.driver.ClickRight()
	case action.DoubleClickLeft:
		err = d.driver.DoubleClickLeft()
	case action.DragStart:
		err = d.driver.DragStart()
	case action.DragEnd:
		err = d.driver.DragEnd()
	case action.Scroll:
		err = d.driver.Scroll(c.Amount)
	case action.PressKey:
		err = d.driver.PressKey(c.Key)
	default:
		err = fmt.Errorf("unsupported command %v", c.Kind)
	}
	if err == nil {
		if c.Kind != action.MoveTarget && c.Kind != action.MoveTo {
			d.logger.Debug("input", "command", c.String())
		}
		return nil
	}
	return d.fail(c.Kind.String(), err)
}

// ReleaseAll releases buttons and modifiers, logging any failure.
func (d *Dispatcher) ReleaseAll() error {
	if err := d.driver.ReleaseAll(); err != nil {
		return d.fail("release-all", err)
	}
	return nil
}

func (d *Dispatcher) fail(op string, err error) error {
	d.errors.Add(1)
	cerr := &CommandError{Op: op, Err: err}
	d.logger.Warn("input command failed", "op", op, "error", err)
	return cerr
}

// Errors returns how many commands have failed.
func (d *Dispatcher) Errors() uint64 {
	return d.errors.Load()
}
