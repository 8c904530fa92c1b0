package input

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-vgo/robotgo"
)

// modifierKeys are released by ReleaseAll, in robotgo key names.
var modifierKeys = []string{"alt", "ctrl", "shift", "cmd"}

// RobotDriver injects events through robotgo.
type RobotDriver struct {
	mu sync.Mutex
}

// NewRobotDriver creates a robotgo backed driver.
func NewRobotDriver() *RobotDriver {
	return &RobotDriver{}
}

func (d *RobotDriver) MoveTo(x, y int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	robotgo.Move(x, y)
	return nil
}

func (d *RobotDriver) ClickLeft() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	robotgo.Click("left")
	return nil
}

func (d *RobotDriver) ClickRight() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	robotgo.Click("right")
	return nil
}

func (d *RobotDriver) DoubleClickLeft() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	robotgo.Click("left", true)
	return nil
}

func (d *RobotDriver) DragStart() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return robotgo.Toggle("left")
}

// DragEnd releases the left button whether or not DragStart succeeded; a
// failed press may still have reached the display server.
func (d *RobotDriver) DragEnd() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return robotgo.Toggle("left", "up")
}

func (d *RobotDriver) Scroll(amount int) error {
	if amount == 0 {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if amount > 0 {
		robotgo.ScrollDir(amount, "up")
	} else {
		robotgo.ScrollDir(-amount, "down")
	}
	return nil
}

func (d *RobotDriver) PressKey(combo string) error {
	c, err := ParseCombo(combo)
	if err != nil {
		return err
	}
	mods := make([]interface{}, len(c.Modifiers))
	for i, m := range c.Modifiers {
		mods[i] = m
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return robotgo.KeyTap(c.Key, mods...)
}

// ReleaseAll releases both buttons and every modifier. All releases are
// attempted; the failures are joined.
func (d *RobotDriver) ReleaseAll() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var errs []error
	for _, button := range []string{"left", "right"} {
		if err := robotgo.Toggle(button, "up"); err != nil {
			errs = append(errs, fmt.Errorf("release %s button: %w", button, err))
		}
	}
	for _, key := range modifierKeys {
		if err := robotgo.KeyToggle(key, "up"); err != nil {
			errs = append(errs, fmt.Errorf("release %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

func (d *RobotDriver) CursorPosition() (int, int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	x, y := robotgo.Location()
	return x, y, nil
}

// ScreenSize fails with ErrNoDisplay when robotgo reports an empty screen,
// as it does on a host without a display.
func (d *RobotDriver) ScreenSize() (int, int, error) {
	w, h := robotgo.GetScreenSize()
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("%w: screen size %dx%d", ErrNoDisplay, w, h)
	}
	return w, h, nil
}
