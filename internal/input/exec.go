package input

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"
)

// xdotoolKeys maps lower-case key names to X keysyms.
var xdotoolKeys = map[string]string{
	"escape":    "Escape",
	"esc":       "Escape",
	"enter":     "Return",
	"return":    "Return",
	"tab":       "Tab",
	"space":     "space",
	"backspace": "BackSpace",
	"delete":    "Delete",
	"left":      "Left",
	"right":     "Right",
	"up":        "Up",
	"down":      "Down",
	"home":      "Home",
	"end":       "End",
	"pageup":    "Prior",
	"pagedown":  "Next",
	"cmd":       "super",
}

// ExecDriver injects events by running an xdotool compatible helper once
// per command.
type ExecDriver struct {
	command string
	timeout time.Duration

	mu sync.Mutex
}

// NewExecDriver creates a driver that runs command with a per-call timeout.
func NewExecDriver(command string, timeout time.Duration) *ExecDriver {
	if timeout <= 0 {
		timeout = 500 * time.Millisecond
	}
	return &ExecDriver{command: command, timeout: timeout}
}

// run executes the helper with args and returns its stdout.
func (d *ExecDriver) run(args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, d.command, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("%s %s: timeout after %s", d.command, args[0], d.timeout)
	}

	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s %s: %w, stderr: %s", d.command, args[0], err, msg)
		}
		return nil, fmt.Errorf("%s %s: %w", d.command, args[0], err)
	}
	return stdout.Bytes(), nil
}

func (d *ExecDriver) do(args ...string) error {
	_, err := d.run(args...)
	return err
}

func (d *ExecDriver) MoveTo(x, y int) error {
	return d.do("mousemove", strconv.Itoa(x), strconv.Itoa(y))
}

func (d *ExecDriver) ClickLeft() error {
	return d.do("click", "1")
}

func (d *ExecDriver) ClickRight() error {
	return d.do("click", "3")
}

func (d *ExecDriver) DoubleClickLeft() error {
	return d.do("click", "--repeat", "2", "1")
}

func (d *ExecDriver) DragStart() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.do("mousedown", "1")
}

// DragEnd always sends the mouseup. A mousedown that timed out may still
// have pressed the button.
func (d *ExecDriver) DragEnd() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.do("mouseup", "1")
}

// ReleaseAll releases both buttons and the modifier keys. Every release
// runs even when an earlier one fails.
func (d *ExecDriver) ReleaseAll() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var errs []error
	for _, args := range [][]string{
		{"mouseup", "1"},
		{"mouseup", "3"},
		{"keyup", "alt", "ctrl", "shift", "super"},
	} {
		if err := d.do(args...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (d *ExecDriver) Scroll(amount int) error {
	switch {
	case amount > 0:
		return d.do("click", "--repeat", strconv.Itoa(amount), "4")
	case amount < 0:
		return d.do("click", "--repeat", strconv.Itoa(-amount), "5")
	}
	return nil
}

func (d *ExecDriver) PressKey(combo string) error {
	c, err := ParseCombo(combo)
	if err != nil {
		return err
	}
	return d.do("key", xdotoolCombo(c))
}

func xdotoolCombo(c Combo) string {
	names := make([]string, 0, len(c.Modifiers)+1)
	for _, m := range c.Modifiers {
		names = append(names, xdotoolKey(m))
	}
	return strings.Join(append(names, xdotoolKey(c.Key)), "+")
}

func xdotoolKey(k string) string {
	if sym, ok := xdotoolKeys[k]; ok {
		return sym
	}
	if len(k) > 1 && k[0] == 'f' {
		if _, err := strconv.Atoi(k[1:]); err == nil {
			return "F" + k[1:]
		}
	}
	return k
}

// CursorPosition parses the X= and Y= lines of getmouselocation --shell.
func (d *ExecDriver) CursorPosition() (int, int, error) {
	out, err := d.run("getmouselocation", "--shell")
	if err != nil {
		return 0, 0, err
	}

	x, y := -1, -1
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		k, v, ok := strings.Cut(strings.TrimSpace(sc.Text()), "=")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			continue
		}
		switch k {
		case "X":
			x = n
		case "Y":
			y = n
		}
	}
	if x < 0 || y < 0 {
		return 0, 0, fmt.Errorf("unexpected getmouselocation output: %q", out)
	}
	return x, y, nil
}

// ScreenSize parses the "W H" output of getdisplaygeometry.
func (d *ExecDriver) ScreenSize() (int, int, error) {
	out, err := d.run("getdisplaygeometry")
	if err != nil {
		return 0, 0, err
	}
	fields := strings.Fields(string(out))
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("unexpected getdisplaygeometry output: %q", out)
	}
	w, errW := strconv.Atoi(fields[0])
	h, errH := strconv.Atoi(fields[1])
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("unexpected getdisplaygeometry output: %q", out)
	}
	return w, h, nil
}
