package input

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/config"
)

func TestParseCombo(t *testing.T) {
	tests := []struct {
		in      string
		key     string
		mods    []string
		wantErr bool
	}{
		{"alt+f4", "f4", []string{"alt"}, false},
		{"F5", "f5", nil, false},
		{" Ctrl + Shift + t ", "t", []string{"ctrl", "shift"}, false},
		{"super+l", "l", []string{"cmd"}, false},
		{"", "", nil, true},
		{"alt+", "", nil, true},
		{"f4+alt", "", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseCombo(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCombo) {
					t.Errorf("ParseCombo(%q) error = %v, want ErrInvalidCombo", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCombo(%q) error: %v", tt.in, err)
			}
			if c.Key != tt.key || len(c.Modifiers) != len(tt.mods) {
				t.Fatalf("ParseCombo(%q) = %+v", tt.in, c)
			}
			for i := range tt.mods {
				if c.Modifiers[i] != tt.mods[i] {
					t.Errorf("modifier %d = %q, want %q", i, c.Modifiers[i], tt.mods[i])
				}
			}
		})
	}
}

func TestComboString(t *testing.T) {
	c, err := ParseCombo("ALT+F4")
	if err != nil {
		t.Fatal(err)
	}
	if c.String() != "alt+f4" {
		t.Errorf("String() = %q, want alt+f4", c.String())
	}
}

func TestXdotoolCombo(t *testing.T) {
	tests := map[string]string{
		"alt+f4":       "alt+F4",
		"f12":          "F12",
		"escape":       "Escape",
		"ctrl+left":    "ctrl+Left",
		"super+f":      "super+f",
		"shift+pageup": "shift+Prior",
	}
	for in, want := range tests {
		c, err := ParseCombo(in)
		if err != nil {
			t.Fatalf("ParseCombo(%q): %v", in, err)
		}
		if got := xdotoolCombo(c); got != want {
			t.Errorf("xdotoolCombo(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNew(t *testing.T) {
	d, err := New(config.DriverConfig{Backend: "exec", Command: "xdotool", Timeout: time.Second})
	if err != nil {
		t.Fatalf("New(exec) error: %v", err)
	}
	if _, ok := d.(*ExecDriver); !ok {
		t.Errorf("New(exec) = %T, want *ExecDriver", d)
	}

	if _, err := New(config.DriverConfig{Backend: "uinput"}); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("New(uinput) error = %v, want ErrUnknownBackend", err)
	}
}

func TestDispatcher(t *testing.T) {
	rec := NewRecorder(1920, 1080)
	d := NewDispatcher(rec, nil)

	cmds := []action.Command{
		{Kind: action.MoveTarget, X: 5, Y: 6},
		{Kind: action.DragStart},
		{Kind: action.MoveTo, X: 7, Y: 8},
		{Kind: action.DragEnd},
		{Kind: action.ClickLeft},
		{Kind: action.ClickRight},
		{Kind: action.DoubleClickLeft},
		{Kind: action.Scroll, Amount: -4},
		{Kind: action.PressKey, Key: "f5"},
	}
	for _, c := range cmds {
		if err := d.Execute(c); err != nil {
			t.Fatalf("Execute(%v) error: %v", c, err)
		}
	}

	want := []string{
		"move 5 6", "drag-start", "move 7 8", "drag-end",
		"click-left", "click-right", "double-click", "scroll -4", "key f5",
	}
	got := rec.Calls()
	if len(got) != len(want) {
		t.Fatalf("calls = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, got[i], want[i])
		}
	}
	if d.Errors() != 0 {
		t.Errorf("Errors() = %d, want 0", d.Errors())
	}
}

func TestDispatcherCountsFailures(t *testing.T) {
	rec := NewRecorder(1920, 1080)
	boom := errors.New("boom")
	rec.Fail("click-left", boom)
	d := NewDispatcher(rec, nil)

	err := d.Execute(action.Command{Kind: action.ClickLeft})
	var cerr *CommandError
	if !errors.As(err, &cerr) || cerr.Op != "click-left" || !errors.Is(err, boom) {
		t.Fatalf("Execute() error = %v, want CommandError wrapping boom", err)
	}

	if err := d.Execute(action.Command{Kind: action.PressKey, Key: "alt+"}); err == nil {
		t.Error("expected error for a malformed key combination")
	}
	if d.Errors() != 2 {
		t.Errorf("Errors() = %d, want 2", d.Errors())
	}

	rec.Fail("click-left", nil)
	if err := d.Execute(action.Command{Kind: action.ClickLeft}); err != nil {
		t.Errorf("Execute() after clearing failure = %v", err)
	}
}

func TestRecorderReleaseAll(t *testing.T) {
	rec := NewRecorder(800, 600)
	d := NewDispatcher(rec, nil)

	if err := d.ReleaseAll(); err != nil {
		t.Fatal(err)
	}
	if rec.Count("release-all") != 1 {
		t.Errorf("ReleaseAll without a drag was not sent: %q", rec.Calls())
	}

	d.Execute(action.Command{Kind: action.DragStart})
	if !rec.Dragging() {
		t.Fatal("Dragging() = false after drag-start")
	}
	d.ReleaseAll()
	if rec.Dragging() || rec.Count("release-all") != 2 {
		t.Errorf("ReleaseAll did not release the drag: %q", rec.Calls())
	}

	rec.Fail("release-all", errors.New("stuck"))
	if err := d.ReleaseAll(); err == nil {
		t.Error("ReleaseAll() = nil, want the driver failure")
	}
	if d.Errors() != 1 {
		t.Errorf("Errors() = %d, want 1", d.Errors())
	}

	x, y, _ := rec.CursorPosition()
	if x != 400 || y != 300 {
		t.Errorf("CursorPosition() = (%d, %d), want screen center", x, y)
	}
}

type noScreen struct{}

func (noScreen) ScreenSize() (int, int, error) {
	return 0, 0, fmt.Errorf("%w: screen size 0x0", ErrNoDisplay)
}

type fixedScreen struct{ w, h int }

func (s fixedScreen) ScreenSize() (int, int, error) { return s.w, s.h, nil }

func TestNewDryRun(t *testing.T) {
	d, err := newDryRun(fixedScreen{1280, 720})
	if err != nil {
		t.Fatalf("newDryRun() error: %v", err)
	}
	rec, ok := d.(*Recorder)
	if !ok {
		t.Fatalf("newDryRun() = %T, want *Recorder", d)
	}
	if w, h, _ := rec.ScreenSize(); w != 1280 || h != 720 {
		t.Errorf("ScreenSize() = %dx%d, want 1280x720", w, h)
	}

	if _, err := newDryRun(noScreen{}); !errors.Is(err, ErrNoDisplay) {
		t.Errorf("newDryRun() without a display error = %v, want ErrNoDisplay", err)
	}
}
