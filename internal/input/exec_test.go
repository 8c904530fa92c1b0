package input

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// fakeHelper writes an xdotool stand-in that logs its argv, one call per
// line, and answers the query subcommands.
func fakeHelper(t *testing.T) (command, logPath string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	dir := t.TempDir()
	logPath = filepath.Join(dir, "calls.log")
	script := fmt.Sprintf(`#!/bin/sh
echo "$@" >> %q
if [ -n "$FAKE_XDOTOOL_FAIL" ] && [ "$1" = "$FAKE_XDOTOOL_FAIL" ]; then
  echo "cannot $1" >&2; exit 1
fi
case "$1" in
getmouselocation) printf 'X=120\nY=45\nSCREEN=0\nWINDOW=1234\n' ;;
getdisplaygeometry) echo "2560 1440" ;;
fail) echo "no display" >&2; exit 3 ;;
hang) exec sleep 5 ;;
esac
`, logPath)

	command = filepath.Join(dir, "xdotool")
	if err := os.WriteFile(command, []byte(script), 0755); err != nil {
		t.Fatalf("failed to write helper: %v", err)
	}
	return command, logPath
}

func readCalls(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read call log: %v", err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestExecDriver_Commands(t *testing.T) {
	command, logPath := fakeHelper(t)
	d := NewExecDriver(command, 5*time.Second)

	steps := []struct {
		name string
		call func() error
		want string
	}{
		{"move", func() error { return d.MoveTo(10, 20) }, "mousemove 10 20"},
		{"click left", d.ClickLeft, "click 1"},
		{"click right", d.ClickRight, "click 3"},
		{"double click", d.DoubleClickLeft, "click --repeat 2 1"},
		{"drag start", d.DragStart, "mousedown 1"},
		{"drag end", d.DragEnd, "mouseup 1"},
		{"scroll up", func() error { return d.Scroll(3) }, "click --repeat 3 4"},
		{"scroll down", func() error { return d.Scroll(-2) }, "click --repeat 2 5"},
		{"window close", func() error { return d.PressKey("alt+f4") }, "key alt+F4"},
		{"escape", func() error { return d.PressKey("escape") }, "key Escape"},
		{"next slide", func() error { return d.PressKey("right") }, "key Right"},
	}

	for _, s := range steps {
		if err := s.call(); err != nil {
			t.Fatalf("%s: %v", s.name, err)
		}
	}

	calls := readCalls(t, logPath)
	if len(calls) != len(steps) {
		t.Fatalf("got %d calls, want %d: %q", len(calls), len(steps), calls)
	}
	for i, s := range steps {
		if calls[i] != s.want {
			t.Errorf("%s: ran %q, want %q", s.name, calls[i], s.want)
		}
	}
}

func TestExecDriver_ReleaseAllWithoutDrag(t *testing.T) {
	command, logPath := fakeHelper(t)
	d := NewExecDriver(command, 5*time.Second)

	if err := d.Scroll(0); err != nil {
		t.Fatalf("Scroll(0) = %v", err)
	}
	if _, err := os.Stat(logPath); !os.IsNotExist(err) {
		t.Fatalf("helper ran for a no-op scroll")
	}

	// No DragStart: a timed out mousedown leaves the button pressed with
	// nothing recorded, so the release must not depend on it.
	if err := d.ReleaseAll(); err != nil {
		t.Fatalf("ReleaseAll() = %v", err)
	}

	calls := readCalls(t, logPath)
	want := []string{"mouseup 1", "mouseup 3", "keyup alt ctrl shift super"}
	if strings.Join(calls, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %q, want %q", calls, want)
	}
}

func TestExecDriver_ReleaseAllContinuesAfterFailure(t *testing.T) {
	command, logPath := fakeHelper(t)
	t.Setenv("FAKE_XDOTOOL_FAIL", "mouseup")
	d := NewExecDriver(command, 5*time.Second)

	err := d.ReleaseAll()
	if err == nil || !strings.Contains(err.Error(), "cannot mouseup") {
		t.Fatalf("ReleaseAll() = %v, want the mouseup failures", err)
	}

	calls := readCalls(t, logPath)
	if len(calls) != 3 || calls[2] != "keyup alt ctrl shift super" {
		t.Errorf("calls = %q, want modifiers released after the failed mouseups", calls)
	}
}

func TestExecDriver_DragEndWithoutDragStart(t *testing.T) {
	command, logPath := fakeHelper(t)
	d := NewExecDriver(command, 5*time.Second)

	if err := d.DragEnd(); err != nil {
		t.Fatalf("DragEnd() = %v", err)
	}
	if calls := readCalls(t, logPath); len(calls) != 1 || calls[0] != "mouseup 1" {
		t.Errorf("calls = %q, want [mouseup 1]", calls)
	}
}

func TestExecDriver_Queries(t *testing.T) {
	command, _ := fakeHelper(t)
	d := NewExecDriver(command, 5*time.Second)

	x, y, err := d.CursorPosition()
	if err != nil {
		t.Fatalf("CursorPosition() error: %v", err)
	}
	if x != 120 || y != 45 {
		t.Errorf("CursorPosition() = (%d, %d), want (120, 45)", x, y)
	}

	w, h, err := d.ScreenSize()
	if err != nil {
		t.Fatalf("ScreenSize() error: %v", err)
	}
	if w != 2560 || h != 1440 {
		t.Errorf("ScreenSize() = (%d, %d), want (2560, 1440)", w, h)
	}
}

func TestExecDriver_Failure(t *testing.T) {
	command, _ := fakeHelper(t)
	d := NewExecDriver(command, 5*time.Second)

	_, err := d.run("fail")
	if err == nil {
		t.Fatal("expected error from failing helper")
	}
	if !strings.Contains(err.Error(), "no display") {
		t.Errorf("error %q does not carry stderr", err)
	}
}

func TestExecDriver_Timeout(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping timeout test in short mode")
	}
	command, _ := fakeHelper(t)
	d := NewExecDriver(command, 100*time.Millisecond)

	start := time.Now()
	_, err := d.run("hang")
	if err == nil || !strings.Contains(err.Error(), "timeout") {
		t.Errorf("run(hang) error = %v, want timeout", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("timeout took %v", elapsed)
	}
}

func TestExecDriver_MissingBinary(t *testing.T) {
	d := NewExecDriver(filepath.Join(t.TempDir(), "missing"), time.Second)
	if err := d.ClickLeft(); err == nil {
		t.Error("expected error for a missing helper")
	}
}
