package input

import (
	"fmt"
	"strings"
	"sync"
)

// Recorder is a Driver that records calls instead of injecting them.
// It is used in tests and for dry runs.
type Recorder struct {
	mu       sync.Mutex
	calls    []string
	fail     map[string]error
	x, y     int
	w, h     int
	dragging bool
	reads    int
}

// NewRecorder creates a recorder for a w x h screen with the cursor in
// the middle.
func NewRecorder(w, h int) *Recorder {
	return &Recorder{w: w, h: h, x: w / 2, y: h / 2, fail: make(map[string]error)}
}

// Fail makes every later call of op return err. A nil err clears it.
func (r *Recorder) Fail(op string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.fail, op)
		return
	}
	r.fail[op] = err
}

// SetCursor places the cursor as if the user had moved the real mouse.
func (r *Recorder) SetCursor(x, y int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.x, r.y = x, y
}

// Calls returns a copy of the recorded calls, e.g. "move 10 20".
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

// Count returns how many recorded calls start with op.
func (r *Recorder) Count(op string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c == op || strings.HasPrefix(c, op+" ") {
			n++
		}
	}
	return n
}

// Dragging reports whether the left button is held.
func (r *Recorder) Dragging() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dragging
}

func (r *Recorder) record(op, format string, args ...any) error {
	if err := r.fail[op]; err != nil {
		return err
	}
	call := op
	if format != "" {
		call += " " + fmt.Sprintf(format, args...)
	}
	r.calls = append(r.calls, call)
	return nil
}

func (r *Recorder) MoveTo(x, y int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("move", "%d %d", x, y); err != nil {
		return err
	}
	r.x, r.y = x, y
	return nil
}

func (r *Recorder) ClickLeft() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.record("click-left", "")
}

func (r *Recorder) ClickRight() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.record("click-right", "")
}

func (r *Recorder) DoubleClickLeft() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.record("double-click", "")
}

func (r *Recorder) DragStart() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("drag-start", ""); err != nil {
		return err
	}
	r.dragging = true
	return nil
}

func (r *Recorder) DragEnd() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.dragging {
		return nil
	}
	r.dragging = false
	return r.record("drag-end", "")
}

func (r *Recorder) Scroll(amount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.record("scroll", "%d", amount)
}

func (r *Recorder) PressKey(combo string) error {
	if _, err := ParseCombo(combo); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.record("key", "%s", combo)
}

// ReleaseAll always records "release-all", held button or not.
func (r *Recorder) ReleaseAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("release-all", ""); err != nil {
		return err
	}
	r.dragging = false
	return nil
}

// CursorReads returns how many times CursorPosition was called.
func (r *Recorder) CursorReads() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reads
}

func (r *Recorder) CursorPosition() (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++
	if err := r.fail["cursor"]; err != nil {
		return 0, 0, err
	}
	return r.x, r.y, nil
}

func (r *Recorder) ScreenSize() (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.w, r.h, nil
}
