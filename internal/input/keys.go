package input

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCombo is returned for an empty or malformed key combination.
var ErrInvalidCombo = errors.New("invalid key combination")

var modifierNames = map[string]string{
	"alt":     "alt",
	"ctrl":    "ctrl",
	"control": "ctrl",
	"shift":   "shift",
	"cmd":     "cmd",
	"super":   "cmd",
	"win":     "cmd",
}

// Combo is a key with its held modifiers.
type Combo struct {
	Key       string
	Modifiers []string
}

// ParseCombo parses "mod+mod+key". Names are case-insensitive; the last
// element is the key and every other element must be a modifier.
func ParseCombo(s string) (Combo, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "+")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
		if parts[i] == "" {
			return Combo{}, fmt.Errorf("%w: %q", ErrInvalidCombo, s)
		}
	}

	c := Combo{Key: parts[len(parts)-1]}
	for _, p := range parts[:len(parts)-1] {
		mod, ok := modifierNames[p]
		if !ok {
			return Combo{}, fmt.Errorf("%w: %q is not a modifier", ErrInvalidCombo, p)
		}
		c.Modifiers = append(c.Modifiers, mod)
	}
	return c, nil
}

func (c Combo) String() string {
	return strings.Join(append(append([]string{}, c.Modifiers...), c.Key), "+")
}
