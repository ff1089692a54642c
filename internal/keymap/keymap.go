// Package keymap parses human-readable key combos like "ctrl+alt+v" and
// translates them to the two syntaxes the daemon needs: AutoHotkey modifier
// prefixes for host registration, and golang.design/x/hotkey values for the
// fallback backend.
package keymap

import (
	"fmt"
	"strings"
)

// Combo is a parsed, normalized key combination: zero or more modifiers
// plus exactly one key.
type Combo struct {
	mods []string
	key  string
}

// ahkKeyNames maps normalized key names to the spelling the host expects.
// Single letters and digits pass through unchanged.
var ahkKeyNames = map[string]string{
	"space":  "Space",
	"tab":    "Tab",
	"enter":  "Enter",
	"escape": "Escape",
	"f1":     "F1",
	"f2":     "F2",
	"f3":     "F3",
	"f4":     "F4",
	"f5":     "F5",
	"f6":     "F6",
	"f7":     "F7",
	"f8":     "F8",
	"f9":     "F9",
	"f10":    "F10",
	"f11":    "F11",
	"f12":    "F12",
}

// ahkModifiers maps normalized modifier names to AHK prefix symbols.
var ahkModifiers = map[string]string{
	"ctrl":  "^",
	"alt":   "!",
	"shift": "+",
	"win":   "#",
}

// Parse splits a combo string on "+", normalizes the parts and validates
// them. The last part is the key; everything before it is a modifier.
func Parse(combo string) (Combo, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(combo)), "+")
	keyStr := strings.TrimSpace(parts[len(parts)-1])
	if !isKnownKey(keyStr) {
		return Combo{}, fmt.Errorf("unsupported key: %q", keyStr)
	}

	var mods []string
	for _, part := range parts[:len(parts)-1] {
		part = strings.TrimSpace(part)
		switch part {
		case "ctrl", "alt", "shift", "win":
			mods = append(mods, part)
		case "super", "cmd":
			// Aliases for the OS key.
			mods = append(mods, "win")
		default:
			return Combo{}, fmt.Errorf("unsupported modifier: %q", part)
		}
	}

	return Combo{mods: mods, key: keyStr}, nil
}

func isKnownKey(key string) bool {
	if len(key) == 1 {
		c := key[0]
		return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
	}
	_, ok := ahkKeyNames[key]
	return ok
}

// AHK renders the combo in AutoHotkey syntax, e.g. "^!v" for ctrl+alt+v.
func (c Combo) AHK() string {
	var b strings.Builder
	for _, mod := range c.mods {
		b.WriteString(ahkModifiers[mod])
	}
	if name, ok := ahkKeyNames[c.key]; ok {
		b.WriteString(name)
	} else {
		b.WriteString(c.key)
	}
	return b.String()
}

// String renders the combo back in the config's "mod+mod+key" form.
func (c Combo) String() string {
	if len(c.mods) == 0 {
		return c.key
	}
	return strings.Join(c.mods, "+") + "+" + c.key
}

// Key returns the normalized key name without modifiers.
func (c Combo) Key() string { return c.key }
