//go:build windows

package keymap

import (
	"fmt"

	"golang.design/x/hotkey"
)

// System translates the combo into golang.design/x/hotkey modifiers and key
// for the fallback backend.
func (c Combo) System() ([]hotkey.Modifier, hotkey.Key, error) {
	key, ok := systemKeys[c.key]
	if !ok {
		return nil, 0, fmt.Errorf("key %q has no system mapping", c.key)
	}
	var modifiers []hotkey.Modifier
	for _, mod := range c.mods {
		switch mod {
		case "ctrl":
			modifiers = append(modifiers, hotkey.ModCtrl)
		case "alt":
			modifiers = append(modifiers, hotkey.ModAlt)
		case "shift":
			modifiers = append(modifiers, hotkey.ModShift)
		case "win":
			modifiers = append(modifiers, hotkey.ModWin)
		}
	}
	return modifiers, key, nil
}
