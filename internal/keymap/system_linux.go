//go:build linux

package keymap

import (
	"fmt"

	"golang.design/x/hotkey"
)

// System translates the combo into golang.design/x/hotkey modifiers and key
// for the fallback backend.
//
// X11 notes: Alt is Mod1, Super/Win is Mod4.
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
			modifiers = append(modifiers, hotkey.Mod1)
		case "shift":
			modifiers = append(modifiers, hotkey.ModShift)
		case "win":
			modifiers = append(modifiers, hotkey.Mod4)
		}
	}
	return modifiers, key, nil
}
