//go:build !windows && !linux

package keymap

import (
	"fmt"

	"golang.design/x/hotkey"
)

// System is not implemented on this OS. The daemon primarily targets
// Windows, with Linux support for development.
func (c Combo) System() ([]hotkey.Modifier, hotkey.Key, error) {
	return nil, 0, fmt.Errorf("fallback hotkeys are not supported on this OS")
}
