package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndAHK(t *testing.T) {
	cases := []struct {
		combo string
		ahk   string
	}{
		{"ctrl+alt+v", "^!v"},
		{"ctrl+shift+alt+r", "^+!r"},
		{"win+z", "#z"},
		{"super+z", "#z"},
		{"cmd+z", "#z"},
		{"f5", "F5"},
		{"ctrl+space", "^Space"},
		{"shift+enter", "+Enter"},
		{"escape", "Escape"},
		{"alt+7", "!7"},
		{"CTRL+ALT+V", "^!v"},
		{" ctrl + alt + v ", "^!v"},
	}
	for _, tc := range cases {
		t.Run(tc.combo, func(t *testing.T) {
			combo, err := Parse(tc.combo)
			require.NoError(t, err)
			assert.Equal(t, tc.ahk, combo.AHK())
		})
	}
}

func TestParseRejectsUnknownParts(t *testing.T) {
	for _, combo := range []string{"", "ctrl+", "hyper+v", "ctrl+volumeup", "ctrl+alt"} {
		t.Run(combo, func(t *testing.T) {
			_, err := Parse(combo)
			assert.Error(t, err)
		})
	}
}

func TestComboString(t *testing.T) {
	combo, err := Parse("Super+Shift+F2")
	require.NoError(t, err)
	assert.Equal(t, "win+shift+f2", combo.String())
	assert.Equal(t, "f2", combo.Key())

	plain, err := Parse("x")
	require.NoError(t, err)
	assert.Equal(t, "x", plain.String())
}
