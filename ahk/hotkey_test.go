package ahk

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ahkgo/bridge/bridgetest"
)

func TestHotkeyRegistration(t *testing.T) {
	t.Run("emits update then enable", func(t *testing.T) {
		rec := bridgetest.NewRecorder()
		s := New(rec)

		hk, err := s.Hotkey("F1", func() {}, HotkeyOptions{})
		require.NoError(t, err)
		assert.Equal(t, "F1", hk.KeyName())

		calls := rec.Calls()
		require.Len(t, calls, 2)
		assert.Equal(t, "Hotkey", calls[0].Cmd)
		assert.Equal(t, []any{uint64(0), "F1", "fn#1", "B0P0T1I0"}, calls[0].Args)
		assert.Equal(t, "HotkeySpecial", calls[1].Cmd)
		assert.Equal(t, []any{"F1", "On"}, calls[1].Args)
	})

	t.Run("explicit options override registration defaults", func(t *testing.T) {
		rec := bridgetest.NewRecorder()
		s := New(rec)

		_, err := s.Hotkey("F2", func() {}, HotkeyOptions{
			Buffer:     On,
			Priority:   Int(-3),
			MaxThreads: Int(4),
			InputLevel: Int(2),
		})
		require.NoError(t, err)

		calls := rec.CallsFor("Hotkey")
		require.Len(t, calls, 1)
		assert.Equal(t, "BP-3T4I2", calls[0].Args[3])
	})

	t.Run("empty key name is rejected locally", func(t *testing.T) {
		rec := bridgetest.NewRecorder()
		s := New(rec)

		_, err := s.Hotkey("", func() {}, HotkeyOptions{})
		assert.ErrorIs(t, err, ErrInvalidKeyName)
		assert.Empty(t, rec.Calls())
	})

	t.Run("nil action is rejected locally", func(t *testing.T) {
		rec := bridgetest.NewRecorder()
		s := New(rec)

		_, err := s.Hotkey("F3", nil, HotkeyOptions{})
		assert.Error(t, err)
		assert.Empty(t, rec.Calls())
	})

	t.Run("action is invocable through the registered callback", func(t *testing.T) {
		rec := bridgetest.NewRecorder()
		s := New(rec)

		fired := false
		_, err := s.Hotkey("F4", func() { fired = true }, HotkeyOptions{})
		require.NoError(t, err)

		fn := rec.Callback("fn#1")
		require.NotNil(t, fn)
		fn(nil)
		assert.True(t, fired)
	})
}

func TestHotkeyOptionsEncode(t *testing.T) {
	tests := []struct {
		name string
		opts HotkeyOptions
		want string
	}{
		{"all unset", HotkeyOptions{}, ""},
		{"buffer on", HotkeyOptions{Buffer: On}, "B"},
		{"buffer off", HotkeyOptions{Buffer: Off}, "B0"},
		{"priority only", HotkeyOptions{Priority: Int(7)}, "P7"},
		{"negative priority", HotkeyOptions{Priority: Int(-1)}, "P-1"},
		{"max threads only", HotkeyOptions{MaxThreads: Int(1)}, "T1"},
		{"input level only", HotkeyOptions{InputLevel: Int(50)}, "I50"},
		{
			"everything",
			HotkeyOptions{Buffer: Off, Priority: Int(0), MaxThreads: Int(2), InputLevel: Int(1)},
			"B0P0T2I1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.opts.encode())
		})
	}
}

func TestHotkeyLifecycle(t *testing.T) {
	rec := bridgetest.NewRecorder()
	s := New(rec)

	hk, err := s.Hotkey("^+v", func() {}, HotkeyOptions{})
	require.NoError(t, err)
	rec.Reset()

	require.NoError(t, hk.Disable())
	require.NoError(t, hk.Enable())
	require.NoError(t, hk.Toggle())

	calls := rec.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, []any{"^+v", "Off"}, calls[0].Args)
	assert.Equal(t, []any{"^+v", "On"}, calls[1].Args)
	assert.Equal(t, []any{"^+v", "Toggle"}, calls[2].Args)
}

func TestHotkeyInContext(t *testing.T) {
	t.Run("registration is wrapped in context activation", func(t *testing.T) {
		rec := bridgetest.NewRecorder()
		s := New(rec)
		ctx, err := s.HotkeyContext(func(string) bool { return true })
		require.NoError(t, err)

		_, err = ctx.Hotkey("F5", func() {}, HotkeyOptions{})
		require.NoError(t, err)

		var names []string
		for _, c := range rec.Calls() {
			names = append(names, c.Cmd)
		}
		assert.Equal(t, []string{
			"HotkeyContext", "Hotkey", "HotkeyExitContext",
			"HotkeyContext", "HotkeySpecial", "HotkeyExitContext",
		}, names)

		// The Hotkey directive carries the context's identity, not the
		// default context's.
		hotkeyCall := rec.CallsFor("Hotkey")[0]
		assert.Equal(t, uint64(1), hotkeyCall.Args[0])
	})

	t.Run("context exit still runs when registration fails", func(t *testing.T) {
		rec := bridgetest.NewRecorder()
		s := New(rec)
		ctx, err := s.HotkeyContext(func(string) bool { return true })
		require.NoError(t, err)

		hostErr := errors.New("no such key")
		rec.StubError("Hotkey", hostErr)

		_, err = ctx.Hotkey("bogus", func() {}, HotkeyOptions{})
		assert.ErrorIs(t, err, hostErr)

		var names []string
		for _, c := range rec.Calls() {
			names = append(names, c.Cmd)
		}
		assert.Equal(t, []string{"HotkeyContext", "Hotkey", "HotkeyExitContext"}, names)
	})
}
