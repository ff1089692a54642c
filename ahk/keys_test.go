package ahk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ahkgo/bridge/bridgetest"
)

func TestGetKeyState(t *testing.T) {
	t.Run("nonzero result means down", func(t *testing.T) {
		rec := bridgetest.NewRecorder()
		rec.StubResult("GetKeyState", "1")
		s := New(rec)

		down, err := s.GetKeyState("Shift")
		require.NoError(t, err)
		assert.True(t, down)
		assert.Equal(t, []any{"Shift", ""}, rec.Calls()[0].Args)
	})

	t.Run("zero result means up", func(t *testing.T) {
		rec := bridgetest.NewRecorder()
		rec.StubResult("GetKeyState", "0")
		s := New(rec)

		down, err := s.GetKeyState("Shift")
		require.NoError(t, err)
		assert.False(t, down)
	})

	t.Run("empty result is a typed error", func(t *testing.T) {
		rec := bridgetest.NewRecorder()
		s := New(rec)

		_, err := s.GetKeyState("NotAKey")
		assert.ErrorIs(t, err, ErrKeyStateUnknown)
	})

	t.Run("physical state queries use mode P", func(t *testing.T) {
		rec := bridgetest.NewRecorder()
		rec.StubResult("GetKeyState", "0")
		s := New(rec)

		_, err := s.GetPhysicalKeyState("LButton")
		require.NoError(t, err)
		assert.Equal(t, []any{"LButton", "P"}, rec.Calls()[0].Args)
	})
}

func TestIsKeyToggled(t *testing.T) {
	t.Run("accepts the toggleable keys case-insensitively", func(t *testing.T) {
		for _, key := range []string{"CapsLock", "NUMLOCK", "scrolllock", "INSERT", "ins"} {
			rec := bridgetest.NewRecorder()
			rec.StubResult("GetKeyState", "1")
			s := New(rec)

			toggled, err := s.IsKeyToggled(key)
			require.NoError(t, err, key)
			assert.True(t, toggled)
			assert.Equal(t, []any{key, "T"}, rec.Calls()[0].Args)
		}
	})

	t.Run("rejects every other key before calling the host", func(t *testing.T) {
		rec := bridgetest.NewRecorder()
		s := New(rec)

		_, err := s.IsKeyToggled("Volume_Up")
		assert.Error(t, err)
		assert.Empty(t, rec.Calls())
	})
}

func TestSetLockKeyStates(t *testing.T) {
	t.Run("each lock key maps to its directive", func(t *testing.T) {
		rec := bridgetest.NewRecorder()
		s := New(rec)

		require.NoError(t, s.SetCapsLockState(LockAlwaysOn))
		require.NoError(t, s.SetNumLockState(LockOn))
		require.NoError(t, s.SetScrollLockState(LockOff))

		calls := rec.Calls()
		require.Len(t, calls, 3)
		assert.Equal(t, "SetCapsLockState", calls[0].Cmd)
		assert.Equal(t, []any{"AlwaysOn"}, calls[0].Args)
		assert.Equal(t, "SetNumLockState", calls[1].Cmd)
		assert.Equal(t, []any{"On"}, calls[1].Args)
		assert.Equal(t, "SetScrollLockState", calls[2].Cmd)
		assert.Equal(t, []any{"Off"}, calls[2].Args)
	})

	t.Run("unknown states are rejected locally", func(t *testing.T) {
		rec := bridgetest.NewRecorder()
		s := New(rec)

		err := s.SetCapsLockState(LockKeyState("Sometimes"))
		assert.Error(t, err)
		assert.Empty(t, rec.Calls())
	})
}

func TestKeyWait(t *testing.T) {
	t.Run("pressed wait emits D plus set options", func(t *testing.T) {
		rec := bridgetest.NewRecorder()
		rec.StubResult("KeyWait", "0")
		s := New(rec)

		pressed, err := s.KeyWaitPressed("a", KeyWaitOptions{
			LogicalState: true,
			Timeout:      1500 * time.Millisecond,
		})
		require.NoError(t, err)
		assert.True(t, pressed)
		assert.Equal(t, []any{"a", "DLT1.5"}, rec.Calls()[0].Args)
	})

	t.Run("released wait omits D", func(t *testing.T) {
		rec := bridgetest.NewRecorder()
		rec.StubResult("KeyWait", "0")
		s := New(rec)

		_, err := s.KeyWaitReleased("a", KeyWaitOptions{})
		require.NoError(t, err)
		assert.Equal(t, []any{"a", ""}, rec.Calls()[0].Args)
	})

	t.Run("timeout reports false", func(t *testing.T) {
		rec := bridgetest.NewRecorder()
		rec.StubResult("KeyWait", "1")
		s := New(rec)

		pressed, err := s.KeyWaitPressed("a", KeyWaitOptions{Timeout: time.Second})
		require.NoError(t, err)
		assert.False(t, pressed)
	})
}
