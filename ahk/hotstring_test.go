package ahk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ahkgo/bridge/bridgetest"
)

// registerHotstring registers a hotstring on a fresh recorder and clears
// the recorded registration traffic so tests see only their own calls.
func registerHotstring(t *testing.T, trigger string, opts HotstringOptions) (*Hotstring, *bridgetest.Recorder) {
	t.Helper()
	rec := bridgetest.NewRecorder()
	s := New(rec)
	hs, err := s.Hotstring(trigger, "placeholder", opts)
	require.NoError(t, err)
	rec.Reset()
	return hs, rec
}

// optionString extracts the option-token portion of the last Hotstring
// directive's first argument, ":options:trigger".
func optionString(t *testing.T, rec *bridgetest.Recorder) string {
	t.Helper()
	calls := rec.CallsFor("Hotstring")
	require.NotEmpty(t, calls)
	label, ok := calls[len(calls)-1].Args[0].(string)
	require.True(t, ok)
	require.True(t, len(label) > 1 && label[0] == ':')
	end := len(label)
	for i := 1; i < len(label); i++ {
		if label[i] == ':' {
			end = i
			break
		}
	}
	return label[1:end]
}

func TestHotstringRegistration(t *testing.T) {
	t.Run("defaults produce the full option string", func(t *testing.T) {
		rec := bridgetest.NewRecorder()
		s := New(rec)

		_, err := s.Hotstring("btw", "by the way", HotstringOptions{})
		require.NoError(t, err)

		calls := rec.CallsFor("Hotstring")
		require.Len(t, calls, 2)
		assert.Equal(t, []any{":C0?0*0O0BK-1P0T0Z0:btw", "by the way"}, calls[0].Args)
		// The follow-up enable addresses the identity options only.
		assert.Equal(t, []any{":?0:btw", "", "On"}, calls[1].Args)
	})

	t.Run("case-insensitive triggers are lowercased", func(t *testing.T) {
		hs, _ := registerHotstring(t, "BTW", HotstringOptions{})
		assert.Equal(t, "btw", hs.Trigger())
	})

	t.Run("case-sensitive triggers keep their casing", func(t *testing.T) {
		hs, _ := registerHotstring(t, "BTW", HotstringOptions{CaseSensitive: true})
		assert.Equal(t, "BTW", hs.Trigger())
	})

	t.Run("empty trigger is rejected locally", func(t *testing.T) {
		rec := bridgetest.NewRecorder()
		s := New(rec)
		_, err := s.Hotstring("", "x", HotstringOptions{})
		assert.Error(t, err)
		assert.Empty(t, rec.Calls())
	})

	t.Run("callback replacement registers a function token", func(t *testing.T) {
		rec := bridgetest.NewRecorder()
		s := New(rec)

		fired := false
		_, err := s.Hotstring("sig", "", HotstringOptions{OnTrigger: func() { fired = true }})
		require.NoError(t, err)

		first := rec.CallsFor("Hotstring")[0]
		token, ok := first.Args[1].(string)
		require.True(t, ok)
		fn := rec.Callback(token)
		require.NotNil(t, fn)
		fn(nil)
		assert.True(t, fired)
	})
}

func TestHotstringCaseTokens(t *testing.T) {
	t.Run("case sensitivity always re-emits C and ignores conformity", func(t *testing.T) {
		hs, rec := registerHotstring(t, "sig", HotstringOptions{CaseSensitive: true})
		require.NoError(t, hs.Update(HotstringUpdate{ConformToCase: Off}))
		assert.Equal(t, "C?0", optionString(t, rec))
	})

	t.Run("conform on", func(t *testing.T) {
		hs, rec := registerHotstring(t, "sig", HotstringOptions{})
		require.NoError(t, hs.Update(HotstringUpdate{ConformToCase: On}))
		assert.Equal(t, "C0?0", optionString(t, rec))
	})

	t.Run("conform off", func(t *testing.T) {
		hs, rec := registerHotstring(t, "sig", HotstringOptions{})
		require.NoError(t, hs.Update(HotstringUpdate{ConformToCase: Off}))
		assert.Equal(t, "C1?0", optionString(t, rec))
	})

	t.Run("conform unset emits no case token", func(t *testing.T) {
		hs, rec := registerHotstring(t, "sig", HotstringOptions{})
		require.NoError(t, hs.Update(HotstringUpdate{}))
		assert.Equal(t, "?0", optionString(t, rec))
	})

	t.Run("replace inside word", func(t *testing.T) {
		hs, rec := registerHotstring(t, "sig", HotstringOptions{ReplaceInsideWord: true})
		require.NoError(t, hs.Update(HotstringUpdate{}))
		assert.Equal(t, "?", optionString(t, rec))
	})
}

func TestHotstringEndCharTable(t *testing.T) {
	tests := []struct {
		name string
		wait Tristate
		omit Tristate
		want string
	}{
		{"wait off omit unset", Off, Unset, "?0*"},
		{"wait off omit on", Off, On, "?0*"},
		{"wait off omit off", Off, Off, "?0*"},
		{"wait on omit on", On, On, "?0*0O"},
		{"wait on omit off", On, Off, "?0*0O0"},
		{"wait on omit unset", On, Unset, "?0*0"},
		{"wait unset omit on", Unset, On, "?0O"},
		{"wait unset omit off", Unset, Off, "?0O0"},
		{"both unset", Unset, Unset, "?0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hs, rec := registerHotstring(t, "sig", HotstringOptions{})
			require.NoError(t, hs.Update(HotstringUpdate{
				WaitForEndChar: tt.wait,
				OmitEndChar:    tt.omit,
			}))
			assert.Equal(t, tt.want, optionString(t, rec))
		})
	}
}

func TestHotstringKeyDelayScaling(t *testing.T) {
	tests := []struct {
		name  string
		delay float64
		want  string
	}{
		{"positive seconds scale to milliseconds", 0.5, "?0K500"},
		{"whole seconds scale too", 2, "?0K2000"},
		{"zero passes through", 0, "?0K0"},
		{"negative passes through", -1, "?0K-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hs, rec := registerHotstring(t, "sig", HotstringOptions{})
			require.NoError(t, hs.Update(HotstringUpdate{KeyDelay: Seconds(tt.delay)}))
			assert.Equal(t, tt.want, optionString(t, rec))
		})
	}
}

func TestHotstringRemainingTokens(t *testing.T) {
	t.Run("backspacing", func(t *testing.T) {
		hs, rec := registerHotstring(t, "sig", HotstringOptions{})
		require.NoError(t, hs.Update(HotstringUpdate{Backspacing: Off}))
		assert.Equal(t, "?0B0", optionString(t, rec))
	})

	t.Run("priority", func(t *testing.T) {
		hs, rec := registerHotstring(t, "sig", HotstringOptions{})
		require.NoError(t, hs.Update(HotstringUpdate{Priority: Int(5)}))
		assert.Equal(t, "?0P5", optionString(t, rec))
	})

	t.Run("raw text", func(t *testing.T) {
		hs, rec := registerHotstring(t, "sig", HotstringOptions{})
		require.NoError(t, hs.Update(HotstringUpdate{RawText: On}))
		assert.Equal(t, "?0T", optionString(t, rec))
	})

	t.Run("reset recognizer", func(t *testing.T) {
		hs, rec := registerHotstring(t, "sig", HotstringOptions{})
		require.NoError(t, hs.Update(HotstringUpdate{ResetRecognizer: On}))
		assert.Equal(t, "?0Z", optionString(t, rec))
	})

	t.Run("send modes", func(t *testing.T) {
		for mode, token := range map[SendMode]string{
			SendModeInput: "SI",
			SendModePlay:  "SP",
			SendModeEvent: "SE",
		} {
			hs, rec := registerHotstring(t, "sig", HotstringOptions{})
			require.NoError(t, hs.Update(HotstringUpdate{Mode: mode}))
			assert.Equal(t, "?0"+token, optionString(t, rec))
		}
	})

	t.Run("unknown send mode is an error before any host call", func(t *testing.T) {
		hs, rec := registerHotstring(t, "sig", HotstringOptions{})
		err := hs.Update(HotstringUpdate{Mode: SendMode("teleport")})
		assert.Error(t, err)
		assert.Empty(t, rec.Calls())
	})
}

func TestHotstringLifecycle(t *testing.T) {
	t.Run("identity options address enable and disable", func(t *testing.T) {
		hs, rec := registerHotstring(t, "Sig", HotstringOptions{
			CaseSensitive:     true,
			ReplaceInsideWord: true,
		})

		require.NoError(t, hs.Disable())
		require.NoError(t, hs.Toggle())

		calls := rec.CallsFor("Hotstring")
		require.Len(t, calls, 2)
		assert.Equal(t, []any{":C?:Sig", "", "Off"}, calls[0].Args)
		assert.Equal(t, []any{":C?:Sig", "", "Toggle"}, calls[1].Args)
	})
}
