package ui

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNotifyDisabledOnlyLogs(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	m := NewNotificationManager(false, "ahkd", nil, zap.New(core))

	m.Notify(LevelWarn, "Fallback mode", "host unreachable")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	assert.Equal(t, "notification", entries[0].Message)
}

func TestNotifyLevelSelectsLogLevel(t *testing.T) {
	for level, want := range map[Level]zapcore.Level{
		LevelInfo:  zap.InfoLevel,
		LevelWarn:  zap.WarnLevel,
		LevelError: zap.ErrorLevel,
	} {
		core, logs := observer.New(zap.DebugLevel)
		m := NewNotificationManager(false, "ahkd", nil, zap.New(core))

		m.Notify(level, "title", "message")

		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, want, entries[0].Level)
	}
}

// Config reloads flip delivery from the tray and reload-timer goroutines
// while fallback handlers are notifying.
func TestSetEnabledConcurrentWithNotify(t *testing.T) {
	m := NewNotificationManager(false, "ahkd", nil, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				m.SetEnabled(false)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				m.Notify(LevelInfo, "reload", "bindings re-registered")
			}
		}()
	}
	wg.Wait()

	assert.False(t, m.enabled.Load())
}

func TestWriteTempIcon(t *testing.T) {
	data := []byte{0x00, 0x00, 0x01, 0x00}
	path, err := writeTempIcon(data)
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Remove(path) })

	assert.True(t, filepath.IsAbs(path))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestStageNotificationIconWithoutIcon(t *testing.T) {
	m := NewNotificationManager(true, "ahkd", nil, zap.NewNop())
	assert.Empty(t, m.stageNotificationIcon())
}
