package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Level classifies a notification for logging and icon selection.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// NotificationManager shows desktop notifications, using toast on Windows
// and beeep elsewhere. When notifications are disabled it only logs.
type NotificationManager struct {
	// enabled is flipped by config reloads while fallback handlers and
	// the reload timer call Notify concurrently.
	enabled atomic.Bool
	appName string
	icon    []byte
	logger  *zap.Logger
}

// NewNotificationManager creates a notification manager. A nil logger
// disables logging.
func NewNotificationManager(enabled bool, appName string, icon []byte, logger *zap.Logger) *NotificationManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &NotificationManager{
		appName: appName,
		icon:    icon,
		logger:  logger,
	}
	m.enabled.Store(enabled)
	return m
}

// Notify shows a desktop notification if notifications are enabled. The
// message is always logged at the notification's level.
func (n *NotificationManager) Notify(level Level, title, message string) {
	fields := []zap.Field{zap.String("title", title), zap.String("message", message)}
	switch level {
	case LevelError:
		n.logger.Error("notification", fields...)
	case LevelWarn:
		n.logger.Warn("notification", fields...)
	default:
		n.logger.Info("notification", fields...)
	}

	if !n.enabled.Load() {
		return
	}
	if err := n.platformNotify(title, message); err != nil {
		n.logger.Warn("failed to show notification", zap.Error(err))
	}
}

// SetEnabled flips notification delivery, e.g. after a config reload.
func (n *NotificationManager) SetEnabled(enabled bool) {
	n.enabled.Store(enabled)
}

// stageNotificationIcon writes the embedded icon to a temp file for
// notification backends that want an icon path, and schedules its
// removal. Returns "" when there is no icon or staging fails.
func (n *NotificationManager) stageNotificationIcon() string {
	if len(n.icon) == 0 {
		return ""
	}
	path, err := writeTempIcon(n.icon)
	if err != nil {
		n.logger.Warn("failed to write temporary notification icon", zap.Error(err))
		return ""
	}
	time.AfterFunc(10*time.Second, func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			n.logger.Warn("failed to remove temporary icon", zap.String("path", path), zap.Error(err))
		}
	})
	return path
}

func writeTempIcon(iconData []byte) (string, error) {
	if len(iconData) == 0 {
		return "", fmt.Errorf("no icon data")
	}
	tmpFile, err := os.CreateTemp("", "ahkd-icon-*.ico")
	if err != nil {
		return "", err
	}
	defer tmpFile.Close()

	if _, err := tmpFile.Write(iconData); err != nil {
		_ = os.Remove(tmpFile.Name())
		return "", err
	}

	absPath, err := filepath.Abs(tmpFile.Name())
	if err != nil {
		return tmpFile.Name(), nil
	}
	return absPath, nil
}

var globalNotifications *NotificationManager

// InitGlobalNotifications installs the process-wide notification manager
// used by Notify.
func InitGlobalNotifications(m *NotificationManager) {
	globalNotifications = m
}

// Notify shows a notification through the global manager; a no-op until
// InitGlobalNotifications runs.
func Notify(level Level, title, message string) {
	if globalNotifications != nil {
		globalNotifications.Notify(level, title, message)
	}
}
