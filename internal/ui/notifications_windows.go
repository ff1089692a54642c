//go:build windows

package ui

import "github.com/go-toast/toast"

// Toast wants an icon on disk, not in memory.
func (n *NotificationManager) platformNotify(title, message string) error {
	notification := toast.Notification{
		AppID:   n.appName,
		Title:   title,
		Message: message,
		Icon:    n.stageNotificationIcon(),
	}
	return notification.Push()
}
