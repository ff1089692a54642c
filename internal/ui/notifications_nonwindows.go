//go:build !windows

package ui

import "github.com/gen2brain/beeep"

// beeep routes through notify-send or its platform equivalent, all of
// which take an icon as a file path.
func (n *NotificationManager) platformNotify(title, message string) error {
	return beeep.Notify(title, message, n.stageNotificationIcon())
}
