//go:build windows

package ui

// OpenFileInDefaultApp opens a file with its associated application.
func OpenFileInDefaultApp(filePath string) error {
	return windowsOpenFileInDefaultApp(filePath)
}
