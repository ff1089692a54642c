//go:build windows

package ui

import (
	"fmt"
	"syscall"
	"unsafe"
)

const swShowNormal = 1

var (
	shell32           = syscall.NewLazyDLL("shell32.dll")
	procShellExecuteW = shell32.NewProc("ShellExecuteW")
)

// windowsOpenFileInDefaultApp opens a file via ShellExecuteW with the
// "open" verb.
func windowsOpenFileInDefaultApp(filePath string) error {
	lpVerb, err := syscall.UTF16PtrFromString("open")
	if err != nil {
		return fmt.Errorf("convert verb: %w", err)
	}
	lpFile, err := syscall.UTF16PtrFromString(filePath)
	if err != nil {
		return fmt.Errorf("convert file path: %w", err)
	}

	ret, _, callErr := procShellExecuteW.Call(
		0,
		uintptr(unsafe.Pointer(lpVerb)),
		uintptr(unsafe.Pointer(lpFile)),
		0,
		0,
		uintptr(swShowNormal),
	)

	// Return values above 32 indicate success.
	if ret <= 32 {
		if callErr != nil && callErr.Error() != "The operation completed successfully." {
			return fmt.Errorf("ShellExecuteW returned %d: %w", ret, callErr)
		}
		return fmt.Errorf("ShellExecuteW returned %d", ret)
	}
	return nil
}
