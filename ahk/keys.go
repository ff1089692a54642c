package ahk

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// GetKeyState reports whether a key is logically down.
func (s *Session) GetKeyState(keyName string) (bool, error) {
	return s.keyState(keyName, "")
}

// GetPhysicalKeyState reports whether a key is physically down, ignoring
// artificial input.
func (s *Session) GetPhysicalKeyState(keyName string) (bool, error) {
	return s.keyState(keyName, "P")
}

var toggleableKeys = map[string]struct{}{
	"capslock":   {},
	"numlock":    {},
	"scrolllock": {},
	"insert":     {},
	"ins":        {},
}

// IsKeyToggled reports whether a lock-style key is toggled on. Only
// CapsLock, NumLock, ScrollLock and Insert have a toggle state.
func (s *Session) IsKeyToggled(keyName string) (bool, error) {
	if _, ok := toggleableKeys[strings.ToLower(keyName)]; !ok {
		return false, fmt.Errorf("key name must be one of CapsLock, NumLock, ScrollLock, or Insert: %q", keyName)
	}
	return s.keyState(keyName, "T")
}

func (s *Session) keyState(keyName, mode string) (bool, error) {
	result, err := s.call("GetKeyState", keyName, mode)
	if err != nil {
		return false, err
	}
	if result == "" {
		return false, ErrKeyStateUnknown
	}
	return result != "0", nil
}

// LockKeyState is a target state for a lock-style key. AlwaysOn and
// AlwaysOff additionally keep the key pinned against physical presses.
type LockKeyState string

const (
	LockOn        LockKeyState = "On"
	LockOff       LockKeyState = "Off"
	LockAlwaysOn  LockKeyState = "AlwaysOn"
	LockAlwaysOff LockKeyState = "AlwaysOff"
)

// SetCapsLockState sets or pins the CapsLock state.
func (s *Session) SetCapsLockState(state LockKeyState) error {
	return s.setLockKeyState("SetCapsLockState", state)
}

// SetNumLockState sets or pins the NumLock state.
func (s *Session) SetNumLockState(state LockKeyState) error {
	return s.setLockKeyState("SetNumLockState", state)
}

// SetScrollLockState sets or pins the ScrollLock state.
func (s *Session) SetScrollLockState(state LockKeyState) error {
	return s.setLockKeyState("SetScrollLockState", state)
}

func (s *Session) setLockKeyState(cmd string, state LockKeyState) error {
	switch state {
	case LockOn, LockOff, LockAlwaysOn, LockAlwaysOff:
	default:
		return fmt.Errorf("unknown lock key state: %q", string(state))
	}
	_, err := s.call(cmd, string(state))
	return err
}

// KeyWaitOptions adjusts a key wait. The zero value waits forever for the
// physical state.
type KeyWaitOptions struct {
	// LogicalState waits on the logical key state instead of the physical
	// one.
	LogicalState bool
	// Timeout bounds the wait; zero or negative means no timeout.
	Timeout time.Duration
}

// KeyWaitPressed blocks until the key is pressed. It returns false if the
// timeout elapsed first.
func (s *Session) KeyWaitPressed(keyName string, opts KeyWaitOptions) (bool, error) {
	return s.keyWait(keyName, true, opts)
}

// KeyWaitReleased blocks until the key is released. It returns false if
// the timeout elapsed first.
func (s *Session) KeyWaitReleased(keyName string, opts KeyWaitOptions) (bool, error) {
	return s.keyWait(keyName, false, opts)
}

func (s *Session) keyWait(keyName string, down bool, opts KeyWaitOptions) (bool, error) {
	var b strings.Builder
	if down {
		b.WriteString("D")
	}
	if opts.LogicalState {
		b.WriteString("L")
	}
	if opts.Timeout > 0 {
		b.WriteString("T")
		b.WriteString(strconv.FormatFloat(opts.Timeout.Seconds(), 'f', -1, 64))
	}
	result, err := s.call("KeyWait", keyName, b.String())
	if err != nil {
		return false, err
	}
	timedOut := result == "1"
	return !timedOut, nil
}
