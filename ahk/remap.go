package ahk

import "fmt"

// RemappedKey composes the two hotkeys behind a key remapping — wildcard
// key-down and wildcard key-up — into one toggle-able unit.
type RemappedKey struct {
	down *Hotkey
	up   *Hotkey
}

// RemapKey makes every press of origin act as destination: the down
// hotkey holds destination for as long as origin is held, the up hotkey
// releases it. Modifier state passes through ({Blind}).
func (s *Session) RemapKey(origin, destination string) (*RemappedKey, error) {
	if origin == "" || destination == "" {
		return nil, ErrInvalidKeyName
	}
	down, err := s.defaultCtx.Hotkey("*"+origin, func() {
		_ = s.Send(fmt.Sprintf("{Blind}{%s DownR}", destination))
	}, HotkeyOptions{})
	if err != nil {
		return nil, err
	}
	up, err := s.defaultCtx.Hotkey("*"+origin+" Up", func() {
		_ = s.Send(fmt.Sprintf("{Blind}{%s Up}", destination))
	}, HotkeyOptions{})
	if err != nil {
		return nil, err
	}
	return &RemappedKey{down: down, up: up}, nil
}

// Enable enables both underlying hotkeys.
func (r *RemappedKey) Enable() error {
	if err := r.down.Enable(); err != nil {
		return err
	}
	return r.up.Enable()
}

// Disable disables both underlying hotkeys.
func (r *RemappedKey) Disable() error {
	if err := r.down.Disable(); err != nil {
		return err
	}
	return r.up.Disable()
}

// Toggle toggles both underlying hotkeys in the same call.
func (r *RemappedKey) Toggle() error {
	if err := r.down.Toggle(); err != nil {
		return err
	}
	return r.up.Toggle()
}
