package ahk

import "fmt"

// Send injects a keystroke sequence with the input engine at level 0.
func (s *Session) Send(keys string) error {
	return s.SendWith(keys, SendModeInput, 0)
}

// SendWith injects a keystroke sequence with an explicit engine and input
// level. The whole SendLevel + injection pair runs under one lock so
// concurrent senders cannot interleave their sequences.
func (s *Session) SendWith(keys string, mode SendMode, level int) error {
	cmd, err := mode.command()
	if err != nil {
		return err
	}
	if level < 0 || level > 100 {
		return fmt.Errorf("send level must be between 0 and 100, got %d", level)
	}
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if _, err := s.call("SendLevel", level); err != nil {
		return err
	}
	_, err = s.call(cmd, keys)
	return err
}
