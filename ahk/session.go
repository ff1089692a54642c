// Package ahk is an ergonomic API layer over an embedded AutoHotkey host.
// It marshals arguments, builds the host's option-token strings and wraps
// registrations in handles (hotkeys, hotstrings, menus). All mutable state
// lives in the host process; the handles here are immutable values.
package ahk

import (
	"sync"

	"ahkgo/bridge"
)

// Session owns the bridge into one host process along with the two locks
// the layer needs: one guarding context entry/exit, one serializing
// key-injection sequences. Everything else is an unsynchronized
// pass-through; the host serializes its own command queue.
type Session struct {
	caller bridge.Caller

	ctxMu  sync.Mutex // held across predicate-context entry/exit
	sendMu sync.Mutex // held across a SendLevel + Send pair

	ctxSeq     uint64
	ctxSeqMu   sync.Mutex
	defaultCtx *Context
}

// New wraps a bridge into a session. The same Caller may be shared by
// multiple sessions, though one per host is the norm.
func New(caller bridge.Caller) *Session {
	s := &Session{caller: caller}
	s.defaultCtx = &Context{session: s}
	return s
}

func (s *Session) call(cmd string, args ...any) (string, error) {
	return s.caller.Call(cmd, args...)
}

func (s *Session) nextContextID() uint64 {
	s.ctxSeqMu.Lock()
	defer s.ctxSeqMu.Unlock()
	s.ctxSeq++
	return s.ctxSeq
}

// DefaultContext returns the always-active context. Registrations made
// through it skip context activation and its locking entirely.
func (s *Session) DefaultContext() *Context {
	return s.defaultCtx
}

// Hotkey registers a hotkey in the default context. See Context.Hotkey.
func (s *Session) Hotkey(keyName string, action func(), opts HotkeyOptions) (*Hotkey, error) {
	return s.defaultCtx.Hotkey(keyName, action, opts)
}

// Hotstring registers a hotstring in the default context. See
// Context.Hotstring.
func (s *Session) Hotstring(trigger, replacement string, opts HotstringOptions) (*Hotstring, error) {
	return s.defaultCtx.Hotstring(trigger, replacement, opts)
}

// ResetHotstringRecognizer makes the host forget the keystrokes it has
// buffered for hotstring matching.
func (s *Session) ResetHotstringRecognizer() error {
	_, err := s.call("Hotstring", "Reset")
	return err
}
