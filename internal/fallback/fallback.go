// Package fallback provides a degraded binding mode for when the
// AutoHotkey host is unreachable: hotkeys are registered directly with the
// OS, and triggering one copies the binding's text to the clipboard instead
// of sending keystrokes. Hotstrings, remaps and run-command hotkeys have no
// OS-level equivalent here and are reported as skipped.
package fallback

import (
	"fmt"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
	"golang.design/x/hotkey"

	"ahkgo/internal/keymap"
)

// Binding is one combo registered in fallback mode. Triggering it copies
// Text to the clipboard.
type Binding struct {
	Combo   keymap.Combo
	Text    string
	Profile string
}

// Manager owns the OS-level hotkey registrations.
type Manager struct {
	logger   *zap.Logger
	onCopied func(binding Binding)

	registered []*hotkey.Hotkey
	done       chan struct{}
}

// New creates a fallback manager. onCopied runs after a binding's text was
// copied, e.g. to show a notification. A nil logger disables logging.
func New(onCopied func(Binding), logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{logger: logger, onCopied: onCopied}
}

// Register registers every binding with the OS. Bindings that fail to
// register are skipped with a warning; an error is returned only when none
// could be registered.
func (m *Manager) Register(bindings []Binding) error {
	m.done = make(chan struct{})
	failed := 0
	for _, binding := range bindings {
		if err := m.register(binding); err != nil {
			m.logger.Warn("failed to register fallback hotkey",
				zap.String("combo", binding.Combo.String()),
				zap.String("profile", binding.Profile),
				zap.Error(err))
			failed++
		}
	}
	if len(bindings) > 0 && failed == len(bindings) {
		return fmt.Errorf("none of %d fallback hotkeys could be registered", len(bindings))
	}
	m.logger.Info("fallback hotkeys registered",
		zap.Int("registered", len(m.registered)), zap.Int("failed", failed))
	return nil
}

func (m *Manager) register(binding Binding) error {
	modifiers, key, err := binding.Combo.System()
	if err != nil {
		return err
	}
	hk := hotkey.New(modifiers, key)
	if err := hk.Register(); err != nil {
		return err
	}
	m.registered = append(m.registered, hk)

	done := m.done
	go func() {
		for {
			select {
			case <-done:
				return
			case <-hk.Keydown():
				m.trigger(binding)
			}
		}
	}()
	return nil
}

func (m *Manager) trigger(binding Binding) {
	m.logger.Info("fallback hotkey triggered",
		zap.String("combo", binding.Combo.String()),
		zap.String("profile", binding.Profile))
	if err := clipboard.WriteAll(binding.Text); err != nil {
		m.logger.Warn("failed to copy binding text to clipboard", zap.Error(err))
		return
	}
	if m.onCopied != nil {
		m.onCopied(binding)
	}
}

// UnregisterAll drops every OS registration and stops the listeners.
func (m *Manager) UnregisterAll() {
	if m.done != nil {
		close(m.done)
		m.done = nil
	}
	for _, hk := range m.registered {
		if err := hk.Unregister(); err != nil {
			m.logger.Warn("failed to unregister fallback hotkey", zap.Error(err))
		}
	}
	m.registered = nil
}
