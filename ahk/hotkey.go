package ahk

import (
	"errors"
	"strconv"
	"strings"
)

// HotkeyOptions controls how the host schedules a hotkey's action. Unset
// options are left at the host's current value on Update; Context.Hotkey
// fills them with registration defaults instead.
type HotkeyOptions struct {
	// Buffer queues a triggering keypress while a previous activation is
	// still running instead of dropping it.
	Buffer Tristate
	// Priority orders this hotkey's thread against other host threads.
	Priority OptionalInt
	// MaxThreads caps concurrent activations; 1 makes the action exclusive.
	MaxThreads OptionalInt
	// InputLevel sets which artificial input can trigger the hotkey.
	InputLevel OptionalInt
}

// encode builds the option-token string the Hotkey directive expects.
// Tokens are emitted only for set options, in a fixed order.
func (o HotkeyOptions) encode() string {
	var b strings.Builder
	switch o.Buffer {
	case On:
		b.WriteString("B")
	case Off:
		b.WriteString("B0")
	}
	if o.Priority.Set {
		b.WriteString("P")
		b.WriteString(strconv.Itoa(o.Priority.Value))
	}
	if o.MaxThreads.Set {
		b.WriteString("T")
		b.WriteString(strconv.Itoa(o.MaxThreads.Value))
	}
	if o.InputLevel.Set {
		b.WriteString("I")
		b.WriteString(strconv.Itoa(o.InputLevel.Value))
	}
	return b.String()
}

// withRegistrationDefaults fills unset options with the values a fresh
// registration gets: no buffering, priority 0, one thread, input level 0.
func (o HotkeyOptions) withRegistrationDefaults() HotkeyOptions {
	if o.Buffer == Unset {
		o.Buffer = Off
	}
	if !o.Priority.Set {
		o.Priority = Int(0)
	}
	if !o.MaxThreads.Set {
		o.MaxThreads = Int(1)
	}
	if !o.InputLevel.Set {
		o.InputLevel = Int(0)
	}
	return o
}

// Hotkey is a handle to one key-name registration in one context. It holds
// no option state: options live in the host and can change underneath us,
// so caching them here would only mislead.
type Hotkey struct {
	keyName string
	context *Context
}

// Hotkey registers an action for a key name in this context and enables
// it. The key name must be non-empty; anything else about it is validated
// by the host.
func (c *Context) Hotkey(keyName string, action func(), opts HotkeyOptions) (*Hotkey, error) {
	if keyName == "" {
		return nil, ErrInvalidKeyName
	}
	if action == nil {
		return nil, errors.New("hotkey action must not be nil")
	}
	hk := &Hotkey{keyName: keyName, context: c}
	if err := hk.Update(action, opts.withRegistrationDefaults()); err != nil {
		return nil, err
	}
	if err := hk.Enable(); err != nil {
		return nil, err
	}
	return hk, nil
}

// KeyName returns the key name this hotkey was registered under.
func (h *Hotkey) KeyName() string { return h.keyName }

// Update replaces the hotkey's action and adjusts any set options. A nil
// action keeps the current one.
func (h *Hotkey) Update(action func(), opts HotkeyOptions) error {
	token := ""
	if action != nil {
		token = h.context.session.caller.RegisterCallback(func([]string) string {
			action()
			return ""
		})
	}
	optionStr := opts.encode()
	return h.context.scoped(func() error {
		_, err := h.context.session.call("Hotkey", h.context.id, h.keyName, token, optionStr)
		return err
	})
}

// Enable reactivates a disabled hotkey. Freshly registered hotkeys are
// already enabled.
func (h *Hotkey) Enable() error { return h.special("On") }

// Disable deactivates the hotkey without discarding its registration.
func (h *Hotkey) Disable() error { return h.special("Off") }

// Toggle flips the hotkey between enabled and disabled.
func (h *Hotkey) Toggle() error { return h.special("Toggle") }

func (h *Hotkey) special(state string) error {
	return h.context.scoped(func() error {
		_, err := h.context.session.call("HotkeySpecial", h.keyName, state)
		return err
	})
}
