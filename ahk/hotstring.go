package ahk

import (
	"errors"
	"strconv"
	"strings"
)

// HotstringUpdate carries the mutable side of a hotstring: the replacement
// and every re-adjustable option. Unset options leave the host's current
// value alone.
type HotstringUpdate struct {
	// Replacement is the expansion text. OnTrigger, when non-nil, wins
	// over it and runs instead of expanding text.
	Replacement string
	OnTrigger   func()

	// ConformToCase makes the expansion follow the typed trigger's casing
	// (On, token C0); Off sends the replacement exactly as written (token
	// C1). Ignored for case-sensitive hotstrings, whose sensitivity token
	// is always re-emitted instead.
	ConformToCase Tristate

	// WaitForEndChar delays expansion until an ending character is typed;
	// OmitEndChar drops that character from the output.
	WaitForEndChar Tristate
	OmitEndChar    Tristate

	// Backspacing erases the trigger before sending the replacement.
	Backspacing Tristate

	// KeyDelay is the delay between injected keystrokes, in seconds.
	// Positive values are scaled to milliseconds; zero and negative values
	// pass through unscaled (-1 disables the delay).
	KeyDelay OptionalSeconds

	Priority OptionalInt

	// RawText sends the replacement verbatim instead of interpreting
	// key-name braces.
	RawText Tristate

	// Mode selects the injection engine for the expansion.
	Mode SendMode

	// ResetRecognizer clears the host's keystroke buffer after each
	// expansion.
	ResetRecognizer Tristate
}

// HotstringOptions configures a new hotstring. CaseSensitive and
// ReplaceInsideWord are identity: changing either means registering a
// different hotstring.
type HotstringOptions struct {
	CaseSensitive     bool
	ReplaceInsideWord bool

	ConformToCase   Tristate
	WaitForEndChar  Tristate
	OmitEndChar     Tristate
	Backspacing     Tristate
	KeyDelay        OptionalSeconds
	Priority        OptionalInt
	RawText         Tristate
	Mode            SendMode
	ResetRecognizer Tristate
	OnTrigger       func()
}

// withRegistrationDefaults fills unset options with the values a fresh
// registration gets.
func (o HotstringOptions) withRegistrationDefaults() HotstringUpdate {
	u := HotstringUpdate{
		OnTrigger:       o.OnTrigger,
		ConformToCase:   o.ConformToCase,
		WaitForEndChar:  o.WaitForEndChar,
		OmitEndChar:     o.OmitEndChar,
		Backspacing:     o.Backspacing,
		KeyDelay:        o.KeyDelay,
		Priority:        o.Priority,
		RawText:         o.RawText,
		Mode:            o.Mode,
		ResetRecognizer: o.ResetRecognizer,
	}
	if u.ConformToCase == Unset {
		u.ConformToCase = On
	}
	if u.WaitForEndChar == Unset {
		u.WaitForEndChar = On
	}
	if u.OmitEndChar == Unset {
		u.OmitEndChar = Off
	}
	if u.Backspacing == Unset {
		u.Backspacing = On
	}
	if !u.KeyDelay.Set {
		u.KeyDelay = Seconds(-1)
	}
	if !u.Priority.Set {
		u.Priority = Int(0)
	}
	if u.RawText == Unset {
		u.RawText = Off
	}
	if u.ResetRecognizer == Unset {
		u.ResetRecognizer = Off
	}
	return u
}

// Hotstring is a handle to one text-expansion trigger. Its identity in the
// host is the tuple (trigger, case sensitivity, word-boundary flag,
// context); the constructor lowercases case-insensitive triggers so that
// identity is stable.
type Hotstring struct {
	trigger           string
	caseSensitive     bool
	replaceInsideWord bool
	context           *Context
}

// Hotstring registers a text expansion in this context and enables it
// (re-enabling any previously disabled hotstring with the same identity).
func (c *Context) Hotstring(trigger, replacement string, opts HotstringOptions) (*Hotstring, error) {
	if trigger == "" {
		return nil, errors.New("hotstring trigger must not be empty")
	}
	hs := newHotstring(trigger, opts.CaseSensitive, opts.ReplaceInsideWord, c)
	u := opts.withRegistrationDefaults()
	u.Replacement = replacement
	if err := hs.Update(u); err != nil {
		return nil, err
	}
	if err := hs.Enable(); err != nil {
		return nil, err
	}
	return hs, nil
}

func newHotstring(trigger string, caseSensitive, replaceInsideWord bool, c *Context) *Hotstring {
	if !caseSensitive {
		trigger = strings.ToLower(trigger)
	}
	return &Hotstring{
		trigger:           trigger,
		caseSensitive:     caseSensitive,
		replaceInsideWord: replaceInsideWord,
		context:           c,
	}
}

// Trigger returns the stored trigger text, lowercased unless the
// hotstring is case-sensitive.
func (h *Hotstring) Trigger() string { return h.trigger }

// Update re-registers the hotstring with a new replacement and any set
// options.
func (h *Hotstring) Update(u HotstringUpdate) error {
	optionStr, err := h.encodeOptions(u)
	if err != nil {
		return err
	}
	var thing any = u.Replacement
	if u.OnTrigger != nil {
		fn := u.OnTrigger
		thing = h.context.session.caller.RegisterCallback(func([]string) string {
			fn()
			return ""
		})
	}
	return h.context.scoped(func() error {
		_, err := h.context.session.call("Hotstring", ":"+optionStr+":"+h.trigger, thing)
		return err
	})
}

// Enable reactivates the hotstring.
func (h *Hotstring) Enable() error { return h.special("On") }

// Disable deactivates the hotstring without discarding it.
func (h *Hotstring) Disable() error { return h.special("Off") }

// Toggle flips the hotstring between enabled and disabled.
func (h *Hotstring) Toggle() error { return h.special("Toggle") }

func (h *Hotstring) special(state string) error {
	return h.context.scoped(func() error {
		_, err := h.context.session.call("Hotstring", ":"+h.idOptions()+":"+h.trigger, "", state)
		return err
	})
}

// idOptions emits only the identity tokens; enable/disable must address
// the exact registration.
func (h *Hotstring) idOptions() string {
	caseOption := ""
	if h.caseSensitive {
		caseOption = "C"
	}
	insideOption := "?0"
	if h.replaceInsideWord {
		insideOption = "?"
	}
	return caseOption + insideOption
}

// encodeOptions assembles the full option-token string for an update.
// Token order is fixed; the host parses positionally ambiguous tokens by
// prefix, but we keep the order stable regardless.
//
// End-char handling resolves to this table:
//
//	wait=Off               -> *           (omit is irrelevant while not waiting)
//	wait=On,  omit=On      -> *0 O
//	wait=On,  omit=Off     -> *0 O0
//	wait=On,  omit unset   -> *0
//	wait unset, omit=On    -> O
//	wait unset, omit=Off   -> O0
//	both unset             -> nothing
func (h *Hotstring) encodeOptions(u HotstringUpdate) (string, error) {
	var tokens []string

	if h.caseSensitive {
		tokens = append(tokens, "C")
	} else {
		switch u.ConformToCase {
		case On:
			tokens = append(tokens, "C0")
		case Off:
			tokens = append(tokens, "C1")
		}
	}

	if h.replaceInsideWord {
		tokens = append(tokens, "?")
	} else {
		tokens = append(tokens, "?0")
	}

	switch {
	case u.WaitForEndChar == Off:
		tokens = append(tokens, "*")
	case u.WaitForEndChar == On && u.OmitEndChar == On:
		tokens = append(tokens, "*0", "O")
	case u.WaitForEndChar == On:
		tokens = append(tokens, "*0")
		if u.OmitEndChar == Off {
			tokens = append(tokens, "O0")
		}
	case u.OmitEndChar == On:
		tokens = append(tokens, "O")
	case u.OmitEndChar == Off:
		tokens = append(tokens, "O0")
	}

	switch u.Backspacing {
	case On:
		tokens = append(tokens, "B")
	case Off:
		tokens = append(tokens, "B0")
	}

	if u.KeyDelay.Set {
		delay := u.KeyDelay.Value
		if delay > 0 {
			// Seconds to milliseconds; non-positive values pass through.
			tokens = append(tokens, "K"+strconv.Itoa(int(delay*1000)))
		} else {
			tokens = append(tokens, "K"+strconv.FormatFloat(delay, 'f', -1, 64))
		}
	}

	if u.Priority.Set {
		tokens = append(tokens, "P"+strconv.Itoa(u.Priority.Value))
	}

	switch u.RawText {
	case On:
		tokens = append(tokens, "T")
	case Off:
		tokens = append(tokens, "T0")
	}

	modeToken, err := u.Mode.token()
	if err != nil {
		return "", err
	}
	if modeToken != "" {
		tokens = append(tokens, modeToken)
	}

	switch u.ResetRecognizer {
	case On:
		tokens = append(tokens, "Z")
	case Off:
		tokens = append(tokens, "Z0")
	}

	return strings.Join(tokens, ""), nil
}
