package ahk

import "errors"

// Predicate gates whether hotkeys and hotstrings registered in a context
// are live at trigger time. The host evaluates it with the name of the
// triggering hotkey; predicates that don't care about it ignore the
// argument.
type Predicate func(hotkey string) bool

// Context is an activation scope for registrations: either the default
// always-active context or one guarded by a predicate. Contexts are
// immutable; create a new one rather than changing a predicate.
type Context struct {
	session *Session
	id      uint64
	token   string // predicate callback token; empty for the default context
}

// HotkeyContext creates a context whose registrations only fire while the
// predicate returns true. The predicate must not be nil; code that wants
// the always-active scope uses the session's default context instead.
func (s *Session) HotkeyContext(pred Predicate) (*Context, error) {
	if pred == nil {
		return nil, errors.New("context predicate must not be nil")
	}
	token := s.caller.RegisterCallback(func(args []string) string {
		key := ""
		if len(args) > 0 {
			key = args[0]
		}
		if pred(key) {
			return "1"
		}
		return "0"
	})
	return &Context{session: s, id: s.nextContextID(), token: token}, nil
}

// scoped runs fn with this context active in the host. Activation is
// serialized under the session's context lock so concurrent registrations
// cannot race under different current predicates; the exit directive is
// issued even when fn fails. The default context skips all of it. Entering
// a second context from within fn is not supported and will deadlock.
func (c *Context) scoped(fn func() error) (err error) {
	if c.token == "" {
		return fn()
	}
	c.session.ctxMu.Lock()
	defer c.session.ctxMu.Unlock()
	if _, err = c.session.call("HotkeyContext", c.token); err != nil {
		return err
	}
	defer func() {
		if _, exitErr := c.session.call("HotkeyExitContext"); err == nil {
			err = exitErr
		}
	}()
	return fn()
}
