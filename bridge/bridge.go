// Package bridge carries directives between this process and an embedded
// AutoHotkey host. Every operation in the ahk package is ultimately one or
// more Call invocations on a Caller; the host executes the directive and
// returns its result as a string.
package bridge

import "errors"

// ErrClosed is returned by calls made on a bridge whose connection has
// been closed.
var ErrClosed = errors.New("bridge connection closed")

// Callback is a function the host may invoke back across the bridge:
// hotkey actions, hotstring replacements, menu item handlers and context
// predicates. The returned string travels back to the host; handlers that
// have nothing to report return "".
type Callback func(args []string) string

// Caller is the call interface into the host. Implementations must be safe
// for concurrent use; the host serializes its own command queue.
type Caller interface {
	// Call sends one named directive with positional arguments and blocks
	// until the host responds. Arguments may be strings, numbers or nil.
	Call(cmd string, args ...any) (string, error)

	// RegisterCallback makes fn invocable by the host and returns the
	// token that identifies it in directive arguments.
	RegisterCallback(fn Callback) string
}

// HostError is an error reported by the host itself, as opposed to a
// transport failure or a local validation error.
type HostError struct {
	Cmd     string
	Message string
}

func (e *HostError) Error() string {
	return "host rejected " + e.Cmd + ": " + e.Message
}
