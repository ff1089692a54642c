// Package bridgetest provides an in-memory Caller for testing code that
// talks to the AutoHotkey host, recording every directive instead of
// sending it anywhere.
package bridgetest

import (
	"fmt"
	"sync"

	"ahkgo/bridge"
)

// Call is one recorded directive.
type Call struct {
	Cmd  string
	Args []any
}

type stub struct {
	result string
	err    error
}

// Recorder implements bridge.Caller. Results and errors are scripted per
// command name and consumed in FIFO order; unscripted calls succeed with an
// empty result.
type Recorder struct {
	mu        sync.Mutex
	calls     []Call
	stubs     map[string][]stub
	callbacks map[string]bridge.Callback
	nextFn    int
}

func NewRecorder() *Recorder {
	return &Recorder{
		stubs:     make(map[string][]stub),
		callbacks: make(map[string]bridge.Callback),
	}
}

// Call implements bridge.Caller.
func (r *Recorder) Call(cmd string, args ...any) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Cmd: cmd, Args: args})
	queue := r.stubs[cmd]
	if len(queue) == 0 {
		return "", nil
	}
	next := queue[0]
	r.stubs[cmd] = queue[1:]
	return next.result, next.err
}

// RegisterCallback implements bridge.Caller.
func (r *Recorder) RegisterCallback(fn bridge.Callback) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextFn++
	token := fmt.Sprintf("fn#%d", r.nextFn)
	r.callbacks[token] = fn
	return token
}

// StubResult queues a successful result for the next unconsumed call to cmd.
func (r *Recorder) StubResult(cmd, result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stubs[cmd] = append(r.stubs[cmd], stub{result: result})
}

// StubError queues a failure for the next unconsumed call to cmd.
func (r *Recorder) StubError(cmd string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stubs[cmd] = append(r.stubs[cmd], stub{err: err})
}

// Calls returns a copy of every recorded directive, in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// CallsFor returns the recorded directives with the given command name.
func (r *Recorder) CallsFor(cmd string) []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Call
	for _, c := range r.calls {
		if c.Cmd == cmd {
			out = append(out, c)
		}
	}
	return out
}

// Callback returns the registered callback for a token, or nil.
func (r *Recorder) Callback(token string) bridge.Callback {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.callbacks[token]
}

// Reset forgets recorded calls but keeps stubs and callbacks.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}
