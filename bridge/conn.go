package bridge

import (
	"bufio"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultDialTimeout = 3 * time.Second

// Conn is a Caller backed by a stream connection to the host: a named pipe
// on Windows, a Unix socket elsewhere. One goroutine reads frames off the
// connection and routes them: call results to the waiting caller, events to
// registered callbacks, predicate evaluations back to the host.
//
// A Conn never imposes a deadline on a pending call; directives like
// KeyWait legitimately block until the user acts.
type Conn struct {
	logger *zap.Logger
	rwc    net.Conn

	writeMu sync.Mutex // serializes frame writes

	mu        sync.Mutex
	pending   map[uint64]chan frame
	callbacks map[string]Callback
	nextID    uint64
	nextFn    uint64
	closed    bool
	closeErr  error
}

// Dial connects to the host at the platform's default endpoint.
func Dial(logger *zap.Logger) (*Conn, error) {
	return DialEndpoint(DefaultEndpoint(), defaultDialTimeout, logger)
}

// DialEndpoint connects to the host at an explicit endpoint.
func DialEndpoint(endpoint string, timeout time.Duration, logger *zap.Logger) (*Conn, error) {
	rwc, err := dialEndpoint(endpoint, timeout)
	if err != nil {
		return nil, fmt.Errorf("dial host at %s: %w", endpoint, err)
	}
	return NewConn(rwc, logger), nil
}

// NewConn wraps an established connection and starts the read loop.
// A nil logger disables logging.
func NewConn(rwc net.Conn, logger *zap.Logger) *Conn {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Conn{
		logger:    logger,
		rwc:       rwc,
		pending:   make(map[uint64]chan frame),
		callbacks: make(map[string]Callback),
	}
	go c.readLoop()
	return c
}

// Call implements Caller.
func (c *Conn) Call(cmd string, args ...any) (string, error) {
	ch := make(chan frame, 1)

	c.mu.Lock()
	if c.closed {
		err := c.closeErr
		c.mu.Unlock()
		return "", err
	}
	c.nextID++
	id := c.nextID
	c.pending[id] = ch
	c.mu.Unlock()

	err := c.writeFrame(frame{Type: frameCall, ID: id, Cmd: cmd, Args: args})
	if err != nil {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return "", fmt.Errorf("send %s: %w", cmd, err)
	}

	resp, ok := <-ch
	if !ok {
		c.mu.Lock()
		err := c.closeErr
		c.mu.Unlock()
		return "", err
	}
	if resp.Error != "" {
		return "", &HostError{Cmd: cmd, Message: resp.Error}
	}
	return resp.Result, nil
}

// RegisterCallback implements Caller.
func (c *Conn) RegisterCallback(fn Callback) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextFn++
	token := fmt.Sprintf("fn#%d", c.nextFn)
	c.callbacks[token] = fn
	return token
}

// Close tears down the connection and fails every pending call.
func (c *Conn) Close() error {
	c.fail(ErrClosed)
	return c.rwc.Close()
}

func (c *Conn) writeFrame(f frame) error {
	raw, err := encodeFrame(f)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_, err = c.rwc.Write(raw)
	return err
}

func (c *Conn) readLoop() {
	reader := bufio.NewReaderSize(c.rwc, maxFrameBytes+1)
	for {
		raw, err := readDelimitedFrame(reader)
		if err != nil {
			c.logger.Debug("bridge read loop terminated", zap.Error(err))
			c.fail(fmt.Errorf("%w: %v", ErrClosed, err))
			return
		}
		f, err := decodeFrame(raw)
		if err != nil {
			c.logger.Warn("discarding malformed frame from host", zap.Error(err))
			continue
		}
		c.dispatch(f)
	}
}

func (c *Conn) dispatch(f frame) {
	switch f.Type {
	case frameResult:
		c.mu.Lock()
		ch, ok := c.pending[f.ID]
		delete(c.pending, f.ID)
		c.mu.Unlock()
		if !ok {
			c.logger.Warn("result for unknown call", zap.Uint64("id", f.ID))
			return
		}
		ch <- f

	case frameEvent:
		fn := c.callback(f.Fn)
		if fn == nil {
			c.logger.Warn("event for unknown callback", zap.String("fn", f.Fn))
			return
		}
		// Host callbacks run outside any bridge lock so they may issue
		// calls of their own.
		go fn(f.FnArgs)

	case frameEval:
		fn := c.callback(f.Fn)
		go func() {
			reply := frame{Type: frameResult, ID: f.ID}
			if fn == nil {
				reply.Error = "unknown callback " + f.Fn
			} else {
				reply.Result = fn(f.FnArgs)
			}
			if err := c.writeFrame(reply); err != nil {
				c.logger.Warn("failed to answer eval", zap.String("fn", f.Fn), zap.Error(err))
			}
		}()

	default:
		c.logger.Warn("unknown frame type from host", zap.String("type", f.Type))
	}
}

func (c *Conn) callback(token string) Callback {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.callbacks[token]
}

// fail marks the connection closed and wakes every pending caller.
func (c *Conn) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.closeErr = err
	for id, ch := range c.pending {
		delete(c.pending, id)
		close(ch)
	}
}
