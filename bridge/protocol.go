package bridge

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

const maxFrameBytes = 64 * 1024 // limits frame size to prevent memory exhaustion

// Frame types on the wire. The client sends "call" frames and replies to
// "eval" frames with "result" frames; the host sends "result", "event" and
// "eval" frames.
const (
	frameCall   = "call"
	frameResult = "result"
	frameEvent  = "event"
	frameEval   = "eval"
)

// frame is one newline-delimited JSON message on the wire.
type frame struct {
	Type string `json:"type"`
	ID   uint64 `json:"id,omitempty"`
	Cmd  string `json:"cmd,omitempty"`
	Args []any  `json:"args,omitempty"`

	// Result/Error carry the outcome of a call or of an eval reply.
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`

	// Fn names a registered callback for event and eval frames.
	Fn     string   `json:"fn,omitempty"`
	FnArgs []string `json:"fn_args,omitempty"`
}

func encodeFrame(f frame) ([]byte, error) {
	raw, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	if len(raw) > maxFrameBytes {
		return nil, fmt.Errorf("frame exceeds %d bytes", maxFrameBytes)
	}
	return append(raw, '\n'), nil
}

func decodeFrame(raw []byte) (frame, error) {
	var f frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return frame{}, err
	}
	if f.Type == "" {
		return frame{}, errors.New("frame missing type")
	}
	return f, nil
}

// readDelimitedFrame reads one newline-terminated frame, tolerating a final
// frame without the trailing newline.
func readDelimitedFrame(reader *bufio.Reader) ([]byte, error) {
	raw, err := reader.ReadSlice('\n')
	if errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("frame exceeds %d bytes", maxFrameBytes)
	}
	if errors.Is(err, io.EOF) {
		if len(raw) == 0 {
			return nil, io.EOF
		}
		return raw, nil
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}
