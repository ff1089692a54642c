package bridge

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameRoundTrip(t *testing.T) {
	original := frame{
		Type: frameCall,
		ID:   7,
		Cmd:  "Hotkey",
		Args: []any{"F1", "fn#2", "B0P0T1I0"},
	}

	raw, err := encodeFrame(original)
	require.NoError(t, err)
	assert.Equal(t, byte('\n'), raw[len(raw)-1])

	decoded, err := decodeFrame(raw[:len(raw)-1])
	require.NoError(t, err)
	assert.Equal(t, original.Type, decoded.Type)
	assert.Equal(t, original.ID, decoded.ID)
	assert.Equal(t, original.Cmd, decoded.Cmd)
	require.Len(t, decoded.Args, 3)
	assert.Equal(t, "F1", decoded.Args[0])
}

func TestEncodeFrameRejectsOversized(t *testing.T) {
	f := frame{
		Type: frameCall,
		Cmd:  "SendInput",
		Args: []any{strings.Repeat("x", maxFrameBytes)},
	}
	_, err := encodeFrame(f)
	assert.Error(t, err)
}

func TestDecodeFrameRequiresType(t *testing.T) {
	_, err := decodeFrame([]byte(`{"id":1}`))
	assert.Error(t, err)

	_, err = decodeFrame([]byte(`not json`))
	assert.Error(t, err)
}

func TestReadDelimitedFrame(t *testing.T) {
	t.Run("reads up to the newline", func(t *testing.T) {
		reader := bufio.NewReaderSize(strings.NewReader("{\"type\":\"result\"}\nrest"), maxFrameBytes+1)
		raw, err := readDelimitedFrame(reader)
		require.NoError(t, err)
		assert.Equal(t, "{\"type\":\"result\"}\n", string(raw))
	})

	t.Run("tolerates a final frame without newline", func(t *testing.T) {
		reader := bufio.NewReaderSize(strings.NewReader(`{"type":"result"}`), maxFrameBytes+1)
		raw, err := readDelimitedFrame(reader)
		require.NoError(t, err)
		assert.Equal(t, `{"type":"result"}`, string(raw))
	})

	t.Run("rejects frames over the size limit", func(t *testing.T) {
		reader := bufio.NewReaderSize(strings.NewReader(strings.Repeat("x", maxFrameBytes+2)), maxFrameBytes+1)
		_, err := readDelimitedFrame(reader)
		assert.Error(t, err)
	})
}

func TestSanitizeUsername(t *testing.T) {
	assert.Equal(t, "alice", sanitizeUsername("Alice"))
	assert.Equal(t, "domainalice", sanitizeUsername(`DOMAIN\alice`))
	assert.Equal(t, "a.b-c_d", sanitizeUsername(" a.b-c_d "))
	assert.Equal(t, "default", sanitizeUsername("///"))
	assert.Equal(t, "default", sanitizeUsername(""))
}
