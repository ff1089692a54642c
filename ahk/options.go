package ahk

import "fmt"

// Tristate distinguishes leaving an option at the host's current value
// from explicitly turning it on or off. The zero value is Unset, so option
// structs default to "touch nothing".
type Tristate int

const (
	Unset Tristate = iota
	On
	Off
)

func (t Tristate) String() string {
	switch t {
	case On:
		return "On"
	case Off:
		return "Off"
	default:
		return "Unset"
	}
}

// OptionalInt is an integer option that distinguishes unset from zero.
type OptionalInt struct {
	Set   bool
	Value int
}

// Int returns a set OptionalInt.
func Int(v int) OptionalInt { return OptionalInt{Set: true, Value: v} }

// OptionalSeconds is a duration option expressed in seconds, matching the
// units the host's option grammar uses. Negative values are meaningful:
// a key delay of -1 disables the delay entirely.
type OptionalSeconds struct {
	Set   bool
	Value float64
}

// Seconds returns a set OptionalSeconds.
func Seconds(v float64) OptionalSeconds { return OptionalSeconds{Set: true, Value: v} }

// SendMode selects which key-injection engine the host uses.
type SendMode string

const (
	SendModeInput SendMode = "input"
	SendModePlay  SendMode = "play"
	SendModeEvent SendMode = "event"
)

// command maps a send mode to the host directive that performs the
// injection. The empty mode defaults to input.
func (m SendMode) command() (string, error) {
	switch m {
	case SendModeInput, "":
		return "SendInput", nil
	case SendModePlay:
		return "SendPlay", nil
	case SendModeEvent:
		return "SendEvent", nil
	default:
		return "", fmt.Errorf("unknown send mode: %q", string(m))
	}
}

// token maps a send mode to its hotstring option token. The empty mode
// emits no token, leaving the host default in place.
func (m SendMode) token() (string, error) {
	switch m {
	case "":
		return "", nil
	case SendModeInput:
		return "SI", nil
	case SendModePlay:
		return "SP", nil
	case SendModeEvent:
		return "SE", nil
	default:
		return "", fmt.Errorf("unknown send mode: %q", string(m))
	}
}
