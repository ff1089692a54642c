package ahk

import "errors"

var (
	// ErrInvalidKeyName is returned when a hotkey is registered with an
	// empty key name. Malformed non-empty names are rejected by the host,
	// not locally.
	ErrInvalidKeyName = errors.New("invalid key name")

	// ErrKeyStateUnknown is returned when the host answers a key-state
	// query with an empty result.
	ErrKeyStateUnknown = errors.New("key name is invalid or the state of the key could not be determined")
)
