//go:build windows

package bridge

import (
	"net"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/Microsoft/go-winio"
)

var pipeNamePattern = regexp.MustCompile(`(?i)^\\\\\.\\pipe\\ahkgo-[a-z0-9._-]{1,128}$`)

const defaultPipePrefix = `\\.\pipe\ahkgo-`

// DefaultEndpoint returns the named pipe to dial. If the AHKGO_PIPE
// environment variable is set and passes pattern validation, its value is
// used; otherwise a per-user default is constructed from the current
// username.
func DefaultEndpoint() string {
	if value := strings.TrimSpace(os.Getenv("AHKGO_PIPE")); value != "" && pipeNamePattern.MatchString(value) {
		return value
	}
	return defaultPipePrefix + currentUsername()
}

func dialEndpoint(endpoint string, timeout time.Duration) (net.Conn, error) {
	return winio.DialPipe(endpoint, &timeout)
}
