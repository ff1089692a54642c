//go:build !windows

package bridge

import (
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultEndpoint returns the Unix socket to dial. AHKGO_SOCKET overrides
// the per-user default under the temporary directory.
func DefaultEndpoint() string {
	if value := strings.TrimSpace(os.Getenv("AHKGO_SOCKET")); value != "" {
		return value
	}
	return filepath.Join(os.TempDir(), "ahkgo-"+currentUsername()+".sock")
}

func dialEndpoint(endpoint string, timeout time.Duration) (net.Conn, error) {
	return net.DialTimeout("unix", endpoint, timeout)
}
