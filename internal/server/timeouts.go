package server

import (
	"time"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/config"
)

const (
	readTimeout       = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 60 * time.Second
	minWriteTimeout   = 10 * time.Second

	// Player-out that ends an innings calls dismiss, end innings, then reloads
	// match and roster, all in one request.
	backendCallsPerAction = 4
)

// shutdownTimeout remains a var for tests to override.
var shutdownTimeout = 10 * time.Second

// writeTimeoutFor gives a board action room for its longest chain of backend calls.
func writeTimeoutFor(backend config.BackendConfig) time.Duration {
	d := backend.Timeout * backendCallsPerAction
	if d < minWriteTimeout {
		return minWriteTimeout
	}
	return d
}
