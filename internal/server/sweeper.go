package server

import (
	"context"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/sweeper"
)

// Sweeper defines the minimal background eviction behavior needed by the server.
type Sweeper interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Status() sweeper.Status
}
