package server

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/config"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/gateway"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/gateway/fixture"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/gateway/rest"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/metrics"
)

// gatewayFactory assembles the backend gateway with shared wrappers (rate limit, retry, coalesce).
type gatewayFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newGatewayFactory(logger *slog.Logger, metrics *metrics.Recorder) gatewayFactory {
	return gatewayFactory{logger: logger, metrics: metrics}
}

func (f gatewayFactory) build(cfg config.Config) gateway.MatchGateway {
	return f.wrap(cfg, selectGateway(cfg, f.logger))
}

func (f gatewayFactory) wrap(cfg config.Config, base gateway.MatchGateway) gateway.MatchGateway {
	limited := gateway.NewRateLimitedGateway(base, cfg.Backend.ReadRPS, cfg.Backend.WriteRPS, f.logger)
	retrying := gateway.NewRetryingGateway(limited, f.logger, f.metrics, normalizeGatewayName(cfg.Gateway, base), cfg.Backend.RetryAttempts, cfg.Backend.RetryBackoff)
	return gateway.NewCoalescingGateway(retrying)
}

func selectGateway(cfg config.Config, logger *slog.Logger) gateway.MatchGateway {
	switch strings.ToLower(cfg.Gateway) {
	case "fixture", "":
		return fixture.New()
	case "rest":
		return rest.NewClient(rest.Config{
			BaseURL: cfg.Backend.BaseURL,
			Timeout: cfg.Backend.Timeout,
			Logger:  logger,
		})
	default:
		if logger != nil {
			logger.Warn("unknown gateway, falling back to fixture", slog.String("gateway", cfg.Gateway))
		}
		return fixture.New()
	}
}

// normalizeGatewayName returns a lower-cased gateway name, deriving from the instance when not configured.
// Used for metrics labels and log fields.
func normalizeGatewayName(raw string, gw gateway.MatchGateway) string {
	if raw != "" {
		return strings.ToLower(raw)
	}
	if gw != nil {
		return strings.ToLower(fmt.Sprintf("%T", gw))
	}
	return "gateway"
}
