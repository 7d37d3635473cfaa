// Package breaker builds gobreaker circuit breakers from configuration.
package breaker

import (
	"log/slog"

	"github.com/sony/gobreaker/v2"
	"github.com/sweetbloom/storefront/pkg/config"
)

// New returns a circuit breaker that opens after cfg.ConsecutiveFailures consecutive failures,
// or when the failure ratio exceeds cfg.ErrorRatePercent once enough calls were counted.
// isFailure decides which errors count against the breaker; errors it rejects (such as
// "not found") are reported to the caller but keep the breaker closed.
func New[T any](name string, cfg config.CircuitBreakerConfig, isFailure func(error) bool, logger *slog.Logger) *gobreaker.CircuitBreaker[T] {
	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			total := counts.TotalSuccesses + counts.TotalFailures
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures ||
				(total > cfg.ConsecutiveFailures &&
					float64(counts.TotalFailures)/float64(total)*100 > float64(cfg.ErrorRatePercent))
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !isFailure(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	}
	return gobreaker.NewCircuitBreaker[T](st)
}
