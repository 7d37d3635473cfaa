package breaker

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/sweetbloom/storefront/pkg/config"
)

var (
	errUnavailable = errors.New("unavailable")
	errNotFound    = errors.New("not found")
)

func newTestBreaker() *gobreaker.CircuitBreaker[string] {
	cfg := config.CircuitBreakerConfig{
		ConsecutiveFailures: 3,
		ErrorRatePercent:    100,
		MaxRequests:         1,
		OpenTimeout:         time.Hour,
	}
	isFailure := func(err error) bool { return !errors.Is(err, errNotFound) }
	return New[string]("test", cfg, isFailure, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func Test_Breaker_OpensAfterConsecutiveFailures(t *testing.T) {
	// given
	cb := newTestBreaker()
	fail := func() (string, error) { return "", errUnavailable }

	// when
	for range 3 {
		_, err := cb.Execute(fail)
		assert.ErrorIs(t, err, errUnavailable)
	}
	_, err := cb.Execute(func() (string, error) { return "ok", nil })

	// then
	assert.Equal(t, gobreaker.StateOpen, cb.State())
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func Test_Breaker_IgnoresNonFailures(t *testing.T) {
	// given
	cb := newTestBreaker()

	// when
	for range 10 {
		_, err := cb.Execute(func() (string, error) { return "", errNotFound })
		assert.ErrorIs(t, err, errNotFound)
	}

	// then
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}
