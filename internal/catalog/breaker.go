package catalog

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sony/gobreaker/v2"
	storeerrors "github.com/sweetbloom/storefront/internal/errors"
	"github.com/sweetbloom/storefront/pkg/breaker"
	"github.com/sweetbloom/storefront/pkg/config"
)

// BreakerSource guards a remote Source with a circuit breaker so that an unreachable store
// is skipped quickly instead of being hit on every request.
type BreakerSource struct {
	next Source
	cb   *gobreaker.CircuitBreaker[[]Product]
}

func NewBreakerSource(next Source, cfg config.CircuitBreakerConfig, logger *slog.Logger) *BreakerSource {
	isFailure := func(err error) bool {
		return !errors.Is(err, storeerrors.ErrProductNotFound) && !errors.Is(err, storeerrors.ErrInvalidProduct)
	}
	return &BreakerSource{
		next: next,
		cb:   breaker.New[[]Product]("catalog-remote", cfg, isFailure, logger),
	}
}

func (s *BreakerSource) List(ctx context.Context, category string) ([]Product, error) {
	return s.cb.Execute(func() ([]Product, error) {
		return s.next.List(ctx, category)
	})
}

func (s *BreakerSource) Get(ctx context.Context, id string) (*Product, error) {
	products, err := s.cb.Execute(func() ([]Product, error) {
		p, err := s.next.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return []Product{*p}, nil
	})
	if err != nil {
		return nil, err
	}
	return &products[0], nil
}

// State reports whether the breaker is closed, open or half-open.
func (s *BreakerSource) State() gobreaker.State {
	return s.cb.State()
}
