package catalog

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	storeerrors "github.com/sweetbloom/storefront/internal/errors"
)

// CatalogService defines read access to the product catalog.
type CatalogService interface {
	// GetAll returns every product, or only those of category when it is not empty.
	GetAll(ctx context.Context, category string) ([]Product, error)

	// GetByID returns one product.
	// Returns ErrProductNotFound if no product has the given ID.
	GetByID(ctx context.Context, id string) (*Product, error)

	// Search returns products whose title or description contains query, ignoring case.
	Search(ctx context.Context, query string) ([]Product, error)

	// Categories returns the known categories.
	Categories() []string
}

// Service reads from the remote source when one is configured and falls back to the local one
// whenever the remote fails or has not been populated yet.
type Service struct {
	remote   Source
	fallback Source
	logger   *slog.Logger
}

// NewService creates the catalog service. remote may be nil to serve the fallback only.
func NewService(remote Source, fallback Source, logger *slog.Logger) *Service {
	return &Service{
		remote:   remote,
		fallback: fallback,
		logger:   logger.With("component", "catalog"),
	}
}

func (s *Service) GetAll(ctx context.Context, category string) ([]Product, error) {
	if s.remote != nil {
		products, err := s.remote.List(ctx, category)
		switch {
		case err != nil:
			s.logger.WarnContext(ctx, "Remote catalog failed, falling back to local data", "category", category, "error", err)
		case len(products) == 0 && category == "":
			s.logger.InfoContext(ctx, "Remote catalog is empty, falling back to local data")
		default:
			return s.validated(ctx, products), nil
		}
	}
	return s.fallback.List(ctx, category)
}

func (s *Service) GetByID(ctx context.Context, id string) (*Product, error) {
	if s.remote != nil {
		p, err := s.remote.Get(ctx, id)
		switch {
		case err == nil:
			if vErr := p.Validate(); vErr != nil {
				s.logger.WarnContext(ctx, "Dropping invalid remote product", "ID", id, "error", vErr)
				return nil, storeerrors.ErrProductNotFound
			}
			return p, nil
		case errors.Is(err, storeerrors.ErrProductNotFound):
			return nil, err
		case errors.Is(err, storeerrors.ErrInvalidProduct):
			s.logger.WarnContext(ctx, "Dropping invalid remote product", "ID", id, "error", err)
			return nil, storeerrors.ErrProductNotFound
		default:
			s.logger.WarnContext(ctx, "Remote catalog failed, falling back to local data", "ID", id, "error", err)
		}
	}
	return s.fallback.Get(ctx, id)
}

func (s *Service) Search(ctx context.Context, query string) ([]Product, error) {
	all, err := s.GetAll(ctx, "")
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(query)
	result := make([]Product, 0, len(all))
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Title), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) {
			result = append(result, p)
		}
	}
	return result, nil
}

func (s *Service) Categories() []string {
	return append([]string(nil), Categories...)
}

// validated drops records that fail the catalog schema.
func (s *Service) validated(ctx context.Context, products []Product) []Product {
	result := make([]Product, 0, len(products))
	for _, p := range products {
		if err := p.Validate(); err != nil {
			s.logger.WarnContext(ctx, "Dropping invalid remote product", "ID", p.ID, "error", err)
			continue
		}
		result = append(result, p)
	}
	return result
}
