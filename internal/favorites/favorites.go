// Package favorites persists the products a user liked as one JSON collection in a key-value store.
//
// Every operation is read-modify-write on the whole collection and the last writer wins.
// Storage failures never reach the caller: they are logged and the operation returns the
// best result it has (the collection as read, or an empty one).
package favorites

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"

	"github.com/sweetbloom/storefront/internal/catalog"
	"github.com/sweetbloom/storefront/internal/kv"
)

// DefaultKey is the storage key of the favorites collection.
const DefaultKey = "@sweetbloom_favorites"

// Service hands out the favorites store of each user.
type Service struct {
	kv      kv.Store
	baseKey string
	logger  *slog.Logger
}

func NewService(store kv.Store, baseKey string, logger *slog.Logger) *Service {
	if baseKey == "" {
		baseKey = DefaultKey
	}
	return &Service{
		kv:      store,
		baseKey: baseKey,
		logger:  logger.With("component", "favorites"),
	}
}

// For returns the store of one user. The collection lives under "<baseKey>:<userID>".
func (s *Service) For(userID string) *Store {
	return &Store{
		kv:     s.kv,
		key:    s.baseKey + ":" + userID,
		logger: s.logger,
	}
}

// Store is the favorites collection kept under a single key.
type Store struct {
	kv     kv.Store
	key    string
	logger *slog.Logger
}

// NewStore binds a store to an explicit key.
func NewStore(store kv.Store, key string, logger *slog.Logger) *Store {
	return &Store{kv: store, key: key, logger: logger}
}

// GetAll returns the stored collection, or an empty one if nothing can be read.
func (s *Store) GetAll(ctx context.Context) []catalog.Product {
	list, err := s.load(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to read favorites", "key", s.key, "error", err)
		return []catalog.Product{}
	}
	return list
}

// Add appends product unless an entry with the same ID exists, and returns the collection.
func (s *Store) Add(ctx context.Context, product catalog.Product) []catalog.Product {
	list, err := s.load(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to read favorites before add", "key", s.key, "error", err)
		return []catalog.Product{}
	}
	return s.add(ctx, list, product)
}

// Remove drops the entry with id and returns the collection.
func (s *Store) Remove(ctx context.Context, id string) []catalog.Product {
	list, err := s.load(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to read favorites before remove", "key", s.key, "error", err)
		return []catalog.Product{}
	}
	return s.remove(ctx, list, id)
}

// Toggle removes product if it is a favorite and adds it otherwise.
func (s *Store) Toggle(ctx context.Context, product catalog.Product) []catalog.Product {
	list, err := s.load(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to read favorites before toggle", "key", s.key, "error", err)
		return []catalog.Product{}
	}
	if indexOf(list, product.ID) >= 0 {
		return s.remove(ctx, list, product.ID)
	}
	return s.add(ctx, list, product)
}

// Contains reports whether id is in the collection. Read failures count as absent.
func (s *Store) Contains(ctx context.Context, id string) bool {
	return indexOf(s.GetAll(ctx), id) >= 0
}

// Clear persists an empty collection.
func (s *Store) Clear(ctx context.Context) {
	if err := s.save(ctx, []catalog.Product{}); err != nil {
		s.logger.ErrorContext(ctx, "Failed to clear favorites", "key", s.key, "error", err)
	}
}

func (s *Store) add(ctx context.Context, list []catalog.Product, product catalog.Product) []catalog.Product {
	if indexOf(list, product.ID) >= 0 {
		return list
	}
	next := append(slices.Clone(list), product)
	if err := s.save(ctx, next); err != nil {
		s.logger.ErrorContext(ctx, "Failed to add favorite", "key", s.key, "ID", product.ID, "error", err)
		return list
	}
	return next
}

func (s *Store) remove(ctx context.Context, list []catalog.Product, id string) []catalog.Product {
	next := slices.DeleteFunc(slices.Clone(list), func(p catalog.Product) bool { return p.ID == id })
	if err := s.save(ctx, next); err != nil {
		s.logger.ErrorContext(ctx, "Failed to remove favorite", "key", s.key, "ID", id, "error", err)
		return list
	}
	return next
}

// load returns an error only when the backend fails. A missing or undecodable value is an
// empty collection, so the next successful write replaces it.
func (s *Store) load(ctx context.Context) ([]catalog.Product, error) {
	raw, found, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, err
	}
	if !found {
		return []catalog.Product{}, nil
	}
	var list []catalog.Product
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		s.logger.WarnContext(ctx, "Discarding undecodable favorites", "key", s.key, "error", err)
		return []catalog.Product{}, nil
	}
	if list == nil {
		list = []catalog.Product{}
	}
	return list, nil
}

func (s *Store) save(ctx context.Context, list []catalog.Product) error {
	data, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.key, string(data))
}

func indexOf(list []catalog.Product, id string) int {
	return slices.IndexFunc(list, func(p catalog.Product) bool { return p.ID == id })
}
