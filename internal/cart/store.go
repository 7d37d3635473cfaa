package cart

import (
	"slices"
	"sync"

	"github.com/sweetbloom/storefront/internal/catalog"
)

// Observer receives the cart state after every transition that changed it.
type Observer func(items []Item)

type subscription struct {
	id       uint64
	observer Observer
}

// Store owns one cart. Transitions are applied one at a time and observers are notified
// synchronously, in subscription order, before the transition returns.
// Observers must not dispatch transitions on the same store.
type Store struct {
	dispatchMu sync.Mutex

	mu        sync.RWMutex
	items     []Item
	observers []subscription
	nextID    uint64
}

// NewStore returns an empty cart.
func NewStore() *Store {
	return &Store{items: Clear()}
}

// Items returns a copy of the current lines.
func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

func (s *Store) Count() int {
	return Count(s.Items())
}

func (s *Store) Amount() float64 {
	return Amount(s.Items())
}

func (s *Store) Add(product catalog.Product) []Item {
	return s.dispatch(func(items []Item) []Item { return Add(items, product) })
}

func (s *Store) Decrement(id string) []Item {
	return s.dispatch(func(items []Item) []Item { return Decrement(items, id) })
}

func (s *Store) Remove(id string) []Item {
	return s.dispatch(func(items []Item) []Item { return Remove(items, id) })
}

func (s *Store) Clear() []Item {
	return s.dispatch(func([]Item) []Item { return Clear() })
}

// Take clears the cart and returns the lines it held, as one transition.
func (s *Store) Take() []Item {
	var taken []Item
	s.dispatch(func(items []Item) []Item {
		taken = slices.Clone(items)
		return Clear()
	})
	return taken
}

// Subscribe registers an observer and returns the function that removes it.
func (s *Store) Subscribe(observer Observer) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.observers = append(s.observers, subscription{id: id, observer: observer})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.observers = slices.DeleteFunc(s.observers, func(sub subscription) bool { return sub.id == id })
		})
	}
}

func (s *Store) dispatch(transition func([]Item) []Item) []Item {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	prev := s.items
	next := transition(prev)
	s.items = next
	observers := slices.Clone(s.observers)
	s.mu.Unlock()

	if !slices.Equal(prev, next) {
		for _, sub := range observers {
			sub.observer(slices.Clone(next))
		}
	}
	return slices.Clone(next)
}

// Hook runs once for every store the registry creates, typically to subscribe observers.
type Hook func(userID string, store *Store)

// Registry holds one cart per user. Carts live in memory only.
type Registry struct {
	mu     sync.Mutex
	stores map[string]*Store
	hooks  []Hook
}

func NewRegistry(hooks ...Hook) *Registry {
	return &Registry{
		stores: make(map[string]*Store),
		hooks:  hooks,
	}
}

// For returns the user's cart, creating an empty one on first use.
func (r *Registry) For(userID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.stores[userID]; ok {
		return s
	}
	s := NewStore()
	for _, hook := range r.hooks {
		hook(userID, s)
	}
	r.stores[userID] = s
	return s
}
