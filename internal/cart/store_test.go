package cart

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sweetbloom/storefront/internal/catalog"
)

func Test_Store_Scenario(t *testing.T) {
	// given
	store := NewStore()
	product := catalog.Product{ID: "1", Price: 100}

	// when
	first := store.Add(product)
	second := store.Add(product)

	// then
	assert.Equal(t, []Item{{Product: product, Qty: 1}}, first)
	assert.Equal(t, []Item{{Product: product, Qty: 2}}, second)
	assert.Equal(t, 2, store.Count())
	assert.Equal(t, 200.0, store.Amount())
}

func Test_Store_NotifiesObserversInOrder(t *testing.T) {
	// given
	store := NewStore()
	var calls []string
	var seen [][]Item
	store.Subscribe(func(items []Item) {
		calls = append(calls, "first")
		seen = append(seen, items)
	})
	store.Subscribe(func([]Item) { calls = append(calls, "second") })

	// when
	store.Add(roses)
	store.Decrement(roses.ID)

	// then
	assert.Equal(t, []string{"first", "second", "first", "second"}, calls)
	require.Len(t, seen, 2)
	assert.Equal(t, []Item{{Product: roses, Qty: 1}}, seen[0])
	assert.Empty(t, seen[1])
}

func Test_Store_NoOpTransitionsDoNotNotify(t *testing.T) {
	// given
	store := NewStore()
	notified := 0
	store.Subscribe(func([]Item) { notified++ })

	// when
	store.Remove("404")
	store.Decrement("404")
	store.Clear()

	// then
	assert.Zero(t, notified)
}

func Test_Store_Unsubscribe(t *testing.T) {
	// given
	store := NewStore()
	notified := 0
	unsubscribe := store.Subscribe(func([]Item) { notified++ })

	// when
	store.Add(roses)
	unsubscribe()
	unsubscribe()
	store.Add(roses)

	// then
	assert.Equal(t, 1, notified)
}

func Test_Store_ObserverCanReadState(t *testing.T) {
	store := NewStore()
	var counts []int
	store.Subscribe(func([]Item) { counts = append(counts, store.Count()) })

	store.Add(roses)
	store.Add(truffles)
	store.Clear()

	assert.Equal(t, []int{1, 2, 0}, counts)
}

func Test_Store_ItemsReturnsCopy(t *testing.T) {
	store := NewStore()
	store.Add(roses)

	items := store.Items()
	items[0].Qty = 99

	assert.Equal(t, 1, store.Items()[0].Qty)
}

func Test_Store_ConcurrentTransitionsAreSerialized(t *testing.T) {
	// given
	store := NewStore()
	var mu sync.Mutex
	var observed []int
	store.Subscribe(func(items []Item) {
		mu.Lock()
		defer mu.Unlock()
		observed = append(observed, Count(items))
	})
	var wg sync.WaitGroup

	// when
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Add(roses)
		}()
	}
	wg.Wait()

	// then
	assert.Equal(t, 100, store.Count())
	require.Len(t, observed, 100)
	for i, n := range observed {
		assert.Equal(t, i+1, n)
	}
}

func Test_Registry(t *testing.T) {
	// given
	var created []string
	registry := NewRegistry(func(userID string, s *Store) {
		created = append(created, userID)
	})

	// when
	alice := registry.For("alice")
	alice.Add(roses)
	again := registry.For("alice")
	bob := registry.For("bob")

	// then
	assert.Same(t, alice, again)
	assert.Equal(t, 1, again.Count())
	assert.Equal(t, 0, bob.Count())
	assert.Equal(t, []string{"alice", "bob"}, created)
}

func Test_Store_Take(t *testing.T) {
	// given
	store := NewStore()
	store.Add(roses)
	store.Add(roses)
	var seen [][]Item
	store.Subscribe(func(items []Item) { seen = append(seen, items) })

	// when
	taken := store.Take()
	again := store.Take()

	// then
	assert.Equal(t, []Item{{Product: roses, Qty: 2}}, taken)
	assert.Empty(t, again)
	assert.Empty(t, store.Items())
	require.Len(t, seen, 1)
	assert.Empty(t, seen[0])
}
