package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sweetbloom/storefront/internal/catalog"
)

var (
	roses    = catalog.Product{ID: "1", Title: "Bouquet de Roses Rouges", Price: 100, Category: catalog.CategoryFlowers}
	truffles = catalog.Product{ID: "7", Title: "Truffes au Chocolat Noir", Price: 149, Category: catalog.CategoryChocolates}
	macarons = catalog.Product{ID: "13", Title: "Macarons Assortis (12 pcs)", Price: 159, Category: catalog.CategoryCakes}
)

func Test_Add(t *testing.T) {
	testCases := []struct {
		name     string
		items    []Item
		product  catalog.Product
		expected []Item
	}{
		{
			name:     "new product appends with qty 1",
			items:    []Item{},
			product:  roses,
			expected: []Item{{Product: roses, Qty: 1}},
		},
		{
			name:     "existing product increments in place",
			items:    []Item{{Product: roses, Qty: 1}, {Product: truffles, Qty: 2}},
			product:  truffles,
			expected: []Item{{Product: roses, Qty: 1}, {Product: truffles, Qty: 3}},
		},
		{
			name:     "new product goes to the end",
			items:    []Item{{Product: truffles, Qty: 1}},
			product:  macarons,
			expected: []Item{{Product: truffles, Qty: 1}, {Product: macarons, Qty: 1}},
		},
		{
			name:     "nil cart",
			items:    nil,
			product:  macarons,
			expected: []Item{{Product: macarons, Qty: 1}},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Add(tc.items, tc.product))
		})
	}
}

func Test_Add_KeepsStoredSnapshot(t *testing.T) {
	// given
	items := []Item{{Product: roses, Qty: 1}}
	repriced := roses
	repriced.Price = 999

	// when
	result := Add(items, repriced)

	// then
	assert.Equal(t, []Item{{Product: roses, Qty: 2}}, result)
}

func Test_Decrement(t *testing.T) {
	testCases := []struct {
		name     string
		items    []Item
		id       string
		expected []Item
	}{
		{
			name:     "qty above one decrements",
			items:    []Item{{Product: roses, Qty: 3}, {Product: truffles, Qty: 1}},
			id:       roses.ID,
			expected: []Item{{Product: roses, Qty: 2}, {Product: truffles, Qty: 1}},
		},
		{
			name:     "qty one removes the line",
			items:    []Item{{Product: roses, Qty: 1}, {Product: truffles, Qty: 1}},
			id:       roses.ID,
			expected: []Item{{Product: truffles, Qty: 1}},
		},
		{
			name:     "unknown id is a no-op",
			items:    []Item{{Product: roses, Qty: 2}},
			id:       "404",
			expected: []Item{{Product: roses, Qty: 2}},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Decrement(tc.items, tc.id))
		})
	}
}

func Test_Remove(t *testing.T) {
	items := []Item{{Product: roses, Qty: 5}, {Product: truffles, Qty: 1}}

	once := Remove(items, roses.ID)
	twice := Remove(once, roses.ID)

	assert.Equal(t, []Item{{Product: truffles, Qty: 1}}, once)
	assert.Equal(t, once, twice)
	assert.Equal(t, []Item{{Product: truffles, Qty: 1}}, Remove(items, roses.ID), "input must not be mutated")
}

func Test_Clear(t *testing.T) {
	assert.Empty(t, Clear())
	assert.NotNil(t, Clear())
}

func Test_Transitions_DoNotMutateInput(t *testing.T) {
	// given
	items := []Item{{Product: roses, Qty: 2}, {Product: truffles, Qty: 1}}
	snapshot := append([]Item(nil), items...)

	// when
	_ = Add(items, roses)
	_ = Decrement(items, roses.ID)
	_ = Decrement(items, truffles.ID)
	_ = Remove(items, roses.ID)

	// then
	assert.Equal(t, snapshot, items)
}

func Test_Properties(t *testing.T) {
	products := []catalog.Product{roses, truffles, macarons}

	t.Run("add to a cart without the product yields one line with qty 1", func(t *testing.T) {
		for _, p := range products {
			result := Add([]Item{{Product: roses, Qty: 4}}, p)
			lines := 0
			for _, it := range result {
				if it.ID == p.ID {
					lines++
					if p.ID != roses.ID {
						assert.Equal(t, 1, it.Qty)
					}
				}
			}
			assert.Equal(t, 1, lines)
		}
	})

	t.Run("decrement lowers by one or removes", func(t *testing.T) {
		for n := 1; n <= 5; n++ {
			result := Decrement([]Item{{Product: macarons, Qty: n}}, macarons.ID)
			if n == 1 {
				assert.Empty(t, result)
			} else {
				assert.Equal(t, []Item{{Product: macarons, Qty: n - 1}}, result)
			}
		}
	})

	t.Run("quantity never drops below one", func(t *testing.T) {
		items := []Item{{Product: roses, Qty: 2}}
		for range 5 {
			items = Decrement(items, roses.ID)
			for _, it := range items {
				assert.GreaterOrEqual(t, it.Qty, 1)
			}
		}
		assert.Empty(t, items)
	})

	t.Run("add then add yields qty 2 in a single line", func(t *testing.T) {
		assert.Equal(t, []Item{{Product: roses, Qty: 2}}, Add(Add(Clear(), roses), roses))
	})
}

func Test_CountAndAmount(t *testing.T) {
	items := Add(Clear(), catalog.Product{ID: "1", Price: 100})
	assert.Equal(t, []Item{{Product: catalog.Product{ID: "1", Price: 100}, Qty: 1}}, items)

	items = Add(items, catalog.Product{ID: "1", Price: 100})
	assert.Equal(t, 2, items[0].Qty)
	assert.Equal(t, 2, Count(items))
	assert.Equal(t, 200.0, Amount(items))

	assert.Equal(t, 0, Count(nil))
	assert.Equal(t, 0.0, Amount(nil))
	assert.Equal(t, 0.6, Amount([]Item{{Product: catalog.Product{ID: "a", Price: 0.1}, Qty: 6}}))
}

func Test_Summarize(t *testing.T) {
	testCases := []struct {
		name     string
		items    []Item
		expected Summary
	}{
		{
			name:  "below threshold pays the fee",
			items: []Item{{Product: truffles, Qty: 1}},
			expected: Summary{
				ItemCount: 1, Subtotal: 149, DeliveryFee: 20, Total: 169,
				FreeDelivery: false, RemainingForFreeDelivery: 51, Progress: 74.5,
			},
		},
		{
			name:  "exactly the threshold is free",
			items: []Item{{Product: roses, Qty: 2}},
			expected: Summary{
				ItemCount: 2, Subtotal: 200, DeliveryFee: 0, Total: 200,
				FreeDelivery: true, RemainingForFreeDelivery: 0, Progress: 100,
			},
		},
		{
			name:  "above the threshold is free and progress is capped",
			items: []Item{{Product: macarons, Qty: 2}, {Product: truffles, Qty: 1}},
			expected: Summary{
				ItemCount: 3, Subtotal: 467, DeliveryFee: 0, Total: 467,
				FreeDelivery: true, RemainingForFreeDelivery: 0, Progress: 100,
			},
		},
		{
			name:  "empty cart",
			items: Clear(),
			expected: Summary{
				ItemCount: 0, Subtotal: 0, DeliveryFee: 20, Total: 20,
				FreeDelivery: false, RemainingForFreeDelivery: 200, Progress: 0,
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Summarize(tc.items, DefaultPricing))
		})
	}
}

func Test_Summarize_ZeroThreshold(t *testing.T) {
	s := Summarize([]Item{{Product: truffles, Qty: 1}}, Pricing{FreeDeliveryThreshold: 0, DeliveryFee: 20})
	assert.True(t, s.FreeDelivery)
	assert.Equal(t, 149.0, s.Total)
	assert.Equal(t, 100.0, s.Progress)
}
