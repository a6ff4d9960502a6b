package cart

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tea = Product{ID: 1, Name: "Tea", Price: 10}

func TestAdd_MergesSameProduct(t *testing.T) {
	c := New()

	c.Add(tea)
	c.Add(tea)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 20.0, c.TotalPrice())
}

func TestAdd_DistinctProductsGetOwnLines(t *testing.T) {
	c := New()
	coffee := Product{ID: 2, Name: "Coffee", Price: 15}

	c.Add(tea)
	c.Add(coffee)
	c.Add(tea)

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "Tea", lines[0].Product.Name)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, "Coffee", lines[1].Product.Name)
	assert.Equal(t, 1, lines[1].Quantity)
	assert.Equal(t, 35.0, c.TotalPrice())
}

func TestRemove_DecrementsQuantity(t *testing.T) {
	c := New()
	c.Add(tea)
	c.Add(tea)

	c.Remove(tea)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.Equal(t, 10.0, c.TotalPrice())
}

func TestRemove_DropsLineAtLastUnit(t *testing.T) {
	c := New()
	c.Add(tea)

	c.Remove(tea)

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0.0, c.TotalPrice())
}

func TestRemove_MissingProductIsNoop(t *testing.T) {
	c := New()
	c.Add(tea)
	before := c.Lines()

	c.Remove(Product{ID: 99, Name: "Water", Price: 5})

	assert.Equal(t, before, c.Lines())
	assert.Equal(t, 10.0, c.TotalPrice())
}

func TestRemove_OnEmptyCartIsNoop(t *testing.T) {
	c := New()

	c.Remove(tea)

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0.0, c.TotalPrice())
}

func TestAddThenRemoveRestoresPriorState(t *testing.T) {
	c := New()
	c.Add(tea)
	c.Add(Product{ID: 2, Name: "Coffee", Price: 15})
	before := c.Lines()
	total := c.TotalPrice()

	p := Product{ID: 3, Name: "Cake", Price: 25}
	c.Add(p)
	c.Remove(p)

	assert.Equal(t, before, c.Lines())
	assert.Equal(t, total, c.TotalPrice())
}

func TestClear_AlwaysEmpties(t *testing.T) {
	c := New()
	c.Add(tea)
	c.Add(Product{ID: 2, Name: "Coffee", Price: 15})

	c.Clear()

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0.0, c.TotalPrice())

	c.Clear() // idempotent on an empty cart
	assert.Equal(t, 0.0, c.TotalPrice())
}

// The total must always equal a full recompute over the line set, whatever
// sequence of mutations produced it.
func TestTotal_NeverDriftsFromRecompute(t *testing.T) {
	c := New()
	coffee := Product{ID: 2, Name: "Coffee", Price: 15.5}
	cake := Product{ID: 3, Name: "Cake", Price: 25.25}

	ops := []func(){
		func() { c.Add(tea) },
		func() { c.Add(coffee) },
		func() { c.Add(tea) },
		func() { c.Add(cake) },
		func() { c.Remove(coffee) },
		func() { c.Add(cake) },
		func() { c.Remove(tea) },
		func() { c.Remove(Product{ID: 9, Name: "Juice", Price: 4}) },
		func() { c.Add(coffee) },
		func() { c.Clear() },
		func() { c.Add(tea) },
	}

	for _, op := range ops {
		op()

		var want float64
		for _, l := range c.Lines() {
			want += float64(l.Quantity) * l.Product.Price
		}
		assert.Equal(t, want, c.TotalPrice())
	}
}

func TestVariant_IsADistinctLine(t *testing.T) {
	c := New()
	helva := Product{ID: 7, Name: "Helva", Price: 0}
	small := helva.WithVariant(Variant{Name: "Small", Price: 40})
	large := helva.WithVariant(Variant{Name: "Large", Price: 70})

	c.Add(small)
	c.Add(large)
	c.Add(small)

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "Helva - Small", lines[0].Product.Name)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, "Helva - Large", lines[1].Product.Name)
	assert.Equal(t, 150.0, c.TotalPrice())

	// The base product does not merge with its variants either.
	c.Add(helva)
	assert.Equal(t, 3, c.Len())
}

// Identity is by id when present: two distinct catalog entries sharing a
// display name stay on separate lines, and the same entry merges regardless
// of how its name is rendered.
func TestIdentity_PrefersIDOverName(t *testing.T) {
	c := New()

	c.Add(Product{ID: 1, Name: "Tea", Price: 10})
	c.Add(Product{ID: 2, Name: "Tea", Price: 12})
	assert.Equal(t, 2, c.Len())

	c.Add(Product{ID: 1, Name: "Tea (hot)", Price: 10})
	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestCheckout_ClearsOnlyOnSuccess(t *testing.T) {
	c := New()
	c.Add(tea)
	c.Add(tea)

	var got float64
	err := c.Checkout(func(total float64) error {
		got = total
		return errors.New("backend said no")
	})
	require.Error(t, err)
	assert.Equal(t, 20.0, got)
	assert.Equal(t, 20.0, c.TotalPrice(), "failed checkout must leave the cart untouched")

	err = c.Checkout(func(total float64) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}

// Mutations arriving while a checkout is in flight queue behind it; they must
// never be swallowed by the clearing step.
func TestCheckout_QueuesConcurrentMutations(t *testing.T) {
	c := New()
	c.Add(tea)

	inSubmit := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = c.Checkout(func(total float64) error {
			close(inSubmit)
			<-release
			return nil
		})
	}()

	<-inSubmit
	added := make(chan struct{})
	go func() {
		c.Add(tea) // blocks until the checkout resolves
		close(added)
	}()

	select {
	case <-added:
		t.Fatal("Add ran while a checkout was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	wg.Wait()
	<-added

	lines := c.Lines()
	require.Len(t, lines, 1, "the queued Add must land on the post-checkout cart")
	assert.Equal(t, 1, lines[0].Quantity)
	assert.Equal(t, 10.0, c.TotalPrice())
}
