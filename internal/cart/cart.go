package cart

import "sync"

// Product is the purchasable unit as the cart sees it: a stable catalog id
// when one exists, a display name, and the unit price. Products synthesized
// from a variant carry no id and are identified by their combined name.
type Product struct {
	ID    int64
	Name  string
	Price float64
}

// Variant is a priced sub-option of a base product, e.g. a size.
type Variant struct {
	Name  string
	Price float64
}

// WithVariant returns the product sold as the given variant. The result is a
// distinct purchasable item named "<base> - <variant>" at the variant's price;
// it never merges with the base product or with other variants.
func (p Product) WithVariant(v Variant) Product {
	return Product{Name: p.Name + " - " + v.Name, Price: v.Price}
}

// Line is one row of the cart: a product and how many units of it.
type Line struct {
	Product  Product
	Quantity int
}

// Cart holds the items one session intends to purchase, in insertion order,
// one line per product identity. It is volatile in-memory state: never
// persisted, cleared on checkout or logout.
//
// Identity is the catalog id when present, falling back to the name only for
// products without one (variants).
type Cart struct {
	mu    sync.Mutex
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

func sameIdentity(a, b Product) bool {
	if a.ID != 0 || b.ID != 0 {
		return a.ID == b.ID
	}
	return a.Name == b.Name
}

// Add puts one unit of p in the cart, merging into an existing line when one
// matches p's identity. It always succeeds; there is no quantity cap.
func (c *Cart) Add(p Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if sameIdentity(c.lines[i].Product, p) {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, Line{Product: p, Quantity: 1})
}

// Remove takes one unit of p out of the cart, dropping the line when it was
// the last unit. Removing a product that is not in the cart is a no-op.
func (c *Cart) Remove(p Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if !sameIdentity(c.lines[i].Product, p) {
			continue
		}
		if c.lines[i].Quantity > 1 {
			c.lines[i].Quantity--
		} else {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		}
		return
	}
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Lines returns a snapshot copy of the cart's lines.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// TotalPrice recomputes the total from the current lines on every call; it is
// never cached, so it cannot drift from the line set.
func (c *Cart) TotalPrice() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total()
}

func (c *Cart) total() float64 {
	var sum float64
	for _, l := range c.lines {
		sum += float64(l.Quantity) * l.Product.Price
	}
	return sum
}

// Checkout runs submit with the cart held: mutations arriving while the sale
// is in flight queue behind the submission instead of interleaving with the
// clearing step. submit receives the total at the moment of the call, and the
// cart is emptied only when submit returns nil.
func (c *Cart) Checkout(submit func(total float64) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := submit(c.total()); err != nil {
		return err
	}
	c.lines = nil
	return nil
}
