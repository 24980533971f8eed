// Package cart holds the per-visitor shopping cart kept in the web session.
package cart

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/01moynul/mayaj-store/internal/models"
)

// MaxLineQuantity caps the quantity of a single cart line.
const MaxLineQuantity = 999

var (
	// ErrInvalidQuantity is returned when an increment is not a positive number.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrQuantityTooLarge is returned when a line would exceed MaxLineQuantity.
	ErrQuantityTooLarge = fmt.Errorf("quantity must be at most %d", MaxLineQuantity)
)

const noSize = "no_size"

// Key identifies one cart line. An empty Size means the product is sold without sizes.
type Key struct {
	ProductID int64
	Size      string
}

// String renders the session form "<product_id>_<size|no_size>".
func (k Key) String() string {
	size := k.Size
	if size == "" {
		size = noSize
	}
	return strconv.FormatInt(k.ProductID, 10) + "_" + size
}

// ParseKey is the inverse of Key.String.
func ParseKey(s string) (Key, error) {
	id, size, ok := strings.Cut(s, "_")
	if !ok {
		return Key{}, fmt.Errorf("cart key %q: missing size part", s)
	}
	pid, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return Key{}, fmt.Errorf("cart key %q: %w", s, err)
	}
	if size == noSize {
		size = ""
	}
	return Key{ProductID: pid, Size: size}, nil
}

func compareKeys(a, b Key) int {
	if c := cmp.Compare(a.ProductID, b.ProductID); c != 0 {
		return c
	}
	return cmp.Compare(a.Size, b.Size)
}

// Line is a single (product, size) entry. UnitPrice is captured when the line is created.
type Line struct {
	ProductID int64           `json:"product_id"`
	Size      string          `json:"size,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"price"`
}

func (l Line) Key() Key {
	return Key{ProductID: l.ProductID, Size: l.Size}
}

// Total is UnitPrice x Quantity.
func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart maps keys to lines. Every stored line has Quantity >= 1.
// A Cart is not safe for concurrent use; each request owns its own copy.
type Cart struct {
	lines    map[Key]*Line
	modified bool
}

func New() *Cart {
	return &Cart{lines: make(map[Key]*Line)}
}

// Add puts quantity of product in the cart under size. With replace the line's quantity
// is set, otherwise it is incremented. A new line snapshots the product's effective price.
func (c *Cart) Add(p *models.Product, quantity int, size string, replace bool) error {
	if !replace && quantity < 1 {
		return ErrInvalidQuantity
	}
	if quantity > MaxLineQuantity {
		return ErrQuantityTooLarge
	}
	k := Key{ProductID: p.ID, Size: size}
	if replace && quantity <= 0 {
		c.remove(k)
		return nil
	}

	line, ok := c.lines[k]
	if ok && !replace && line.Quantity+quantity > MaxLineQuantity {
		return ErrQuantityTooLarge
	}
	if !ok {
		line = &Line{ProductID: p.ID, Size: size, UnitPrice: p.EffectivePrice()}
		c.lines[k] = line
	}
	if replace {
		line.Quantity = quantity
	} else {
		line.Quantity += quantity
	}
	c.modified = true
	return nil
}

// Remove deletes the line if present.
func (c *Cart) Remove(productID int64, size string) {
	c.remove(Key{ProductID: productID, Size: size})
}

// Update sets the quantity of an existing line; quantity <= 0 removes it.
// Missing lines are left alone.
func (c *Cart) Update(productID int64, size string, quantity int) error {
	if quantity > MaxLineQuantity {
		return ErrQuantityTooLarge
	}
	k := Key{ProductID: productID, Size: size}
	line, ok := c.lines[k]
	if !ok {
		return nil
	}
	if quantity <= 0 {
		c.remove(k)
		return nil
	}
	line.Quantity = quantity
	c.modified = true
	return nil
}

func (c *Cart) remove(k Key) {
	if _, ok := c.lines[k]; ok {
		delete(c.lines, k)
		c.modified = true
	}
}

// Line returns a copy of the line stored under k.
func (c *Cart) Line(k Key) (Line, bool) {
	l, ok := c.lines[k]
	if !ok {
		return Line{}, false
	}
	return *l, true
}

// Lines returns copies of all lines ordered by key.
func (c *Cart) Lines() []Line {
	out := make([]Line, 0, len(c.lines))
	for _, l := range c.lines {
		out = append(out, *l)
	}
	slices.SortFunc(out, func(a, b Line) int { return compareKeys(a.Key(), b.Key()) })
	return out
}

// Len is the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// TotalQuantity is the sum of all line quantities.
func (c *Cart) TotalQuantity() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// TotalPrice sums the snapshot prices; live product prices are not consulted.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Total())
	}
	return total
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = make(map[Key]*Line)
	c.modified = true
}

// Modified reports whether the cart changed since it was loaded.
func (c *Cart) Modified() bool {
	return c.modified
}

// MarshalJSON encodes the cart as {"<key>": line, ...}.
func (c *Cart) MarshalJSON() ([]byte, error) {
	m := make(map[string]*Line, len(c.lines))
	for k, l := range c.lines {
		m[k.String()] = l
	}
	return json.Marshal(m)
}

// UnmarshalJSON drops lines with a malformed key or a quantity outside 1..MaxLineQuantity.
func (c *Cart) UnmarshalJSON(data []byte) error {
	var m map[string]*Line
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	c.lines = make(map[Key]*Line, len(m))
	c.modified = false
	for s, l := range m {
		k, err := ParseKey(s)
		if err != nil || l == nil || l.Quantity < 1 || l.Quantity > MaxLineQuantity {
			continue
		}
		l.ProductID, l.Size = k.ProductID, k.Size
		c.lines[k] = l
	}
	return nil
}
