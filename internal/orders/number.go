package orders

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// NumberGenerator produces order numbers of the form ORD + YYYYMMDDHHMM + a 3 digit suffix.
// Numbers are not unique on their own; the store retries on a unique index collision.
type NumberGenerator struct {
	Now  func() time.Time
	Intn func(n int) int
}

// NewNumberGenerator returns a generator using the wall clock and math/rand/v2.
func NewNumberGenerator() *NumberGenerator {
	return &NumberGenerator{Now: time.Now, Intn: rand.IntN}
}

// Next returns a fresh candidate order number.
func (g *NumberGenerator) Next() string {
	return fmt.Sprintf("ORD%s%d", g.Now().Format("200601021504"), 100+g.Intn(900))
}
