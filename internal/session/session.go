// Package session keeps per-visitor state (cart, flash messages, placed orders)
// behind an opaque cookie.
package session

import (
	"context"
	"errors"
	"slices"

	"github.com/01moynul/mayaj-store/internal/cart"
)

// ErrNotFound is returned by a Store when the id is unknown or expired.
var ErrNotFound = errors.New("session not found")

// Flash levels.
const (
	LevelSuccess = "success"
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// Flash is a one-shot message shown on the next page.
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Data is what gets persisted for a session.
type Data struct {
	Cart    *cart.Cart `json:"cart"`
	Flashes []Flash    `json:"flashes,omitempty"`
	Orders  []int64    `json:"orders,omitempty"`
}

func newData() *Data {
	return &Data{Cart: cart.New()}
}

// Store persists session data by id.
type Store interface {
	Load(ctx context.Context, id string) (*Data, error)
	Save(ctx context.Context, id string, data *Data) error
	Delete(ctx context.Context, id string) error
}

// Session is the request-scoped view of one visitor's data.
type Session struct {
	ID       string
	data     *Data
	modified bool
}

// Cart never returns nil.
func (s *Session) Cart() *cart.Cart {
	return s.data.Cart
}

// AddFlash queues a message for the next rendered page.
func (s *Session) AddFlash(level, message string) {
	s.data.Flashes = append(s.data.Flashes, Flash{Level: level, Message: message})
	s.modified = true
}

// PopFlashes returns and clears the pending messages.
func (s *Session) PopFlashes() []Flash {
	if len(s.data.Flashes) == 0 {
		return nil
	}
	out := s.data.Flashes
	s.data.Flashes = nil
	s.modified = true
	return out
}

// RememberOrder records an order placed during this session.
func (s *Session) RememberOrder(id int64) {
	if slices.Contains(s.data.Orders, id) {
		return
	}
	s.data.Orders = append(s.data.Orders, id)
	s.modified = true
}

// HasOrder reports whether id was placed during this session.
func (s *Session) HasOrder(id int64) bool {
	return slices.Contains(s.data.Orders, id)
}

// Modified reports whether anything needs to be written back.
func (s *Session) Modified() bool {
	return s.modified || s.data.Cart.Modified()
}
