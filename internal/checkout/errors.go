package checkout

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCart is returned when checkout starts without any resolvable line.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrSizeRequired is returned when a sized product is bought without a size.
	ErrSizeRequired = errors.New("please select a size")
	// ErrUnknownSize is returned when the requested size does not exist for the product.
	ErrUnknownSize = errors.New("selected size is not available")
)

// StockError reports how many units are actually available.
type StockError struct {
	Available int
	Size      string
}

func (e *StockError) Error() string {
	if e.Size != "" {
		return fmt.Sprintf("Only %d items available in size %s.", e.Available, e.Size)
	}
	return fmt.Sprintf("Only %d items available.", e.Available)
}

// UnavailableError is returned for a product that is missing or no longer sold.
type UnavailableError struct {
	ProductID int64
	Name      string
}

func (e *UnavailableError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s is no longer available.", e.Name)
	}
	return fmt.Sprintf("product %d is no longer available", e.ProductID)
}
