package services

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrOutOfStock       = errors.New("product is out of stock")
	ErrCartItemNotFound = errors.New("item not in cart")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrOrderNotFound    = errors.New("order not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrEmailTaken       = errors.New("email already in use")
	ErrAdminExists      = errors.New("an admin account already exists")
	ErrInvalidRole      = errors.New("invalid role")
	ErrInvalidPromoCode = errors.New("invalid promo code")
)

// StockError reports an insufficient-stock failure. The message names the
// product and the quantity still available, which the storefront surfaces
// directly to the customer.
type StockError struct {
	ProductName string
	Available   int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("not enough stock for %s, available: %d", e.ProductName, e.Available)
}

// TransitionError reports an order status change outside the legal state
// machine.
type TransitionError struct {
	From, To string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot change order status from %s to %s", e.From, e.To)
}
