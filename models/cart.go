package models

// CartItem is one cart line: a product reference plus quantity.
type CartItem struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// CartLine is a cart item resolved against the current catalog, used for
// display and quoting. Never persisted.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Subtotal float64 `json:"subtotal"`
}

// CartQuote prices the cart for display at checkout. Only the bare item
// subtotal ends up on the order; discount, VAT and shipping are shown to the
// customer but never stored.
type CartQuote struct {
	Lines        []CartLine `json:"lines"`
	Subtotal     float64    `json:"subtotal"`
	PromoCode    string     `json:"promoCode,omitempty"`
	DiscountRate float64    `json:"discountRate"`
	Discount     float64    `json:"discount"`
	VAT          float64    `json:"vat"`
	Shipping     float64    `json:"shipping"`
	Total        float64    `json:"total"`
}

type AddToCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}
