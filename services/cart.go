package services

import (
	"context"
	"math"
	"strings"

	"laptopshop-svc/config"
	"laptopshop-svc/models"
	"laptopshop-svc/store"

	"go.uber.org/zap"
)

// CartService owns the cart collection. Every mutation validates the
// requested quantity against the live catalog snapshot; the order service
// repeats that check at checkout, which is the authoritative one.
type CartService struct {
	store  store.Store
	cfg    config.Config
	logger *zap.Logger
}

func NewCartService(s store.Store, cfg config.Config, logger *zap.Logger) *CartService {
	return &CartService{store: s, cfg: cfg, logger: logger}
}

func (svc *CartService) Items(ctx context.Context) ([]models.CartItem, error) {
	items, _, err := loadCollection[models.CartItem](ctx, svc.store, store.Cart)
	return items, err
}

func (svc *CartService) Add(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		quantity = 1
	}

	return withRetry(ctx, func(ctx context.Context) error {
		products, _, err := loadCollection[models.Product](ctx, svc.store, store.Inventory)
		if err != nil {
			return err
		}
		product, ok := findProduct(products, productID)
		if !ok {
			return ErrProductNotFound
		}
		if product.Quantity <= 0 {
			return ErrOutOfStock
		}

		cart, version, err := loadCollection[models.CartItem](ctx, svc.store, store.Cart)
		if err != nil {
			return err
		}

		existing := 0
		index := -1
		for i, item := range cart {
			if item.ID == productID {
				existing = item.Quantity
				index = i
				break
			}
		}
		if existing+quantity > product.Quantity {
			return &StockError{ProductName: product.Name, Available: product.Quantity}
		}

		if index >= 0 {
			cart[index].Quantity += quantity
		} else {
			cart = append(cart, models.CartItem{ID: productID, Quantity: quantity})
		}

		write, err := collectionWrite(store.Cart, cart, version)
		if err != nil {
			return err
		}
		return svc.store.Commit(ctx, write)
	})
}

// UpdateQuantity sets a cart line's quantity. Zero or negative removes the
// line, matching the storefront's stepper behavior.
func (svc *CartService) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		err := svc.Remove(ctx, productID)
		if err == ErrCartItemNotFound {
			return nil
		}
		return err
	}

	return withRetry(ctx, func(ctx context.Context) error {
		products, _, err := loadCollection[models.Product](ctx, svc.store, store.Inventory)
		if err != nil {
			return err
		}
		product, ok := findProduct(products, productID)
		if !ok {
			return ErrProductNotFound
		}
		if quantity > product.Quantity {
			return &StockError{ProductName: product.Name, Available: product.Quantity}
		}

		cart, version, err := loadCollection[models.CartItem](ctx, svc.store, store.Cart)
		if err != nil {
			return err
		}

		found := false
		for i, item := range cart {
			if item.ID == productID {
				cart[i].Quantity = quantity
				found = true
				break
			}
		}
		if !found {
			return ErrCartItemNotFound
		}

		write, err := collectionWrite(store.Cart, cart, version)
		if err != nil {
			return err
		}
		return svc.store.Commit(ctx, write)
	})
}

func (svc *CartService) Remove(ctx context.Context, productID string) error {
	return withRetry(ctx, func(ctx context.Context) error {
		cart, version, err := loadCollection[models.CartItem](ctx, svc.store, store.Cart)
		if err != nil {
			return err
		}

		filtered := cart[:0:0]
		for _, item := range cart {
			if item.ID != productID {
				filtered = append(filtered, item)
			}
		}
		if len(filtered) == len(cart) {
			return ErrCartItemNotFound
		}

		write, err := collectionWrite(store.Cart, filtered, version)
		if err != nil {
			return err
		}
		return svc.store.Commit(ctx, write)
	})
}

func (svc *CartService) Clear(ctx context.Context) error {
	return withRetry(ctx, func(ctx context.Context) error {
		_, version, err := loadCollection[models.CartItem](ctx, svc.store, store.Cart)
		if err != nil {
			return err
		}
		write, err := collectionWrite(store.Cart, []models.CartItem{}, version)
		if err != nil {
			return err
		}
		return svc.store.Commit(ctx, write)
	})
}

// Quote prices the cart for display: subtotal, promo discount, VAT on the
// discounted subtotal, and shipping with the free-shipping threshold. None of
// this ends up on the order record, whose total is the bare item sum.
func (svc *CartService) Quote(ctx context.Context, promoCode string) (models.CartQuote, error) {
	cart, _, err := loadCollection[models.CartItem](ctx, svc.store, store.Cart)
	if err != nil {
		return models.CartQuote{}, err
	}
	products, _, err := loadCollection[models.Product](ctx, svc.store, store.Inventory)
	if err != nil {
		return models.CartQuote{}, err
	}

	quote := models.CartQuote{Lines: []models.CartLine{}}
	for _, item := range cart {
		product, ok := findProduct(products, item.ID)
		if !ok {
			// Product deleted since it was added; skip the stale line.
			continue
		}
		line := models.CartLine{
			Product:  product,
			Quantity: item.Quantity,
			Subtotal: product.Price * float64(item.Quantity),
		}
		quote.Lines = append(quote.Lines, line)
		quote.Subtotal += line.Subtotal
	}

	if promoCode != "" {
		rate, ok := svc.cfg.PromoCodes[strings.ToUpper(promoCode)]
		if !ok {
			return models.CartQuote{}, ErrInvalidPromoCode
		}
		quote.PromoCode = strings.ToUpper(promoCode)
		quote.DiscountRate = rate
		quote.Discount = round2(quote.Subtotal * rate)
	}

	quote.VAT = round2((quote.Subtotal - quote.Discount) * svc.cfg.VATRate)
	if quote.Subtotal <= svc.cfg.FreeShippingThreshold && len(quote.Lines) > 0 {
		quote.Shipping = svc.cfg.ShippingFee
	}
	quote.Total = round2(quote.Subtotal - quote.Discount + quote.VAT + quote.Shipping)
	return quote, nil
}

func findProduct(products []models.Product, id string) (models.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
