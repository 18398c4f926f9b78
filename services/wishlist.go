package services

import (
	"context"

	"laptopshop-svc/models"
	"laptopshop-svc/store"

	"go.uber.org/zap"
)

// WishlistService owns the wishlist collection, a list of product ids. The
// storefront previously read and wrote this key directly; all access now goes
// through here.
type WishlistService struct {
	store  store.Store
	logger *zap.Logger
}

func NewWishlistService(s store.Store, logger *zap.Logger) *WishlistService {
	return &WishlistService{store: s, logger: logger}
}

// List resolves wishlist ids against the current catalog. Ids whose product
// has been deleted are silently dropped from the result.
func (svc *WishlistService) List(ctx context.Context) ([]models.Product, error) {
	ids, _, err := loadCollection[string](ctx, svc.store, store.Wishlist)
	if err != nil {
		return nil, err
	}
	products, _, err := loadCollection[models.Product](ctx, svc.store, store.Inventory)
	if err != nil {
		return nil, err
	}

	resolved := []models.Product{}
	for _, id := range ids {
		if product, ok := findProduct(products, id); ok {
			resolved = append(resolved, product)
		}
	}
	return resolved, nil
}

func (svc *WishlistService) Add(ctx context.Context, productID string) error {
	return withRetry(ctx, func(ctx context.Context) error {
		products, _, err := loadCollection[models.Product](ctx, svc.store, store.Inventory)
		if err != nil {
			return err
		}
		if _, ok := findProduct(products, productID); !ok {
			return ErrProductNotFound
		}

		ids, version, err := loadCollection[string](ctx, svc.store, store.Wishlist)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if id == productID {
				return nil
			}
		}

		write, err := collectionWrite(store.Wishlist, append(ids, productID), version)
		if err != nil {
			return err
		}
		return svc.store.Commit(ctx, write)
	})
}

func (svc *WishlistService) Remove(ctx context.Context, productID string) error {
	return withRetry(ctx, func(ctx context.Context) error {
		ids, version, err := loadCollection[string](ctx, svc.store, store.Wishlist)
		if err != nil {
			return err
		}

		filtered := ids[:0:0]
		for _, id := range ids {
			if id != productID {
				filtered = append(filtered, id)
			}
		}
		if len(filtered) == len(ids) {
			return nil
		}

		write, err := collectionWrite(store.Wishlist, filtered, version)
		if err != nil {
			return err
		}
		return svc.store.Commit(ctx, write)
	})
}
