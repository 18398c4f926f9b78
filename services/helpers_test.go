package services

import (
	"context"
	"testing"

	"laptopshop-svc/config"
	"laptopshop-svc/models"
	"laptopshop-svc/store"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testConfig() config.Config {
	return config.Config{
		VATRate:               0.13,
		LowStockThreshold:     5,
		FreeShippingThreshold: 150000,
		ShippingFee:           2000,
		PromoCodes: map[string]float64{
			"LAPTOP10":  0.10,
			"FREESHIP":  0.05,
			"STUDENT15": 0.15,
			"NEWUSER20": 0.20,
		},
	}
}

type fixture struct {
	store     *store.MemoryStore
	catalog   *CatalogService
	cart      *CartService
	orders    *OrderService
	auth      *AuthService
	wishlist  *WishlistService
	analytics *AnalyticsService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zaptest.NewLogger(t)
	st := store.NewMemoryStore()
	return &fixture{
		store:     st,
		catalog:   NewCatalogService(st, logger),
		cart:      NewCartService(st, testConfig(), logger),
		orders:    NewOrderService(st, nil, logger),
		auth:      NewAuthService(st, "test-secret", logger),
		wishlist:  NewWishlistService(st, logger),
		analytics: NewAnalyticsService(st, 5, logger),
	}
}

func (f *fixture) addProduct(t *testing.T, name string, price float64, quantity int, category string) models.Product {
	t.Helper()
	product, err := f.catalog.Add(context.Background(), models.CreateProductRequest{
		Name:     name,
		Price:    price,
		Quantity: quantity,
		Category: category,
	})
	require.NoError(t, err)
	return product
}

func testCustomer() models.OrderCustomer {
	return models.OrderCustomer{ID: "user-1", Name: "Test Customer", Email: "customer@example.com"}
}

func testAddress() models.ShippingAddress {
	return models.ShippingAddress{
		FullName: "Test Customer",
		Phone:    "9800000000",
		Street:   "New Road",
		City:     "Kathmandu",
		State:    "Bagmati",
		ZipCode:  "44600",
		Country:  "Nepal",
	}
}
