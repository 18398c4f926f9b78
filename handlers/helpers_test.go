package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"laptopshop-svc/config"
	"laptopshop-svc/middleware"
	"laptopshop-svc/models"
	"laptopshop-svc/services"
	"laptopshop-svc/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap/zaptest"
)

type testEnv struct {
	router  *gin.Engine
	catalog *services.CatalogService
	cart    *services.CartService
	orders  *services.OrderService
	auth    *services.AuthService
}

// identityFor stands in for the session middleware, injecting claims directly.
func identityFor(user models.OrderCustomer, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, user.ID)
		c.Set(middleware.ContextUserName, user.Name)
		c.Set(middleware.ContextUserEmail, user.Email)
		c.Set(middleware.ContextUserRole, role)
		c.Next()
	}
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zaptest.NewLogger(t)
	st := store.NewMemoryStore()
	cfg := config.Config{
		VATRate:               0.13,
		LowStockThreshold:     5,
		FreeShippingThreshold: 150000,
		ShippingFee:           2000,
		PromoCodes:            map[string]float64{"LAPTOP10": 0.10},
	}

	env := &testEnv{
		catalog: services.NewCatalogService(st, logger),
		cart:    services.NewCartService(st, cfg, logger),
		orders:  services.NewOrderService(st, nil, logger),
		auth:    services.NewAuthService(st, "test-secret", logger),
	}

	customer := models.OrderCustomer{ID: "user-1", Name: "Test Customer", Email: "customer@example.com"}

	productHandler := NewProductHandler(env.catalog, logger)
	cartHandler := NewCartHandler(env.cart, logger)
	orderHandler := NewOrderHandler(env.orders, logger)
	authHandler := NewAuthHandler(env.auth, logger)

	router := gin.New()
	router.GET("/health", HealthCheck)
	router.POST("/register", authHandler.Register)
	router.POST("/login", authHandler.Login)
	router.GET("/products", productHandler.GetProducts)
	router.GET("/products/:id", productHandler.GetProduct)

	authed := router.Group("/")
	authed.Use(identityFor(customer, "customer"))
	authed.POST("/cart", cartHandler.AddToCart)
	authed.GET("/cart", cartHandler.GetCart)
	authed.POST("/orders", orderHandler.CreateOrder)
	authed.GET("/orders/:id", orderHandler.GetOrder)

	admin := router.Group("/admin")
	admin.Use(identityFor(models.OrderCustomer{ID: "admin-1", Name: "Admin", Email: "admin@example.com"}, "admin"))
	admin.POST("/products", productHandler.CreateProduct)
	admin.PUT("/products/:id", productHandler.UpdateProduct)
	admin.DELETE("/products/:id", productHandler.DeleteProduct)
	admin.PUT("/orders/:id/status", orderHandler.UpdateOrderStatus)

	env.router = router
	return env
}

func (env *testEnv) request(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env *testEnv) seedProduct(t *testing.T, name string, price float64, quantity int) models.Product {
	t.Helper()
	product, err := env.catalog.Add(context.Background(), models.CreateProductRequest{
		Name:     name,
		Price:    price,
		Quantity: quantity,
		Category: "budget",
	})
	if err != nil {
		t.Fatalf("Failed to seed product: %v", err)
	}
	return product
}
