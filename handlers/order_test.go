package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"laptopshop-svc/models"
)

func testOrderRequest() models.CreateOrderRequest {
	return models.CreateOrderRequest{
		ShippingAddress: models.ShippingAddress{
			FullName: "Test Customer",
			Phone:    "9800000000",
			Street:   "New Road",
			City:     "Kathmandu",
			State:    "Bagmati",
			ZipCode:  "44600",
			Country:  "Nepal",
		},
		PaymentMethod: "cod",
	}
}

func TestOrderHandler_CreateOrder(t *testing.T) {
	env := setupTestEnv(t)

	product := env.seedProduct(t, "Inspiron 15", 95000, 3)
	w := env.request(t, "POST", "/cart", models.AddToCartRequest{ProductID: product.ID, Quantity: 2})
	if w.Code != http.StatusOK {
		t.Fatalf("Failed to add to cart: %d %s", w.Code, w.Body.String())
	}

	w = env.request(t, "POST", "/orders", testOrderRequest())
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}

	var order models.Order
	if err := json.Unmarshal(w.Body.Bytes(), &order); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if order.Customer.ID != "user-1" {
		t.Errorf("Expected customer from session claims, got %s", order.Customer.ID)
	}
	if order.Total != 190000 {
		t.Errorf("Expected total 190000, got %f", order.Total)
	}
	if order.Status != models.OrderStatusProcessing {
		t.Errorf("Expected processing status, got %s", order.Status)
	}

	// Cart is emptied by checkout.
	w = env.request(t, "GET", "/cart", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Failed to read cart: %d", w.Code)
	}
	got, err := env.cart.Items(context.Background())
	if err != nil {
		t.Fatalf("Failed to load cart: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected empty cart after checkout, got %d items", len(got))
	}
}

func TestOrderHandler_CreateOrder_EmptyCart(t *testing.T) {
	env := setupTestEnv(t)

	w := env.request(t, "POST", "/orders", testOrderRequest())
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestOrderHandler_CreateOrder_MissingAddress(t *testing.T) {
	env := setupTestEnv(t)

	w := env.request(t, "POST", "/orders", map[string]interface{}{
		"paymentMethod": "cod",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestOrderHandler_GetOrder_OwnershipEnforced(t *testing.T) {
	env := setupTestEnv(t)

	product := env.seedProduct(t, "Inspiron 15", 95000, 3)

	// Seed an order belonging to a different customer directly.
	ctx := context.Background()
	if err := env.cart.Add(ctx, product.ID, 1); err != nil {
		t.Fatalf("Failed to add to cart: %v", err)
	}
	other := models.OrderCustomer{ID: "user-2", Name: "Other", Email: "other@example.com"}
	foreign, err := env.orders.Create(ctx, other, testOrderRequest().ShippingAddress, "cod")
	if err != nil {
		t.Fatalf("Failed to create order: %v", err)
	}

	// The authed route runs as user-1, who must not see user-2's order.
	w := env.request(t, "GET", "/orders/"+foreign.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d for foreign order, got %d", http.StatusNotFound, w.Code)
	}

	if err := env.cart.Add(ctx, product.ID, 1); err != nil {
		t.Fatalf("Failed to add to cart: %v", err)
	}
	mine, err := env.orders.Create(ctx, models.OrderCustomer{ID: "user-1", Name: "Test Customer", Email: "customer@example.com"}, testOrderRequest().ShippingAddress, "cod")
	if err != nil {
		t.Fatalf("Failed to create order: %v", err)
	}

	w = env.request(t, "GET", "/orders/"+mine.ID, nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d for own order, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
}

func TestOrderHandler_UpdateOrderStatus(t *testing.T) {
	env := setupTestEnv(t)

	product := env.seedProduct(t, "Inspiron 15", 95000, 3)
	ctx := context.Background()
	if err := env.cart.Add(ctx, product.ID, 1); err != nil {
		t.Fatalf("Failed to add to cart: %v", err)
	}
	order, err := env.orders.Create(ctx, models.OrderCustomer{ID: "user-1"}, testOrderRequest().ShippingAddress, "cod")
	if err != nil {
		t.Fatalf("Failed to create order: %v", err)
	}

	w := env.request(t, "PUT", "/admin/orders/"+order.ID+"/status", models.UpdateOrderStatusRequest{Status: models.OrderStatusShipped})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var updated models.Order
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if updated.Status != models.OrderStatusShipped {
		t.Errorf("Expected shipped status, got %s", updated.Status)
	}

	// Delivered is terminal; cancelling afterwards is rejected.
	w = env.request(t, "PUT", "/admin/orders/"+order.ID+"/status", models.UpdateOrderStatusRequest{Status: models.OrderStatusDelivered})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
	w = env.request(t, "PUT", "/admin/orders/"+order.ID+"/status", models.UpdateOrderStatusRequest{Status: models.OrderStatusCancelled})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d for illegal transition, got %d", http.StatusBadRequest, w.Code)
	}

	w = env.request(t, "PUT", "/admin/orders/missing/status", models.UpdateOrderStatusRequest{Status: models.OrderStatusShipped})
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d for unknown order, got %d", http.StatusNotFound, w.Code)
	}
}
