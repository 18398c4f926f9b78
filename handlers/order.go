package handlers

import (
	"net/http"

	"laptopshop-svc/middleware"
	"laptopshop-svc/models"
	"laptopshop-svc/services"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orders *services.OrderService
	logger *zap.Logger
}

func NewOrderHandler(orders *services.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, logger: logger}
}

// CreateOrder converts the authenticated customer's cart into an order. The
// customer identity is snapshotted from the session claims, not looked up
// live.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	ctx, span := otel.Tracer("laptopshop").Start(c.Request.Context(), "CreateOrder")
	defer span.End()

	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer := models.OrderCustomer{
		ID:    c.GetString(middleware.ContextUserID),
		Name:  c.GetString(middleware.ContextUserName),
		Email: c.GetString(middleware.ContextUserEmail),
	}
	span.SetAttributes(attribute.String("customer.id", customer.ID))

	order, err := h.orders.Create(ctx, customer, req.ShippingAddress, req.PaymentMethod)
	if err != nil {
		span.RecordError(err)
		middleware.RecordOrderCreated("rejected")
		respondServiceError(c, h.logger, err)
		return
	}

	span.SetAttributes(
		attribute.String("order.id", order.ID),
		attribute.Float64("order.total", order.Total),
	)
	middleware.RecordOrderCreated("success")
	c.JSON(http.StatusCreated, order)
}

// GetMyOrders returns the authenticated customer's order history.
func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	ctx, span := otel.Tracer("laptopshop").Start(c.Request.Context(), "GetMyOrders")
	defer span.End()

	orders, err := h.orders.ListByCustomer(ctx, c.GetString(middleware.ContextUserID))
	if err != nil {
		span.RecordError(err)
		respondServiceError(c, h.logger, err)
		return
	}

	span.SetAttributes(attribute.Int("orders.count", len(orders)))
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	ctx, span := otel.Tracer("laptopshop").Start(c.Request.Context(), "GetOrder")
	defer span.End()

	id := c.Param("id")
	span.SetAttributes(attribute.String("order.id", id))

	order, err := h.orders.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		respondServiceError(c, h.logger, err)
		return
	}

	// Customers may only see their own orders; admins see everything.
	if c.GetString(middleware.ContextUserRole) != string(models.RoleAdmin) &&
		order.Customer.ID != c.GetString(middleware.ContextUserID) {
		c.JSON(http.StatusNotFound, gin.H{"error": services.ErrOrderNotFound.Error()})
		return
	}

	c.JSON(http.StatusOK, order)
}

// GetAllOrders is the admin order list.
func (h *OrderHandler) GetAllOrders(c *gin.Context) {
	ctx, span := otel.Tracer("laptopshop").Start(c.Request.Context(), "GetAllOrders")
	defer span.End()

	orders, err := h.orders.List(ctx)
	if err != nil {
		span.RecordError(err)
		respondServiceError(c, h.logger, err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}

	span.SetAttributes(attribute.Int("orders.count", len(orders)))
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	ctx, span := otel.Tracer("laptopshop").Start(c.Request.Context(), "UpdateOrderStatus")
	defer span.End()

	id := c.Param("id")
	span.SetAttributes(attribute.String("order.id", id))

	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orders.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		span.RecordError(err)
		respondServiceError(c, h.logger, err)
		return
	}

	span.SetAttributes(attribute.String("order.status", string(order.Status)))
	c.JSON(http.StatusOK, order)
}
