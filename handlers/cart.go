package handlers

import (
	"net/http"

	"laptopshop-svc/models"
	"laptopshop-svc/services"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type CartHandler struct {
	cart   *services.CartService
	logger *zap.Logger
}

func NewCartHandler(cart *services.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{cart: cart, logger: logger}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	ctx, span := otel.Tracer("laptopshop").Start(c.Request.Context(), "GetCart")
	defer span.End()

	items, err := h.cart.Items(ctx)
	if err != nil {
		span.RecordError(err)
		respondServiceError(c, h.logger, err)
		return
	}
	if items == nil {
		items = []models.CartItem{}
	}

	span.SetAttributes(attribute.Int("cart.lines", len(items)))
	c.JSON(http.StatusOK, items)
}

func (h *CartHandler) AddToCart(c *gin.Context) {
	ctx, span := otel.Tracer("laptopshop").Start(c.Request.Context(), "AddToCart")
	defer span.End()

	var req models.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	span.SetAttributes(
		attribute.String("product.id", req.ProductID),
		attribute.Int("quantity", req.Quantity),
	)

	if err := h.cart.Add(ctx, req.ProductID, req.Quantity); err != nil {
		span.RecordError(err)
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item added to cart"})
}

func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	ctx, span := otel.Tracer("laptopshop").Start(c.Request.Context(), "UpdateCartItem")
	defer span.End()

	id := c.Param("id")
	span.SetAttributes(attribute.String("product.id", id))

	var req models.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.cart.UpdateQuantity(ctx, id, req.Quantity); err != nil {
		span.RecordError(err)
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart updated"})
}

func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	ctx, span := otel.Tracer("laptopshop").Start(c.Request.Context(), "RemoveFromCart")
	defer span.End()

	id := c.Param("id")
	span.SetAttributes(attribute.String("product.id", id))

	if err := h.cart.Remove(ctx, id); err != nil {
		span.RecordError(err)
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	ctx, span := otel.Tracer("laptopshop").Start(c.Request.Context(), "ClearCart")
	defer span.End()

	if err := h.cart.Clear(ctx); err != nil {
		span.RecordError(err)
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}

// QuoteCart prices the cart with the optional ?promo= code applied.
func (h *CartHandler) QuoteCart(c *gin.Context) {
	ctx, span := otel.Tracer("laptopshop").Start(c.Request.Context(), "QuoteCart")
	defer span.End()

	promo := c.Query("promo")
	quote, err := h.cart.Quote(ctx, promo)
	if err != nil {
		span.RecordError(err)
		respondServiceError(c, h.logger, err)
		return
	}

	span.SetAttributes(attribute.Float64("cart.total", quote.Total))
	c.JSON(http.StatusOK, quote)
}
