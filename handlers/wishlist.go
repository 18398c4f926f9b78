package handlers

import (
	"net/http"

	"laptopshop-svc/models"
	"laptopshop-svc/services"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

type WishlistHandler struct {
	wishlist *services.WishlistService
	logger   *zap.Logger
}

func NewWishlistHandler(wishlist *services.WishlistService, logger *zap.Logger) *WishlistHandler {
	return &WishlistHandler{wishlist: wishlist, logger: logger}
}

func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	ctx, span := otel.Tracer("laptopshop").Start(c.Request.Context(), "GetWishlist")
	defer span.End()

	products, err := h.wishlist.List(ctx)
	if err != nil {
		span.RecordError(err)
		respondServiceError(c, h.logger, err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}

	c.JSON(http.StatusOK, products)
}

func (h *WishlistHandler) AddToWishlist(c *gin.Context) {
	ctx, span := otel.Tracer("laptopshop").Start(c.Request.Context(), "AddToWishlist")
	defer span.End()

	var req struct {
		ProductID string `json:"productId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.wishlist.Add(ctx, req.ProductID); err != nil {
		span.RecordError(err)
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Added to wishlist"})
}

func (h *WishlistHandler) RemoveFromWishlist(c *gin.Context) {
	ctx, span := otel.Tracer("laptopshop").Start(c.Request.Context(), "RemoveFromWishlist")
	defer span.End()

	if err := h.wishlist.Remove(ctx, c.Param("id")); err != nil {
		span.RecordError(err)
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Removed from wishlist"})
}
