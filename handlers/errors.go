package handlers

import (
	"errors"
	"net/http"

	"laptopshop-svc/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondServiceError translates the service error taxonomy into HTTP status
// codes with the message the storefront shows to the user. Every failure is
// recoverable by re-attempting the action; nothing here is fatal.
func respondServiceError(c *gin.Context, logger *zap.Logger, err error) {
	var stockErr *services.StockError
	var transitionErr *services.TransitionError

	switch {
	case errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrCartItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrOutOfStock),
		errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrAdminExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrInvalidPromoCode),
		errors.Is(err, services.ErrInvalidRole),
		errors.As(err, &transitionErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidPassword):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	default:
		logger.Error("Unhandled service error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
