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

type AuthHandler struct {
	auth   *services.AuthService
	logger *zap.Logger
}

func NewAuthHandler(auth *services.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

func (h *AuthHandler) Register(c *gin.Context) {
	ctx, span := otel.Tracer("laptopshop").Start(c.Request.Context(), "Register")
	defer span.End()

	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.Register(ctx, req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		span.RecordError(err)
		respondServiceError(c, h.logger, err)
		return
	}

	span.SetAttributes(attribute.String("user.id", user.ID))
	c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	ctx, span := otel.Tracer("laptopshop").Start(c.Request.Context(), "Login")
	defer span.End()

	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		span.RecordError(err)
		// User enumeration is not a concern for the demo, but both failure
		// modes still answer 401 with the same envelope shape.
		if err == services.ErrUserNotFound {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{Token: token, User: user})
}

// GetProfile returns the authenticated user's current record.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	ctx, span := otel.Tracer("laptopshop").Start(c.Request.Context(), "GetProfile")
	defer span.End()

	user, err := h.auth.GetByID(ctx, c.GetString(middleware.ContextUserID))
	if err != nil {
		span.RecordError(err)
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	ctx, span := otel.Tracer("laptopshop").Start(c.Request.Context(), "UpdateProfile")
	defer span.End()

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.UpdateProfile(ctx, c.GetString(middleware.ContextUserID), req)
	if err != nil {
		span.RecordError(err)
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	ctx, span := otel.Tracer("laptopshop").Start(c.Request.Context(), "ChangePassword")
	defer span.End()

	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.auth.ChangePassword(ctx, c.GetString(middleware.ContextUserID), req.CurrentPassword, req.NewPassword)
	if err != nil {
		span.RecordError(err)
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed"})
}
