package handlers

import (
	"net/http"

	"laptopshop-svc/services"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

type AnalyticsHandler struct {
	analytics *services.AnalyticsService
	logger    *zap.Logger
}

func NewAnalyticsHandler(analytics *services.AnalyticsService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, logger: logger}
}

func (h *AnalyticsHandler) MonthlySales(c *gin.Context) {
	ctx, span := otel.Tracer("laptopshop").Start(c.Request.Context(), "MonthlySales")
	defer span.End()

	data, err := h.analytics.MonthlySales(ctx)
	if err != nil {
		span.RecordError(err)
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

func (h *AnalyticsHandler) CategorySales(c *gin.Context) {
	ctx, span := otel.Tracer("laptopshop").Start(c.Request.Context(), "CategorySales")
	defer span.End()

	data, err := h.analytics.CategorySales(ctx)
	if err != nil {
		span.RecordError(err)
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

func (h *AnalyticsHandler) TopProducts(c *gin.Context) {
	ctx, span := otel.Tracer("laptopshop").Start(c.Request.Context(), "TopProducts")
	defer span.End()

	data, err := h.analytics.TopProducts(ctx)
	if err != nil {
		span.RecordError(err)
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

func (h *AnalyticsHandler) CustomerBreakdown(c *gin.Context) {
	ctx, span := otel.Tracer("laptopshop").Start(c.Request.Context(), "CustomerBreakdown")
	defer span.End()

	data, err := h.analytics.CustomerBreakdown(ctx)
	if err != nil {
		span.RecordError(err)
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

func (h *AnalyticsHandler) DashboardStats(c *gin.Context) {
	ctx, span := otel.Tracer("laptopshop").Start(c.Request.Context(), "DashboardStats")
	defer span.End()

	stats, err := h.analytics.DashboardStats(ctx)
	if err != nil {
		span.RecordError(err)
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
