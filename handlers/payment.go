package handlers

import (
	"net/http"

	"laptopshop-svc/payment"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	esewa  *payment.EsewaClient
	khalti *payment.KhaltiClient
	logger *zap.Logger
}

func NewPaymentHandler(esewa *payment.EsewaClient, khalti *payment.KhaltiClient, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{esewa: esewa, khalti: khalti, logger: logger}
}

func (h *PaymentHandler) InitiateEsewa(c *gin.Context) {
	ctx, span := otel.Tracer("laptopshop").Start(c.Request.Context(), "InitiateEsewaPayment")
	defer span.End()

	var req payment.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	redirectURL, orderID, err := h.esewa.Initiate(ctx, req)
	if err != nil {
		span.RecordError(err)
		h.logger.Error("eSewa payment initiation failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment initiation failed"})
		return
	}

	span.SetAttributes(attribute.String("payment.order_id", orderID))
	c.JSON(http.StatusOK, gin.H{"redirectUrl": redirectURL, "orderId": orderID})
}

func (h *PaymentHandler) VerifyEsewa(c *gin.Context) {
	ctx, span := otel.Tracer("laptopshop").Start(c.Request.Context(), "VerifyEsewaPayment")
	defer span.End()

	orderID := c.Query("oid")
	amount := c.Query("amt")
	refID := c.Query("refId")
	if orderID == "" || amount == "" || refID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "oid, amt and refId are required"})
		return
	}

	verified, err := h.esewa.Verify(ctx, orderID, amount, refID)
	if err != nil {
		span.RecordError(err)
		h.logger.Error("eSewa verification failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment verification error"})
		return
	}

	if !verified {
		c.JSON(http.StatusPaymentRequired, gin.H{"verified": false, "message": "Payment verification failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"verified": true, "message": "Payment verified successfully"})
}

func (h *PaymentHandler) InitiateKhalti(c *gin.Context) {
	ctx, span := otel.Tracer("laptopshop").Start(c.Request.Context(), "InitiateKhaltiPayment")
	defer span.End()

	var req payment.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	paymentURL, pidx, err := h.khalti.Initiate(ctx, req)
	if err != nil {
		span.RecordError(err)
		h.logger.Error("Khalti payment initiation failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment initiation failed"})
		return
	}

	span.SetAttributes(attribute.String("payment.pidx", pidx))
	c.JSON(http.StatusOK, gin.H{"paymentUrl": paymentURL, "pidx": pidx})
}

func (h *PaymentHandler) VerifyKhalti(c *gin.Context) {
	ctx, span := otel.Tracer("laptopshop").Start(c.Request.Context(), "VerifyKhaltiPayment")
	defer span.End()

	pidx := c.Query("pidx")
	if pidx == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pidx is required"})
		return
	}

	verified, err := h.khalti.Verify(ctx, pidx)
	if err != nil {
		span.RecordError(err)
		h.logger.Error("Khalti verification failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment verification error"})
		return
	}

	if !verified {
		c.JSON(http.StatusPaymentRequired, gin.H{"verified": false, "message": "Payment verification failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"verified": true, "message": "Payment verified successfully"})
}
