package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"laptopshop-svc/circuitbreaker"
	"laptopshop-svc/config"
	"laptopshop-svc/store"

	"go.uber.org/zap"
)

var ErrGatewayRejected = errors.New("payment gateway rejected the request")

// KhaltiClient initiates payments through Khalti's epayment API and verifies
// them with the lookup endpoint.
type KhaltiClient struct {
	cfg     config.Config
	store   store.Store
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
	logger  *zap.Logger
}

func NewKhaltiClient(cfg config.Config, s store.Store, logger *zap.Logger) *KhaltiClient {
	return &KhaltiClient{
		cfg:     cfg,
		store:   s,
		client:  &http.Client{Timeout: 10 * time.Second},
		breaker: circuitbreaker.New(5, 30*time.Second),
		logger:  logger,
	}
}

type khaltiInitiateRequest struct {
	ReturnURL         string             `json:"return_url"`
	WebsiteURL        string             `json:"website_url"`
	Amount            int64              `json:"amount"`
	PurchaseOrderID   string             `json:"purchase_order_id"`
	PurchaseOrderName string             `json:"purchase_order_name"`
	CustomerInfo      khaltiCustomerInfo `json:"customer_info"`
}

type khaltiCustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type khaltiInitiateResponse struct {
	PaymentURL string `json:"payment_url"`
	Pidx       string `json:"pidx"`
}

type khaltiLookupResponse struct {
	Status string `json:"status"`
}

// Initiate asks Khalti for a payment URL, records the payment, and returns
// the URL plus the pidx token used for verification.
func (c *KhaltiClient) Initiate(ctx context.Context, req Request) (string, string, error) {
	orderID := gatewayOrderID(req.ProductID)
	payload := khaltiInitiateRequest{
		ReturnURL:         c.cfg.ReturnBaseURL + "/payment/success",
		WebsiteURL:        c.cfg.ReturnBaseURL,
		Amount:            int64(math.Round(req.Amount * 100)),
		PurchaseOrderID:   orderID,
		PurchaseOrderName: req.ProductName,
		CustomerInfo: khaltiCustomerInfo{
			Name:  req.CustomerName,
			Email: req.CustomerEmail,
			Phone: req.CustomerPhone,
		},
	}

	var result khaltiInitiateResponse
	err := c.breaker.Execute(ctx, func() error {
		return c.postJSON(ctx, "/api/v2/epayment/initiate/", payload, &result)
	})
	if err != nil {
		return "", "", err
	}
	if result.PaymentURL == "" {
		return "", "", ErrGatewayRejected
	}

	record := Record{
		OrderID:       orderID,
		Gateway:       "khalti",
		Amount:        req.Amount,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		ProductName:   req.ProductName,
		Token:         result.Pidx,
		Timestamp:     time.Now().UTC(),
	}
	if err := saveRecord(ctx, c.store, record); err != nil {
		return "", "", err
	}

	c.logger.Info("Khalti payment initiated",
		zap.String("order_id", orderID),
		zap.String("pidx", result.Pidx),
	)
	return result.PaymentURL, result.Pidx, nil
}

// Verify looks up a pidx; Khalti reports "Completed" for settled payments.
func (c *KhaltiClient) Verify(ctx context.Context, pidx string) (bool, error) {
	var result khaltiLookupResponse
	err := c.breaker.Execute(ctx, func() error {
		return c.postJSON(ctx, "/api/v2/epayment/lookup/", map[string]string{"pidx": pidx}, &result)
	})
	if err != nil {
		return false, err
	}

	verified := result.Status == "Completed"
	c.logger.Info("Khalti payment verification",
		zap.String("pidx", pidx),
		zap.String("status", result.Status),
	)
	return verified, nil
}

func (c *KhaltiClient) postJSON(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.KhaltiBaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Key "+c.cfg.KhaltiSecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("khalti returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
