package payment

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"laptopshop-svc/circuitbreaker"
	"laptopshop-svc/config"
	"laptopshop-svc/store"

	"go.uber.org/zap"
)

// EsewaClient builds eSewa redirect URLs and verifies transactions against
// the merchant transrec endpoint.
type EsewaClient struct {
	cfg     config.Config
	store   store.Store
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
	logger  *zap.Logger
}

func NewEsewaClient(cfg config.Config, s store.Store, logger *zap.Logger) *EsewaClient {
	return &EsewaClient{
		cfg:     cfg,
		store:   s,
		client:  &http.Client{Timeout: 10 * time.Second},
		breaker: circuitbreaker.New(5, 30*time.Second),
		logger:  logger,
	}
}

// Initiate records the payment and returns the URL the customer is redirected
// to. Amounts are converted to paisa, as eSewa requires.
func (c *EsewaClient) Initiate(ctx context.Context, req Request) (string, string, error) {
	amountInPaisa := int64(math.Round(req.Amount * 100))
	orderID := gatewayOrderID(req.ProductID)

	form := url.Values{}
	form.Set("amt", strconv.FormatInt(amountInPaisa, 10))
	form.Set("pdc", "0") // delivery charge
	form.Set("psc", "0") // service charge
	form.Set("txAmt", "0")
	form.Set("tAmt", strconv.FormatInt(amountInPaisa, 10))
	form.Set("pid", orderID)
	form.Set("scd", c.cfg.EsewaMerchantCode)
	form.Set("su", c.cfg.ReturnBaseURL+"/payment/success")
	form.Set("fu", c.cfg.ReturnBaseURL+"/payment/failure")

	record := Record{
		OrderID:       orderID,
		Gateway:       "esewa",
		Amount:        req.Amount,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		ProductName:   req.ProductName,
		Timestamp:     time.Now().UTC(),
	}
	if err := saveRecord(ctx, c.store, record); err != nil {
		return "", "", err
	}

	redirectURL := fmt.Sprintf("%s/epay/main?%s", c.cfg.EsewaBaseURL, form.Encode())
	c.logger.Info("eSewa payment initiated",
		zap.String("order_id", orderID),
		zap.Int64("amount_paisa", amountInPaisa),
	)
	return redirectURL, orderID, nil
}

// Verify checks a completed transaction with eSewa's transrec endpoint. The
// endpoint answers with an XML blob containing "Success" on a valid payment.
func (c *EsewaClient) Verify(ctx context.Context, orderID, amount, refID string) (bool, error) {
	form := url.Values{}
	form.Set("amt", amount)
	form.Set("scd", c.cfg.EsewaMerchantCode)
	form.Set("rid", refID)
	form.Set("pid", orderID)

	var verified bool
	err := c.breaker.Execute(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.cfg.EsewaBaseURL+"/epay/transrec", strings.NewReader(form.Encode()))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		verified = strings.Contains(string(body), "Success")
		return nil
	})
	if err != nil {
		return false, err
	}

	c.logger.Info("eSewa payment verification",
		zap.String("order_id", orderID),
		zap.Bool("verified", verified),
	)
	return verified, nil
}
