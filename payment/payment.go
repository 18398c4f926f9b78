// Package payment builds redirect URLs for the eSewa and Khalti gateways and
// verifies completed transactions against their sandbox APIs. There is no
// signature verification or server-side settlement here; the storefront only
// hands the customer off to the gateway and records what it sent.
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"laptopshop-svc/store"
)

// Request describes the purchase being handed to a gateway.
type Request struct {
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	ProductID     string  `json:"productId" binding:"required"`
	ProductName   string  `json:"productName" binding:"required"`
	CustomerName  string  `json:"customerName" binding:"required"`
	CustomerEmail string  `json:"customerEmail" binding:"required,email"`
	CustomerPhone string  `json:"customerPhone" binding:"required"`
}

// Record is what gets persisted to the payments collection when a redirect is
// issued, keyed by the gateway order id for later verification.
type Record struct {
	OrderID       string    `json:"orderId"`
	Gateway       string    `json:"gateway"`
	Amount        float64   `json:"amount"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail"`
	CustomerPhone string    `json:"customerPhone"`
	ProductName   string    `json:"productName"`
	Token         string    `json:"token,omitempty"` // Khalti pidx
	Timestamp     time.Time `json:"timestamp"`
}

// gatewayOrderID builds the "LAPTOP-<productID>-<millis>" purchase id both
// gateways receive.
func gatewayOrderID(productID string) string {
	return fmt.Sprintf("LAPTOP-%s-%d", productID, time.Now().UnixMilli())
}

// saveRecord appends a payment record to the payments collection, retrying
// once on a lost version race.
func saveRecord(ctx context.Context, s store.Store, record Record) error {
	for attempt := 0; attempt < 2; attempt++ {
		snap, err := s.Load(ctx, store.Payments)
		if err != nil {
			return err
		}
		var records []Record
		if err := json.Unmarshal(snap.Data, &records); err != nil {
			return fmt.Errorf("corrupt payments collection: %w", err)
		}
		records = append(records, record)
		data, err := json.Marshal(records)
		if err != nil {
			return err
		}
		err = s.Commit(ctx, store.Write{Collection: store.Payments, Data: data, Version: snap.Version})
		if err != store.ErrVersionConflict {
			return err
		}
	}
	return store.ErrVersionConflict
}
