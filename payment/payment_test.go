package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"laptopshop-svc/config"
	"laptopshop-svc/store"

	"go.uber.org/zap/zaptest"
)

func testRequest() Request {
	return Request{
		Amount:        95000,
		ProductID:     "1700000000000",
		ProductName:   "Inspiron 15",
		CustomerName:  "Test Customer",
		CustomerEmail: "customer@example.com",
		CustomerPhone: "9800000000",
	}
}

func paymentConfig(esewaURL, khaltiURL string) config.Config {
	return config.Config{
		EsewaBaseURL:      esewaURL,
		EsewaMerchantCode: "EPAYTEST",
		KhaltiBaseURL:     khaltiURL,
		KhaltiSecretKey:   "test-key",
		ReturnBaseURL:     "http://localhost:3000",
	}
}

func loadRecords(t *testing.T, s store.Store) []Record {
	t.Helper()
	snap, err := s.Load(context.Background(), store.Payments)
	if err != nil {
		t.Fatalf("Failed to load payments: %v", err)
	}
	var records []Record
	if err := json.Unmarshal(snap.Data, &records); err != nil {
		t.Fatalf("Failed to decode payments: %v", err)
	}
	return records
}

func TestEsewaInitiate(t *testing.T) {
	st := store.NewMemoryStore()
	client := NewEsewaClient(paymentConfig("https://uat.esewa.com.np", ""), st, zaptest.NewLogger(t))

	redirectURL, orderID, err := client.Initiate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Initiate() error: %v", err)
	}

	if !strings.HasPrefix(orderID, "LAPTOP-1700000000000-") {
		t.Errorf("Unexpected order id: %s", orderID)
	}
	if !strings.HasPrefix(redirectURL, "https://uat.esewa.com.np/epay/main?") {
		t.Fatalf("Unexpected redirect URL: %s", redirectURL)
	}

	parsed, err := url.Parse(redirectURL)
	if err != nil {
		t.Fatalf("Failed to parse redirect URL: %v", err)
	}
	query := parsed.Query()
	// 95000 rupees in paisa.
	if query.Get("amt") != "9500000" {
		t.Errorf("Expected amt 9500000, got %s", query.Get("amt"))
	}
	if query.Get("tAmt") != "9500000" {
		t.Errorf("Expected tAmt 9500000, got %s", query.Get("tAmt"))
	}
	if query.Get("scd") != "EPAYTEST" {
		t.Errorf("Expected scd EPAYTEST, got %s", query.Get("scd"))
	}
	if query.Get("pid") != orderID {
		t.Errorf("Expected pid %s, got %s", orderID, query.Get("pid"))
	}
	if query.Get("su") != "http://localhost:3000/payment/success" {
		t.Errorf("Unexpected success URL: %s", query.Get("su"))
	}

	records := loadRecords(t, st)
	if len(records) != 1 {
		t.Fatalf("Expected 1 payment record, got %d", len(records))
	}
	if records[0].Gateway != "esewa" || records[0].OrderID != orderID {
		t.Errorf("Unexpected record: %+v", records[0])
	}
}

func TestEsewaVerify(t *testing.T) {
	var gotForm url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/epay/transrec" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("Failed to parse form: %v", err)
		}
		gotForm = r.PostForm
		w.Write([]byte("<response><response_code>Success</response_code></response>"))
	}))
	defer server.Close()

	st := store.NewMemoryStore()
	client := NewEsewaClient(paymentConfig(server.URL, ""), st, zaptest.NewLogger(t))

	verified, err := client.Verify(context.Background(), "LAPTOP-p1-123", "9500000", "ref-1")
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if !verified {
		t.Error("Expected payment to verify")
	}
	if gotForm.Get("pid") != "LAPTOP-p1-123" || gotForm.Get("rid") != "ref-1" {
		t.Errorf("Unexpected form sent to gateway: %v", gotForm)
	}
}

func TestEsewaVerifyFailureResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<response><response_code>failure</response_code></response>"))
	}))
	defer server.Close()

	client := NewEsewaClient(paymentConfig(server.URL, ""), store.NewMemoryStore(), zaptest.NewLogger(t))

	verified, err := client.Verify(context.Background(), "LAPTOP-p1-123", "9500000", "ref-1")
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if verified {
		t.Error("Expected payment to fail verification")
	}
}

func TestKhaltiInitiate(t *testing.T) {
	var gotAuth string
	var gotPayload khaltiInitiateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/epayment/initiate/" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("Failed to decode payload: %v", err)
		}
		json.NewEncoder(w).Encode(khaltiInitiateResponse{
			PaymentURL: "https://test-pay.khalti.com/?pidx=abc123",
			Pidx:       "abc123",
		})
	}))
	defer server.Close()

	st := store.NewMemoryStore()
	client := NewKhaltiClient(paymentConfig("", server.URL), st, zaptest.NewLogger(t))

	paymentURL, pidx, err := client.Initiate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Initiate() error: %v", err)
	}
	if paymentURL != "https://test-pay.khalti.com/?pidx=abc123" {
		t.Errorf("Unexpected payment URL: %s", paymentURL)
	}
	if pidx != "abc123" {
		t.Errorf("Expected pidx abc123, got %s", pidx)
	}

	if gotAuth != "Key test-key" {
		t.Errorf("Expected Authorization 'Key test-key', got %q", gotAuth)
	}
	if gotPayload.Amount != 9500000 {
		t.Errorf("Expected amount 9500000 paisa, got %d", gotPayload.Amount)
	}
	if !strings.HasPrefix(gotPayload.PurchaseOrderID, "LAPTOP-1700000000000-") {
		t.Errorf("Unexpected purchase order id: %s", gotPayload.PurchaseOrderID)
	}

	records := loadRecords(t, st)
	if len(records) != 1 {
		t.Fatalf("Expected 1 payment record, got %d", len(records))
	}
	if records[0].Gateway != "khalti" || records[0].Token != "abc123" {
		t.Errorf("Unexpected record: %+v", records[0])
	}
}

func TestKhaltiInitiateRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"detail": "invalid merchant"})
	}))
	defer server.Close()

	st := store.NewMemoryStore()
	client := NewKhaltiClient(paymentConfig("", server.URL), st, zaptest.NewLogger(t))

	_, _, err := client.Initiate(context.Background(), testRequest())
	if err != ErrGatewayRejected {
		t.Fatalf("Expected ErrGatewayRejected, got %v", err)
	}
	if records := loadRecords(t, st); len(records) != 0 {
		t.Errorf("No record should be saved for a rejected payment, got %d", len(records))
	}
}

func TestKhaltiVerify(t *testing.T) {
	status := "Completed"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/epayment/lookup/" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(khaltiLookupResponse{Status: status})
	}))
	defer server.Close()

	client := NewKhaltiClient(paymentConfig("", server.URL), store.NewMemoryStore(), zaptest.NewLogger(t))

	verified, err := client.Verify(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if !verified {
		t.Error("Expected Completed payment to verify")
	}

	status = "Pending"
	verified, err = client.Verify(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if verified {
		t.Error("Pending payment must not verify")
	}
}
