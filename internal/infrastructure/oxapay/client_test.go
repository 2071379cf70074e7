package oxapay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/LavaJover/shvark-deposit-service/internal/domain"
)

func TestCreateInvoice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req invoiceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Merchant != "test-key" {
			t.Errorf("merchant = %q", req.Merchant)
		}
		if req.OrderID != "123456789_k3J9x" {
			t.Errorf("orderId = %q", req.OrderID)
		}
		if req.CallbackURL != "https://example.com/oxapay/webhook" {
			t.Errorf("callbackUrl = %q", req.CallbackURL)
		}
		json.NewEncoder(w).Encode(invoiceResponse{
			Result:  100,
			TrackID: "998877",
			PayLink: "https://pay.oxapay.com/998877",
		})
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL, "https://example.com/oxapay/webhook")
	payLink, err := client.CreateInvoice(context.Background(), 10, "BTC", "123456789_k3J9x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payLink != "https://pay.oxapay.com/998877" {
		t.Errorf("payLink = %q", payLink)
	}
}

func TestCreateInvoiceAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(invoiceResponse{Result: 101, Message: "invalid merchant"})
	}))
	defer server.Close()

	client := NewClient("bad-key", server.URL, "https://example.com/oxapay/webhook")
	_, err := client.CreateInvoice(context.Background(), 10, "BTC", "1_a")
	if !errors.Is(err, domain.ErrInvoiceFailed) {
		t.Errorf("expected ErrInvoiceFailed, got %v", err)
	}
}

func TestCreateInvoiceHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL, "https://example.com/oxapay/webhook")
	_, err := client.CreateInvoice(context.Background(), 10, "BTC", "1_a")
	if !errors.Is(err, domain.ErrInvoiceFailed) {
		t.Errorf("expected ErrInvoiceFailed, got %v", err)
	}
}

func TestCreateInvoiceNoPayLink(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(invoiceResponse{Result: 100})
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL, "https://example.com/oxapay/webhook")
	_, err := client.CreateInvoice(context.Background(), 10, "BTC", "1_a")
	if !errors.Is(err, domain.ErrInvoiceFailed) {
		t.Errorf("expected ErrInvoiceFailed, got %v", err)
	}
}
