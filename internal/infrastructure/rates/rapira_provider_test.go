package rates

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/LavaJover/shvark-deposit-service/internal/domain"
)

func rapiraServer(t *testing.T, books map[string][]RapiraItem) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/market/exchange-plate-mini" {
			http.NotFound(w, r)
			return
		}
		items, ok := books[r.URL.Query().Get("symbol")]
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var resp RapiraResponse
		resp.Ask.Symbol = r.URL.Query().Get("symbol")
		resp.Ask.Items = items
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Errorf("failed to encode response: %v", err)
		}
	}))
}

func TestUSDPrice(t *testing.T) {
	server := rapiraServer(t, map[string][]RapiraItem{
		"BTC/USDT": {
			{Price: 50000, Amount: 0.1},
			{Price: 50100, Amount: 0.3},
			{Price: 50200, Amount: 0.5},
			{Price: 99999, Amount: 1.0}, // beyond depth, must not be averaged
		},
		"TRX/USDT": {
			{Price: 0.12, Amount: 1000},
		},
	})
	defer server.Close()

	provider := NewRapiraProvider(server.URL, 3)
	if err := provider.Refresh([]string{"BTC", "TRX", "USDT"}); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	t.Run("averages ask depth", func(t *testing.T) {
		price, err := provider.USDPrice("BTC")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := (50000.0 + 50100.0 + 50200.0) / 3
		if price != want {
			t.Errorf("price = %v, want %v", price, want)
		}
	})

	t.Run("shallow book uses available items", func(t *testing.T) {
		price, err := provider.USDPrice("TRX")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if price != 0.12 {
			t.Errorf("price = %v, want 0.12", price)
		}
	})

	t.Run("usdt pinned to one", func(t *testing.T) {
		price, err := provider.USDPrice("usdt")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if price != 1.0 {
			t.Errorf("price = %v, want 1.0", price)
		}
	})

	t.Run("unknown currency", func(t *testing.T) {
		if _, err := provider.USDPrice("SOL"); !errors.Is(err, domain.ErrRateUnavailable) {
			t.Errorf("expected ErrRateUnavailable, got %v", err)
		}
	})
}

func TestRefreshKeepsOtherQuotesOnFailure(t *testing.T) {
	server := rapiraServer(t, map[string][]RapiraItem{
		"BTC/USDT": {{Price: 50000, Amount: 0.1}},
	})
	defer server.Close()

	provider := NewRapiraProvider(server.URL, 5)
	err := provider.Refresh([]string{"BTC", "SOL"})
	if err == nil {
		t.Fatal("expected error for missing SOL book")
	}

	if price, err := provider.USDPrice("BTC"); err != nil || price != 50000 {
		t.Errorf("BTC quote lost: price = %v, err = %v", price, err)
	}
	if _, err := provider.USDPrice("SOL"); !errors.Is(err, domain.ErrRateUnavailable) {
		t.Errorf("expected ErrRateUnavailable for SOL, got %v", err)
	}
}

func TestRefreshEmptyOrderBook(t *testing.T) {
	server := rapiraServer(t, map[string][]RapiraItem{
		"ETH/USDT": {},
	})
	defer server.Close()

	provider := NewRapiraProvider(server.URL, 5)
	if err := provider.Refresh([]string{"ETH"}); err == nil {
		t.Fatal("expected error for empty order book")
	}
	if _, err := provider.USDPrice("ETH"); !errors.Is(err, domain.ErrRateUnavailable) {
		t.Errorf("expected ErrRateUnavailable, got %v", err)
	}
}
