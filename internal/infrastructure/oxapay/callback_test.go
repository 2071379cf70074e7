package oxapay

import "testing"

func TestParseCallback(t *testing.T) {
	raw := []byte(`{"orderId":"123456789_k3J9x","trackId":"998877","status":"Paid","amount":10,"payAmount":"0.0002","currency":"btc"}`)

	cb, err := ParseCallback(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cb.OrderID != "123456789_k3J9x" {
		t.Errorf("orderId = %q", cb.OrderID)
	}
	if cb.Currency != "BTC" {
		t.Errorf("expected currency normalized to BTC, got %q", cb.Currency)
	}
	if cb.Status != "paid" {
		t.Errorf("expected status normalized to paid, got %q", cb.Status)
	}
	if float64(cb.PayAmount) != 0.0002 {
		t.Errorf("payAmount = %v", float64(cb.PayAmount))
	}
	if float64(cb.AmountUSD) != 10 {
		t.Errorf("amount = %v", float64(cb.AmountUSD))
	}
}

func TestParseCallbackMalformed(t *testing.T) {
	if _, err := ParseCallback([]byte(`{"orderId":`)); err == nil {
		t.Error("expected error for malformed body")
	}
}

func TestCallbackIsFinal(t *testing.T) {
	cases := map[string]bool{
		"paid":      true,
		"confirmed": true,
		"completed": true,
		"waiting":   false,
		"expired":   false,
		"partial":   false,
		"":          false,
	}
	for status, want := range cases {
		cb := Callback{Status: status}
		if got := cb.IsFinal(); got != want {
			t.Errorf("IsFinal(%q) = %v, want %v", status, got, want)
		}
	}
}

func TestCallbackDedupKey(t *testing.T) {
	cb := Callback{OrderID: "1_a", TrackID: "t"}
	if cb.DedupKey() != "1_a" {
		t.Errorf("expected orderId preferred, got %q", cb.DedupKey())
	}
	cb = Callback{TrackID: "t"}
	if cb.DedupKey() != "t" {
		t.Errorf("expected trackId fallback, got %q", cb.DedupKey())
	}
}

func TestResolveTelegramID(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		id, err := ResolveTelegramID("123456789_k3J9x")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id != 123456789 {
			t.Errorf("id = %d", id)
		}
	})

	t.Run("no separator", func(t *testing.T) {
		if _, err := ResolveTelegramID("998877"); err == nil {
			t.Error("expected error for orderId without user prefix")
		}
	})

	t.Run("non-numeric prefix", func(t *testing.T) {
		if _, err := ResolveTelegramID("abc_123"); err == nil {
			t.Error("expected error for non-numeric prefix")
		}
	})
}
