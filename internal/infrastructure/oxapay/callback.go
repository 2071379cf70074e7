package oxapay

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// SignatureHeader carries the HMAC-SHA256 hex digest of the callback body.
const SignatureHeader = "HMAC"

// Callback is the payment confirmation OxaPay POSTs to the webhook endpoint.
type Callback struct {
	OrderID   string        `json:"orderId"`
	TrackID   string        `json:"trackId"`
	Status    string        `json:"status"`
	AmountUSD FlexibleFloat `json:"amount"`
	PayAmount FlexibleFloat `json:"payAmount"`
	Currency  string        `json:"currency"`
}

// FlexibleFloat parses OxaPay amount fields, which arrive either as JSON
// numbers or as quoted strings depending on the gateway version.
type FlexibleFloat float64

func (f *FlexibleFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = FlexibleFloat(val)
	return nil
}

// ParseCallback decodes the raw webhook body. Signature verification must
// happen on the raw bytes before calling this.
func ParseCallback(rawBody []byte) (*Callback, error) {
	var cb Callback
	if err := json.Unmarshal(rawBody, &cb); err != nil {
		return nil, fmt.Errorf("failed to decode callback: %w", err)
	}
	cb.Currency = strings.ToUpper(cb.Currency)
	cb.Status = strings.ToLower(cb.Status)
	return &cb, nil
}

// DedupKey is the identifier the idempotency ledger is keyed by. OxaPay
// echoes our orderId back; trackId is the fallback for callbacks created
// outside this service.
func (cb *Callback) DedupKey() string {
	if cb.OrderID != "" {
		return cb.OrderID
	}
	return cb.TrackID
}

// IsFinal reports whether the callback confirms a settled payment. Pending,
// expired and partial statuses are acknowledged but never credited.
func (cb *Callback) IsFinal() bool {
	switch cb.Status {
	case "paid", "confirmed", "completed":
		return true
	}
	return false
}

// ResolveTelegramID maps an orderId of the form "{telegramId}_{suffix}" back
// to the paying user. Invoices created by this service always use that shape.
func ResolveTelegramID(orderID string) (int64, error) {
	idPart, _, found := strings.Cut(orderID, "_")
	if !found {
		return 0, fmt.Errorf("orderId %q has no user prefix", orderID)
	}
	telegramID, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("orderId %q has non-numeric user prefix", orderID)
	}
	return telegramID, nil
}
