package domain

import "time"

// ReferralCommissionRate is the share of a deposit paid to the depositor's
// referrer, in units of the deposited currency.
const ReferralCommissionRate = 0.005

type OrderStatus string

const (
	OrderClaimed  OrderStatus = "CLAIMED"
	OrderCredited OrderStatus = "CREDITED"
)

// Wallet is the per-user balance state mutated by the credit engine.
// Wallet rows are created by the bot at signup; the deposit service
// never creates or deletes them.
type Wallet struct {
	TelegramID       int64
	Balances         map[string]float64
	UnwageredDeposit float64
	ReferrerID       *int64
}

// ProcessedOrder is the durable idempotency record for one gateway orderId.
// A CLAIMED row is an in-flight claim; a CREDITED row is final and is never
// mutated or deleted afterwards.
type ProcessedOrder struct {
	OrderID        string
	TelegramID     int64
	CreditedAmount float64
	Currency       string
	AmountUSD      float64
	Status         OrderStatus
	ClaimedAt      time.Time
	ProcessedAt    *time.Time
}

// DepositCredit describes one balance mutation applied atomically by the
// wallet repository.
type DepositCredit struct {
	OrderID    string
	TelegramID int64
	PayAmount  float64
	Currency   string
	AmountUSD  float64
}

type CreditInput struct {
	OrderID    string
	TelegramID int64
	PayAmount  float64
	Currency   string
}

type CreditResult struct {
	OrderID    string
	TelegramID int64
	PayAmount  float64
	Currency   string
	AmountUSD  float64
	// ReferrerID is set when a referral commission was paid out.
	ReferrerID *int64
	Commission float64
}

// Invoice is a payment request created on the gateway side.
type Invoice struct {
	OrderID   string
	PayLink   string
	AmountUSD float64
	Currency  string
}

// DepositEvent is published to the message broker after a deposit is
// durably credited.
type DepositEvent struct {
	EventID     string    `json:"event_id"`
	OrderID     string    `json:"order_id"`
	TelegramID  int64     `json:"telegram_id"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	AmountUSD   float64   `json:"amount_usd"`
	Status      string    `json:"status"`
	ProcessedAt time.Time `json:"processed_at"`
}

// DepositNotification is handed to the notification worker; delivery is
// best-effort and never blocks the webhook response.
type DepositNotification struct {
	TelegramID int64
	Amount     float64
	Currency   string
	AmountUSD  float64
}
