package domain

import "context"

// WalletRepository owns all mutation of wallet balances. CreditDeposit applies
// the whole credit as a single transaction: balance, unwagered deposit,
// referral commission and finalization of the idempotency claim either all
// land or none do.
type WalletRepository interface {
	CreditDeposit(ctx context.Context, credit *DepositCredit) error
	GetWallet(ctx context.Context, telegramID int64) (*Wallet, error)
}

// OrderLedger arbitrates first-processing rights for a gateway orderId.
type OrderLedger interface {
	// TryClaim inserts an in-flight claim. Returns ErrDuplicateOrder if any
	// record (claim or final) already exists for the orderId.
	TryClaim(ctx context.Context, orderID string) error
	// Release removes an unfinalized claim so a gateway retry can succeed.
	Release(ctx context.Context, orderID string) error
	GetByOrderID(ctx context.Context, orderID string) (*ProcessedOrder, error)
	ListProcessed(ctx context.Context, page, limit int) ([]*ProcessedOrder, int64, error)
}

// RateProvider reports the USD price of one unit of a currency.
type RateProvider interface {
	USDPrice(currency string) (float64, error)
}

type EventPublisher interface {
	PublishDeposit(event DepositEvent) error
}

// NotificationQueue decouples user notification from the webhook response
// path. Enqueue must never block.
type NotificationQueue interface {
	Enqueue(n DepositNotification)
}

// InvoiceGateway creates payment invoices on the external gateway.
type InvoiceGateway interface {
	CreateInvoice(ctx context.Context, amountUSD float64, currency, orderID string) (string, error)
}

type DepositUsecase interface {
	Credit(ctx context.Context, input CreditInput) (*CreditResult, error)
	CreateInvoice(ctx context.Context, telegramID int64, amountUSD float64, currency string) (*Invoice, error)
}
