package domain

import "errors"

var (
	ErrDuplicateOrder      = errors.New("order already processed")
	ErrClaimInFlight       = errors.New("order claim in flight")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrBelowMinDeposit     = errors.New("deposit below minimum")
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrInvalidAmount       = errors.New("invalid pay amount")
	ErrRateUnavailable     = errors.New("usd rate unavailable")
	ErrClaimNotFound       = errors.New("idempotency claim not found")
	ErrInvoiceFailed       = errors.New("failed to create invoice")
)
