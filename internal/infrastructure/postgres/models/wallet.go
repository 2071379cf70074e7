package models

import "time"

// WalletModel pre-exists for every user that may receive a deposit; rows are
// created by the bot at signup, never here.
type WalletModel struct {
	TelegramID       int64  `gorm:"primaryKey"`
	UnwageredDeposit float64
	ReferrerID       *int64 `gorm:"index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (WalletModel) TableName() string {
	return "wallets"
}

// WalletBalanceModel holds one currency balance per wallet.
type WalletBalanceModel struct {
	ID         uint   `gorm:"primaryKey"`
	TelegramID int64  `gorm:"uniqueIndex:idx_wallet_currency"`
	Currency   string `gorm:"uniqueIndex:idx_wallet_currency"`
	Amount     float64
}

func (WalletBalanceModel) TableName() string {
	return "wallet_balances"
}
