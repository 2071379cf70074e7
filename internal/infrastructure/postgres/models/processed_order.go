package models

import (
	"time"

	"github.com/LavaJover/shvark-deposit-service/internal/domain"
)

// ProcessedOrderModel is both the in-flight idempotency claim and, once
// finalized inside the credit transaction, the permanent audit record.
// The primary key on order_id is the single serialization point that keeps
// two concurrent deliveries of the same callback from double-crediting.
type ProcessedOrderModel struct {
	OrderID        string `gorm:"primaryKey"`
	TelegramID     int64  `gorm:"index"`
	CreditedAmount float64
	Currency       string
	AmountUSD      float64
	Status         domain.OrderStatus `gorm:"index"`
	ClaimedAt      time.Time
	ProcessedAt    *time.Time
}

func (ProcessedOrderModel) TableName() string {
	return "processed_orders"
}
