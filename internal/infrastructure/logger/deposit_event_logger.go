package logger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DepositCreditedEvent is the durable record of a successful credit,
// written after the transaction commits.
type DepositCreditedEvent struct {
	ID         string `gorm:"primaryKey;type:uuid"`
	OrderID    string `gorm:"index"`
	TelegramID int64
	Amount     float64
	Currency   string
	AmountUSD  float64
	Commission float64
	ReferrerID *int64
	Timestamp  time.Time
}

// DepositRejectedEvent records callbacks that were acknowledged but never
// credited. These rows are what manual reconciliation works from, so the
// reason plus the full payment coordinates always go in.
type DepositRejectedEvent struct {
	ID         string `gorm:"primaryKey;type:uuid"`
	OrderID    string `gorm:"index"`
	TelegramID int64
	Amount     float64
	Currency   string
	Reason     string
	Timestamp  time.Time
}

type DepositEventLogger interface {
	LogDepositCredited(ctx context.Context, event DepositCreditedEvent) error
	LogDepositRejected(ctx context.Context, event DepositRejectedEvent) error
}

type PGDepositEventLogger struct {
	db *gorm.DB
}

func NewPGDepositEventLogger(db *gorm.DB) *PGDepositEventLogger {
	return &PGDepositEventLogger{db: db}
}

func (l *PGDepositEventLogger) LogDepositCredited(ctx context.Context, event DepositCreditedEvent) error {
	event.ID = uuid.New().String()
	event.Timestamp = time.Now()
	return l.db.WithContext(ctx).Create(&event).Error
}

func (l *PGDepositEventLogger) LogDepositRejected(ctx context.Context, event DepositRejectedEvent) error {
	event.ID = uuid.New().String()
	event.Timestamp = time.Now()
	return l.db.WithContext(ctx).Create(&event).Error
}
