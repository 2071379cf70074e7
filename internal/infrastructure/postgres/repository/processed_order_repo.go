package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-deposit-service/internal/domain"
	"github.com/LavaJover/shvark-deposit-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-deposit-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultProcessedOrderRepository struct {
	DB *gorm.DB
}

func NewDefaultProcessedOrderRepository(db *gorm.DB) *DefaultProcessedOrderRepository {
	return &DefaultProcessedOrderRepository{DB: db}
}

// claimStaleAfter is how long a CLAIMED row may sit unfinalized before a
// retry is allowed to take it over. Normal processing finishes in seconds;
// a row this old is a leftover from a crash or a failed release.
const claimStaleAfter = 2 * time.Minute

// TryClaim inserts an in-flight claim row. The primary-key constraint on
// order_id makes the insert the atomic check-and-set: whichever delivery
// lands first wins. A conflict means a row already exists, but only a
// finalized CREDITED row is a true duplicate. A CLAIMED row is either a
// concurrent delivery or a stale orphan: the stale one is taken over so the
// gateway retry can still credit the payment, the fresh one comes back as
// ErrClaimInFlight so the retry is deferred instead of acknowledged.
func (r *DefaultProcessedOrderRepository) TryClaim(ctx context.Context, orderID string) error {
	claim := models.ProcessedOrderModel{
		OrderID:   orderID,
		Status:    domain.OrderClaimed,
		ClaimedAt: time.Now(),
	}
	err := r.DB.WithContext(ctx).Create(&claim).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("failed to claim order %s: %w", orderID, err)
	}

	var existing models.ProcessedOrderModel
	if err := r.DB.WithContext(ctx).First(&existing, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// released concurrently, the next retry re-claims
			return fmt.Errorf("%w: order %s", domain.ErrClaimInFlight, orderID)
		}
		return fmt.Errorf("failed to inspect claim %s: %w", orderID, err)
	}
	if existing.Status == domain.OrderCredited {
		return domain.ErrDuplicateOrder
	}

	takeover := r.DB.WithContext(ctx).
		Model(&models.ProcessedOrderModel{}).
		Where("order_id = ? AND status = ? AND claimed_at < ?",
			orderID, domain.OrderClaimed, time.Now().Add(-claimStaleAfter)).
		Update("claimed_at", time.Now())
	if takeover.Error != nil {
		return fmt.Errorf("failed to reclaim order %s: %w", orderID, takeover.Error)
	}
	if takeover.RowsAffected == 0 {
		return fmt.Errorf("%w: order %s", domain.ErrClaimInFlight, orderID)
	}
	return nil
}

// Release drops a claim that never got finalized. Finalized records are kept
// forever as the audit trail, so only CLAIMED rows are deletable.
func (r *DefaultProcessedOrderRepository) Release(ctx context.Context, orderID string) error {
	result := r.DB.WithContext(ctx).
		Where("order_id = ? AND status = ?", orderID, domain.OrderClaimed).
		Delete(&models.ProcessedOrderModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to release claim %s: %w", orderID, result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrClaimNotFound
	}
	return nil
}

func (r *DefaultProcessedOrderRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.ProcessedOrder, error) {
	var model models.ProcessedOrderModel
	if err := r.DB.WithContext(ctx).First(&model, "order_id = ?", orderID).Error; err != nil {
		return nil, err
	}
	return mappers.ToDomainProcessedOrder(&model), nil
}

func (r *DefaultProcessedOrderRepository) ListProcessed(ctx context.Context, page, limit int) ([]*domain.ProcessedOrder, int64, error) {
	var orderModels []models.ProcessedOrderModel
	var total int64

	baseQuery := r.DB.WithContext(ctx).
		Model(&models.ProcessedOrderModel{}).
		Where("status = ?", domain.OrderCredited)

	if err := baseQuery.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count processed orders: %w", err)
	}

	offset := (page - 1) * limit
	if err := baseQuery.
		Order("processed_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&orderModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find processed orders: %w", err)
	}

	orders := make([]*domain.ProcessedOrder, len(orderModels))
	for i, orderModel := range orderModels {
		orders[i] = mappers.ToDomainProcessedOrder(&orderModel)
	}

	return orders, total, nil
}
