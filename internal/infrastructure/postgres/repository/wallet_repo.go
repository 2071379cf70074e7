package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-deposit-service/internal/domain"
	"github.com/LavaJover/shvark-deposit-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultWalletRepository struct {
	DB *gorm.DB
}

func NewDefaultWalletRepository(db *gorm.DB) *DefaultWalletRepository {
	return &DefaultWalletRepository{DB: db}
}

// CreditDeposit applies one verified deposit as a single transaction: the
// balance increment, the unwagered-deposit counter, the referral commission
// and the finalization of the idempotency claim commit together or not at
// all. The wallet row is locked FOR UPDATE so two deposits for the same user
// cannot lose updates.
func (r *DefaultWalletRepository) CreditDeposit(ctx context.Context, credit *domain.DepositCredit) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var wallet models.WalletModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&wallet, "telegram_id = ?", credit.TelegramID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrWalletNotFound
			}
			return err
		}

		if err := addToBalance(tx, credit.TelegramID, credit.Currency, credit.PayAmount); err != nil {
			return err
		}

		if err := tx.Model(&models.WalletModel{}).
			Where("telegram_id = ?", credit.TelegramID).
			Update("unwagered_deposit", gorm.Expr("unwagered_deposit + ?", credit.AmountUSD)).Error; err != nil {
			return err
		}

		// Referral commission goes to the referrer in the deposited currency.
		// A dangling referrer id (deleted account) skips the commission, it
		// never fails the deposit.
		if wallet.ReferrerID != nil {
			var referrer models.WalletModel
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&referrer, "telegram_id = ?", *wallet.ReferrerID).Error
			switch {
			case err == nil:
				commission := credit.PayAmount * domain.ReferralCommissionRate
				if err := addToBalance(tx, referrer.TelegramID, credit.Currency, commission); err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				// skip
			default:
				return err
			}
		}

		now := time.Now()
		result := tx.Model(&models.ProcessedOrderModel{}).
			Where("order_id = ? AND status = ?", credit.OrderID, domain.OrderClaimed).
			Updates(map[string]interface{}{
				"status":          domain.OrderCredited,
				"telegram_id":     credit.TelegramID,
				"credited_amount": credit.PayAmount,
				"currency":        credit.Currency,
				"amount_usd":      credit.AmountUSD,
				"processed_at":    &now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: order %s", domain.ErrClaimNotFound, credit.OrderID)
		}

		return nil
	})
}

func (r *DefaultWalletRepository) GetWallet(ctx context.Context, telegramID int64) (*domain.Wallet, error) {
	var walletModel models.WalletModel
	if err := r.DB.WithContext(ctx).First(&walletModel, "telegram_id = ?", telegramID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, err
	}

	var balanceModels []models.WalletBalanceModel
	if err := r.DB.WithContext(ctx).
		Where("telegram_id = ?", telegramID).
		Find(&balanceModels).Error; err != nil {
		return nil, err
	}

	balances := make(map[string]float64, len(balanceModels))
	for _, b := range balanceModels {
		balances[b.Currency] = b.Amount
	}

	return &domain.Wallet{
		TelegramID:       walletModel.TelegramID,
		Balances:         balances,
		UnwageredDeposit: walletModel.UnwageredDeposit,
		ReferrerID:       walletModel.ReferrerID,
	}, nil
}

func addToBalance(tx *gorm.DB, telegramID int64, currency string, amount float64) error {
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "telegram_id"}, {Name: "currency"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"amount": gorm.Expr("wallet_balances.amount + EXCLUDED.amount"),
		}),
	}).Create(&models.WalletBalanceModel{
		TelegramID: telegramID,
		Currency:   currency,
		Amount:     amount,
	}).Error
}
