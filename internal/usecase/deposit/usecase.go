package deposit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/LavaJover/shvark-deposit-service/internal/domain"
	"github.com/LavaJover/shvark-deposit-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-deposit-service/internal/infrastructure/metrics"
	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
)

type DefaultDepositUsecase struct {
	wallets       domain.WalletRepository
	ledger        domain.OrderLedger
	rates         domain.RateProvider
	gateway       domain.InvoiceGateway
	publisher     domain.EventPublisher
	notifications domain.NotificationQueue
	eventLogger   logger.DepositEventLogger
	metrics       *metrics.DepositMetrics

	supportedCurrencies map[string]struct{}
	minDepositUSD       float64
	newOrderSuffix      func() string
}

func NewDefaultDepositUsecase(
	wallets domain.WalletRepository,
	ledger domain.OrderLedger,
	rates domain.RateProvider,
	gateway domain.InvoiceGateway,
	publisher domain.EventPublisher,
	notifications domain.NotificationQueue,
	eventLogger logger.DepositEventLogger,
	depositMetrics *metrics.DepositMetrics,
	supportedCurrencies map[string]struct{},
	minDepositUSD float64,
) (*DefaultDepositUsecase, error) {
	suffix, err := nanoid.Standard(12)
	if err != nil {
		return nil, fmt.Errorf("failed to init orderId generator: %w", err)
	}
	return &DefaultDepositUsecase{
		wallets:             wallets,
		ledger:              ledger,
		rates:               rates,
		gateway:             gateway,
		publisher:           publisher,
		notifications:       notifications,
		eventLogger:         eventLogger,
		metrics:             depositMetrics,
		supportedCurrencies: supportedCurrencies,
		minDepositUSD:       minDepositUSD,
		newOrderSuffix:      suffix,
	}, nil
}

// Credit runs the crediting pipeline for one verified callback:
// policy checks → idempotency claim → transactional wallet mutation →
// post-commit event, audit log and user notification.
// Only persistence failures come back as retryable errors; every policy
// rejection is a sentinel the receiver acknowledges as success.
func (uc *DefaultDepositUsecase) Credit(ctx context.Context, input domain.CreditInput) (*domain.CreditResult, error) {
	if input.PayAmount <= 0 {
		uc.rejected(ctx, input, "invalid_amount")
		return nil, domain.ErrInvalidAmount
	}

	currency := strings.ToUpper(input.Currency)
	if _, ok := uc.supportedCurrencies[currency]; !ok {
		uc.rejected(ctx, input, "unsupported_currency")
		return nil, domain.ErrUnsupportedCurrency
	}

	rate, err := uc.rates.USDPrice(currency)
	if err != nil {
		// no quote means no threshold math: transient, let the gateway retry
		return nil, fmt.Errorf("%w: %v", domain.ErrRateUnavailable, err)
	}

	amountUSD := input.PayAmount * rate
	if amountUSD < uc.minDepositUSD {
		uc.rejected(ctx, input, "below_min_deposit")
		return nil, domain.ErrBelowMinDeposit
	}

	if err := uc.ledger.TryClaim(ctx, input.OrderID); err != nil {
		if errors.Is(err, domain.ErrDuplicateOrder) {
			uc.metrics.RecordDuplicateCallback()
			return nil, domain.ErrDuplicateOrder
		}
		return nil, err
	}

	wallet, err := uc.wallets.GetWallet(ctx, input.TelegramID)
	if err != nil {
		uc.releaseClaim(ctx, input.OrderID)
		if errors.Is(err, domain.ErrWalletNotFound) {
			uc.rejected(ctx, input, "wallet_not_found")
			return nil, domain.ErrWalletNotFound
		}
		return nil, err
	}

	credit := &domain.DepositCredit{
		OrderID:    input.OrderID,
		TelegramID: input.TelegramID,
		PayAmount:  input.PayAmount,
		Currency:   currency,
		AmountUSD:  amountUSD,
	}
	if err := uc.wallets.CreditDeposit(ctx, credit); err != nil {
		uc.releaseClaim(ctx, input.OrderID)
		if errors.Is(err, domain.ErrWalletNotFound) {
			uc.rejected(ctx, input, "wallet_not_found")
			return nil, domain.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to credit deposit %s: %w", input.OrderID, err)
	}

	result := &domain.CreditResult{
		OrderID:    input.OrderID,
		TelegramID: input.TelegramID,
		PayAmount:  input.PayAmount,
		Currency:   currency,
		AmountUSD:  amountUSD,
	}
	if wallet.ReferrerID != nil {
		result.ReferrerID = wallet.ReferrerID
		result.Commission = input.PayAmount * domain.ReferralCommissionRate
	}

	uc.afterCredit(ctx, result)

	return result, nil
}

// afterCredit handles the non-critical tail of a credited deposit. The credit
// is already durable, so every step here is best-effort.
func (uc *DefaultDepositUsecase) afterCredit(ctx context.Context, result *domain.CreditResult) {
	uc.metrics.RecordDepositCredited(result.Currency, result.PayAmount, result.AmountUSD)
	if result.ReferrerID != nil {
		uc.metrics.RecordReferralCommission(result.Currency, result.Commission)
	}

	if err := uc.eventLogger.LogDepositCredited(ctx, logger.DepositCreditedEvent{
		OrderID:    result.OrderID,
		TelegramID: result.TelegramID,
		Amount:     result.PayAmount,
		Currency:   result.Currency,
		AmountUSD:  result.AmountUSD,
		Commission: result.Commission,
		ReferrerID: result.ReferrerID,
	}); err != nil {
		slog.Error("failed to log credited deposit", "order_id", result.OrderID, "error", err.Error())
	}

	// The broker write carries its own timeout; it must not hold the
	// webhook response hostage, so it is handed off like the notification.
	event := domain.DepositEvent{
		EventID:     uuid.New().String(),
		OrderID:     result.OrderID,
		TelegramID:  result.TelegramID,
		Amount:      result.PayAmount,
		Currency:    result.Currency,
		AmountUSD:   result.AmountUSD,
		Status:      string(domain.OrderCredited),
		ProcessedAt: time.Now(),
	}
	go func() {
		if err := uc.publisher.PublishDeposit(event); err != nil {
			slog.Error("failed to publish deposit event", "order_id", event.OrderID, "error", err.Error())
		}
	}()

	uc.notifications.Enqueue(domain.DepositNotification{
		TelegramID: result.TelegramID,
		Amount:     result.PayAmount,
		Currency:   result.Currency,
		AmountUSD:  result.AmountUSD,
	})
}

// CreateInvoice builds a gateway invoice for the given user. The orderId
// embeds the telegram id so the webhook can map the callback back without a
// lookup table.
func (uc *DefaultDepositUsecase) CreateInvoice(ctx context.Context, telegramID int64, amountUSD float64, currency string) (*domain.Invoice, error) {
	currency = strings.ToUpper(currency)
	if _, ok := uc.supportedCurrencies[currency]; !ok {
		return nil, domain.ErrUnsupportedCurrency
	}
	if amountUSD < uc.minDepositUSD {
		return nil, domain.ErrBelowMinDeposit
	}

	orderID := fmt.Sprintf("%d_%s", telegramID, uc.newOrderSuffix())
	payLink, err := uc.gateway.CreateInvoice(ctx, amountUSD, currency, orderID)
	if err != nil {
		return nil, err
	}

	return &domain.Invoice{
		OrderID:   orderID,
		PayLink:   payLink,
		AmountUSD: amountUSD,
		Currency:  currency,
	}, nil
}

func (uc *DefaultDepositUsecase) releaseClaim(ctx context.Context, orderID string) {
	if err := uc.ledger.Release(ctx, orderID); err != nil && !errors.Is(err, domain.ErrClaimNotFound) {
		slog.Error("failed to release claim", "order_id", orderID, "error", err.Error())
	}
}

func (uc *DefaultDepositUsecase) rejected(ctx context.Context, input domain.CreditInput, reason string) {
	uc.metrics.RecordDepositRejected(reason)
	if err := uc.eventLogger.LogDepositRejected(ctx, logger.DepositRejectedEvent{
		OrderID:    input.OrderID,
		TelegramID: input.TelegramID,
		Amount:     input.PayAmount,
		Currency:   strings.ToUpper(input.Currency),
		Reason:     reason,
	}); err != nil {
		slog.Error("failed to log rejected deposit", "order_id", input.OrderID, "error", err.Error())
	}
}
