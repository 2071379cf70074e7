package mappers

import (
	"github.com/LavaJover/shvark-deposit-service/internal/domain"
	"github.com/LavaJover/shvark-deposit-service/internal/infrastructure/postgres/models"
)

func ToDomainProcessedOrder(model *models.ProcessedOrderModel) *domain.ProcessedOrder {
	return &domain.ProcessedOrder{
		OrderID:        model.OrderID,
		TelegramID:     model.TelegramID,
		CreditedAmount: model.CreditedAmount,
		Currency:       model.Currency,
		AmountUSD:      model.AmountUSD,
		Status:         model.Status,
		ClaimedAt:      model.ClaimedAt,
		ProcessedAt:    model.ProcessedAt,
	}
}
