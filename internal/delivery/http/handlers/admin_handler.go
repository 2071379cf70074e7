package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/LavaJover/shvark-deposit-service/internal/domain"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// AdminHandler exposes the reconciliation and invoice surface consumed by
// the bot and by operators.
type AdminHandler struct {
	ledger  domain.OrderLedger
	wallets domain.WalletRepository
	uc      domain.DepositUsecase
}

func NewAdminHandler(ledger domain.OrderLedger, wallets domain.WalletRepository, uc domain.DepositUsecase) *AdminHandler {
	return &AdminHandler{
		ledger:  ledger,
		wallets: wallets,
		uc:      uc,
	}
}

type listDepositsResponse struct {
	Deposits []*domain.ProcessedOrder `json:"deposits"`
	Total    int64                    `json:"total"`
	Page     int                      `json:"page"`
	Limit    int                      `json:"limit"`
}

func (h *AdminHandler) ListDeposits(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 100 {
		limit = 50
	}

	deposits, total, err := h.ledger.ListProcessed(c.Request().Context(), page, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, listDepositsResponse{
		Deposits: deposits,
		Total:    total,
		Page:     page,
		Limit:    limit,
	})
}

func (h *AdminHandler) GetDeposit(c echo.Context) error {
	orderID := c.Param("orderId")
	deposit, err := h.ledger.GetByOrderID(c.Request().Context(), orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, deposit)
}

func (h *AdminHandler) GetWallet(c echo.Context) error {
	telegramID, err := strconv.ParseInt(c.Param("telegramId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid telegram id"})
	}

	wallet, err := h.wallets.GetWallet(c.Request().Context(), telegramID)
	if err != nil {
		if errors.Is(err, domain.ErrWalletNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "wallet not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, wallet)
}

type createInvoiceRequest struct {
	TelegramID int64   `json:"telegram_id"`
	AmountUSD  float64 `json:"amount_usd"`
	Currency   string  `json:"currency"`
}

// CreateInvoice is called by the bot when a user picks a deposit amount and
// currency.
func (h *AdminHandler) CreateInvoice(c echo.Context) error {
	var req createInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	invoice, err := h.uc.CreateInvoice(c.Request().Context(), req.TelegramID, req.AmountUSD, req.Currency)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, map[string]interface{}{
			"order_id":   invoice.OrderID,
			"pay_link":   invoice.PayLink,
			"amount_usd": invoice.AmountUSD,
			"currency":   invoice.Currency,
		})
	case errors.Is(err, domain.ErrUnsupportedCurrency), errors.Is(err, domain.ErrBelowMinDeposit):
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	default:
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}
}
