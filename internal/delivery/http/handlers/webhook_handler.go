package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/LavaJover/shvark-deposit-service/internal/domain"
	"github.com/LavaJover/shvark-deposit-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-deposit-service/internal/infrastructure/oxapay"
	"github.com/labstack/echo/v4"
)

// WebhookHandler receives payment confirmation callbacks from OxaPay and
// drives the pipeline: verify → claim → credit → ack.
//
// Response contract: 401 for a bad signature, 500 for transient failures the
// gateway should retry, and 200 for everything else. Success, duplicates and
// policy rejections all stop gateway retries.
type WebhookHandler struct {
	uc          domain.DepositUsecase
	merchantKey string
	metrics     *metrics.DepositMetrics
}

func NewWebhookHandler(uc domain.DepositUsecase, merchantKey string, m *metrics.DepositMetrics) *WebhookHandler {
	return &WebhookHandler{
		uc:          uc,
		merchantKey: merchantKey,
		metrics:     m,
	}
}

func (h *WebhookHandler) HandleCallback(c echo.Context) error {
	start := time.Now()
	outcome := "error"
	defer func() {
		h.metrics.RecordWebhookDuration(outcome, time.Since(start).Seconds())
	}()

	rawBody, err := io.ReadAll(c.Request().Body)
	if err != nil {
		outcome = "bad_request"
		return c.String(http.StatusBadRequest, "failed to read body")
	}

	signature := c.Request().Header.Get(oxapay.SignatureHeader)
	if !oxapay.Verify(rawBody, signature, h.merchantKey) {
		h.metrics.RecordSignatureFailure()
		slog.Warn("callback signature mismatch", "remote", c.RealIP())
		outcome = "signature_invalid"
		return c.String(http.StatusUnauthorized, "invalid signature")
	}

	// A signed but undecodable callback can never become creditable, so it
	// is acknowledged terminally and left to reconciliation, like unmapped
	// orders.
	callback, err := oxapay.ParseCallback(rawBody)
	if err != nil {
		slog.Warn("malformed callback body", "error", err.Error())
		h.metrics.RecordDepositRejected("malformed_callback")
		outcome = "malformed_callback"
		return c.String(http.StatusOK, "ok")
	}

	if !callback.IsFinal() {
		slog.Info("ignoring callback status", "order_id", callback.OrderID, "status", callback.Status)
		outcome = "ignored_status"
		return c.String(http.StatusOK, "ok")
	}

	orderID := callback.DedupKey()
	if orderID == "" {
		slog.Warn("callback without orderId or trackId")
		h.metrics.RecordDepositRejected("missing_order_id")
		outcome = "missing_order_id"
		return c.String(http.StatusOK, "ok")
	}

	telegramID, err := oxapay.ResolveTelegramID(orderID)
	if err != nil {
		// not one of our invoices: acknowledged so the gateway stops, logged
		// for reconciliation
		slog.Warn("unresolvable orderId", "order_id", orderID, "error", err.Error())
		h.metrics.RecordDepositRejected("unmapped_order")
		outcome = "unmapped_order"
		return c.String(http.StatusOK, "ok")
	}

	result, err := h.uc.Credit(c.Request().Context(), domain.CreditInput{
		OrderID:    orderID,
		TelegramID: telegramID,
		PayAmount:  float64(callback.PayAmount),
		Currency:   callback.Currency,
	})

	switch {
	case err == nil:
		slog.Info("deposit credited",
			"order_id", result.OrderID,
			"telegram_id", result.TelegramID,
			"amount", result.PayAmount,
			"currency", result.Currency,
			"amount_usd", result.AmountUSD,
		)
		outcome = "credited"
		return c.String(http.StatusOK, "ok")

	case errors.Is(err, domain.ErrDuplicateOrder):
		slog.Info("duplicate callback", "order_id", orderID)
		outcome = "duplicate"
		return c.String(http.StatusOK, "ok")

	case errors.Is(err, domain.ErrUnsupportedCurrency),
		errors.Is(err, domain.ErrBelowMinDeposit),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrWalletNotFound):
		slog.Warn("deposit rejected by policy",
			"order_id", orderID,
			"telegram_id", telegramID,
			"amount", float64(callback.PayAmount),
			"currency", callback.Currency,
			"reason", err.Error(),
		)
		outcome = "rejected"
		return c.String(http.StatusOK, "ok")

	default:
		// transient: nothing was finalized, the gateway retry will re-drive
		slog.Error("deposit processing failed",
			"order_id", orderID,
			"telegram_id", telegramID,
			"amount", float64(callback.PayAmount),
			"currency", callback.Currency,
			"error", err.Error(),
		)
		outcome = "transient_failure"
		return c.String(http.StatusInternalServerError, "processing failed")
	}
}
