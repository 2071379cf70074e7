package http

import (
	"net/http"

	"github.com/LavaJover/shvark-deposit-service/internal/config"
	"github.com/LavaJover/shvark-deposit-service/internal/delivery/http/handlers"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewServer wires the webhook, admin and operational routes into one echo
// instance. The webhook path is deliberately configurable: it is the only
// route the gateway knows about.
func NewServer(cfg *config.DepositConfig, webhookHandler *handlers.WebhookHandler, adminHandler *handlers.AdminHandler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	e.POST(cfg.Oxapay.WebhookPath, webhookHandler.HandleCallback)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.POST("/auth/login", handlers.LoginHandler(cfg.Admin.JWTSecret, cfg.Admin.Password))

	admin := e.Group("/admin", handlers.JWTAuth(cfg.Admin.JWTSecret))
	admin.GET("/deposits", adminHandler.ListDeposits)
	admin.GET("/deposits/:orderId", adminHandler.GetDeposit)
	admin.GET("/wallets/:telegramId", adminHandler.GetWallet)
	admin.POST("/invoices", adminHandler.CreateInvoice)

	return e
}
