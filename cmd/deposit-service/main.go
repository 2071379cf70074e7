package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/LavaJover/shvark-deposit-service/internal/config"
	deliveryhttp "github.com/LavaJover/shvark-deposit-service/internal/delivery/http"
	"github.com/LavaJover/shvark-deposit-service/internal/delivery/http/handlers"
	"github.com/LavaJover/shvark-deposit-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-deposit-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-deposit-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-deposit-service/internal/infrastructure/migrate"
	"github.com/LavaJover/shvark-deposit-service/internal/infrastructure/notifier"
	"github.com/LavaJover/shvark-deposit-service/internal/infrastructure/oxapay"
	"github.com/LavaJover/shvark-deposit-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-deposit-service/internal/infrastructure/postgres/repository"
	"github.com/LavaJover/shvark-deposit-service/internal/infrastructure/rates"
	"github.com/LavaJover/shvark-deposit-service/internal/usecase/deposit"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	// Init database
	db := postgres.MustInitDB(cfg)

	if err := migrate.RunDepositMigrations(db, cfg.DepositDB.MigrationsPath); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Init repositories
	walletRepo := repository.NewDefaultWalletRepository(db)
	orderLedger := repository.NewDefaultProcessedOrderRepository(db)

	// Init deposit metrics
	depositMetrics := metrics.NewDepositMetrics()

	// Init rates provider
	rateProvider := rates.NewRapiraProvider(cfg.Rates.BaseURL, cfg.Rates.OrdersDepth)
	if err := rateProvider.Refresh(cfg.Oxapay.SupportedCurrencies); err != nil {
		slog.Warn("initial rates refresh incomplete", "error", err.Error())
	}

	// Init kafka publisher
	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
	depositPublisher := kafka.NewKafkaPublisher(brokers, cfg.KafkaService.Topic)

	// Init notification queue and telegram worker
	notificationQueue := notifier.NewQueue(256)
	telegramNotifier, err := notifier.NewTelegramNotifier(cfg.Telegram.BotToken)
	if err != nil {
		log.Fatalf("failed to init telegram notifier: %v", err)
	}
	notificationWorker := notifier.NewWorker(notificationQueue, telegramNotifier, depositMetrics)
	go notificationWorker.Run(context.Background())

	// Init oxapay invoice client
	callbackURL := strings.TrimSuffix(cfg.Oxapay.WebhookHost, "/") + cfg.Oxapay.WebhookPath
	gatewayClient := oxapay.NewClient(cfg.Oxapay.MerchantKey, cfg.Oxapay.APIURL, callbackURL)

	// Init event logger
	eventLogger := logger.NewPGDepositEventLogger(db)

	// Init deposit usecase
	uc, err := deposit.NewDefaultDepositUsecase(
		walletRepo,
		orderLedger,
		rateProvider,
		gatewayClient,
		depositPublisher,
		notificationQueue,
		eventLogger,
		depositMetrics,
		cfg.SupportedCurrencySet(),
		cfg.Oxapay.MinDepositUSD,
	)
	if err != nil {
		log.Fatalf("failed to init deposit usecase: %v", err)
	}

	// updating crypto-rates
	go func() {
		ticker := time.NewTicker(cfg.Rates.RefreshInterval)
		for {
			<-ticker.C
			if err := rateProvider.Refresh(cfg.Oxapay.SupportedCurrencies); err != nil {
				slog.Error("rates update failed", "error", err.Error())
				continue
			}
			slog.Info("rates updated")
		}
	}()

	// Init HTTP server
	webhookHandler := handlers.NewWebhookHandler(uc, cfg.Oxapay.MerchantKey, depositMetrics)
	adminHandler := handlers.NewAdminHandler(orderLedger, walletRepo, uc)
	e := deliveryhttp.NewServer(cfg, webhookHandler, adminHandler)

	addr := fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
	log.Printf("deposit webhook server started on %s%s\n", addr, cfg.Oxapay.WebhookPath)
	if err := e.Start(addr); err != nil {
		log.Fatalf("failed to serve: %v\n", err)
	}
}
