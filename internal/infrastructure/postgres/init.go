package postgres

import (
	"log"

	"github.com/LavaJover/shvark-deposit-service/internal/config"
	"github.com/LavaJover/shvark-deposit-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-deposit-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.DepositConfig) *gorm.DB {
	dsn := cfg.DepositDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(&models.WalletModel{}, &models.WalletBalanceModel{}, &models.ProcessedOrderModel{}, &logger.DepositCreditedEvent{}, &logger.DepositRejectedEvent{})

	return db
}
