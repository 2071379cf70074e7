package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type DepositConfig struct {
	Env          string `yaml:"env" env-default:"local"`
	HTTPServer   `yaml:"http_server"`
	DepositDB    `yaml:"deposit_db"`
	LogConfig    `yaml:"log_config"`
	Oxapay       `yaml:"oxapay"`
	KafkaService `yaml:"kafka-service"`
	Telegram     `yaml:"telegram"`
	Rates        `yaml:"rates"`
	Admin        `yaml:"admin"`
}

type HTTPServer struct {
	Host string `yaml:"host" env-default:"0.0.0.0"`
	Port string `yaml:"port" env-default:"8443"`
}

type DepositDB struct {
	Dsn            string `yaml:"dsn" env:"DEPOSIT_DB_DSN"`
	MigrationsPath string `yaml:"migrations_path"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env-default:"info"`
	LogFormat string `yaml:"log_format" env-default:"json"`
	LogOutput string `yaml:"log_output" env-default:"stdout"`
}

type Oxapay struct {
	MerchantKey         string   `yaml:"merchant_key" env:"OXAPAY_MERCHANT_KEY"`
	APIURL              string   `yaml:"api_url" env-default:"https://api.oxapay.com/merchants/request"`
	WebhookHost         string   `yaml:"webhook_host"`
	WebhookPath         string   `yaml:"webhook_path" env-default:"/oxapay/webhook"`
	MinDepositUSD       float64  `yaml:"min_deposit_usd" env-default:"5"`
	SupportedCurrencies []string `yaml:"supported_currencies" env-default:"BTC,ETH,USDT,LTC,TRX,BNB,SOL"`
}

type KafkaService struct {
	Host  string `yaml:"host"`
	Port  string `yaml:"port"`
	Topic string `yaml:"topic" env-default:"deposit-events"`
}

type Telegram struct {
	BotToken string `yaml:"bot_token" env:"TELEGRAM_BOT_TOKEN"`
}

type Rates struct {
	BaseURL         string        `yaml:"base_url" env-default:"https://api.rapira.net"`
	RefreshInterval time.Duration `yaml:"refresh_interval" env-default:"5m"`
	OrdersDepth     int           `yaml:"orders_depth" env-default:"5"`
}

type Admin struct {
	JWTSecret string `yaml:"jwt_secret" env:"ADMIN_JWT_SECRET"`
	Password  string `yaml:"password" env:"ADMIN_PASSWORD"`
}

func MustLoad() *DepositConfig {

	// Processing env config variable and file
	configPath := os.Getenv("DEPOSIT_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("DEPOSIT_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg DepositConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}

// SupportedCurrencySet returns the configured currency whitelist as a set.
func (c *DepositConfig) SupportedCurrencySet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.Oxapay.SupportedCurrencies))
	for _, cur := range c.Oxapay.SupportedCurrencies {
		set[cur] = struct{}{}
	}
	return set
}
