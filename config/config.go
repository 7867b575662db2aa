package config

import (
	"flag"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

const (
	defaultServerAddress         = ":8080"
	defaultDatabaseDSN           = ""
	defaultMailerAddr            = "http://localhost:8025"
	defaultLogLevel              = "debug"
	defaultBulkDiscountThreshold = 5
	defaultBulkDiscountPercent   = "5"
	defaultAuthTokenKey          = "f53ac685bbceebd75043e6be2e06ee07"
	envServerAddress             = "RUN_ADDRESS"
	envDatabaseDSN               = "DATABASE_URI"
	envMailerAddr                = "MAILER_ADDRESS"
	envLogLevel                  = "LOG_LEVEL"
	envAuthTokenKey              = "AUTH_TOKEN_KEY"
	envBulkDiscountThreshold     = "BULK_DISCOUNT_THRESHOLD"
	envBulkDiscountPercent       = "BULK_DISCOUNT_PERCENT"
)

type Config struct {
	ServerAddr            string
	DatabaseDSN           string
	MailerAddr            string
	LogLevel              string
	AuthTokenKey          string
	BulkDiscountThreshold int
	BulkDiscountPercent   string
}

var (
	once      sync.Once
	singleton *Config
)

// New returns new Config. It parses command line and environment variables only once.
func New() (*Config, error) {
	once.Do(func() {
		// load .env if it exists
		_ = godotenv.Load()

		cfg := Config{}

		// initialize flags
		flag.StringVar(&cfg.ServerAddr, "a", defaultServerAddress, "bookmart server address")
		flag.StringVar(&cfg.DatabaseDSN, "d", defaultDatabaseDSN, "bookmart database DSN")
		flag.StringVar(&cfg.MailerAddr, "m", defaultMailerAddr, "mail delivery service address")
		flag.StringVar(&cfg.LogLevel, "l", defaultLogLevel, "log level")
		flag.StringVar(&cfg.AuthTokenKey, "k", defaultAuthTokenKey, "auth token signing key (hex)")
		flag.IntVar(&cfg.BulkDiscountThreshold, "bulk-threshold", defaultBulkDiscountThreshold, "total item quantity that triggers the bulk discount")
		flag.StringVar(&cfg.BulkDiscountPercent, "bulk-percent", defaultBulkDiscountPercent, "bulk discount percent off subtotal")

		flag.Parse()

		// if environment variable is set, then using it
		if runAddrEnv := os.Getenv(envServerAddress); runAddrEnv != "" {
			cfg.ServerAddr = runAddrEnv
		}
		if dataBaseURIEnv := os.Getenv(envDatabaseDSN); dataBaseURIEnv != "" {
			cfg.DatabaseDSN = dataBaseURIEnv
		}
		if mailerAddrEnv := os.Getenv(envMailerAddr); mailerAddrEnv != "" {
			cfg.MailerAddr = mailerAddrEnv
		}
		if logLevelEnv := os.Getenv(envLogLevel); logLevelEnv != "" {
			cfg.LogLevel = logLevelEnv
		}
		if tokenKeyEnv := os.Getenv(envAuthTokenKey); tokenKeyEnv != "" {
			cfg.AuthTokenKey = tokenKeyEnv
		}
		if thresholdEnv := os.Getenv(envBulkDiscountThreshold); thresholdEnv != "" {
			if v, err := strconv.Atoi(thresholdEnv); err == nil {
				cfg.BulkDiscountThreshold = v
			}
		}
		if percentEnv := os.Getenv(envBulkDiscountPercent); percentEnv != "" {
			cfg.BulkDiscountPercent = percentEnv
		}

		singleton = &cfg
	})

	return singleton, nil
}
