package config

import (
	"log"
	"os"
	"strconv"
)

// Config carries everything the app needs. It is loaded once in main and
// passed by value into constructors; nothing reads process-wide state after
// startup.
type Config struct {
	Port    string
	DBDSN   string
	LogFile string

	// Marketplace-wide listing settings.
	Currency                string
	MinListingPriceSubunits int64
	ShippingFeeSubunits     int64
	LineItemUnitType        string
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "tradepost.db"
	} // sqlite file in project root
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./tradepost.log"
	}
	currency := os.Getenv("CURRENCY")
	if currency == "" {
		currency = "USD"
	}
	minPrice := envInt64("MIN_LISTING_PRICE_SUBUNITS", 500)
	shipFee := envInt64("SHIPPING_FEE_SUBUNITS", 1000)

	cfg := Config{
		Port:                    port,
		DBDSN:                   dsn,
		LogFile:                 logFile,
		Currency:                currency,
		MinListingPriceSubunits: minPrice,
		ShippingFeeSubunits:     shipFee,
		LineItemUnitType:        "line-item/units",
	}
	log.Printf("[config] PORT=%s DB_DSN=%s CURRENCY=%s MIN_PRICE=%d LOG_FILE=%s",
		cfg.Port, cfg.DBDSN, cfg.Currency, cfg.MinListingPriceSubunits, cfg.LogFile)
	return cfg
}

func envInt64(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		log.Printf("[config] ignoring bad %s=%q", key, v)
		return def
	}
	return n
}
