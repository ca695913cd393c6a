package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// Ledger engine tunables.
	PostBatchSize      int           // concurrent posts per depreciation/backfill wave
	ReferenceChunkSize int           // reference keys per posted-reference lookup query
	RecordTimeout      time.Duration // per-record generation timeout during backfill
}

// LoadConfig reads configuration from a .env file (if present) and the
// environment. Environment variables win.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("POST_BATCH_SIZE", 50)
	v.SetDefault("REFERENCE_CHUNK_SIZE", 500)
	v.SetDefault("RECORD_TIMEOUT", "10s")

	cfg := &Config{
		DatabaseURL:        v.GetString("PGSQL_URL"),
		Port:               v.GetString("PORT"),
		IsProduction:       v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:      v.GetBool("ENABLE_DB_CHECK"),
		PostBatchSize:      v.GetInt("POST_BATCH_SIZE"),
		ReferenceChunkSize: v.GetInt("REFERENCE_CHUNK_SIZE"),
		RecordTimeout:      v.GetDuration("RECORD_TIMEOUT"),
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("PGSQL_URL is not set")
	}
	if cfg.PostBatchSize <= 0 {
		cfg.PostBatchSize = 50
	}
	if cfg.ReferenceChunkSize <= 0 {
		cfg.ReferenceChunkSize = 500
	}
	if cfg.RecordTimeout <= 0 {
		cfg.RecordTimeout = 10 * time.Second
	}
	return cfg
}
