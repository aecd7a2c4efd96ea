package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/craftline/orderdesk/internal/images"
	"github.com/craftline/orderdesk/internal/models"
)

type Config struct {
	DB_HOST     string
	DB_PORT     string
	DB_USER     string
	DB_PASSWORD string
	DB_NAME     string

	KAFKA_ADDRESS string

	ES_URL      string
	ES_USER     string
	ES_PASSWORD string

	JWT_SECRET string

	TWILIO_ACCOUNT_SID  string
	TWILIO_AUTH_TOKEN   string
	TWILIO_PHONE_NUMBER string

	LOG_LEVEL       string
	IMAGE_MAX_BYTES int
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		DB_HOST:             os.Getenv("DB_HOST"),
		DB_PORT:             os.Getenv("DB_PORT"),
		DB_USER:             os.Getenv("DB_USER"),
		DB_PASSWORD:         os.Getenv("DB_PASSWORD"),
		DB_NAME:             os.Getenv("DB_NAME"),
		KAFKA_ADDRESS:       os.Getenv("KAFKA_ADDRESS"),
		ES_URL:              os.Getenv("ES_URL"),
		ES_USER:             os.Getenv("ES_USER"),
		ES_PASSWORD:         os.Getenv("ES_PASSWORD"),
		JWT_SECRET:          os.Getenv("JWT_SECRET"),
		TWILIO_ACCOUNT_SID:  os.Getenv("TWILIO_ACCOUNT_SID"),
		TWILIO_AUTH_TOKEN:   os.Getenv("TWILIO_AUTH_TOKEN"),
		TWILIO_PHONE_NUMBER: os.Getenv("TWILIO_PHONE_NUMBER"),
		LOG_LEVEL:           os.Getenv("LOG_LEVEL"),
		IMAGE_MAX_BYTES:     images.DefaultMaxBytes,
	}

	if v := os.Getenv("IMAGE_MAX_BYTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("IMAGE_MAX_BYTES must be a positive integer, got %q", v)
		}
		config.IMAGE_MAX_BYTES = n
	}

	return config, nil
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DB_USER, cfg.DB_PASSWORD, cfg.DB_HOST, cfg.DB_PORT, cfg.DB_NAME,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return db, nil
}
