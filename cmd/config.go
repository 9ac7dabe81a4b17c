package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"marketplace/internal/adapters/out/postgres"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv         string
	ServiceName    string
	HTTPPort       string
	RequestTimeout time.Duration

	DB postgres.Config

	RabbitMQURL      string
	RabbitMQExchange string

	JaegerEndpoint string

	StockReleaseSchedule  string
	StockReleaseBatchSize int
}

var defaults = map[string]any{
	"APP_ENV":                  "development",
	"SERVICE_NAME":             "marketplace",
	"HTTP_PORT":                "8080",
	"REQUEST_TIMEOUT":          "5s",
	"DB_HOST":                  "localhost",
	"DB_PORT":                  "5432",
	"DB_USER":                  "postgres",
	"DB_PASSWORD":              "",
	"DB_NAME":                  "marketplace",
	"DB_SSLMODE":               "disable",
	"RABBITMQ_URL":             "",
	"RABBITMQ_EXCHANGE":        "marketplace.events",
	"JAEGER_ENDPOINT":          "",
	"STOCK_RELEASE_SCHEDULE":   "@every 30s",
	"STOCK_RELEASE_BATCH_SIZE": 50,
}

// LoadConfig reads the process environment, optionally seeded from envFile.
// A config.yaml in the working directory or /etc/marketplace supplies values
// the environment leaves unset. Neither file is required.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/marketplace")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config.yaml: %w", err)
		}
	}

	cfg := Config{
		AppEnv:         v.GetString("APP_ENV"),
		ServiceName:    v.GetString("SERVICE_NAME"),
		HTTPPort:       v.GetString("HTTP_PORT"),
		RequestTimeout: v.GetDuration("REQUEST_TIMEOUT"),
		DB: postgres.Config{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		RabbitMQURL:           v.GetString("RABBITMQ_URL"),
		RabbitMQExchange:      v.GetString("RABBITMQ_EXCHANGE"),
		JaegerEndpoint:        v.GetString("JAEGER_ENDPOINT"),
		StockReleaseSchedule:  v.GetString("STOCK_RELEASE_SCHEDULE"),
		StockReleaseBatchSize: v.GetInt("STOCK_RELEASE_BATCH_SIZE"),
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	var problems []error
	if c.HTTPPort == "" {
		problems = append(problems, errors.New("HTTP_PORT is required"))
	}
	if c.RequestTimeout <= 0 {
		problems = append(problems, fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout))
	}
	if c.StockReleaseBatchSize <= 0 {
		problems = append(problems, fmt.Errorf("STOCK_RELEASE_BATCH_SIZE must be positive, got %d", c.StockReleaseBatchSize))
	}
	if c.RabbitMQURL != "" && c.RabbitMQExchange == "" {
		problems = append(problems, errors.New("RABBITMQ_EXCHANGE is required with RABBITMQ_URL"))
	}
	return errors.Join(problems...)
}
