// Package config loads binary configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Telemetry is shared by every binary.
type Telemetry struct {
	ServiceName  string  `env:"OTEL_SERVICE_NAME"`
	OTLPEndpoint string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4317"`
	Environment  string  `env:"DEPLOYMENT_ENVIRONMENT"      envDefault:"local"`
	SampleRatio  float64 `env:"OTEL_TRACES_SAMPLER_ARG"     envDefault:"1"`
	LogLevel     string  `env:"LOG_LEVEL"                   envDefault:"info"`
}

type PricingService struct {
	Telemetry
	Port              int           `env:"PRICING_PORT"               envDefault:"9093"`
	DatabasePath      string        `env:"PRICING_DB_PATH"            envDefault:"data/pricing.db"`
	RunLogPath        string        `env:"PRICING_RUN_LOG_DB_PATH"    envDefault:"data/catalog-runs.db"`
	FixturePath       string        `env:"PRICING_FIXTURE_PATH"`
	ProcessOnStart    bool          `env:"PRICING_PROCESS_ON_START"   envDefault:"true"`
	ReprocessInterval time.Duration `env:"PRICING_REPROCESS_INTERVAL"`
	MaxLineQuantity   int           `env:"PRICING_MAX_LINE_QUANTITY"  envDefault:"1000"`
}

type PaymentService struct {
	Telemetry
	Port         int    `env:"PAYMENT_PORT"              envDefault:"9091"`
	DatabasePath string `env:"PAYMENT_DB_PATH"           envDefault:"data/payment.db"`
	Secret       string `env:"PAYMENT_ENCRYPTION_SECRET,required"`
}

type APIGateway struct {
	Telemetry
	Port           int           `env:"GATEWAY_PORT"         envDefault:"8080"`
	PricingAddr    string        `env:"PRICING_SERVICE_ADDR" envDefault:"localhost:9093"`
	PaymentAddr    string        `env:"PAYMENT_SERVICE_ADDR" envDefault:"localhost:9091"`
	RedisAddr      string        `env:"REDIS_ADDR"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL"      envDefault:"24h"`
}
