package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// External balance services
	AccountServiceURL string
	CreditServiceURL  string
	GatewayTimeout    time.Duration

	// Balance patch policy: "fireandforget" (default) or "await"
	BalancePatchPolicy string

	// Event stream (optional; empty URL disables publishing)
	RabbitMQURL      string
	RabbitMQExchange string

	// Maintenance fee job
	MaintenanceInterval time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ACCOUNT_SERVICE_URL", "http://localhost:8081")
	viper.SetDefault("CREDIT_SERVICE_URL", "http://localhost:8082")
	viper.SetDefault("GATEWAY_TIMEOUT", "10s")
	viper.SetDefault("BALANCE_PATCH_POLICY", "fireandforget")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("RABBITMQ_EXCHANGE", "transaction.events")
	viper.SetDefault("MAINTENANCE_INTERVAL", "720h")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.AccountServiceURL = viper.GetString("ACCOUNT_SERVICE_URL")
	cfg.CreditServiceURL = viper.GetString("CREDIT_SERVICE_URL")

	gatewayTimeoutStr := viper.GetString("GATEWAY_TIMEOUT")
	gatewayTimeout, err := time.ParseDuration(gatewayTimeoutStr)
	if err != nil {
		gatewayTimeout = 10 * time.Second
		log.Printf("Warning: Invalid value for GATEWAY_TIMEOUT ('%s'). Defaulting to %s.\n", gatewayTimeoutStr, gatewayTimeout)
	}
	cfg.GatewayTimeout = gatewayTimeout

	cfg.BalancePatchPolicy = viper.GetString("BALANCE_PATCH_POLICY")
	if cfg.BalancePatchPolicy != "fireandforget" && cfg.BalancePatchPolicy != "await" {
		log.Printf("Warning: Unknown BALANCE_PATCH_POLICY ('%s'). Defaulting to fireandforget.\n", cfg.BalancePatchPolicy)
		cfg.BalancePatchPolicy = "fireandforget"
	}

	cfg.RabbitMQURL = viper.GetString("RABBITMQ_URL")
	cfg.RabbitMQExchange = viper.GetString("RABBITMQ_EXCHANGE")

	maintenanceIntervalStr := viper.GetString("MAINTENANCE_INTERVAL")
	maintenanceInterval, err := time.ParseDuration(maintenanceIntervalStr)
	if err != nil {
		maintenanceInterval = 720 * time.Hour
		log.Printf("Warning: Invalid value for MAINTENANCE_INTERVAL ('%s'). Defaulting to %s.\n", maintenanceIntervalStr, maintenanceInterval)
	}
	cfg.MaintenanceInterval = maintenanceInterval

	return cfg, nil
}
