package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort     string `mapstructure:"APP_PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	Env         string `mapstructure:"ENV"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	// Redis configuration.
	RedisAddr    string `mapstructure:"REDIS_ADDR"`
	RedisPass    string `mapstructure:"REDIS_PASSWORD"`
	RedisAuthDB  int    `mapstructure:"REDIS_AUTH_DB"`
	RedisQueueDB int    `mapstructure:"REDIS_QUEUE_DB"`

	// Payment gateway (signed-redirect protocol).
	GatewayURL        string `mapstructure:"GATEWAY_URL"`
	GatewayMerchant   string `mapstructure:"GATEWAY_MERCHANT_CODE"`
	GatewayHashSecret string `mapstructure:"GATEWAY_HASH_SECRET"`

	// Return URLs the gateway redirects back to, per transaction type.
	ElectricReturnURL     string `mapstructure:"ELECTRIC_RETURN_URL"`
	WaterReturnURL        string `mapstructure:"WATER_RETURN_URL"`
	RegistrationReturnURL string `mapstructure:"REGISTRATION_RETURN_URL"`
	RenewalReturnURL      string `mapstructure:"RENEWAL_RETURN_URL"`

	// Front-end result pages the callback redirects the browser to.
	InvoiceResultURL string `mapstructure:"INVOICE_RESULT_URL"`
	RequestResultURL string `mapstructure:"REQUEST_RESULT_URL"`

	// Mail (receipt dispatch).
	SMTPHost string `mapstructure:"SMTP_HOST"`
	SMTPPort int    `mapstructure:"SMTP_PORT"`
	SMTPUser string `mapstructure:"SMTP_USER"`
	SMTPPass string `mapstructure:"SMTP_PASS"`
	MailFrom string `mapstructure:"MAIL_FROM"`

	// Cloudinary (registration / report images).
	CloudinaryCloud  string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinarySecret string `mapstructure:"CLOUDINARY_API_SECRET"`

	// Background sweeps.
	SweepInterval       string `mapstructure:"SWEEP_INTERVAL"`        // asynq cron-style, e.g. "@every 1h"
	RegistrationTTLMins int    `mapstructure:"REGISTRATION_TTL_MINS"` // unpaid registrations older than this get canceled
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_AUTH_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 2)
	viper.SetDefault("GATEWAY_URL", "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html")
	viper.SetDefault("ELECTRIC_RETURN_URL", "http://localhost:8080/api/payments/electric/return")
	viper.SetDefault("WATER_RETURN_URL", "http://localhost:8080/api/payments/water/return")
	viper.SetDefault("REGISTRATION_RETURN_URL", "http://localhost:8080/api/payments/registration/return")
	viper.SetDefault("RENEWAL_RETURN_URL", "http://localhost:8080/api/payments/renewal/return")
	viper.SetDefault("INVOICE_RESULT_URL", "http://localhost:5173/payment-result")
	viper.SetDefault("REQUEST_RESULT_URL", "http://localhost:5173/room-info")
	viper.SetDefault("SMTP_HOST", "smtp.gmail.com")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SWEEP_INTERVAL", "@every 1h")
	viper.SetDefault("REGISTRATION_TTL_MINS", 1440)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
