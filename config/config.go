package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config holds all runtime settings. Values come from environment variables
// with sensible defaults so the service runs out of the box with the in-memory
// store and no external infrastructure.
type Config struct {
	HTTPAddr string

	// StoreBackend selects the collection store: "memory", "redis" or "postgres".
	StoreBackend string

	RedisHost     string
	RedisPort     string
	RedisPassword string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	KafkaEnabled bool
	KafkaBroker  string
	KafkaTopic   string

	JWTSecret string

	// Seed admin account, created only when the users collection is empty.
	AdminName     string
	AdminEmail    string
	AdminPassword string

	// Storefront business constants. These are presentation-layer knobs, not
	// core invariants, which is why they live here and not in the services.
	VATRate               float64
	LowStockThreshold     int
	FreeShippingThreshold float64
	ShippingFee           float64
	PromoCodes            map[string]float64

	EsewaMerchantCode string
	EsewaBaseURL      string
	KhaltiSecretKey   string
	KhaltiBaseURL     string
	ReturnBaseURL     string
}

// Load reads configuration from the environment. A .env file is honored when
// present but never required.
func Load(logger *zap.Logger) Config {
	if err := godotenv.Load(); err == nil {
		logger.Info("Loaded configuration from .env file")
	}

	return Config{
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		StoreBackend: getEnv("STORE_BACKEND", "memory"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "laptopshop"),

		KafkaEnabled: getEnvBool("KAFKA_ENABLED", false),
		KafkaBroker:  getEnv("KAFKA_BROKER", "localhost:9092"),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "order_events"),

		JWTSecret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),

		AdminName:     getEnv("ADMIN_NAME", "Admin User"),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),

		VATRate:               getEnvFloat("VAT_RATE", 0.13),
		LowStockThreshold:     getEnvInt("LOW_STOCK_THRESHOLD", 5),
		FreeShippingThreshold: getEnvFloat("FREE_SHIPPING_THRESHOLD", 150000),
		ShippingFee:           getEnvFloat("SHIPPING_FEE", 2000),
		PromoCodes: map[string]float64{
			"LAPTOP10":  0.10,
			"FREESHIP":  0.05,
			"STUDENT15": 0.15,
			"NEWUSER20": 0.20,
		},

		EsewaMerchantCode: getEnv("ESEWA_MERCHANT_CODE", "EPAYTEST"),
		EsewaBaseURL:      getEnv("ESEWA_BASE_URL", "https://uat.esewa.com.np"),
		KhaltiSecretKey:   getEnv("KHALTI_SECRET_KEY", ""),
		KhaltiBaseURL:     getEnv("KHALTI_BASE_URL", "https://a.khalti.com"),
		ReturnBaseURL:     getEnv("RETURN_BASE_URL", "http://localhost:3000"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
