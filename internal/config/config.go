package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort int

	DBDriver         string
	DBDataSourceName string
	MigrationsDir    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SessionTTL        time.Duration
	BcryptCost        int
	LowStockSweepTime time.Duration
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: no .env file loaded, using environment variables")
	}

	config := &Config{}

	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.ServerPort = p
		}
	}
	if config.ServerPort == 0 {
		config.ServerPort = 8080
	}

	config.DBDriver = "postgres"

	dbHost := getEnvOrDefault("BOOKSTORE_DB_HOST", "localhost")
	dbPort := getEnvOrDefault("BOOKSTORE_DB_PORT", "5432")
	dbName := getEnvOrDefault("BOOKSTORE_DB_DATABASE", "bookstore")
	dbUser := getEnvOrDefault("BOOKSTORE_DB_USERNAME", "postgres")
	dbPassword := getEnvOrDefault("BOOKSTORE_DB_PASSWORD", "postgres")

	config.DBDataSourceName = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPassword, dbHost, dbPort, dbName)
	config.MigrationsDir = getEnvOrDefault("MIGRATIONS_DIR", "migrations")

	redisHost := getEnvOrDefault("BOOKSTORE_REDIS_HOST", "localhost")
	redisPort := getEnvOrDefault("BOOKSTORE_REDIS_PORT", "6379")
	config.RedisAddr = fmt.Sprintf("%s:%s", redisHost, redisPort)
	config.RedisPassword = os.Getenv("BOOKSTORE_REDIS_PASSWORD")
	if db := os.Getenv("BOOKSTORE_REDIS_DB"); db != "" {
		if n, err := strconv.Atoi(db); err == nil {
			config.RedisDB = n
		}
	}

	config.SessionTTL = getDurationOrDefault("SESSION_TTL", 24*time.Hour)
	config.LowStockSweepTime = getDurationOrDefault("LOW_STOCK_SWEEP_INTERVAL", time.Hour)

	config.BcryptCost = 10
	if cost := os.Getenv("BCRYPT_COST"); cost != "" {
		if n, err := strconv.Atoi(cost); err == nil && n >= 4 && n <= 31 {
			config.BcryptCost = n
		}
	}

	return config, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
