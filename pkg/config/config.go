package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	GitHub   GitHubConfig
	Sync     SyncConfig
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	URI  string
	Name string
}

type GitHubConfig struct {
	Token         string
	WebhookSecret string
	GraphQLURL    string
}

type SyncConfig struct {
	LookbackMonths      int
	UpdateIntervalHours int
	StaleAfterDays      int
	PageSize            int
}

var AppConfig *Config

// Load loads configuration from .env file and environment variables
func Load() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Mode: getEnv("GIN_MODE", "release"),
		},
		Database: DatabaseConfig{
			URI:  getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Name: getEnv("MONGODB_DATABASE", "contribsync"),
		},
		GitHub: GitHubConfig{
			Token:         getEnv("GITHUB_TOKEN", ""),
			WebhookSecret: getEnv("GITHUB_WEBHOOK_SECRET", ""),
			GraphQLURL:    getEnv("GITHUB_GRAPHQL_URL", "https://api.github.com/graphql"),
		},
		Sync: SyncConfig{
			LookbackMonths:      getEnvAsInt("SYNC_LOOKBACK_MONTHS", 6),
			UpdateIntervalHours: getEnvAsInt("SYNC_UPDATE_INTERVAL_HOURS", 24),
			StaleAfterDays:      getEnvAsInt("SYNC_STALE_AFTER_DAYS", 15),
			PageSize:            getEnvAsInt("SYNC_PAGE_SIZE", 100),
		},
	}

	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
