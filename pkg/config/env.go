package config

import (
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoadEnv loads environment variables from .env.local if APP_ENV is "local"
func LoadEnv() {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "development" // Default to development if not set
		os.Setenv("APP_ENV", appEnv)
	}

	if appEnv == "local" {
		err := godotenv.Load(".env.local") // Assumes .env.local exists in root or where app is run
		if err != nil {
			log.Printf("Warning: .env.local file not found, or error loading: %v. Relying on system environment variables.", err)
		} else {
			log.Println("Loaded .env.local for local development.")
		}
	} else {
		log.Printf("Running in %s environment. Not loading .env.local.", appEnv)
	}
}

// Config holds the environment-supplied settings shared by the
// function binaries. Nothing in here is mutated after Load.
type Config struct {
	LogLevel slog.Level

	ContentfulBaseURL            string
	ContentfulSpaceID            string
	ContentfulAccessToken        string
	ContentfulPreviewAccessToken string

	CourierBaseURL   string
	CourierAuthToken string

	RedisAddr string

	SummaryPageSize int
	RecentListSize  int
	HTTPTimeout     time.Duration
}

// Load reads configuration from the environment, applying defaults for
// everything except credentials and the CMS space identifier.
func Load() Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("CONTENTFUL_BASE_URL", "https://graphql.contentful.com/content/v1/spaces")
	v.SetDefault("COURIER_BASE_URL", "https://api.courier.com")
	v.SetDefault("PAGE_SIZE", 2)
	v.SetDefault("RECENT_LIST_SIZE", 3)
	v.SetDefault("HTTP_TIMEOUT_SECONDS", 10)
	v.SetDefault("LOG_LEVEL", "info")

	return Config{
		LogLevel:                     parseLogLevel(v.GetString("LOG_LEVEL")),
		ContentfulBaseURL:            v.GetString("CONTENTFUL_BASE_URL"),
		ContentfulSpaceID:            v.GetString("CONTENTFUL_SPACE_ID"),
		ContentfulAccessToken:        v.GetString("CONTENTFUL_ACCESS_TOKEN"),
		ContentfulPreviewAccessToken: v.GetString("CONTENTFUL_PREVIEW_ACCESS_TOKEN"),
		CourierBaseURL:               v.GetString("COURIER_BASE_URL"),
		CourierAuthToken:             v.GetString("COURIER_AUTH_TOKEN"),
		RedisAddr:                    v.GetString("REDIS_ADDR"),
		SummaryPageSize:              v.GetInt("PAGE_SIZE"),
		RecentListSize:               v.GetInt("RECENT_LIST_SIZE"),
		HTTPTimeout:                  time.Duration(v.GetInt("HTTP_TIMEOUT_SECONDS")) * time.Second,
	}
}

func parseLogLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
