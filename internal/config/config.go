package config

import (
	"os"
	"strconv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort     int
	DatabasePath   string
	ImageDir       string // Directory where uploaded images are stored
	JWTSecret      string
	PostsPerPage   int    // Page size for the post feed
	ImageSweepCron string // Schedule for the orphaned-image sweeper
	AllowedOrigins []string
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, err
	}

	perPage, err := strconv.Atoi(getEnv("POSTS_PER_PAGE", "2"))
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:     port,
		DatabasePath:   getEnv("DATABASE_PATH", "./postboard.db"),
		ImageDir:       getEnv("IMAGE_DIR", "./images"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		PostsPerPage:   perPage,
		ImageSweepCron: getEnv("IMAGE_SWEEP_CRON", "@hourly"),
		AllowedOrigins: []string{getEnv("ALLOWED_ORIGIN", "http://localhost:3000")},
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
