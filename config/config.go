package config

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port int
	Host string
	Env  string // "development" or "production"

	// Data directory
	DataDir string

	// Database
	DatabasePath string

	// Model backend
	OpenAIAPIKey  string
	OpenAIBaseURL string

	// Model selection per synthesis kind. The fast model handles initial
	// generation, the quality model handles chat/theme/vision work, and the
	// analysis model handles snippet refactoring and full-stack projects.
	FastModel     string
	QualityModel  string
	AnalysisModel string
	ImageModel    string

	// History commit coalescing window for editor keystrokes and visual
	// style edits. Tunable, not a correctness property.
	CommitDebounce time.Duration

	// Auth settings
	AuthMode     string // "none" or "password"
	AuthPassword string
	JWTSecret    string

	// Debug settings
	LogLevel     string
	DBLogQueries bool
}

var (
	cfg  *Config
	once sync.Once
)

// Get returns the global configuration (singleton)
func Get() *Config {
	once.Do(func() {
		cfg = load()
	})
	return cfg
}

// load reads configuration from .env (if present) and environment variables
func load() *Config {
	_ = godotenv.Load()

	dataDir := getEnv("CODEZ_DATA_DIR", "./data")

	return &Config{
		// Server
		Port: getEnvInt("PORT", 8090),
		Host: getEnv("HOST", "0.0.0.0"),
		Env:  getEnv("ENV", "development"),

		// Data
		DataDir:      dataDir,
		DatabasePath: filepath.Join(dataDir, "codez.sqlite"),

		// Model backend
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),

		FastModel:     getEnv("CODEZ_FAST_MODEL", "gpt-4o-mini"),
		QualityModel:  getEnv("CODEZ_QUALITY_MODEL", "gpt-4o"),
		AnalysisModel: getEnv("CODEZ_ANALYSIS_MODEL", "gpt-4o"),
		ImageModel:    getEnv("CODEZ_IMAGE_MODEL", "dall-e-3"),

		CommitDebounce: getEnvDuration("CODEZ_COMMIT_DEBOUNCE", 450*time.Millisecond),

		// Auth
		AuthMode:     getEnv("CODEZ_AUTH_MODE", "none"),
		AuthPassword: getEnv("CODEZ_AUTH_PASSWORD", ""),
		JWTSecret:    getEnv("CODEZ_JWT_SECRET", ""),

		// Debug
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		DBLogQueries: getEnv("DB_LOG_QUERIES", "") == "1",
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env != "production"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
