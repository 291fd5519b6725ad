package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/pageza/fitplate/backend/internal/similarity"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort     string
	ServerHost     string
	AllowedOrigins []string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Signing secret shared with the identity provider
	JWTSecret string

	// USDA FoodData Central
	FDCAPIKey  string
	FDCBaseURL string

	// Exercise catalog
	ExerciseDBBaseURL   string
	ExerciseDBAPIKey    string
	CatalogSyncSchedule string

	// Stock photography and storage
	PexelsAPIKey  string
	PexelsBaseURL string
	S3Bucket      string
	AWSRegion     string

	// Plan generation
	LLMAPIKey string
	LLMAPIURL string
	LLMModel  string

	// MCP tools endpoint
	MCPPort       string
	MCPAPIKeyHash string

	// Alternative exercise ranking
	Similarity similarity.Weights
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	switch env {
	case Development, Test:
		// A missing .env is normal outside local checkouts
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	case CI, Production:
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	cfg := &Config{}
	if err := load(cfg, env); err != nil {
		return nil, fmt.Errorf("failed to load %s configuration: %w", env, err)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	log.Printf("Loaded %s configuration", env)
	return cfg, nil
}

func load(cfg *Config, env Environment) error {
	// Production reads sensitive values from Docker secrets first; everywhere
	// else the environment wins and secrets are a fallback.
	secret := func(envKey, secretName string) string {
		if env == Production {
			return firstNonEmpty(readSecret(secretName), os.Getenv(envKey))
		}
		return firstNonEmpty(os.Getenv(envKey), readSecret(secretName))
	}

	cfg.ServerPort = getEnv("SERVER_PORT", "8080")
	cfg.ServerHost = getEnv("SERVER_HOST", "0.0.0.0")
	cfg.AllowedOrigins = splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173"))

	cfg.DBHost = getEnv("DB_HOST", "localhost")
	cfg.DBPort = getEnv("DB_PORT", "5432")
	cfg.DBUser = secret("DB_USER", "db_user")
	cfg.DBPassword = secret("DB_PASSWORD", "db_password")
	cfg.DBName = getEnv("DB_NAME", "fitplate")
	cfg.DBSSLMode = getEnv("DB_SSL_MODE", "disable")

	cfg.RedisHost = getEnv("REDIS_HOST", "localhost")
	cfg.RedisPort = getEnv("REDIS_PORT", "6379")
	cfg.RedisPassword = secret("REDIS_PASSWORD", "redis_password")
	cfg.RedisURL = secret("REDIS_URL", "redis_url")
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cfg.RedisDB = redisDB

	cfg.JWTSecret = secret("JWT_SECRET", "jwt_secret")

	cfg.FDCAPIKey = secret("FDC_API_KEY", "fdc_api_key")
	cfg.FDCBaseURL = os.Getenv("FDC_BASE_URL")

	cfg.ExerciseDBBaseURL = getEnv("EXERCISEDB_BASE_URL", "https://exercisedb-api.vercel.app/api/v1")
	cfg.ExerciseDBAPIKey = secret("EXERCISEDB_API_KEY", "exercisedb_api_key")
	cfg.CatalogSyncSchedule = getEnv("CATALOG_SYNC_SCHEDULE", "@every 24h")

	cfg.PexelsAPIKey = secret("PEXELS_API_KEY", "pexels_api_key")
	cfg.PexelsBaseURL = getEnv("PEXELS_BASE_URL", "https://api.pexels.com/v1")
	cfg.S3Bucket = os.Getenv("S3_BUCKET_NAME")
	cfg.AWSRegion = getEnv("AWS_REGION", "us-east-1")

	cfg.LLMAPIKey = secret("LLM_API_KEY", "llm_api_key")
	cfg.LLMAPIURL = getEnv("LLM_API_URL", "https://api.deepseek.com/v1/chat/completions")
	cfg.LLMModel = getEnv("LLM_MODEL", "deepseek-chat")

	cfg.MCPPort = getEnv("MCP_PORT", "8090")
	cfg.MCPAPIKeyHash = secret("MCP_API_KEY_HASH", "mcp_api_key_hash")

	weights, err := loadSimilarityWeights()
	if err != nil {
		return err
	}
	cfg.Similarity = weights

	return nil
}

// loadSimilarityWeights applies SIMILARITY_* overrides to the default weights.
func loadSimilarityWeights() (similarity.Weights, error) {
	w := similarity.DefaultWeights
	overrides := []struct {
		key string
		dst *float64
	}{
		{"SIMILARITY_MUSCLE_WEIGHT", &w.Muscle},
		{"SIMILARITY_BODY_PART_WEIGHT", &w.BodyPart},
		{"SIMILARITY_EQUIPMENT_WEIGHT", &w.Equipment},
		{"SIMILARITY_THRESHOLD", &w.Threshold},
	}
	for _, o := range overrides {
		raw := os.Getenv(o.key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return w, fmt.Errorf("invalid %s: %w", o.key, err)
		}
		*o.dst = v
	}
	return w, nil
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// DSN returns the Postgres connection string for the configured database.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}
