package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("DB_PASSWORD", "postgres")
	t.Setenv("DB_NAME", "fitplate")
	t.Setenv("DB_SSL_MODE", "disable")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
}

func TestLoadConfig(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("FDC_API_KEY", "fdc-key")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "postgres", cfg.DBUser)
	assert.Equal(t, "postgres", cfg.DBPassword)
	assert.Equal(t, "fitplate", cfg.DBName)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.Equal(t, "fdc-key", cfg.FDCAPIKey)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "@every 24h", cfg.CatalogSyncSchedule)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Equal(t, 50.0, cfg.Similarity.Muscle)
	assert.Equal(t, 30.0, cfg.Similarity.BodyPart)
	assert.Equal(t, 20.0, cfg.Similarity.Equipment)
	assert.Equal(t, 20.0, cfg.Similarity.Threshold)
}

func TestLoadConfig_SecretsFallback(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("FDC_API_KEY", "")

	dir := os.Getenv("SECRETS_DIR")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "db_password"), []byte("from-secret\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fdc_api_key"), []byte("fdc-secret"), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-secret", cfg.DBPassword)
	assert.Equal(t, "fdc-secret", cfg.FDCAPIKey)
}

func TestLoadConfig_ProductionPrefersSecrets(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ENV", "production")
	t.Setenv("FDC_API_KEY", "env-fdc")
	t.Setenv("LLM_API_KEY", "env-llm")

	dir := os.Getenv("SECRETS_DIR")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jwt_secret"), []byte("secret-jwt"), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "secret-jwt", cfg.JWTSecret)
	assert.Equal(t, "env-fdc", cfg.FDCAPIKey)
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_PASSWORD", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "DB_PASSWORD")
}

func TestLoadConfig_ProductionRequiresKeys(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ENV", "production")
	t.Setenv("FDC_API_KEY", "")
	t.Setenv("LLM_API_KEY", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FDC_API_KEY")
	assert.Contains(t, err.Error(), "LLM_API_KEY")
}

func TestLoadConfig_SimilarityOverrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SIMILARITY_MUSCLE_WEIGHT", "60")
	t.Setenv("SIMILARITY_EQUIPMENT_WEIGHT", "10")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 60.0, cfg.Similarity.Muscle)
	assert.Equal(t, 30.0, cfg.Similarity.BodyPart)
	assert.Equal(t, 10.0, cfg.Similarity.Equipment)

	t.Setenv("SIMILARITY_THRESHOLD", "abc")
	_, err = LoadConfig()
	assert.Error(t, err)

	t.Setenv("SIMILARITY_THRESHOLD", "500")
	_, err = LoadConfig()
	assert.ErrorContains(t, err, "SIMILARITY_THRESHOLD")
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "")
	assert.Equal(t, Development, GetEnvironment())

	t.Setenv("ENV", "Production")
	assert.Equal(t, Production, GetEnvironment())
	assert.True(t, IsProduction())

	t.Setenv("CI", "true")
	assert.Equal(t, CI, GetEnvironment())
}
