package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/fitplate/backend/config"
	"github.com/pageza/fitplate/backend/internal/similarity"
	"github.com/pageza/fitplate/backend/internal/testhelpers"
)

func testConfig() *config.Config {
	return &config.Config{
		ServerHost:     "127.0.0.1",
		ServerPort:     "0",
		AllowedOrigins: []string{"http://localhost:5173"},
		JWTSecret:      "test-secret",
		Similarity:     similarity.DefaultWeights,
	}
}

func TestNew(t *testing.T) {
	db := testhelpers.SetupSQLite(t)

	srv := New(context.Background(), testConfig(), db, nil)
	require.NotNil(t, srv)

	// Optional integrations stay off without configuration
	assert.Nil(t, srv.services.PlanLimiter)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	srv := New(context.Background(), testConfig(), db, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/profile", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestStartAndShutdown(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	srv := New(context.Background(), testConfig(), db, nil)

	errChan := make(chan error, 1)
	go func() { errChan <- srv.Start() }()

	// Give the listener a moment before shutting it down
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, srv.Shutdown(context.Background()))

	select {
	case err := <-errChan:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
