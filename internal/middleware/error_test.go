package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestErrorHandler(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/panic", func(c *gin.Context) { panic("boom") })
	router.GET("/error", func(c *gin.Context) {
		c.Status(http.StatusBadGateway)
		_ = c.Error(errors.New("upstream unavailable"))
	})
	router.GET("/unset", func(c *gin.Context) {
		_ = c.Error(errors.New("something broke"))
	})
	router.GET("/handled", func(c *gin.Context) {
		_ = c.Error(errors.New("ignored"))
		c.JSON(http.StatusBadRequest, gin.H{"error": "handled"})
	})

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{"/panic", http.StatusInternalServerError, `{"error":"Internal Server Error"}`},
		{"/error", http.StatusBadGateway, `{"error":"upstream unavailable"}`},
		{"/unset", http.StatusInternalServerError, `{"error":"something broke"}`},
		{"/handled", http.StatusBadRequest, `{"error":"handled"}`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}
