package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/fitplate/backend/internal/api"
	"github.com/pageza/fitplate/backend/internal/middleware"
)

// SetupRouter configures the application middleware and routes
func SetupRouter(allowedOrigins []string, services *api.Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), middleware.ErrorHandler())

	if len(allowedOrigins) > 0 {
		router.Use(middleware.CORS(allowedOrigins))
	}

	api.RegisterRoutes(router, services)
	return router
}
