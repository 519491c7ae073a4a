package routes

import (
	"github.com/devamlabs/marketplace-api/auth"
	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes registers all "/auth/*" endpoints.
func SetupAuthRoutes(r *gin.Engine, cfg Config) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", auth.Register(cfg.DB))
		authGroup.POST("/login", auth.Login(cfg.DB))
		authGroup.POST("/guest", auth.CreateGuestSession())
	}
}
