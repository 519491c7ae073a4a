package routes

import (
	checkoutControllers "github.com/devamlabs/marketplace-api/controllers/checkout"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Config carries the wiring every route group may need.
type Config struct {
	DB            *gorm.DB
	Gateway       checkoutControllers.PaymentGateway
	WebhookSecret string
	UploadsDir    string
}

// SetupRoutes is the single entry point that wires up all route groups.
func SetupRoutes(r *gin.Engine, cfg Config) {
	// Public auth routes (no middleware)
	SetupAuthRoutes(r, cfg)

	// Public catalog + anonymous carts
	SetupCatalogRoutes(r, cfg)

	// User routes (JWT-protected)
	SetupUserRoutes(r, cfg)

	// Payment gateway callback
	SetupPaymentRoutes(r, cfg)

	// Admin routes (JWT + admin capability)
	SetupAdminRoutes(r, cfg)
}
