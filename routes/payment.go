package routes

import (
	checkoutControllers "github.com/devamlabs/marketplace-api/controllers/checkout"
	"github.com/gin-gonic/gin"
)

// SetupPaymentRoutes registers the gateway-facing callback. It is
// unauthenticated on purpose: the HMAC signature in the form body is the
// proof of origin.
func SetupPaymentRoutes(r *gin.Engine, cfg Config) {
	r.POST("/payment/callback", checkoutControllers.PaymentCallbackHandler(cfg.DB, cfg.WebhookSecret))
}
