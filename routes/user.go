package routes

import (
	checkoutControllers "github.com/devamlabs/marketplace-api/controllers/checkout"
	orderControllers "github.com/devamlabs/marketplace-api/controllers/order"
	userControllers "github.com/devamlabs/marketplace-api/controllers/user"
	"github.com/devamlabs/marketplace-api/middleware"
	"github.com/gin-gonic/gin"
)

// SetupUserRoutes registers everything a logged-in customer can do:
// profile, checkout and their own orders.
func SetupUserRoutes(r *gin.Engine, cfg Config) {
	user := r.Group("/user")
	user.Use(middleware.ValidateToken)
	{
		user.GET("/profile", userControllers.GetUser(cfg.DB))
		user.PUT("/profile", userControllers.UpdateUser(cfg.DB))

		user.POST("/checkout/address", checkoutControllers.SaveAddressHandler(cfg.DB))
		user.POST("/checkout/order", checkoutControllers.CreateOrderHandler(cfg.DB, cfg.Gateway))

		user.GET("/orders", orderControllers.GetUserOrdersHandler(cfg.DB))
		user.GET("/orders/:orderID", orderControllers.GetOrderByIDHandler(cfg.DB))
		user.GET("/orders/:orderID/track", orderControllers.TrackOrderHandler(cfg.DB))
		user.GET("/orders/:orderID/items/:itemID/download", orderControllers.DownloadItemHandler(cfg.DB, cfg.UploadsDir))
	}
}
