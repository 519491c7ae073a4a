package routes

import (
	adminControllers "github.com/devamlabs/marketplace-api/controllers/admin"
	cartControllers "github.com/devamlabs/marketplace-api/controllers/cart"
	checkoutControllers "github.com/devamlabs/marketplace-api/controllers/checkout"
	orderControllers "github.com/devamlabs/marketplace-api/controllers/order"
	projectControllers "github.com/devamlabs/marketplace-api/controllers/project"
	"github.com/devamlabs/marketplace-api/middleware"
	"github.com/gin-gonic/gin"
)

// SetupAdminRoutes registers the back-office API. Every endpoint here
// requires a valid token carrying the admin capability.
func SetupAdminRoutes(r *gin.Engine, cfg Config) {
	admin := r.Group("/admin")
	admin.Use(middleware.ValidateToken, middleware.RequireAdmin)
	{
		admin.GET("/dashboard", adminControllers.GetDashboard(cfg.DB))
		admin.GET("/users", adminControllers.GetAllUsers(cfg.DB))
		admin.GET("/users/:user_id/cart", cartControllers.GetAdminUserCart(cfg.DB))

		admin.GET("/orders", orderControllers.GetAllOrdersHandler(cfg.DB))
		admin.PUT("/orders/:orderID/status", orderControllers.UpdateOrderStatusHandler(cfg.DB))
		admin.PUT("/orders/:orderID/payment-status", orderControllers.UpdatePaymentStatusHandler(cfg.DB))
		admin.POST("/orders/:orderID/reconcile", checkoutControllers.ReconcileOrderHandler(cfg.DB, cfg.Gateway))
		admin.GET("/orders/export", adminControllers.ExportOrdersToExcel(cfg.DB))
		admin.GET("/orders/ws", orderControllers.OrderWebSocketHandler)

		admin.PUT("/order-items/:itemID/delivery", orderControllers.UpdateItemDeliveryHandler(cfg.DB))
		admin.POST("/order-items/:itemID/delivery-file", orderControllers.UploadDeliveryFileHandler(cfg.DB, cfg.UploadsDir))
		admin.GET("/order-items/:itemID/download-logs", orderControllers.GetItemDownloadLogsHandler(cfg.DB))

		admin.GET("/projects", projectControllers.GetAllProjectsAdmin(cfg.DB))
		admin.POST("/projects", projectControllers.CreateProject(cfg.DB, cfg.UploadsDir))
		admin.PUT("/projects/:id", projectControllers.UpdateProject(cfg.DB, cfg.UploadsDir))
		admin.PUT("/projects/:id/toggle", projectControllers.ToggleProjectStatus(cfg.DB))
		admin.DELETE("/projects/:id", projectControllers.DeleteProject(cfg.DB))
		admin.POST("/projects/:id/images", projectControllers.AddProjectImage(cfg.DB, cfg.UploadsDir))
		admin.DELETE("/project-images/:imageID", projectControllers.DeleteProjectImage(cfg.DB, cfg.UploadsDir))
		admin.POST("/projects/import", projectControllers.ImportProjectsFromExcel(cfg.DB))
		admin.GET("/projects/export", projectControllers.ExportProjectsToExcel(cfg.DB))

		admin.POST("/categories", projectControllers.CreateCategory(cfg.DB, cfg.UploadsDir))
		admin.PUT("/categories/:id", projectControllers.UpdateCategory(cfg.DB, cfg.UploadsDir))
		admin.DELETE("/categories/:id", projectControllers.DeleteCategory(cfg.DB))
	}
}
