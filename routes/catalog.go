package routes

import (
	cartControllers "github.com/devamlabs/marketplace-api/controllers/cart"
	projectControllers "github.com/devamlabs/marketplace-api/controllers/project"
	"github.com/devamlabs/marketplace-api/middleware"
	"github.com/gin-gonic/gin"
)

// SetupCatalogRoutes registers the public browse endpoints and the cart,
// which works for both logged-in users and anonymous sessions.
func SetupCatalogRoutes(r *gin.Engine, cfg Config) {
	projects := r.Group("/projects")
	{
		projects.GET("", projectControllers.GetProjects(cfg.DB))
		projects.GET("/:slug", projectControllers.GetProjectBySlug(cfg.DB))
	}

	categories := r.Group("/categories")
	{
		categories.GET("", projectControllers.GetAllCategories(cfg.DB))
		categories.GET("/:slug", projectControllers.GetCategoryBySlug(cfg.DB))
	}

	cart := r.Group("/cart")
	cart.Use(middleware.OptionalToken)
	{
		cart.GET("", cartControllers.GetCart(cfg.DB))
		cart.POST("", cartControllers.AddCartItem(cfg.DB))
		cart.PUT("/:project_id", cartControllers.UpdateCartItem(cfg.DB))
		cart.DELETE("/:project_id", cartControllers.DeleteCartItem(cfg.DB))
		cart.DELETE("", cartControllers.ClearCart(cfg.DB))
	}
}
