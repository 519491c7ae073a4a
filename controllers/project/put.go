package projectControllers

import (
	"net/http"
	"strconv"

	"github.com/devamlabs/marketplace-api/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PUT /admin/projects/:id
// All form fields are optional; only provided values change.
func UpdateProject(db *gorm.DB, uploadsDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
			return
		}

		var project models.Project
		if err := db.Preload("Category").First(&project, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}

		if v := c.PostForm("title"); v != "" {
			project.Title = v
		}
		if v := c.PostForm("slug"); v != "" {
			project.Slug = models.Slugify(v)
		}
		if v := c.PostForm("description"); v != "" {
			project.Description = v
		}
		if v := c.PostForm("tags"); v != "" {
			project.Tags = v
		}
		if v := c.PostForm("meta_description"); v != "" {
			project.MetaDescription = v
		}
		if v := c.PostForm("featured_image_url"); v != "" {
			project.FeaturedImageURL = v
		}
		if v := c.PostForm("demo_video_url"); v != "" {
			project.DemoVideoURL = v
		}
		if v := c.PostForm("download_url"); v != "" {
			project.DownloadURL = v
		}
		if v := c.PostForm("price"); v != "" {
			price, err := decimal.NewFromString(v)
			if err != nil || price.IsNegative() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
				return
			}
			project.Price = price
		}
		if v := c.PostForm("category_id"); v != "" {
			categoryID, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_id"})
				return
			}
			var category models.Category
			if err := db.First(&category, categoryID).Error; err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Category does not exist"})
				return
			}
			project.CategoryID = uint(categoryID)
		}
		if v := c.PostForm("delivery_type"); v != "" {
			switch models.DeliveryType(v) {
			case models.DeliveryTypeDownload, models.DeliveryTypeEmail, models.DeliveryTypePhysical:
				project.DeliveryType = models.DeliveryType(v)
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid delivery_type"})
				return
			}
		}

		if imageURL, err := saveUploadedImage(c, "image", uploadsDir, "projects"); err == nil {
			project.FeaturedImage = imageURL
		}

		if err := db.Save(&project).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
			return
		}
		c.JSON(http.StatusOK, project)
	}
}

// PUT /admin/projects/:id/toggle
// Flips a project in or out of the public catalog.
func ToggleProjectStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var project models.Project
		if err := db.First(&project, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}

		project.IsActive = !project.IsActive
		if err := db.Save(&project).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle project status"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": project.ID, "is_active": project.IsActive})
	}
}
