package projectControllers

import (
	"net/http"

	"github.com/devamlabs/marketplace-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// POST /admin/categories
func CreateCategory(db *gorm.DB, uploadsDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.PostForm("name")
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}

		category := models.Category{
			Name:        name,
			Slug:        models.Slugify(c.DefaultPostForm("slug", name)),
			Description: c.PostForm("description"),
			ImageURL:    c.PostForm("image_url"),
		}

		if imageURL, err := saveUploadedImage(c, "image", uploadsDir, "categories"); err == nil {
			category.Image = imageURL
		}

		if err := db.Create(&category).Error; err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Failed to create category"})
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

// GET /categories
func GetAllCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categories []models.Category
		if err := db.Order("name").Find(&categories).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

// GET /categories/:slug
// A category with its active projects.
func GetCategoryBySlug(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category models.Category
		if err := db.Preload("Projects", "is_active = ?", true).
			Where("slug = ?", c.Param("slug")).First(&category).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

// PUT /admin/categories/:id
func UpdateCategory(db *gorm.DB, uploadsDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category models.Category
		if err := db.First(&category, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}

		if v := c.PostForm("name"); v != "" {
			category.Name = v
		}
		if v := c.PostForm("slug"); v != "" {
			category.Slug = models.Slugify(v)
		}
		if v := c.PostForm("description"); v != "" {
			category.Description = v
		}
		if v := c.PostForm("image_url"); v != "" {
			category.ImageURL = v
		}
		if imageURL, err := saveUploadedImage(c, "image", uploadsDir, "categories"); err == nil {
			category.Image = imageURL
		}

		if err := db.Save(&category).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

// DELETE /admin/categories/:id
func DeleteCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category models.Category
		if err := db.First(&category, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}

		var count int64
		db.Model(&models.Project{}).Where("category_id = ?", category.ID).Count(&count)
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Category still has projects"})
			return
		}

		if err := db.Delete(&category).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
	}
}
