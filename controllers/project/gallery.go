package projectControllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/devamlabs/marketplace-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// POST /admin/projects/:id/images
// Attaches a gallery image, either uploaded or by external URL.
func AddProjectImage(db *gorm.DB, uploadsDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var project models.Project
		if err := db.First(&project, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}

		sortOrder, _ := strconv.Atoi(c.DefaultPostForm("sort_order", "0"))
		image := models.ProjectImage{
			ProjectID: project.ID,
			ImageURL:  c.PostForm("image_url"),
			AltText:   c.PostForm("alt_text"),
			SortOrder: sortOrder,
		}

		if uploaded, err := saveUploadedImage(c, "image", uploadsDir, "gallery"); err == nil {
			image.Image = uploaded
		}
		if image.Image == "" && image.ImageURL == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image file or image_url is required"})
			return
		}

		if err := db.Create(&image).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add gallery image"})
			return
		}
		c.JSON(http.StatusCreated, image)
	}
}

// DELETE /admin/project-images/:imageID
func DeleteProjectImage(db *gorm.DB, uploadsDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var image models.ProjectImage
		if err := db.First(&image, c.Param("imageID")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Gallery image not found"})
			return
		}

		if image.Image != "" {
			_ = os.Remove(filepath.Join(uploadsDir, "gallery", filepath.Base(image.Image)))
		}

		if err := db.Delete(&image).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete gallery image"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Gallery image deleted"})
	}
}
