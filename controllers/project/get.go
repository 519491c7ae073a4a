package projectControllers

import (
	"errors"
	"net/http"

	"github.com/devamlabs/marketplace-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GET /projects/:slug
// Returns an active project with its gallery, embeddable video URL, and a
// handful of related projects from the same category.
func GetProjectBySlug(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Param("slug")
		if slug == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Project slug is required"})
			return
		}

		var project models.Project
		if err := db.Preload("Category").Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order")
		}).Where("slug = ? AND is_active = ?", slug, true).First(&project).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
			}
			return
		}

		var related []models.Project
		db.Where("category_id = ? AND id != ? AND is_active = ?", project.CategoryID, project.ID, true).
			Order("created_at DESC").
			Limit(4).
			Find(&related)

		c.JSON(http.StatusOK, gin.H{
			"project":         project,
			"image_url":       project.DisplayImageURL(),
			"embed_video_url": project.EmbedVideoURL(),
			"tags":            project.TagList(),
			"related":         related,
		})
	}
}
