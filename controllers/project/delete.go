package projectControllers

import (
	"net/http"

	"github.com/devamlabs/marketplace-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DELETE /admin/projects/:id
// Soft delete; historical order items keep their frozen title and price.
func DeleteProject(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Project ID is required"})
			return
		}

		var project models.Project
		if err := db.First(&project, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectImage{}).Error; err != nil {
				return err
			}
			return tx.Delete(&project).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
	}
}
