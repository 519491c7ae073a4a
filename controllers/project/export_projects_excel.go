package projectControllers

import (
	"net/http"

	"github.com/devamlabs/marketplace-api/models"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// GET /admin/projects/export
func ExportProjectsToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var projects []models.Project
		if err := db.Preload("Category").Find(&projects).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch projects"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Projects")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		headers := []string{
			"ID", "Title", "Slug", "Description", "Price", "CategoryID",
			"Tags", "DeliveryType", "DownloadURL", "DemoVideoURL", "IsActive",
			"CreatedAt", "UpdatedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, p := range projects {
			row := sheet.AddRow()
			row.AddCell().SetValue(p.ID)
			row.AddCell().SetValue(p.Title)
			row.AddCell().SetValue(p.Slug)
			row.AddCell().SetValue(p.Description)
			row.AddCell().SetValue(p.Price.StringFixed(2))
			row.AddCell().SetValue(p.CategoryID)
			row.AddCell().SetValue(p.Tags)
			row.AddCell().SetValue(string(p.DeliveryType))
			row.AddCell().SetValue(p.DownloadURL)
			row.AddCell().SetValue(p.DemoVideoURL)
			row.AddCell().SetValue(p.IsActive)
			row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
			row.AddCell().SetValue(p.UpdatedAt.Format("2006-01-02 15:04:05"))
		}

		c.Header("Content-Disposition", "attachment; filename=projects.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}
