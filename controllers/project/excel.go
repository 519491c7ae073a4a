package projectControllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/devamlabs/marketplace-api/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// POST /admin/projects/import
// Columns: ID, Title, Slug, Description, Price, CategoryID, Tags,
// DeliveryType, DownloadURL, DemoVideoURL, IsActive.
// A row with an existing ID updates that project; otherwise a new one is
// created. Malformed rows are skipped, not fatal.
func ImportProjectsFromExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse Excel file"})
			return
		}

		if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is empty or missing header row"})
			return
		}

		sheet := xlFile.Sheets[0]
		createdCount, updatedCount, skippedCount := 0, 0, 0

		for i := 1; i < sheet.MaxRow; i++ {
			row := sheet.Rows[i]

			get := func(index int) string {
				if index < len(row.Cells) {
					return strings.TrimSpace(row.Cells[index].String())
				}
				return ""
			}

			idStr := get(0)
			title := get(1)
			slug := get(2)
			description := get(3)
			price, priceErr := decimal.NewFromString(get(4))
			categoryID, catErr := strconv.Atoi(get(5))
			tags := get(6)
			deliveryType := models.DeliveryType(get(7))
			downloadURL := get(8)
			demoVideoURL := get(9)
			isActive := !strings.EqualFold(get(10), "false")

			if title == "" || priceErr != nil || catErr != nil {
				skippedCount++
				continue
			}
			switch deliveryType {
			case models.DeliveryTypeDownload, models.DeliveryTypeEmail, models.DeliveryTypePhysical:
			case "":
				deliveryType = models.DeliveryTypeDownload
			default:
				skippedCount++
				continue
			}
			if slug == "" {
				slug = models.Slugify(title)
			}

			project := models.Project{
				Title:        title,
				Slug:         slug,
				Description:  description,
				Price:        price,
				CategoryID:   uint(categoryID),
				Tags:         tags,
				DeliveryType: deliveryType,
				DownloadURL:  downloadURL,
				DemoVideoURL: demoVideoURL,
				IsActive:     isActive,
				CreatedByID:  c.GetUint("user_id"),
			}

			if idStr != "" {
				if id, err := strconv.Atoi(idStr); err == nil {
					var existing models.Project
					if err := db.First(&existing, id).Error; err == nil {
						existing.Title = project.Title
						existing.Slug = project.Slug
						existing.Description = project.Description
						existing.Price = project.Price
						existing.CategoryID = project.CategoryID
						existing.Tags = project.Tags
						existing.DeliveryType = project.DeliveryType
						existing.DownloadURL = project.DownloadURL
						existing.DemoVideoURL = project.DemoVideoURL
						existing.IsActive = project.IsActive

						if err := db.Save(&existing).Error; err == nil {
							updatedCount++
							continue
						}
					}
				}
			}

			if err := db.Create(&project).Error; err == nil {
				createdCount++
			} else {
				skippedCount++
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Import completed",
			"created_count": createdCount,
			"updated_count": updatedCount,
			"skipped_count": skippedCount,
		})
	}
}
