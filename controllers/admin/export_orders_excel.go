package adminControllers

import (
	"net/http"

	"github.com/devamlabs/marketplace-api/models"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// GET /admin/orders/export
// One row per order, for offline sales reporting.
func ExportOrdersToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Items").Preload("User").Order("created_at DESC")
		if status := c.Query("status"); status != "" && status != "all" {
			query = query.Where("status = ?", status)
		}

		var orders []models.Order
		if err := query.Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Orders")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		headers := []string{
			"OrderID", "Customer", "Email", "TotalAmount", "Status",
			"PaymentStatus", "Items", "City", "Country", "CreatedAt", "CompletedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, o := range orders {
			row := sheet.AddRow()
			row.AddCell().SetValue(o.OrderID)
			row.AddCell().SetValue(o.CustomerName)
			row.AddCell().SetValue(o.CustomerEmail)
			row.AddCell().SetValue(o.TotalAmount.StringFixed(2))
			row.AddCell().SetValue(string(o.Status))
			row.AddCell().SetValue(string(o.PaymentStatus))
			row.AddCell().SetValue(o.TotalItems())
			row.AddCell().SetValue(o.Delivery.City)
			row.AddCell().SetValue(o.Delivery.Country)
			row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
			if o.CompletedAt != nil {
				row.AddCell().SetValue(o.CompletedAt.Format("2006-01-02 15:04:05"))
			} else {
				row.AddCell().SetValue("")
			}
		}

		c.Header("Content-Disposition", "attachment; filename=orders.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}
