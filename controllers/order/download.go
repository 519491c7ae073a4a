package orderControllers

import (
	"net/http"
	"path/filepath"

	"github.com/devamlabs/marketplace-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RecordDownload checks eligibility and, only if every condition holds,
// increments the download counter and appends one download log entry. The
// whole gate runs on a fresh row inside one transaction, and the counter
// update stays conditional on download_count < max_downloads so parallel
// requests cannot push an item past its limit. On success item is refreshed
// to the row that was actually served.
func RecordDownload(db *gorm.DB, item *models.OrderItem, userID uint, ip, userAgent string) (bool, error) {
	allowed := false
	err := db.Transaction(func(tx *gorm.DB) error {
		var current models.OrderItem
		if err := tx.First(&current, item.ID).Error; err != nil {
			return err
		}
		if !current.CanDownload() {
			return nil
		}
		if current.DeliveryFile == "" && current.DeliveryURL == "" {
			return nil
		}

		result := tx.Model(&models.OrderItem{}).
			Where("id = ? AND download_count < max_downloads", current.ID).
			Update("download_count", gorm.Expr("download_count + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		entry := models.DownloadLog{
			OrderItemID: current.ID,
			UserID:      userID,
			IPAddress:   ip,
			UserAgent:   userAgent,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		*item = current
		allowed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return allowed, nil
}

// GET /user/orders/:orderID/items/:itemID/download
// Serves the purchased asset as an attachment, or redirects to the external
// delivery URL. Denied requests leave the counter and the logs untouched.
func DownloadItemHandler(db *gorm.DB, uploadsDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")
		orderUUID := c.Param("orderID")
		itemID := c.Param("itemID")

		var item models.OrderItem
		if err := db.
			Joins("JOIN orders ON orders.id = order_items.order_id").
			Where("order_items.id = ? AND orders.order_id = ? AND orders.user_id = ?", itemID, orderUUID, userID).
			First(&item).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order item not found"})
			return
		}

		allowed, err := RecordDownload(db, &item, userID, c.ClientIP(), c.Request.UserAgent())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record download"})
			return
		}
		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{"error": "Download not available or limit exceeded"})
			return
		}

		if item.DeliveryFile != "" {
			path := filepath.Join(uploadsDir, filepath.FromSlash(item.DeliveryFile))
			c.FileAttachment(path, item.ProjectTitle+filepath.Ext(path))
			return
		}
		c.Redirect(http.StatusFound, item.DeliveryURL)
	}
}
