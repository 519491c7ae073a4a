package orderControllers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/devamlabs/marketplace-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var unsafeFilenameChars = regexp.MustCompile(`[^\w\d\-_\.]`)

type UpdateDeliveryRequest struct {
	DeliveryStatus  string     `json:"delivery_status"`
	DeliveryURL     string     `json:"delivery_url"`
	MaxDownloads    *int       `json:"max_downloads"`
	AccessExpiresAt *time.Time `json:"access_expires_at"`
}

// PUT /admin/order-items/:itemID/delivery
// Sets the delivery URL, limits and status on one line item.
func UpdateItemDeliveryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID := c.Param("itemID")

		var item models.OrderItem
		if err := db.First(&item, itemID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order item not found"})
			return
		}

		var req UpdateDeliveryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if req.DeliveryStatus != "" {
			switch models.DeliveryStatus(req.DeliveryStatus) {
			case models.DeliveryStatusPending, models.DeliveryStatusProcessing,
				models.DeliveryStatusDelivered, models.DeliveryStatusFailed:
				item.DeliveryStatus = models.DeliveryStatus(req.DeliveryStatus)
				if item.DeliveryStatus == models.DeliveryStatusDelivered && item.DeliveredAt == nil {
					now := time.Now()
					item.DeliveredAt = &now
				}
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid delivery status"})
				return
			}
		}
		if req.DeliveryURL != "" {
			item.DeliveryURL = req.DeliveryURL
		}
		if req.MaxDownloads != nil {
			if *req.MaxDownloads < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "max_downloads must be at least 1"})
				return
			}
			item.MaxDownloads = *req.MaxDownloads
		}
		if req.AccessExpiresAt != nil {
			item.AccessExpiresAt = req.AccessExpiresAt
		}

		if err := db.Save(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update delivery"})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// POST /admin/order-items/:itemID/delivery-file
// Uploads the deliverable for one line item and marks it delivered.
func UploadDeliveryFileHandler(db *gorm.DB, uploadsDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID := c.Param("itemID")

		var item models.OrderItem
		if err := db.First(&item, itemID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order item not found"})
			return
		}

		file, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
			return
		}

		cleanName := unsafeFilenameChars.ReplaceAllString(file.Filename, "_")
		filename := fmt.Sprintf("%d_%s", time.Now().Unix(), cleanName)

		saveDir := filepath.Join(uploadsDir, "deliveries")
		if err := os.MkdirAll(saveDir, os.ModePerm); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to create upload folder: %v", err)})
			return
		}
		if err := c.SaveUploadedFile(file, filepath.Join(saveDir, filename)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to save file: %v", err)})
			return
		}

		now := time.Now()
		item.DeliveryFile = "deliveries/" + filename
		item.DeliveryStatus = models.DeliveryStatusDelivered
		item.DeliveredAt = &now

		if err := db.Save(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order item"})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// GET /admin/order-items/:itemID/download-logs
// Download audit trail for one line item.
func GetItemDownloadLogsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, err := strconv.ParseUint(c.Param("itemID"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
			return
		}

		var logs []models.DownloadLog
		if err := db.Where("order_item_id = ?", itemID).
			Order("downloaded_at DESC").
			Find(&logs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch download logs"})
			return
		}
		c.JSON(http.StatusOK, logs)
	}
}
