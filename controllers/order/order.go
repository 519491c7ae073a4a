package orderControllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/devamlabs/marketplace-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// -------- Request Structs --------

type UpdateOrderStatusRequest struct {
	Status     string `json:"status" binding:"required"`
	AdminNotes string `json:"admin_notes"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

// -------- Helpers --------

func mapOrderStatus(status string) (models.OrderStatus, error) {
	switch strings.ToLower(status) {
	case string(models.OrderStatusPending):
		return models.OrderStatusPending, nil
	case string(models.OrderStatusProcessing):
		return models.OrderStatusProcessing, nil
	case string(models.OrderStatusCompleted):
		return models.OrderStatusCompleted, nil
	case string(models.OrderStatusFailed):
		return models.OrderStatusFailed, nil
	case string(models.OrderStatusCancelled):
		return models.OrderStatusCancelled, nil
	case string(models.OrderStatusRefunded):
		return models.OrderStatusRefunded, nil
	default:
		return "", errors.New("invalid order status")
	}
}

func mapPaymentStatus(status string) (models.PaymentStatus, error) {
	switch strings.ToLower(status) {
	case string(models.PaymentStatusPending):
		return models.PaymentStatusPending, nil
	case string(models.PaymentStatusCompleted):
		return models.PaymentStatusCompleted, nil
	case string(models.PaymentStatusFailed):
		return models.PaymentStatusFailed, nil
	case string(models.PaymentStatusRefunded):
		return models.PaymentStatusRefunded, nil
	default:
		return "", errors.New("invalid payment status")
	}
}

// -------- Core Logic --------

// TransitionOrderStatus applies an administrative status change. Moving an
// order to completed also marks every line item delivered; the CompletedAt
// stamp is handled by the model hook and survives later transitions.
func TransitionOrderStatus(db *gorm.DB, orderUUID string, newStatus models.OrderStatus, adminNotes string) (*models.Order, error) {
	var order models.Order
	if err := db.Where("order_id = ?", orderUUID).First(&order).Error; err != nil {
		return nil, err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		order.Status = newStatus
		if adminNotes != "" {
			order.AdminNotes = adminNotes
		}
		if err := tx.Save(&order).Error; err != nil {
			return err
		}

		if newStatus == models.OrderStatusCompleted {
			now := time.Now()
			if err := tx.Model(&models.OrderItem{}).
				Where("order_id = ?", order.ID).
				Updates(map[string]interface{}{
					"delivery_status": models.DeliveryStatusDelivered,
					"delivered_at":    now,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := db.Preload("Items").First(&order, order.ID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// -------- Handlers --------

// GET /user/orders
func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")

		var orders []models.Order
		if err := db.
			Where("user_id = ?", userID).
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /user/orders/:orderID
// Owners see their own orders; admins see any.
func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderUUID := c.Param("orderID")

		var order models.Order
		if err := db.
			Preload("Items").
			Where("order_id = ?", orderUUID).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if order.UserID != c.GetUint("user_id") && !c.GetBool("is_admin") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

// GET /user/orders/:orderID/track
func TrackOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderUUID := c.Param("orderID")

		var order models.Order
		if err := db.Preload("Items").
			Where("order_id = ? AND user_id = ?", orderUUID, c.GetUint("user_id")).
			First(&order).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"order_id":       order.OrderID,
			"status":         order.Status,
			"payment_status": order.PaymentStatus,
			"created_at":     order.CreatedAt,
			"completed_at":   order.CompletedAt,
			"items":          order.Items,
		})
	}
}

// GET /admin/orders
// Supports status, payment_status, search and date-range filters.
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Order{}).Preload("User").Preload("Items")

		if status := c.Query("status"); status != "" && status != "all" {
			if mapped, err := mapOrderStatus(status); err == nil {
				query = query.Where("status = ?", mapped)
			} else {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}
		if ps := c.Query("payment_status"); ps != "" && ps != "all" {
			if mapped, err := mapPaymentStatus(ps); err == nil {
				query = query.Where("payment_status = ?", mapped)
			} else {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}
		if search := c.Query("search"); search != "" {
			like := "%" + search + "%"
			query = query.Where(
				"order_id LIKE ? OR customer_name LIKE ? OR customer_email LIKE ?",
				like, like, like,
			)
		}
		if from := c.Query("date_from"); from != "" {
			if t, err := time.Parse("2006-01-02", from); err == nil {
				query = query.Where("created_at >= ?", t)
			}
		}
		if to := c.Query("date_to"); to != "" {
			if t, err := time.Parse("2006-01-02", to); err == nil {
				query = query.Where("created_at < ?", t.Add(24*time.Hour))
			}
		}

		var orders []models.Order
		if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// PUT /admin/orders/:orderID/status
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderUUID := c.Param("orderID")

		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus, err := mapOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		order, err := TransitionOrderStatus(db, orderUUID, newStatus, req.AdminNotes)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order status"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// PUT /admin/orders/:orderID/payment-status
func UpdatePaymentStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderUUID := c.Param("orderID")

		var req UpdatePaymentStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus, err := mapPaymentStatus(req.PaymentStatus)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result := db.Model(&models.Order{}).Where("order_id = ?", orderUUID).
			Update("payment_status", newStatus)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update payment status"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Payment status updated successfully"})
	}
}
