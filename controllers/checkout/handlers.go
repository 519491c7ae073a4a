package checkoutControllers

import (
	"errors"
	"net/http"
	"strings"

	orderControllers "github.com/devamlabs/marketplace-api/controllers/order"
	"github.com/devamlabs/marketplace-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AddressInput struct {
	FirstName     string `json:"first_name" binding:"required"`
	LastName      string `json:"last_name" binding:"required"`
	Company       string `json:"company"`
	AddressLine1  string `json:"address_line_1" binding:"required"`
	AddressLine2  string `json:"address_line_2"`
	City          string `json:"city" binding:"required"`
	State         string `json:"state" binding:"required"`
	PostalCode    string `json:"postal_code" binding:"required"`
	Country       string `json:"country" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
	Instructions  string `json:"instructions"`
	PreferredTime string `json:"preferred_time"`
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// POST /user/checkout/address
// Validates and stages the delivery address for the next checkout.
func SaveAddressHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")

		var input AddressInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if digitCount(input.Phone) < 10 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Please enter a valid phone number with at least 10 digits.",
				"field": "phone",
			})
			return
		}
		if input.Country == "India" && digitCount(input.PostalCode) != 6 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Indian postal codes must be 6 digits.",
				"field": "postal_code",
			})
			return
		}

		preferred := input.PreferredTime
		switch preferred {
		case "":
			preferred = "anytime"
		case "morning", "afternoon", "evening", "anytime":
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid preferred_time", "field": "preferred_time"})
			return
		}

		staged := models.CheckoutAddress{
			UserID: userID,
			Address: models.DeliveryAddress{
				FirstName:     strings.TrimSpace(input.FirstName),
				LastName:      strings.TrimSpace(input.LastName),
				Company:       input.Company,
				AddressLine1:  input.AddressLine1,
				AddressLine2:  input.AddressLine2,
				City:          input.City,
				State:         input.State,
				PostalCode:    input.PostalCode,
				Country:       input.Country,
				Phone:         input.Phone,
				Instructions:  input.Instructions,
				PreferredTime: preferred,
			},
		}

		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).Create(&staged).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save delivery address"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Delivery address saved"})
	}
}

// POST /user/checkout/order
func CreateOrderHandler(db *gorm.DB, gw PaymentGateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")

		order, err := CreateOrderFromCart(db, gw, userID)
		switch {
		case errors.Is(err, ErrCartEmpty):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
			return
		case errors.Is(err, ErrAddressMissing):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Delivery information is required"})
			return
		case errors.Is(err, ErrGateway):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Payment could not be initiated, please try again"})
			return
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"order_id":          order.OrderID,
			"razorpay_order_id": order.RazorpayOrderID,
			"amount":            order.TotalAmount.Shift(2).IntPart(),
			"currency":          currency,
			"description":       "Order #" + order.OrderID,
			"prefill": gin.H{
				"name":  order.CustomerName,
				"email": order.CustomerEmail,
			},
		})
	}
}

// POST /payment/callback
// The gateway posts three opaque strings; nothing in them is trusted until
// the signature checks out.
func PaymentCallbackHandler(db *gorm.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		gatewayOrderID := c.PostForm("razorpay_order_id")
		paymentID := c.PostForm("razorpay_payment_id")
		signature := c.PostForm("razorpay_signature")

		if gatewayOrderID == "" || paymentID == "" || signature == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing payment information"})
			return
		}

		order, err := FinalizePayment(db, secret, gatewayOrderID, paymentID, signature)
		switch {
		case errors.Is(err, ErrInvalidSignature):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Payment signature verification failed"})
			return
		case errors.Is(err, ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Order not found"})
			return
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Payment verification failed"})
			return
		}

		orderControllers.BroadcastOrderPaid(*order)

		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"message":  "Payment successful! Your order has been confirmed.",
			"order_id": order.OrderID,
		})
	}
}

// POST /admin/orders/:orderID/reconcile
func ReconcileOrderHandler(db *gorm.DB, gw PaymentGateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderUUID := c.Param("orderID")

		order, err := ReconcileOrder(db, gw, orderUUID)
		switch {
		case errors.Is(err, ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		case errors.Is(err, ErrGateway):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Gateway lookup failed"})
			return
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Reconciliation failed"})
			return
		}

		c.JSON(http.StatusOK, order)
	}
}
