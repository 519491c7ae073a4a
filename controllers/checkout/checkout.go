package checkoutControllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/devamlabs/marketplace-api/gateway"
	"github.com/devamlabs/marketplace-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PaymentGateway is the slice of the gateway client the checkout workflow
// needs. Tests substitute a fake.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*gateway.Order, error)
	FetchOrder(ctx context.Context, gatewayOrderID string) (*gateway.Order, error)
}

// Distinct error kinds so callers can tell which checkout step failed.
var (
	ErrCartEmpty        = errors.New("cart is empty")
	ErrAddressMissing   = errors.New("delivery information is required")
	ErrGateway          = errors.New("payment gateway error")
	ErrInvalidSignature = errors.New("payment signature verification failed")
	ErrOrderNotFound    = errors.New("order not found")
)

const currency = "INR"

// CreateOrderFromCart converts the user's cart into a pending order and
// registers it with the payment gateway.
//
// The local order and its items are committed first, under a FOR UPDATE lock
// on the cart row so two concurrent checkouts of the same cart serialize: the
// second one cancels the first's still-pending order before creating its own,
// leaving exactly one live pending order per cart. The gateway call happens
// after commit; if it fails the order is marked failed rather than left
// half-created.
func CreateOrderFromCart(db *gorm.DB, gw PaymentGateway, userID uint) (*models.Order, error) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return nil, err
	}

	var staged models.CheckoutAddress
	if err := db.Where("user_id = ?", userID).First(&staged).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddressMissing
		}
		return nil, err
	}

	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&models.Cart{})
		// sqlite (tests) has no row locks
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var cart models.Cart
		if err := q.Where("owner_user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCartEmpty
			}
			return err
		}
		if err := tx.Preload("Project").Where("cart_id = ?", cart.CartID).Find(&cart.Items).Error; err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return ErrCartEmpty
		}

		// Supersede any still-pending order from an earlier checkout of
		// this cart.
		if err := tx.Model(&models.Order{}).
			Where("user_id = ? AND status = ?", userID, models.OrderStatusPending).
			Update("status", models.OrderStatusCancelled).Error; err != nil {
			return err
		}

		total := decimal.Zero
		var items []models.OrderItem
		for _, item := range cart.Items {
			total = total.Add(item.Project.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
			items = append(items, models.OrderItem{
				ProjectID:    item.ProjectID,
				ProjectTitle: item.Project.Title,
				ProjectPrice: item.Project.Price,
				Quantity:     item.Quantity,
			})
		}

		order = models.Order{
			UserID:        userID,
			Items:         items,
			TotalAmount:   total,
			Status:        models.OrderStatusPending,
			PaymentStatus: models.PaymentStatusPending,
			CustomerName:  user.Name,
			CustomerEmail: user.Email,
			CustomerPhone: user.Phone,
			Delivery:      staged.Address,
		}
		return tx.Create(&order).Error
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	amountPaise := order.TotalAmount.Shift(2).IntPart()
	gwOrder, err := gw.CreateOrder(ctx, amountPaise, currency, order.OrderID)
	if err != nil {
		log.Printf("gateway order creation failed for order %s: %v", order.OrderID, err)
		if updateErr := db.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("status", models.OrderStatusFailed).Error; updateErr != nil {
			log.Printf("failed to mark order %s failed: %v", order.OrderID, updateErr)
		}
		order.Status = models.OrderStatusFailed
		return &order, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	if err := db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("razorpay_order_id", gwOrder.ID).Error; err != nil {
		return nil, err
	}
	order.RazorpayOrderID = gwOrder.ID
	return &order, nil
}

// FinalizePayment applies a verified gateway callback: it stores the payment
// identifiers, moves the order to processing/paid, appends exactly one
// payment log entry, and deletes the cart that produced the order. A replayed
// callback for an already-finalized order is a no-op. Only pending orders are
// finalized: a payment arriving for an order a later checkout already
// superseded must not resurrect it, and must not consume the cart backing
// the live pending order — it is logged for manual refund instead.
func FinalizePayment(db *gorm.DB, secret, gatewayOrderID, paymentID, signature string) (*models.Order, error) {
	if !gateway.VerifySignature(secret, gatewayOrderID, paymentID, signature) {
		return nil, ErrInvalidSignature
	}

	var order models.Order
	if err := db.Where("razorpay_order_id = ?", gatewayOrderID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if order.PaymentStatus == models.PaymentStatusCompleted {
		return &order, nil
	}

	if order.Status != models.OrderStatusPending {
		log.Printf("payment %s arrived for %s order %s, needs manual refund", paymentID, order.Status, order.OrderID)
		entry := models.PaymentLog{
			OrderID:           order.ID,
			RazorpayPaymentID: paymentID,
			RazorpayOrderID:   order.RazorpayOrderID,
			Status:            "unexpected",
		}
		if err := db.Where(&entry).Attrs(models.PaymentLog{Amount: order.TotalAmount}).
			FirstOrCreate(&entry).Error; err != nil {
			return nil, err
		}
		return &order, nil
	}

	order.RazorpayPaymentID = paymentID
	order.RazorpaySignature = signature
	err := db.Transaction(func(tx *gorm.DB) error {
		return finalize(tx, &order, "captured")
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// finalize performs the shared completion steps inside the caller's
// transaction.
func finalize(tx *gorm.DB, order *models.Order, logStatus string) error {
	order.PaymentStatus = models.PaymentStatusCompleted
	order.Status = models.OrderStatusProcessing
	if err := tx.Save(order).Error; err != nil {
		return err
	}

	entry := models.PaymentLog{
		OrderID:           order.ID,
		RazorpayPaymentID: order.RazorpayPaymentID,
		RazorpayOrderID:   order.RazorpayOrderID,
		Amount:            order.TotalAmount,
		Status:            logStatus,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return err
	}

	// The cart is consumed exactly once, here.
	var cart models.Cart
	if err := tx.Where("owner_user_id = ?", order.UserID).First(&cart).Error; err == nil {
		if err := tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&cart).Error; err != nil {
			return err
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return tx.Where("user_id = ?", order.UserID).Delete(&models.CheckoutAddress{}).Error
}

// ReconcileOrder closes the missed-callback gap: staff can ask the gateway
// for an order's current state and finalize or leave it untouched
// accordingly.
func ReconcileOrder(db *gorm.DB, gw PaymentGateway, orderUUID string) (*models.Order, error) {
	var order models.Order
	if err := db.Where("order_id = ?", orderUUID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.Status != models.OrderStatusPending || order.RazorpayOrderID == "" {
		return &order, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	gwOrder, err := gw.FetchOrder(ctx, order.RazorpayOrderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	if gwOrder.Status != "paid" {
		return &order, nil
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		return finalize(tx, &order, "reconciled")
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}
