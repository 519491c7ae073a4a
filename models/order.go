package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string
type PaymentStatus string
type DeliveryStatus string

const (
	// Order statuses
	OrderStatusPending    OrderStatus = "pending"    // created, awaiting payment
	OrderStatusProcessing OrderStatus = "processing" // payment verified, delivery in progress
	OrderStatusCompleted  OrderStatus = "completed"  // all items delivered
	OrderStatusFailed     OrderStatus = "failed"     // gateway rejected or order-creation failed
	OrderStatusCancelled  OrderStatus = "cancelled"  // cancelled before payment
	OrderStatusRefunded   OrderStatus = "refunded"   // money returned to customer

	// Payment statuses
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"

	// Per-item delivery statuses
	DeliveryStatusPending    DeliveryStatus = "pending"
	DeliveryStatusProcessing DeliveryStatus = "processing"
	DeliveryStatusDelivered  DeliveryStatus = "delivered"
	DeliveryStatusFailed     DeliveryStatus = "failed"
)

// DeliveryAddress is the address snapshot frozen onto an order at creation.
type DeliveryAddress struct {
	FirstName     string `gorm:"size:100" json:"first_name"`
	LastName      string `gorm:"size:100" json:"last_name"`
	Company       string `gorm:"size:200" json:"company"`
	AddressLine1  string `gorm:"size:255" json:"address_line_1"`
	AddressLine2  string `gorm:"size:255" json:"address_line_2"`
	City          string `gorm:"size:100" json:"city"`
	State         string `gorm:"size:100" json:"state"`
	PostalCode    string `gorm:"size:20" json:"postal_code"`
	Country       string `gorm:"size:100;default:'India'" json:"country"`
	Phone         string `gorm:"size:20" json:"phone"`
	Instructions  string `gorm:"type:text" json:"instructions"`
	PreferredTime string `gorm:"size:50;default:'anytime'" json:"preferred_time"` // morning, afternoon, evening, anytime
}

// CheckoutAddress holds the delivery address a user has staged for their next
// checkout. Cleared once the order it produced is paid.
type CheckoutAddress struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"uniqueIndex;not null" json:"user_id"`
	Address   DeliveryAddress `gorm:"embedded;embeddedPrefix:delivery_" json:"address"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type Order struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	OrderID string `gorm:"size:36;uniqueIndex;not null" json:"order_id"` // public UUID, immutable
	UserID  uint   `gorm:"index;not null" json:"user_id"`
	User    User   `json:"user,omitempty"`

	Items       []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`

	Status        OrderStatus   `gorm:"type:VARCHAR(20);default:'pending';index" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:VARCHAR(20);default:'pending';index" json:"payment_status"`

	RazorpayOrderID   string `gorm:"size:100;index" json:"razorpay_order_id"`
	RazorpayPaymentID string `gorm:"size:100" json:"razorpay_payment_id"`
	RazorpaySignature string `gorm:"size:200" json:"razorpay_signature"`

	CustomerName  string `gorm:"size:200" json:"customer_name"`
	CustomerEmail string `gorm:"size:254" json:"customer_email"`
	CustomerPhone string `gorm:"size:20" json:"customer_phone"`

	Delivery DeliveryAddress `gorm:"embedded;embeddedPrefix:delivery_" json:"delivery"`

	Notes      string `gorm:"type:text" json:"notes"`
	AdminNotes string `gorm:"type:text" json:"admin_notes"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.OrderID == "" {
		o.OrderID = uuid.NewString()
	}
	return nil
}

// BeforeSave stamps CompletedAt on the first transition into completed.
// Once set it is never cleared or changed.
func (o *Order) BeforeSave(tx *gorm.DB) error {
	if o.Status == OrderStatusCompleted && o.CompletedAt == nil {
		now := time.Now()
		o.CompletedAt = &now
	}
	return nil
}

func (o *Order) TotalItems() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// DeliveryName falls back to the customer name when no delivery name was given.
func (o *Order) DeliveryName() string {
	if o.Delivery.FirstName != "" || o.Delivery.LastName != "" {
		return strings.TrimSpace(o.Delivery.FirstName + " " + o.Delivery.LastName)
	}
	return o.CustomerName
}

// OrderItem is one purchased line. Title and price are frozen at purchase
// time so later catalog edits cannot alter historical orders.
type OrderItem struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	OrderID   uint `gorm:"index;uniqueIndex:idx_order_project" json:"order_id"`
	ProjectID uint `gorm:"uniqueIndex:idx_order_project" json:"project_id"`

	ProjectTitle string          `gorm:"size:200;not null" json:"project_title"`
	ProjectPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"project_price"`
	Quantity     int             `gorm:"not null;default:1" json:"quantity"`

	DeliveryStatus DeliveryStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"delivery_status"`
	DeliveryURL    string         `json:"delivery_url"`
	DeliveryFile   string         `json:"delivery_file"`
	DeliveredAt    *time.Time     `json:"delivered_at"`

	DownloadCount   int        `gorm:"default:0" json:"download_count"`
	MaxDownloads    int        `gorm:"default:5" json:"max_downloads"`
	AccessExpiresAt *time.Time `json:"access_expires_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (i *OrderItem) TotalPrice() decimal.Decimal {
	return i.ProjectPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CanDownload reports whether the buyer may download this item right now.
func (i *OrderItem) CanDownload() bool {
	return i.CanDownloadAt(time.Now())
}

// CanDownloadAt is the pure form of CanDownload: the item must be delivered,
// under its download limit, and not past its access expiry.
func (i *OrderItem) CanDownloadAt(now time.Time) bool {
	if i.DeliveryStatus != DeliveryStatusDelivered {
		return false
	}
	if i.DownloadCount >= i.MaxDownloads {
		return false
	}
	if i.AccessExpiresAt != nil && now.After(*i.AccessExpiresAt) {
		return false
	}
	return true
}

// PaymentLog is an append-only audit record of one gateway payment event.
type PaymentLog struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	OrderID           uint            `gorm:"index;not null" json:"order_id"`
	RazorpayPaymentID string          `gorm:"size:100" json:"razorpay_payment_id"`
	RazorpayOrderID   string          `gorm:"size:100" json:"razorpay_order_id"`
	Amount            decimal.Decimal `gorm:"type:decimal(10,2)" json:"amount"`
	Status            string          `gorm:"size:50" json:"status"`
	Method            string          `gorm:"size:50" json:"method"`
	ResponseData      string          `gorm:"type:text" json:"response_data"`
	CreatedAt         time.Time       `json:"created_at"`
}

// DownloadLog is an append-only audit record of one download access.
type DownloadLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	OrderItemID  uint      `gorm:"index;not null" json:"order_item_id"`
	UserID       uint      `gorm:"index;not null" json:"user_id"`
	IPAddress    string    `gorm:"size:45" json:"ip_address"`
	UserAgent    string    `gorm:"type:text" json:"user_agent"`
	DownloadedAt time.Time `gorm:"autoCreateTime" json:"downloaded_at"`
}
