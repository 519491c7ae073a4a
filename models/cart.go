package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CartOwnerKind string

const (
	CartOwnerUser    CartOwnerKind = "user"
	CartOwnerSession CartOwnerKind = "session"
)

var ErrInvalidCartOwner = errors.New("cart must be owned by exactly one of user or session")

// CartOwner identifies who a cart belongs to: an authenticated user or an
// anonymous session key, never both and never neither. Use UserOwner or
// SessionOwner to construct one.
type CartOwner struct {
	Kind       CartOwnerKind `gorm:"column:owner_kind;type:VARCHAR(10);not null" json:"kind"`
	UserID     *uint         `gorm:"column:owner_user_id;uniqueIndex" json:"user_id,omitempty"`
	SessionKey *string       `gorm:"column:owner_session_key;uniqueIndex" json:"session_key,omitempty"`
}

func UserOwner(userID uint) CartOwner {
	return CartOwner{Kind: CartOwnerUser, UserID: &userID}
}

func SessionOwner(key string) CartOwner {
	return CartOwner{Kind: CartOwnerSession, SessionKey: &key}
}

func (o CartOwner) Valid() bool {
	switch o.Kind {
	case CartOwnerUser:
		return o.UserID != nil && o.SessionKey == nil
	case CartOwnerSession:
		return o.SessionKey != nil && *o.SessionKey != "" && o.UserID == nil
	}
	return false
}

type Cart struct {
	CartID    uint       `gorm:"primaryKey" json:"cart_id"`
	Owner     CartOwner  `gorm:"embedded" json:"owner"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (c *Cart) BeforeSave(tx *gorm.DB) error {
	if !c.Owner.Valid() {
		return ErrInvalidCartOwner
	}
	return nil
}

// TotalPrice sums over the preloaded items at current catalog prices.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.TotalPrice())
	}
	return total
}

func (c *Cart) TotalItems() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CartID    uint      `gorm:"index;uniqueIndex:idx_cart_project" json:"cart_id"`
	ProjectID uint      `gorm:"uniqueIndex:idx_cart_project" json:"project_id"`
	Project   Project   `json:"project"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

func (i *CartItem) TotalPrice() decimal.Decimal {
	return i.Project.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
