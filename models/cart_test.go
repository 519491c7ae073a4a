package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCartOwnerValid(t *testing.T) {
	assert.True(t, UserOwner(42).Valid())
	assert.True(t, SessionOwner("sess_abc123").Valid())

	userID := uint(42)
	key := "sess_abc123"
	empty := ""

	tests := []struct {
		name  string
		owner CartOwner
	}{
		{"zero value", CartOwner{}},
		{"user kind without id", CartOwner{Kind: CartOwnerUser}},
		{"session kind without key", CartOwner{Kind: CartOwnerSession}},
		{"session kind with empty key", CartOwner{Kind: CartOwnerSession, SessionKey: &empty}},
		{"both set as user", CartOwner{Kind: CartOwnerUser, UserID: &userID, SessionKey: &key}},
		{"both set as session", CartOwner{Kind: CartOwnerSession, UserID: &userID, SessionKey: &key}},
		{"unknown kind", CartOwner{Kind: "robot", UserID: &userID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, tt.owner.Valid())
		})
	}
}

func TestCartRejectsInvalidOwnerOnSave(t *testing.T) {
	cart := Cart{}
	assert.ErrorIs(t, cart.BeforeSave(nil), ErrInvalidCartOwner)

	cart.Owner = UserOwner(7)
	assert.NoError(t, cart.BeforeSave(nil))
}

func TestCartTotals(t *testing.T) {
	cart := Cart{Items: []CartItem{
		{Project: Project{Price: decimal.RequireFromString("10.00")}, Quantity: 2},
		{Project: Project{Price: decimal.RequireFromString("5.00")}, Quantity: 1},
	}}
	assert.True(t, cart.TotalPrice().Equal(decimal.RequireFromString("25.00")))
	assert.Equal(t, 3, cart.TotalItems())
}
