package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanDownloadAt(t *testing.T) {
	now := time.Now()
	future := now.Add(24 * time.Hour)
	past := now.Add(-time.Hour)

	tests := []struct {
		name string
		item OrderItem
		want bool
	}{
		{
			name: "delivered under limit no expiry",
			item: OrderItem{DeliveryStatus: DeliveryStatusDelivered, DownloadCount: 0, MaxDownloads: 5},
			want: true,
		},
		{
			name: "delivered under limit before expiry",
			item: OrderItem{DeliveryStatus: DeliveryStatusDelivered, DownloadCount: 4, MaxDownloads: 5, AccessExpiresAt: &future},
			want: true,
		},
		{
			name: "not yet delivered",
			item: OrderItem{DeliveryStatus: DeliveryStatusPending, DownloadCount: 0, MaxDownloads: 5},
			want: false,
		},
		{
			name: "at download limit",
			item: OrderItem{DeliveryStatus: DeliveryStatusDelivered, DownloadCount: 5, MaxDownloads: 5},
			want: false,
		},
		{
			name: "past expiry",
			item: OrderItem{DeliveryStatus: DeliveryStatusDelivered, DownloadCount: 0, MaxDownloads: 5, AccessExpiresAt: &past},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.item.CanDownloadAt(now))
		})
	}
}

func TestCompletedAtStampedOnce(t *testing.T) {
	order := Order{Status: OrderStatusCompleted}
	require.NoError(t, order.BeforeSave(nil))
	require.NotNil(t, order.CompletedAt)
	first := *order.CompletedAt

	// A later save, even through other statuses, keeps the original stamp.
	order.Status = OrderStatusRefunded
	require.NoError(t, order.BeforeSave(nil))
	assert.Equal(t, first, *order.CompletedAt)

	order.Status = OrderStatusCompleted
	require.NoError(t, order.BeforeSave(nil))
	assert.Equal(t, first, *order.CompletedAt)
}

func TestCompletedAtNotStampedForOtherStatuses(t *testing.T) {
	for _, status := range []OrderStatus{OrderStatusPending, OrderStatusProcessing, OrderStatusFailed, OrderStatusCancelled} {
		order := Order{Status: status}
		require.NoError(t, order.BeforeSave(nil))
		assert.Nil(t, order.CompletedAt, string(status))
	}
}

func TestDeliveryName(t *testing.T) {
	order := Order{CustomerName: "Asha Patel"}
	assert.Equal(t, "Asha Patel", order.DeliveryName())

	order.Delivery.FirstName = "Ravi"
	assert.Equal(t, "Ravi", order.DeliveryName())

	order.Delivery.LastName = "Kumar"
	assert.Equal(t, "Ravi Kumar", order.DeliveryName())
}
