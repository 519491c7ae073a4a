package orderControllers

import (
	"fmt"
	"testing"
	"time"

	"github.com/devamlabs/marketplace-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.OrderItem{},
		&models.DownloadLog{},
	))
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, userID uint, status models.OrderStatus, items ...models.OrderItem) models.Order {
	t.Helper()
	order := models.Order{
		UserID:        userID,
		TotalAmount:   decimal.RequireFromString("25.00"),
		Status:        status,
		PaymentStatus: models.PaymentStatusCompleted,
		Items:         items,
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func TestTransitionToCompletedDeliversAllItems(t *testing.T) {
	db := setupTestDB(t)
	order := seedOrder(t, db, 1, models.OrderStatusProcessing,
		models.OrderItem{ProjectID: 1, ProjectTitle: "A", ProjectPrice: decimal.RequireFromString("10.00"), Quantity: 2, MaxDownloads: 5},
		models.OrderItem{ProjectID: 2, ProjectTitle: "B", ProjectPrice: decimal.RequireFromString("5.00"), Quantity: 1, MaxDownloads: 5},
	)

	updated, err := TransitionOrderStatus(db, order.OrderID, models.OrderStatusCompleted, "shipped everything")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, updated.Status)
	assert.Equal(t, "shipped everything", updated.AdminNotes)
	require.NotNil(t, updated.CompletedAt)

	require.Len(t, updated.Items, 2)
	for _, item := range updated.Items {
		assert.Equal(t, models.DeliveryStatusDelivered, item.DeliveryStatus)
		assert.NotNil(t, item.DeliveredAt)
	}
}

func TestTransitionKeepsCompletedAtStamp(t *testing.T) {
	db := setupTestDB(t)
	order := seedOrder(t, db, 1, models.OrderStatusProcessing)

	updated, err := TransitionOrderStatus(db, order.OrderID, models.OrderStatusCompleted, "")
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedAt)
	stamp := *updated.CompletedAt

	updated, err = TransitionOrderStatus(db, order.OrderID, models.OrderStatusRefunded, "chargeback")
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedAt)
	assert.WithinDuration(t, stamp, *updated.CompletedAt, time.Second)
}

func TestTransitionUnknownOrder(t *testing.T) {
	db := setupTestDB(t)
	_, err := TransitionOrderStatus(db, "no-such-uuid", models.OrderStatusCompleted, "")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRecordDownloadIncrementsAndLogs(t *testing.T) {
	db := setupTestDB(t)
	order := seedOrder(t, db, 7, models.OrderStatusCompleted,
		models.OrderItem{
			ProjectID:      1,
			ProjectTitle:   "A",
			ProjectPrice:   decimal.RequireFromString("10.00"),
			Quantity:       1,
			DeliveryStatus: models.DeliveryStatusDelivered,
			DeliveryURL:    "https://files.example.com/a.zip",
			DownloadCount:  3,
			MaxDownloads:   5,
		},
	)
	item := order.Items[0]

	allowed, err := RecordDownload(db, &item, 7, "203.0.113.9", "curl/8.0")
	require.NoError(t, err)
	require.True(t, allowed)

	// Re-read between accesses, the way the handler does.
	require.NoError(t, db.First(&item, item.ID).Error)
	allowed, err = RecordDownload(db, &item, 7, "203.0.113.9", "curl/8.0")
	require.NoError(t, err)
	require.True(t, allowed)

	require.NoError(t, db.First(&item, item.ID).Error)
	assert.Equal(t, 5, item.DownloadCount)

	var logs []models.DownloadLog
	require.NoError(t, db.Where("order_item_id = ?", item.ID).Find(&logs).Error)
	require.Len(t, logs, 2)
	assert.Equal(t, uint(7), logs[0].UserID)
	assert.Equal(t, "203.0.113.9", logs[0].IPAddress)
}

func TestRecordDownloadDeniedLeavesNoTrace(t *testing.T) {
	db := setupTestDB(t)
	expired := time.Now().Add(-time.Hour)
	order := seedOrder(t, db, 7, models.OrderStatusCompleted,
		models.OrderItem{ProjectID: 1, ProjectTitle: "undelivered", ProjectPrice: decimal.RequireFromString("1.00"), Quantity: 1,
			DeliveryStatus: models.DeliveryStatusPending, DeliveryURL: "https://x", MaxDownloads: 5},
		models.OrderItem{ProjectID: 2, ProjectTitle: "exhausted", ProjectPrice: decimal.RequireFromString("1.00"), Quantity: 1,
			DeliveryStatus: models.DeliveryStatusDelivered, DeliveryURL: "https://x", DownloadCount: 5, MaxDownloads: 5},
		models.OrderItem{ProjectID: 3, ProjectTitle: "expired", ProjectPrice: decimal.RequireFromString("1.00"), Quantity: 1,
			DeliveryStatus: models.DeliveryStatusDelivered, DeliveryURL: "https://x", MaxDownloads: 5, AccessExpiresAt: &expired},
		models.OrderItem{ProjectID: 4, ProjectTitle: "no asset", ProjectPrice: decimal.RequireFromString("1.00"), Quantity: 1,
			DeliveryStatus: models.DeliveryStatusDelivered, MaxDownloads: 5},
	)

	for _, item := range order.Items {
		item := item
		allowed, err := RecordDownload(db, &item, 7, "203.0.113.9", "curl/8.0")
		require.NoError(t, err)
		assert.False(t, allowed, item.ProjectTitle)
	}

	var logs int64
	require.NoError(t, db.Model(&models.DownloadLog{}).Count(&logs).Error)
	assert.Zero(t, logs)

	var counts []int
	require.NoError(t, db.Model(&models.OrderItem{}).Order("project_id").
		Pluck("download_count", &counts).Error)
	assert.Equal(t, []int{0, 5, 0, 0}, counts)
}

func TestMapOrderStatus(t *testing.T) {
	status, err := mapOrderStatus("Completed")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, status)

	_, err = mapOrderStatus("shipped")
	assert.Error(t, err)
}

func TestMapPaymentStatus(t *testing.T) {
	status, err := mapPaymentStatus("refunded")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusRefunded, status)

	_, err = mapPaymentStatus("done")
	assert.Error(t, err)
}
