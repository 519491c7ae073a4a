package orderControllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/devamlabs/marketplace-api/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func downloadRouter(db *gorm.DB, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user_id", userID) })
	r.GET("/user/orders/:orderID/items/:itemID/download", DownloadItemHandler(db, os.TempDir()))
	return r
}

func deliveredItem(title, url string) models.OrderItem {
	return models.OrderItem{
		ProjectTitle:   title,
		ProjectPrice:   decimal.RequireFromString("10.00"),
		Quantity:       1,
		DeliveryStatus: models.DeliveryStatusDelivered,
		DeliveryURL:    url,
		MaxDownloads:   5,
	}
}

func TestDownloadItemScopedToOrderInPath(t *testing.T) {
	db := setupTestDB(t)
	first := seedOrder(t, db, 7, models.OrderStatusCompleted, deliveredItem("A", "https://files.example.com/a.zip"))
	second := seedOrder(t, db, 7, models.OrderStatusCompleted, deliveredItem("B", "https://files.example.com/b.zip"))
	r := downloadRouter(db, 7)

	// Correct order in the path serves the item.
	path := fmt.Sprintf("/user/orders/%s/items/%d/download", first.OrderID, first.Items[0].ID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://files.example.com/a.zip", w.Header().Get("Location"))

	// Naming a different order of the same user does not.
	path = fmt.Sprintf("/user/orders/%s/items/%d/download", second.OrderID, first.Items[0].ID)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	var item models.OrderItem
	require.NoError(t, db.First(&item, first.Items[0].ID).Error)
	assert.Equal(t, 1, item.DownloadCount)
}

func TestDownloadItemDeniedForOtherUsers(t *testing.T) {
	db := setupTestDB(t)
	order := seedOrder(t, db, 7, models.OrderStatusCompleted, deliveredItem("A", "https://files.example.com/a.zip"))
	r := downloadRouter(db, 8)

	path := fmt.Sprintf("/user/orders/%s/items/%d/download", order.OrderID, order.Items[0].ID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	var logs int64
	require.NoError(t, db.Model(&models.DownloadLog{}).Count(&logs).Error)
	assert.Zero(t, logs)
}

func TestRecordDownloadReChecksStateInTransaction(t *testing.T) {
	db := setupTestDB(t)
	order := seedOrder(t, db, 7, models.OrderStatusCompleted, deliveredItem("A", "https://files.example.com/a.zip"))
	item := order.Items[0]

	// The caller's copy says the item is eligible, but the row has expired
	// since it was read.
	expired := time.Now().Add(-time.Minute)
	require.NoError(t, db.Model(&models.OrderItem{}).Where("id = ?", item.ID).
		Update("access_expires_at", expired).Error)

	allowed, err := RecordDownload(db, &item, 7, "203.0.113.9", "curl/8.0")
	require.NoError(t, err)
	assert.False(t, allowed)

	// Same for a delivery that was revoked after the read.
	require.NoError(t, db.Model(&models.OrderItem{}).Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"access_expires_at": nil,
			"delivery_status":   models.DeliveryStatusFailed,
		}).Error)
	item.DeliveryStatus = models.DeliveryStatusDelivered

	allowed, err = RecordDownload(db, &item, 7, "203.0.113.9", "curl/8.0")
	require.NoError(t, err)
	assert.False(t, allowed)

	var current models.OrderItem
	require.NoError(t, db.First(&current, item.ID).Error)
	assert.Zero(t, current.DownloadCount)

	var logs int64
	require.NoError(t, db.Model(&models.DownloadLog{}).Count(&logs).Error)
	assert.Zero(t, logs)
}
