package cartControllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/devamlabs/marketplace-api/models"
	"github.com/gin-gonic/gin"
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
		&models.Category{},
		&models.Project{},
		&models.Cart{},
		&models.CartItem{},
	))
	return db
}

// setupRouter wires the cart routes the way the app does, with a stand-in
// for the token middleware that trusts the X-Test-User header.
func setupRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if uid := c.GetHeader("X-Test-User"); uid != "" {
			var id uint
			fmt.Sscanf(uid, "%d", &id)
			c.Set("user_id", id)
		}
	})
	r.GET("/cart", GetCart(db))
	r.POST("/cart", AddCartItem(db))
	r.PUT("/cart/:project_id", UpdateCartItem(db))
	r.DELETE("/cart/:project_id", DeleteCartItem(db))
	r.DELETE("/cart", ClearCart(db))
	return r
}

func seedProject(t *testing.T, db *gorm.DB, title, price string, active bool) models.Project {
	t.Helper()
	project := models.Project{Title: title, Price: decimal.RequireFromString(price), IsActive: active}
	require.NoError(t, db.Create(&project).Error)
	if !active {
		// gorm skips zero-value fields on create when the column default is true
		require.NoError(t, db.Model(&project).Update("is_active", false).Error)
	}
	return project
}

func doJSON(r *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAddCartItemCreatesThenIncrements(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	project := seedProject(t, db, "School Management System", "10.00", true)
	asUser := map[string]string{"X-Test-User": "1"}

	w := doJSON(r, http.MethodPost, "/cart", gin.H{"project_id": project.ID, "quantity": 1}, asUser)
	require.Equal(t, http.StatusCreated, w.Code)

	// Adding the same project again bumps the quantity on the existing row.
	w = doJSON(r, http.MethodPost, "/cart", gin.H{"project_id": project.ID, "quantity": 2}, asUser)
	require.Equal(t, http.StatusOK, w.Code)

	var items []models.CartItem
	require.NoError(t, db.Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestAddCartItemRejectsInactiveOrMissingProject(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	inactive := seedProject(t, db, "Retired Template", "10.00", false)
	asUser := map[string]string{"X-Test-User": "1"}

	w := doJSON(r, http.MethodPost, "/cart", gin.H{"project_id": inactive.ID, "quantity": 1}, asUser)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/cart", gin.H{"project_id": 9999, "quantity": 1}, asUser)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartRequiresAnOwner(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)

	w := doJSON(r, http.MethodGet, "/cart", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionCartIsSeparateFromUserCart(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	project := seedProject(t, db, "Library Portal", "5.00", true)

	asUser := map[string]string{"X-Test-User": "1"}
	asGuest := map[string]string{"X-Session-Key": "sess_abc"}

	w := doJSON(r, http.MethodPost, "/cart", gin.H{"project_id": project.ID, "quantity": 1}, asUser)
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(r, http.MethodPost, "/cart", gin.H{"project_id": project.ID, "quantity": 2}, asGuest)
	require.Equal(t, http.StatusCreated, w.Code)

	var carts []models.Cart
	require.NoError(t, db.Find(&carts).Error)
	require.Len(t, carts, 2)

	var resp struct {
		TotalItems int `json:"total_items"`
	}
	w = doJSON(r, http.MethodGet, "/cart", nil, asGuest)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.TotalItems)
}

func TestUpdateCartItemQuantity(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	project := seedProject(t, db, "Portfolio Template", "7.50", true)
	asUser := map[string]string{"X-Test-User": "1"}

	w := doJSON(r, http.MethodPost, "/cart", gin.H{"project_id": project.ID, "quantity": 1}, asUser)
	require.Equal(t, http.StatusCreated, w.Code)

	path := fmt.Sprintf("/cart/%d", project.ID)
	w = doJSON(r, http.MethodPut, path, gin.H{"quantity": 4}, asUser)
	require.Equal(t, http.StatusOK, w.Code)

	var item models.CartItem
	require.NoError(t, db.First(&item).Error)
	assert.Equal(t, 4, item.Quantity)

	// Quantity zero removes the line.
	w = doJSON(r, http.MethodPut, path, gin.H{"quantity": 0}, asUser)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteAndClearCart(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	p1 := seedProject(t, db, "Shop Theme", "10.00", true)
	p2 := seedProject(t, db, "Blog Theme", "5.00", true)
	asUser := map[string]string{"X-Test-User": "1"}

	doJSON(r, http.MethodPost, "/cart", gin.H{"project_id": p1.ID, "quantity": 1}, asUser)
	doJSON(r, http.MethodPost, "/cart", gin.H{"project_id": p2.ID, "quantity": 1}, asUser)

	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/cart/%d", p1.ID), nil, asUser)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/cart/%d", p1.ID), nil, asUser)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodDelete, "/cart", nil, asUser)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&count).Error)
	assert.Zero(t, count)
}
