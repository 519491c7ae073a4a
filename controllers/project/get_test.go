package projectControllers

import (
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

func setupCatalog(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Category{}, &models.Project{}, &models.ProjectImage{}))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/projects", GetProjects(db))
	r.GET("/projects/:slug", GetProjectBySlug(db))
	r.GET("/categories", GetAllCategories(db))
	r.GET("/categories/:slug", GetCategoryBySlug(db))
	return r, db
}

func seedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()
	web := models.Category{Name: "Web Apps", Slug: "web-apps"}
	mobile := models.Category{Name: "Mobile Apps", Slug: "mobile-apps"}
	require.NoError(t, db.Create(&web).Error)
	require.NoError(t, db.Create(&mobile).Error)

	projects := []models.Project{
		{Title: "School Management System", Price: decimal.RequireFromString("49.00"), CategoryID: web.ID, Tags: "php,school", IsActive: true},
		{Title: "Library Portal", Price: decimal.RequireFromString("19.00"), CategoryID: web.ID, Tags: "php,library", IsActive: true},
		{Title: "Fitness Tracker", Price: decimal.RequireFromString("29.00"), CategoryID: mobile.ID, Tags: "flutter", IsActive: true},
		{Title: "Retired Template", Price: decimal.RequireFromString("9.00"), CategoryID: web.ID, IsActive: true},
	}
	for i := range projects {
		require.NoError(t, db.Create(&projects[i]).Error)
	}
	require.NoError(t, db.Model(&models.Project{}).Where("title = ?", "Retired Template").
		Update("is_active", false).Error)
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type listResponse struct {
	Projects []models.Project `json:"projects"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

func listProjects(t *testing.T, r *gin.Engine, path string) listResponse {
	t.Helper()
	w := get(r, path)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp listResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func titles(projects []models.Project) []string {
	var out []string
	for _, p := range projects {
		out = append(out, p.Title)
	}
	return out
}

func TestGetProjectsHidesInactive(t *testing.T) {
	r, db := setupCatalog(t)
	seedCatalog(t, db)

	resp := listProjects(t, r, "/projects")
	assert.Equal(t, int64(3), resp.Total)
	assert.NotContains(t, titles(resp.Projects), "Retired Template")
}

func TestGetProjectsFilters(t *testing.T) {
	r, db := setupCatalog(t)
	seedCatalog(t, db)

	resp := listProjects(t, r, "/projects?search=library")
	assert.Equal(t, []string{"Library Portal"}, titles(resp.Projects))

	resp = listProjects(t, r, "/projects?category=mobile-apps")
	assert.Equal(t, []string{"Fitness Tracker"}, titles(resp.Projects))

	resp = listProjects(t, r, "/projects?tag=php")
	assert.Equal(t, int64(2), resp.Total)

	resp = listProjects(t, r, "/projects?min_price=20&max_price=40")
	assert.Equal(t, []string{"Fitness Tracker"}, titles(resp.Projects))

	w := get(r, "/projects?min_price=abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProjectsSortAndPagination(t *testing.T) {
	r, db := setupCatalog(t)
	seedCatalog(t, db)

	resp := listProjects(t, r, "/projects?sort_by=price&order=asc")
	assert.Equal(t, []string{"Library Portal", "Fitness Tracker", "School Management System"}, titles(resp.Projects))

	resp = listProjects(t, r, "/projects?sort_by=price&order=asc&page=2&page_size=2")
	assert.Equal(t, []string{"School Management System"}, titles(resp.Projects))
	assert.Equal(t, int64(3), resp.Total)
	assert.Equal(t, 2, resp.Page)

	// Unknown sort columns fall back instead of reaching the database.
	resp = listProjects(t, r, "/projects?sort_by=password;drop")
	assert.Equal(t, int64(3), resp.Total)
}

func TestGetProjectBySlug(t *testing.T) {
	r, db := setupCatalog(t)
	seedCatalog(t, db)

	var project models.Project
	require.NoError(t, db.Where("title = ?", "School Management System").First(&project).Error)
	require.NoError(t, db.Model(&project).Updates(map[string]interface{}{
		"featured_image_url": "https://drive.google.com/file/d/abc123/view",
		"demo_video_url":     "https://youtu.be/dQw4w9WgXcQ",
	}).Error)

	w := get(r, "/projects/school-management-system")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Project       models.Project   `json:"project"`
		ImageURL      string           `json:"image_url"`
		EmbedVideoURL string           `json:"embed_video_url"`
		Tags          []string         `json:"tags"`
		Related       []models.Project `json:"related"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "School Management System", resp.Project.Title)
	assert.Equal(t, "https://lh3.googleusercontent.com/d/abc123=w800", resp.ImageURL)
	assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ", resp.EmbedVideoURL)
	assert.Equal(t, []string{"php", "school"}, resp.Tags)
	assert.Equal(t, []string{"Library Portal"}, titles(resp.Related))
}

func TestGetProjectBySlugSkipsInactive(t *testing.T) {
	r, db := setupCatalog(t)
	seedCatalog(t, db)

	w := get(r, "/projects/retired-template")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = get(r, "/projects/no-such-slug")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
