package projectControllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/devamlabs/marketplace-api/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const defaultPageSize = 12

// GET /projects
// Filtering: search, category (slug), tag, min_price, max_price.
// Sorting: sort_by + order. Pagination: page + page_size.
func GetProjects(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		search := c.Query("search")
		categorySlug := c.Query("category")
		tag := c.Query("tag")
		minPriceStr := c.Query("min_price")
		maxPriceStr := c.Query("max_price")
		sortBy := c.DefaultQuery("sort_by", "created_at")
		sortOrder := strings.ToLower(c.DefaultQuery("order", "desc"))
		if sortOrder != "asc" && sortOrder != "desc" {
			sortOrder = "desc"
		}
		switch sortBy {
		case "created_at", "price", "title":
		default:
			sortBy = "created_at"
		}

		query := db.Model(&models.Project{}).Preload("Category").Where("is_active = ?", true)

		if search != "" {
			likePattern := "%" + search + "%"
			query = query.Where(
				"title LIKE ? OR description LIKE ? OR tags LIKE ?",
				likePattern, likePattern, likePattern,
			)
		}
		if tag != "" {
			query = query.Where("tags LIKE ?", "%"+tag+"%")
		}
		if minPriceStr != "" {
			if mp, err := decimal.NewFromString(minPriceStr); err == nil {
				query = query.Where("price >= ?", mp)
			} else {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid min_price"})
				return
			}
		}
		if maxPriceStr != "" {
			if mp, err := decimal.NewFromString(maxPriceStr); err == nil {
				query = query.Where("price <= ?", mp)
			} else {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid max_price"})
				return
			}
		}
		if categorySlug != "" {
			query = query.
				Joins("JOIN categories ON categories.id = projects.category_id").
				Where("categories.slug = ?", categorySlug)
		}

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if page < 1 {
			page = 1
		}
		pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
		if pageSize < 1 || pageSize > 100 {
			pageSize = defaultPageSize
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count projects"})
			return
		}

		orderClause := fmt.Sprintf("%s %s", sortBy, sortOrder)
		var projects []models.Project
		if err := query.Order(orderClause).
			Offset((page - 1) * pageSize).
			Limit(pageSize).
			Find(&projects).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch projects"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"projects":  projects,
			"total":     total,
			"page":      page,
			"page_size": pageSize,
		})
	}
}

// GET /admin/projects
// Unfiltered listing including inactive and soft-deleted state for staff.
func GetAllProjectsAdmin(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Project{}).Preload("Category").Preload("Images")

		if active := c.Query("is_active"); active != "" {
			query = query.Where("is_active = ?", active == "true")
		}
		if search := c.Query("search"); search != "" {
			likePattern := "%" + search + "%"
			query = query.Where("title LIKE ? OR description LIKE ?", likePattern, likePattern)
		}

		var projects []models.Project
		if err := query.Order("created_at DESC").Find(&projects).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch projects"})
			return
		}
		c.JSON(http.StatusOK, projects)
	}
}
