package adminControllers

import (
	"net/http"
	"time"

	"github.com/devamlabs/marketplace-api/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type topProject struct {
	ProjectID    uint   `json:"project_id"`
	ProjectTitle string `json:"project_title"`
	OrderCount   int64  `json:"order_count"`
	UnitsSold    int64  `json:"units_sold"`
}

func revenueSince(db *gorm.DB, since *time.Time) (decimal.Decimal, error) {
	query := db.Model(&models.Order{}).
		Where("payment_status = ?", models.PaymentStatusCompleted)
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}

	var revenue decimal.NullDecimal
	err := query.Select("SUM(total_amount)").Scan(&revenue).Error
	if err != nil || !revenue.Valid {
		return decimal.Zero, err
	}
	return revenue.Decimal, nil
}

// GET /admin/dashboard
// Order, revenue and catalog statistics for the staff landing page.
func GetDashboard(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		weekAgo := now.AddDate(0, 0, -7)
		monthAgo := now.AddDate(0, 0, -30)

		var totalOrders, pendingOrders, processingOrders, completedOrders int64
		db.Model(&models.Order{}).Count(&totalOrders)
		db.Model(&models.Order{}).Where("status = ?", models.OrderStatusPending).Count(&pendingOrders)
		db.Model(&models.Order{}).Where("status = ?", models.OrderStatusProcessing).Count(&processingOrders)
		db.Model(&models.Order{}).Where("status = ?", models.OrderStatusCompleted).Count(&completedOrders)

		totalRevenue, err := revenueSince(db, nil)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute revenue"})
			return
		}
		weekRevenue, _ := revenueSince(db, &weekAgo)
		monthRevenue, _ := revenueSince(db, &monthAgo)

		var totalProjects, activeProjects int64
		db.Model(&models.Project{}).Count(&totalProjects)
		db.Model(&models.Project{}).Where("is_active = ?", true).Count(&activeProjects)

		var recentOrders []models.Order
		if err := db.Preload("User").Order("created_at DESC").Limit(10).Find(&recentOrders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recent orders"})
			return
		}

		var topProjects []topProject
		if err := db.Model(&models.OrderItem{}).
			Select("project_id, project_title, COUNT(*) AS order_count, SUM(quantity) AS units_sold").
			Group("project_id, project_title").
			Order("order_count DESC").
			Limit(5).
			Scan(&topProjects).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch top projects"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"total_orders":      totalOrders,
			"pending_orders":    pendingOrders,
			"processing_orders": processingOrders,
			"completed_orders":  completedOrders,
			"total_revenue":     totalRevenue,
			"week_revenue":      weekRevenue,
			"month_revenue":     monthRevenue,
			"total_projects":    totalProjects,
			"active_projects":   activeProjects,
			"inactive_projects": totalProjects - activeProjects,
			"recent_orders":     recentOrders,
			"top_projects":      topProjects,
		})
	}
}

// GET /admin/users
func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.
			Select("id", "email", "name", "phone", "is_admin", "created_at").
			Order("created_at desc").
			Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}
		c.JSON(http.StatusOK, users)
	}
}
