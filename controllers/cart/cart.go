package cartControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/devamlabs/marketplace-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CartItemInput struct {
	ProjectID uint `json:"project_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

var errNoOwner = errors.New("no cart owner")

// resolveOwner picks the cart owner for this request: the authenticated user
// when present, otherwise the anonymous X-Session-Key header.
func resolveOwner(c *gin.Context) (models.CartOwner, error) {
	if userID, exists := c.Get("user_id"); exists {
		return models.UserOwner(userID.(uint)), nil
	}
	if key := c.GetHeader("X-Session-Key"); key != "" {
		return models.SessionOwner(key), nil
	}
	return models.CartOwner{}, errNoOwner
}

func ownerQuery(db *gorm.DB, owner models.CartOwner) *gorm.DB {
	if owner.Kind == models.CartOwnerUser {
		return db.Where("owner_user_id = ?", *owner.UserID)
	}
	return db.Where("owner_session_key = ?", *owner.SessionKey)
}

func getOrCreateCart(db *gorm.DB, owner models.CartOwner) (*models.Cart, error) {
	var cart models.Cart
	err := ownerQuery(db, owner).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{Owner: owner}
		err = db.Create(&cart).Error
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// GET /cart
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, err := resolveOwner(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Login or X-Session-Key required"})
			return
		}

		cart, err := getOrCreateCart(db, owner)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		if err := db.Preload("Project").Where("cart_id = ?", cart.CartID).
			Order("added_at").Find(&cart.Items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart items"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"cart_id":     cart.CartID,
			"items":       cart.Items,
			"total_price": cart.TotalPrice(),
			"total_items": cart.TotalItems(),
		})
	}
}

// POST /cart
// Adding a project already in the cart increments its quantity instead of
// creating a second row.
func AddCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, err := resolveOwner(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Login or X-Session-Key required"})
			return
		}

		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var project models.Project
		if err := db.Where("id = ? AND is_active = ?", input.ProjectID, true).First(&project).Error; err != nil {
			status := http.StatusInternalServerError
			errMsg := "Failed to validate project"
			if errors.Is(err, gorm.ErrRecordNotFound) {
				status = http.StatusBadRequest
				errMsg = "Project does not exist"
			}
			c.JSON(status, gin.H{"error": errMsg})
			return
		}

		cart, err := getOrCreateCart(db, owner)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		var item models.CartItem
		err = db.Where("cart_id = ? AND project_id = ?", cart.CartID, project.ID).First(&item).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				item = models.CartItem{
					CartID:    cart.CartID,
					ProjectID: project.ID,
					Quantity:  input.Quantity,
					AddedAt:   time.Now(),
				}
				if err := db.Create(&item).Error; err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
					return
				}
				c.JSON(http.StatusCreated, item)
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart item"})
			return
		}

		item.Quantity += input.Quantity
		item.AddedAt = time.Now()
		if err := db.Save(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// PUT /cart/:project_id
// Sets the quantity outright; zero removes the line.
func UpdateCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, err := resolveOwner(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Login or X-Session-Key required"})
			return
		}
		projectID := c.Param("project_id")

		var input struct {
			Quantity int `json:"quantity" binding:"min=0"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var cart models.Cart
		if err := ownerQuery(db, owner).First(&cart).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
			return
		}

		if input.Quantity == 0 {
			result := db.Where("cart_id = ? AND project_id = ?", cart.CartID, projectID).
				Delete(&models.CartItem{})
			if result.Error != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove item"})
				return
			}
			if result.RowsAffected == 0 {
				c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"message": "Cart item removed"})
			return
		}

		var item models.CartItem
		if err := db.Where("cart_id = ? AND project_id = ?", cart.CartID, projectID).First(&item).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}
		item.Quantity = input.Quantity
		if err := db.Save(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// DELETE /cart/:project_id
func DeleteCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, err := resolveOwner(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Login or X-Session-Key required"})
			return
		}
		projectID := c.Param("project_id")

		var cart models.Cart
		if err := ownerQuery(db, owner).First(&cart).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
			return
		}

		result := db.Where("cart_id = ? AND project_id = ?", cart.CartID, projectID).
			Delete(&models.CartItem{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart item deleted"})
	}
}

// DELETE /cart
func ClearCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, err := resolveOwner(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Login or X-Session-Key required"})
			return
		}

		var cart models.Cart
		if err := ownerQuery(db, owner).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		if err := db.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}

// GET /admin/users/:user_id/cart
func GetAdminUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("user_id")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}

		var cart models.Cart
		if err := db.Preload("Items.Project").Where("owner_user_id = ?", userID).First(&cart).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
			return
		}
		c.JSON(http.StatusOK, cart.Items)
	}
}
