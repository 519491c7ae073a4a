package projectControllers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/devamlabs/marketplace-api/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func saveUploadedImage(c *gin.Context, field, uploadsDir, subdir string) (string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return "", err
	}

	ext := filepath.Ext(file.Filename)
	base := strings.TrimSuffix(filepath.Base(file.Filename), ext)
	base = strings.ReplaceAll(base, " ", "_")
	filename := fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), base, ext)

	saveDir := filepath.Join(uploadsDir, subdir)
	if err := os.MkdirAll(saveDir, os.ModePerm); err != nil {
		return "", err
	}
	if err := c.SaveUploadedFile(file, filepath.Join(saveDir, filename)); err != nil {
		return "", err
	}
	return fmt.Sprintf("/uploads/%s/%s", subdir, filename), nil
}

// POST /admin/projects
// Creates a project from a multipart form with an optional image upload.
func CreateProject(db *gorm.DB, uploadsDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		title := c.PostForm("title")
		priceStr := c.PostForm("price")
		categoryIDStr := c.PostForm("category_id")
		if title == "" || priceStr == "" || categoryIDStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title, price, and category_id are required"})
			return
		}

		price, err := decimal.NewFromString(priceStr)
		if err != nil || price.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
			return
		}

		categoryID, err := strconv.ParseUint(categoryIDStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_id"})
			return
		}
		var category models.Category
		if err := db.First(&category, categoryID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category does not exist"})
			return
		}

		deliveryType := models.DeliveryType(c.DefaultPostForm("delivery_type", string(models.DeliveryTypeDownload)))
		switch deliveryType {
		case models.DeliveryTypeDownload, models.DeliveryTypeEmail, models.DeliveryTypePhysical:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid delivery_type"})
			return
		}

		project := models.Project{
			Title:            title,
			Slug:             models.Slugify(c.DefaultPostForm("slug", title)),
			Description:      c.PostForm("description"),
			Price:            price,
			CategoryID:       uint(categoryID),
			Tags:             c.PostForm("tags"),
			FeaturedImageURL: c.PostForm("featured_image_url"),
			DemoVideoURL:     c.PostForm("demo_video_url"),
			DeliveryType:     deliveryType,
			DownloadURL:      c.PostForm("download_url"),
			MetaDescription:  c.PostForm("meta_description"),
			IsActive:         true,
			CreatedByID:      c.GetUint("user_id"),
		}

		if imageURL, err := saveUploadedImage(c, "image", uploadsDir, "projects"); err == nil {
			project.FeaturedImage = imageURL
		}

		if err := db.Create(&project).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
			return
		}
		c.JSON(http.StatusCreated, project)
	}
}
