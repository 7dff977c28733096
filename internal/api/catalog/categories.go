package catalog

import (
	"errors"
	"net/http"

	"review-platform/database"
	"review-platform/internal/api/pagination"
	"review-platform/internal/domain/catalog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GET /v1/categories
func ListCategories(c *gin.Context) {
	query := database.DB.Model(&catalog.Category{}).Order("slug ASC")
	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name LIKE ? OR slug LIKE ?", pattern, pattern)
	}
	query = pagination.Apply(c, query)

	var list []catalog.Category
	if err := query.Find(&list).Error; err != nil {
		zap.L().Error("failed to list categories", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list categories"})
		return
	}

	out := make([]CategoryDTO, 0, len(list))
	for _, cat := range list {
		out = append(out, toCategoryDTO(cat))
	}
	c.JSON(http.StatusOK, out)
}

// POST /v1/categories
func CreateCategory(c *gin.Context) {
	if !requireAdminOrReadOnly(c) {
		return
	}

	var input struct {
		Name string `json:"name" binding:"required,max=200"`
		Slug string `json:"slug" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := catalog.ValidateSlug(input.Slug); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := catalog.Category{Name: input.Name, Slug: input.Slug}
	if err := database.DB.Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Slug is already in use"})
			return
		}
		zap.L().Error("failed to create category", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	c.JSON(http.StatusCreated, toCategoryDTO(category))
}

// DELETE /v1/categories/:slug
//
// Titles that point at the category keep existing with a cleared reference.
func DeleteCategory(c *gin.Context) {
	if !requireAdminOrReadOnly(c) {
		return
	}

	var category catalog.Category
	if err := database.DB.Where("slug = ?", c.Param("slug")).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		zap.L().Error("failed to load category", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load category"})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&catalog.Title{}).
			Where("category_id = ?", category.ID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
	if err != nil {
		zap.L().Error("failed to delete category", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}

	c.Status(http.StatusNoContent)
}
