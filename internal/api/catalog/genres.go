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

// GET /v1/genres
func ListGenres(c *gin.Context) {
	query := database.DB.Model(&catalog.Genre{}).Order("slug ASC")
	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name LIKE ? OR slug LIKE ?", pattern, pattern)
	}
	query = pagination.Apply(c, query)

	var list []catalog.Genre
	if err := query.Find(&list).Error; err != nil {
		zap.L().Error("failed to list genres", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list genres"})
		return
	}

	out := make([]GenreDTO, 0, len(list))
	for _, g := range list {
		out = append(out, toGenreDTO(g))
	}
	c.JSON(http.StatusOK, out)
}

// POST /v1/genres
func CreateGenre(c *gin.Context) {
	if !requireAdminOrReadOnly(c) {
		return
	}

	var input struct {
		Name string `json:"name" binding:"required,max=256"`
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

	genre := catalog.Genre{Name: input.Name, Slug: input.Slug}
	if err := database.DB.Create(&genre).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Slug is already in use"})
			return
		}
		zap.L().Error("failed to create genre", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create genre"})
		return
	}

	c.JSON(http.StatusCreated, toGenreDTO(genre))
}

// DELETE /v1/genres/:slug
//
// Association rows survive with a cleared genre reference; the titles are
// untouched.
func DeleteGenre(c *gin.Context) {
	if !requireAdminOrReadOnly(c) {
		return
	}

	var genre catalog.Genre
	if err := database.DB.Where("slug = ?", c.Param("slug")).First(&genre).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Genre not found"})
			return
		}
		zap.L().Error("failed to load genre", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load genre"})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&catalog.GenreTitle{}).
			Where("genre_id = ?", genre.ID).
			Update("genre_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&genre).Error
	})
	if err != nil {
		zap.L().Error("failed to delete genre", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete genre"})
		return
	}

	c.Status(http.StatusNoContent)
}
