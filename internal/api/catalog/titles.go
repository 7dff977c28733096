package catalog

import (
	"errors"
	"net/http"

	"review-platform/database"
	"review-platform/internal/api/pagination"
	"review-platform/internal/domain/catalog"
	"review-platform/internal/domain/reviews"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GET /v1/titles
func ListTitles(c *gin.Context) {
	query := filteredTitlesQuery(c, database.DB).
		Preload("Category").
		Order("id ASC")
	query = pagination.Apply(c, query)

	var titles []catalog.Title
	if err := query.Find(&titles).Error; err != nil {
		zap.L().Error("failed to list titles", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list titles"})
		return
	}

	ids := make([]uint, 0, len(titles))
	for _, t := range titles {
		ids = append(ids, t.ID)
	}

	genres, err := genresFor(database.DB, ids)
	if err != nil {
		zap.L().Error("failed to load title genres", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list titles"})
		return
	}
	ratings, err := ratingsFor(database.DB, ids)
	if err != nil {
		zap.L().Error("failed to compute ratings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list titles"})
		return
	}

	out := make([]TitleDTO, 0, len(titles))
	for _, t := range titles {
		var rating *float64
		if avg, ok := ratings[t.ID]; ok {
			rating = &avg
		}
		out = append(out, toTitleDTO(t, genres[t.ID], rating))
	}
	c.JSON(http.StatusOK, out)
}

// GET /v1/titles/:title_id
func GetTitle(c *gin.Context) {
	title, ok := findTitle(c)
	if !ok {
		return
	}
	renderTitle(c, *title)
}

type titleInput struct {
	Name        string   `json:"name" binding:"required,max=256"`
	Year        *int     `json:"year" binding:"required"`
	Description string   `json:"description"`
	Genre       []string `json:"genre"`
	Category    string   `json:"category"`
}

// POST /v1/titles
func CreateTitle(c *gin.Context) {
	if !requireAdminOrReadOnly(c) {
		return
	}

	var input titleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := catalog.ValidateYear(*input.Year); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var categoryID *uint
	if input.Category != "" {
		category, ok := lookupCategory(c, input.Category)
		if !ok {
			return
		}
		categoryID = &category.ID
	}
	genres, ok := lookupGenres(c, input.Genre)
	if !ok {
		return
	}

	var exists int64
	database.DB.Model(&catalog.Title{}).
		Where("name = ? AND year = ?", input.Name, *input.Year).
		Count(&exists)
	if exists > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title already exists"})
		return
	}

	title := catalog.Title{
		Name:        input.Name,
		Year:        *input.Year,
		Description: input.Description,
		CategoryID:  categoryID,
	}
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&title).Error; err != nil {
			return err
		}
		return linkGenres(tx, title.ID, genres)
	})
	if err != nil {
		zap.L().Error("failed to create title", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create title"})
		return
	}

	reloadAndRenderTitle(c, title.ID, http.StatusCreated)
}

// PATCH /v1/titles/:title_id
func PatchTitle(c *gin.Context) {
	if !requireAdminOrReadOnly(c) {
		return
	}

	title, ok := findTitle(c)
	if !ok {
		return
	}

	var patch struct {
		Name        *string   `json:"name" binding:"omitempty,max=256"`
		Year        *int      `json:"year"`
		Description *string   `json:"description"`
		Genre       *[]string `json:"genre"`
		Category    *string   `json:"category"`
	}
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if patch.Name != nil {
		title.Name = *patch.Name
	}
	if patch.Year != nil {
		if err := catalog.ValidateYear(*patch.Year); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		title.Year = *patch.Year
	}
	if patch.Description != nil {
		title.Description = *patch.Description
	}
	if patch.Category != nil {
		if *patch.Category == "" {
			title.CategoryID = nil
			title.Category = nil
		} else {
			category, ok := lookupCategory(c, *patch.Category)
			if !ok {
				return
			}
			title.CategoryID = &category.ID
			title.Category = category
		}
	}

	var newGenres []catalog.Genre
	if patch.Genre != nil {
		genres, ok := lookupGenres(c, *patch.Genre)
		if !ok {
			return
		}
		newGenres = genres
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(title).Error; err != nil {
			return err
		}
		if patch.Genre == nil {
			return nil
		}
		if err := tx.Where("title_id = ?", title.ID).
			Delete(&catalog.GenreTitle{}).Error; err != nil {
			return err
		}
		return linkGenres(tx, title.ID, newGenres)
	})
	if err != nil {
		zap.L().Error("failed to update title", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update title"})
		return
	}

	reloadAndRenderTitle(c, title.ID, http.StatusOK)
}

// DELETE /v1/titles/:title_id
//
// Reviews and their comments go with the title; genre links are removed,
// the genres themselves stay.
func DeleteTitle(c *gin.Context) {
	if !requireAdminOrReadOnly(c) {
		return
	}

	title, ok := findTitle(c)
	if !ok {
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(
			"review_id IN (SELECT id FROM reviews WHERE title_id = ?)", title.ID,
		).Delete(&reviews.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("title_id = ?", title.ID).
			Delete(&reviews.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("title_id = ?", title.ID).
			Delete(&catalog.GenreTitle{}).Error; err != nil {
			return err
		}
		return tx.Delete(title).Error
	})
	if err != nil {
		zap.L().Error("failed to delete title", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete title"})
		return
	}

	c.Status(http.StatusNoContent)
}

func findTitle(c *gin.Context) (*catalog.Title, bool) {
	var title catalog.Title
	err := database.DB.Preload("Category").First(&title, "id = ?", c.Param("title_id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Title not found"})
			return nil, false
		}
		zap.L().Error("failed to load title", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load title"})
		return nil, false
	}
	return &title, true
}

func lookupCategory(c *gin.Context, slug string) (*catalog.Category, bool) {
	var category catalog.Category
	if err := database.DB.Where("slug = ?", slug).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category slug"})
			return nil, false
		}
		zap.L().Error("failed to load category", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load category"})
		return nil, false
	}
	return &category, true
}

func lookupGenres(c *gin.Context, slugs []string) ([]catalog.Genre, bool) {
	genres := make([]catalog.Genre, 0, len(slugs))
	for _, slug := range slugs {
		var genre catalog.Genre
		if err := database.DB.Where("slug = ?", slug).First(&genre).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown genre slug"})
				return nil, false
			}
			zap.L().Error("failed to load genre", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load genre"})
			return nil, false
		}
		genres = append(genres, genre)
	}
	return genres, true
}

func linkGenres(tx *gorm.DB, titleID uint, genres []catalog.Genre) error {
	for _, genre := range genres {
		genreID := genre.ID
		link := catalog.GenreTitle{GenreID: &genreID, TitleID: titleID}
		if err := tx.Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}

func renderTitle(c *gin.Context, title catalog.Title) {
	renderTitleStatus(c, title, http.StatusOK)
}

func renderTitleStatus(c *gin.Context, title catalog.Title, status int) {
	genres, err := genresFor(database.DB, []uint{title.ID})
	if err != nil {
		zap.L().Error("failed to load title genres", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load title"})
		return
	}
	ratings, err := ratingsFor(database.DB, []uint{title.ID})
	if err != nil {
		zap.L().Error("failed to compute rating", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load title"})
		return
	}

	var rating *float64
	if avg, ok := ratings[title.ID]; ok {
		rating = &avg
	}
	c.JSON(status, toTitleDTO(title, genres[title.ID], rating))
}

func reloadAndRenderTitle(c *gin.Context, id uint, status int) {
	var title catalog.Title
	if err := database.DB.Preload("Category").First(&title, id).Error; err != nil {
		zap.L().Error("failed to reload title", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load title"})
		return
	}
	renderTitleStatus(c, title, status)
}
