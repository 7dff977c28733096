package catalog

import (
	"review-platform/internal/domain/catalog"
	"review-platform/internal/domain/reviews"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// filteredTitlesQuery applies the substring filters from the query string.
// All four filters match substrings, year included, mirroring the public
// API contract.
func filteredTitlesQuery(c *gin.Context, db *gorm.DB) *gorm.DB {
	query := db.Model(&catalog.Title{})

	if category := c.Query("category"); category != "" {
		query = query.Where(
			"category_id IN (SELECT id FROM categories WHERE slug LIKE ?)",
			"%"+category+"%")
	}
	if genre := c.Query("genre"); genre != "" {
		query = query.Where(
			"id IN (SELECT genre_titles.title_id FROM genre_titles"+
				" JOIN genres ON genres.id = genre_titles.genre_id"+
				" WHERE genres.slug LIKE ?)",
			"%"+genre+"%")
	}
	if name := c.Query("name"); name != "" {
		query = query.Where("name LIKE ?", "%"+name+"%")
	}
	if year := c.Query("year"); year != "" {
		query = query.Where("CAST(year AS TEXT) LIKE ?", "%"+year+"%")
	}

	return query
}

// ratingsFor computes the mean review score per title. Titles without
// reviews are absent from the map.
func ratingsFor(db *gorm.DB, titleIDs []uint) (map[uint]float64, error) {
	if len(titleIDs) == 0 {
		return map[uint]float64{}, nil
	}

	var rows []struct {
		TitleID uint
		Rating  float64
	}
	err := db.Model(&reviews.Review{}).
		Select("title_id, AVG(score) AS rating").
		Where("title_id IN ?", titleIDs).
		Group("title_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	ratings := make(map[uint]float64, len(rows))
	for _, row := range rows {
		ratings[row.TitleID] = row.Rating
	}
	return ratings, nil
}

// genresFor loads the genres linked to each title through genre_titles.
func genresFor(db *gorm.DB, titleIDs []uint) (map[uint][]catalog.Genre, error) {
	if len(titleIDs) == 0 {
		return map[uint][]catalog.Genre{}, nil
	}

	var rows []struct {
		TitleID uint
		ID      uint
		Name    string
		Slug    string
	}
	err := db.Table("genre_titles").
		Select("genre_titles.title_id, genres.id, genres.name, genres.slug").
		Joins("JOIN genres ON genres.id = genre_titles.genre_id").
		Where("genre_titles.title_id IN ?", titleIDs).
		Order("genres.slug ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	genres := make(map[uint][]catalog.Genre, len(titleIDs))
	for _, row := range rows {
		genres[row.TitleID] = append(genres[row.TitleID], catalog.Genre{
			ID:   row.ID,
			Name: row.Name,
			Slug: row.Slug,
		})
	}
	return genres, nil
}
