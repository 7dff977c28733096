package catalog

import (
	"review-platform/internal/domain/catalog"
)

type CategoryDTO struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type GenreDTO struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type TitleDTO struct {
	ID          uint         `json:"id"`
	Name        string       `json:"name"`
	Year        int          `json:"year"`
	Rating      *float64     `json:"rating"`
	Description string       `json:"description"`
	Genre       []GenreDTO   `json:"genre"`
	Category    *CategoryDTO `json:"category"`
}

func toCategoryDTO(c catalog.Category) CategoryDTO {
	return CategoryDTO{Name: c.Name, Slug: c.Slug}
}

func toGenreDTO(g catalog.Genre) GenreDTO {
	return GenreDTO{Name: g.Name, Slug: g.Slug}
}

func toTitleDTO(t catalog.Title, genres []catalog.Genre, rating *float64) TitleDTO {
	dto := TitleDTO{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      rating,
		Description: t.Description,
		Genre:       make([]GenreDTO, 0, len(genres)),
	}
	for _, g := range genres {
		dto.Genre = append(dto.Genre, toGenreDTO(g))
	}
	if t.Category != nil {
		cat := toCategoryDTO(*t.Category)
		dto.Category = &cat
	}
	return dto
}
