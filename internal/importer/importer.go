// Package importer bulk-loads the conventional CSV dataset into the
// database. It runs offline, outside the request-serving path.
package importer

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"review-platform/internal/domain/catalog"
	"review-platform/internal/domain/reviews"
	"review-platform/internal/domain/users"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const batchSize = 500

type Importer struct {
	db  *gorm.DB
	dir string
	log *zap.Logger
}

func New(db *gorm.DB, dir string) *Importer {
	return &Importer{db: db, dir: dir, log: zap.L()}
}

// Run loads every known file in dependency order: referenced rows first,
// referencing rows last. A missing file is logged and skipped; a malformed
// one aborts the run.
func (im *Importer) Run() error {
	steps := []struct {
		file string
		load func([]record) error
	}{
		{"users.csv", im.loadUsers},
		{"category.csv", im.loadCategories},
		{"genre.csv", im.loadGenres},
		{"titles.csv", im.loadTitles},
		{"genre_title.csv", im.loadGenreTitles},
		{"review.csv", im.loadReviews},
		{"comments.csv", im.loadComments},
	}

	for _, step := range steps {
		path := filepath.Join(im.dir, step.file)
		rows, err := readCSV(path)
		if err != nil {
			if os.IsNotExist(err) {
				im.log.Warn("file not found, skipping", zap.String("file", step.file))
				continue
			}
			return fmt.Errorf("%s: %w", step.file, err)
		}
		if err := step.load(rows); err != nil {
			return fmt.Errorf("%s: %w", step.file, err)
		}
		im.log.Info("loaded", zap.String("file", step.file), zap.Int("rows", len(rows)))
	}
	return nil
}

// record is one CSV row keyed by header name.
type record map[string]string

func readCSV(path string) ([]record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	records := make([]record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(record, len(header))
		for i, name := range header {
			if i < len(row) {
				rec[name] = row[i]
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// fk reads a foreign-key column that may appear either as the bare name
// ("author") or with the id suffix ("author_id").
func (r record) fk(name string) string {
	if v, ok := r[name+"_id"]; ok && v != "" {
		return v
	}
	return r[name]
}

func parseUint(s string) uint {
	v, _ := strconv.ParseUint(s, 10, 64)
	return uint(v)
}

func parseUintPtr(s string) *uint {
	if s == "" {
		return nil
	}
	v := parseUint(s)
	return &v
}

func parseInt(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

func parseTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func (im *Importer) loadUsers(rows []record) error {
	list := make([]users.User, 0, len(rows))
	for _, rec := range rows {
		role := users.Role(rec["role"])
		if !users.ValidRole(role) {
			role = users.RoleUser
		}
		list = append(list, users.User{
			ID:        parseUint(rec["id"]),
			Username:  rec["username"],
			Email:     rec["email"],
			FirstName: rec["first_name"],
			LastName:  rec["last_name"],
			Bio:       rec["bio"],
			Role:      role,
		})
	}
	return im.db.CreateInBatches(list, batchSize).Error
}

func (im *Importer) loadCategories(rows []record) error {
	list := make([]catalog.Category, 0, len(rows))
	for _, rec := range rows {
		list = append(list, catalog.Category{
			ID:   parseUint(rec["id"]),
			Name: rec["name"],
			Slug: rec["slug"],
		})
	}
	return im.db.CreateInBatches(list, batchSize).Error
}

func (im *Importer) loadGenres(rows []record) error {
	list := make([]catalog.Genre, 0, len(rows))
	for _, rec := range rows {
		list = append(list, catalog.Genre{
			ID:   parseUint(rec["id"]),
			Name: rec["name"],
			Slug: rec["slug"],
		})
	}
	return im.db.CreateInBatches(list, batchSize).Error
}

func (im *Importer) loadTitles(rows []record) error {
	list := make([]catalog.Title, 0, len(rows))
	for _, rec := range rows {
		list = append(list, catalog.Title{
			ID:          parseUint(rec["id"]),
			Name:        rec["name"],
			Year:        parseInt(rec["year"]),
			Description: rec["description"],
			CategoryID:  parseUintPtr(rec.fk("category")),
		})
	}
	return im.db.CreateInBatches(list, batchSize).Error
}

func (im *Importer) loadGenreTitles(rows []record) error {
	list := make([]catalog.GenreTitle, 0, len(rows))
	for _, rec := range rows {
		list = append(list, catalog.GenreTitle{
			ID:      parseUint(rec["id"]),
			GenreID: parseUintPtr(rec.fk("genre")),
			TitleID: parseUint(rec.fk("title")),
		})
	}
	return im.db.CreateInBatches(list, batchSize).Error
}

func (im *Importer) loadReviews(rows []record) error {
	list := make([]reviews.Review, 0, len(rows))
	for _, rec := range rows {
		list = append(list, reviews.Review{
			ID:       parseUint(rec["id"]),
			Text:     rec["text"],
			TitleID:  parseUint(rec.fk("title")),
			AuthorID: parseUint(rec.fk("author")),
			Score:    parseInt(rec["score"]),
			PubDate:  parseTime(rec["pub_date"]),
		})
	}
	return im.db.CreateInBatches(list, batchSize).Error
}

func (im *Importer) loadComments(rows []record) error {
	list := make([]reviews.Comment, 0, len(rows))
	for _, rec := range rows {
		list = append(list, reviews.Comment{
			ID:       parseUint(rec["id"]),
			Text:     rec["text"],
			ReviewID: parseUint(rec.fk("review")),
			AuthorID: parseUint(rec.fk("author")),
			PubDate:  parseTime(rec["pub_date"]),
		})
	}
	return im.db.CreateInBatches(list, batchSize).Error
}
