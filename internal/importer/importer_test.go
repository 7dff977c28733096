package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"review-platform/database"
	"review-platform/internal/domain/catalog"
	"review-platform/internal/domain/reviews"
	"review-platform/internal/domain/users"
)

var testDBSeq atomic.Int64

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:importtest%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func writeCSV(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestRunLoadsFullDataset(t *testing.T) {
	db := setupDB(t)
	dir := t.TempDir()

	writeCSV(t, dir, "users.csv",
		"id,username,email,role,bio,first_name,last_name\n"+
			"1,alice,alice@example.com,user,,Alice,A\n"+
			"2,mod,mod@example.com,moderator,,,\n"+
			"3,weird,weird@example.com,superhero,,,\n")
	writeCSV(t, dir, "category.csv",
		"id,name,slug\n1,Books,books\n")
	writeCSV(t, dir, "genre.csv",
		"id,name,slug\n1,Sci-Fi,sci-fi\n2,Drama,drama\n")
	writeCSV(t, dir, "titles.csv",
		"id,name,year,category\n1,Dune,1965,1\n2,Orphan,1990,\n")
	writeCSV(t, dir, "genre_title.csv",
		"id,title_id,genre_id\n1,1,1\n2,1,2\n")
	writeCSV(t, dir, "review.csv",
		"id,title_id,text,author,score,pub_date\n"+
			"1,1,Loved it,1,10,2019-09-24 21:32:59\n")
	writeCSV(t, dir, "comments.csv",
		"id,review_id,text,author,pub_date\n"+
			"1,1,Same here,2,2019-09-25T08:14:00Z\n")

	require.NoError(t, New(db, dir).Run())

	var userCount, titleCount, linkCount int64
	db.Model(&users.User{}).Count(&userCount)
	db.Model(&catalog.Title{}).Count(&titleCount)
	db.Model(&catalog.GenreTitle{}).Count(&linkCount)
	assert.EqualValues(t, 3, userCount)
	assert.EqualValues(t, 2, titleCount)
	assert.EqualValues(t, 2, linkCount)

	var weird users.User
	require.NoError(t, db.First(&weird, 3).Error)
	assert.Equal(t, users.RoleUser, weird.Role, "unknown role falls back to user")

	var dune catalog.Title
	require.NoError(t, db.First(&dune, 1).Error)
	require.NotNil(t, dune.CategoryID)
	assert.EqualValues(t, 1, *dune.CategoryID)

	var orphan catalog.Title
	require.NoError(t, db.First(&orphan, 2).Error)
	assert.Nil(t, orphan.CategoryID, "empty category column stays null")

	var review reviews.Review
	require.NoError(t, db.First(&review, 1).Error)
	assert.EqualValues(t, 1, review.AuthorID)
	assert.Equal(t, 2019, review.PubDate.Year())

	var comment reviews.Comment
	require.NoError(t, db.First(&comment, 1).Error)
	assert.EqualValues(t, 1, comment.ReviewID)
	assert.Equal(t, time.September, comment.PubDate.Month())
}

func TestRunAcceptsSuffixedHeaders(t *testing.T) {
	db := setupDB(t)
	dir := t.TempDir()

	writeCSV(t, dir, "users.csv",
		"id,username,email,role\n1,alice,alice@example.com,user\n")
	writeCSV(t, dir, "titles.csv",
		"id,name,year\n1,Dune,1965\n")
	writeCSV(t, dir, "review.csv",
		"id,title,text,author_id,score,pub_date\n"+
			"1,1,Loved it,1,10,2019-09-24 21:32:59\n")

	require.NoError(t, New(db, dir).Run())

	var review reviews.Review
	require.NoError(t, db.First(&review, 1).Error)
	assert.EqualValues(t, 1, review.TitleID)
	assert.EqualValues(t, 1, review.AuthorID)
}

func TestRunSkipsMissingFiles(t *testing.T) {
	db := setupDB(t)
	dir := t.TempDir()

	writeCSV(t, dir, "genre.csv", "id,name,slug\n1,Sci-Fi,sci-fi\n")

	require.NoError(t, New(db, dir).Run())

	var count int64
	db.Model(&catalog.Genre{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestRunRejectsMalformedCSV(t *testing.T) {
	db := setupDB(t)
	dir := t.TempDir()

	writeCSV(t, dir, "genre.csv", "id,name,slug\n1,Sci-Fi\n")

	err := New(db, dir).Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "genre.csv")
}
