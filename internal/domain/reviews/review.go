package reviews

import (
	"time"

	"review-platform/internal/domain/catalog"
	"review-platform/internal/domain/users"
)

const (
	MinScore = 0
	MaxScore = 10
)

// Review is a user's scored write-up of a title. A user may review a given
// title once; the composite unique index is the authority when two creates
// race.
type Review struct {
	ID   uint   `gorm:"primaryKey"`
	Text string `gorm:"type:text;not null"`

	TitleID uint          `gorm:"not null;uniqueIndex:idx_reviews_author_title"`
	Title   catalog.Title `gorm:"constraint:OnDelete:CASCADE"`

	AuthorID uint       `gorm:"not null;uniqueIndex:idx_reviews_author_title"`
	Author   users.User `gorm:"constraint:OnDelete:CASCADE"`

	Score int `gorm:"not null"`

	PubDate time.Time `gorm:"autoCreateTime"`
}

// ValidScore reports whether score is inside the accepted range.
func ValidScore(score int) bool {
	return score >= MinScore && score <= MaxScore
}
