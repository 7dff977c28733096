package reviews

import (
	"time"

	"review-platform/internal/domain/users"
)

type Comment struct {
	ID   uint   `gorm:"primaryKey"`
	Text string `gorm:"type:text;not null"`

	ReviewID uint   `gorm:"not null"`
	Review   Review `gorm:"constraint:OnDelete:CASCADE"`

	AuthorID uint       `gorm:"not null"`
	Author   users.User `gorm:"constraint:OnDelete:CASCADE"`

	PubDate time.Time `gorm:"autoCreateTime;index"`
}
