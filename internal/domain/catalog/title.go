package catalog

import (
	"fmt"
	"time"
)

type Title struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"type:varchar(256);not null"`
	Year        int    `gorm:"not null"`
	Description string `gorm:"type:text"`

	CategoryID *uint
	Category   *Category `gorm:"constraint:OnDelete:SET NULL"`
}

// ValidateYear enforces the release-year bounds: never negative, never in
// the future.
func ValidateYear(year int) error {
	if year < 0 {
		return fmt.Errorf("year must not be negative")
	}
	if current := time.Now().Year(); year > current {
		return fmt.Errorf("year must not be greater than %d", current)
	}
	return nil
}
