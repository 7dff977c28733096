package catalog

// GenreTitle is the explicit association row between a Genre and a Title.
// Deleting a genre nulls GenreID; deleting a title removes the row.
type GenreTitle struct {
	ID uint `gorm:"primaryKey"`

	GenreID *uint
	Genre   *Genre `gorm:"constraint:OnDelete:SET NULL"`

	TitleID uint
	Title   Title `gorm:"constraint:OnDelete:CASCADE"`
}
