package catalog

type Genre struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"type:varchar(256);not null"`
	Slug string `gorm:"type:varchar(50);not null;uniqueIndex:idx_genres_slug"`
}
