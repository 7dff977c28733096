package catalog

type Category struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"type:varchar(200);not null"`
	Slug string `gorm:"type:varchar(50);not null;uniqueIndex:idx_categories_slug"`
}
