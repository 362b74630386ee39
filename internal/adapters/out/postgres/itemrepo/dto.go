// Package itemrepo gives order intake read access to the catalog.
package itemrepo

// ItemDTO is the row of the items table. The catalog is managed elsewhere;
// order intake only checks that ids exist.
type ItemDTO struct {
	ID        int64   `gorm:"primaryKey;autoIncrement"`
	Name      string  `gorm:"type:varchar(120);not null"`
	Category  string  `gorm:"type:varchar(120)"`
	Price     float64 `gorm:"not null"`
	IsService bool    `gorm:"not null;default:false"`
}

func (ItemDTO) TableName() string {
	return "items"
}
