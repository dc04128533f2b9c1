package models

import (
	"hvacpro-backend/utils"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AssetBrand is a manufacturer in the global equipment catalog. The catalog is
// shared across all users, not scoped by owner.
type AssetBrand struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	Name        string    `gorm:"uniqueIndex;not null"`
	Description string    `gorm:"type:text"`
	IsActive    bool      `gorm:"default:true"`
	Slug        string    `gorm:"uniqueIndex;not null"`

	Models []AssetModel `gorm:"foreignKey:AssetBrandID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (b *AssetBrand) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Slug == "" {
		b.Slug, err = utils.UniqueSlug(tx, &AssetBrand{}, b.Name, nil)
	}
	return
}
