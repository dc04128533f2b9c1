package models

import (
	"hvacpro-backend/utils"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssetModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	AssetBrandID uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_model_brand_slug,priority:1"`

	Name             string `gorm:"not null"`
	Description      string `gorm:"type:text"`
	ModelNumber      string
	BtuRating        *float64 `gorm:"type:decimal(8,2)"`
	EfficiencyRating string
	IsActive         bool   `gorm:"default:true"`
	Slug             string `gorm:"not null;uniqueIndex:idx_model_brand_slug,priority:2"`

	Brand AssetBrand `gorm:"foreignKey:AssetBrandID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Slug is unique within the brand, not globally.
func (m *AssetModel) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Slug == "" {
		m.Slug, err = utils.UniqueSlug(tx, &AssetModel{}, m.Name,
			map[string]interface{}{"asset_brand_id": m.AssetBrandID})
	}
	return
}
