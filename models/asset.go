package models

import (
	"hvacpro-backend/utils"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Asset is a piece of installed HVAC equipment at a site.
type Asset struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	SiteID       uuid.UUID `gorm:"type:uuid;index;not null"`
	AssetBrandID uuid.UUID `gorm:"type:uuid;index;not null"`
	AssetModelID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name         string `gorm:"not null"`
	InstalledOn  *time.Time
	SerialNumber string
	Slug         string `gorm:"uniqueIndex;not null"`

	Brand AssetBrand `gorm:"foreignKey:AssetBrandID"`
	Model AssetModel `gorm:"foreignKey:AssetModelID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Slug combines name and serial number so two "Rooftop Unit" assets stay distinct.
func (a *Asset) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Slug == "" {
		base := a.Name
		if a.SerialNumber != "" {
			base += " " + a.SerialNumber
		}
		a.Slug, err = utils.UniqueSlug(tx, &Asset{}, base, nil)
	}
	return
}
