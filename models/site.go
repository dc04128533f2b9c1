package models

import (
	"hvacpro-backend/utils"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Site struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_site_customer_slug,priority:1"`

	AddressLine1 string `gorm:"not null"`
	AddressLine2 string
	Postcode     string `gorm:"not null"`
	City         string `gorm:"not null"`
	Notes        string `gorm:"type:text"`
	Slug         string `gorm:"not null;uniqueIndex:idx_site_customer_slug,priority:2"`

	Assets []Asset `gorm:"foreignKey:SiteID"`
	Tasks  []Task  `gorm:"foreignKey:SiteID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Slug is derived from the address and city, unique within the customer.
func (s *Site) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Slug == "" {
		s.Slug, err = utils.UniqueSlug(tx, &Site{}, s.AddressLine1+" "+s.City,
			map[string]interface{}{"customer_id": s.CustomerID})
	}
	return
}
