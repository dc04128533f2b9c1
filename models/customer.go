package models

import (
	"hvacpro-backend/utils"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name  string `gorm:"not null"`
	Phone string `gorm:"not null"`
	Email string
	Slug  string `gorm:"uniqueIndex;not null"`

	Sites []Site `gorm:"foreignKey:CustomerID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Slugs are generated once at creation and never regenerated, so URLs stay stable.
func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Slug == "" {
		c.Slug, err = utils.UniqueSlug(tx, &Customer{}, c.Name, nil)
	}
	return
}
