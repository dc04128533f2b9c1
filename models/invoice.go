package models

import (
	"hvacpro-backend/utils"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invoice is a billing document generated from one job.
type Invoice struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	TaskID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`

	Number string        `gorm:"uniqueIndex;not null"`
	Status InvoiceStatus `gorm:"type:varchar(20);not null;default:'draft'"`
	Total  float64       `gorm:"type:decimal(10,2);not null"`
	Notes  string        `gorm:"type:text"`
	Slug   string        `gorm:"uniqueIndex;not null"`

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type InvoiceItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	InvoiceID uuid.UUID `gorm:"type:uuid;index;not null"`

	Description string  `gorm:"not null"`
	Quantity    int     `gorm:"not null;default:1"`
	UnitPrice   float64 `gorm:"type:decimal(10,2);not null"`
	TotalPrice  float64 `gorm:"type:decimal(10,2);not null"`
}

// Slug is derived from the invoice number.
func (i *Invoice) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.Slug == "" {
		i.Slug, err = utils.UniqueSlug(tx, &Invoice{}, i.Number, nil)
	}
	return
}

func (it *InvoiceItem) BeforeCreate(tx *gorm.DB) (err error) {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	return
}
