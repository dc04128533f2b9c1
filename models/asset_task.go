package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AssetTask links an asset to a job and carries the per-visit service detail.
// A given (asset, task) pair appears at most once.
type AssetTask struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	AssetID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_asset_task,priority:1"`
	TaskID  uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_asset_task,priority:2"`

	ServiceNotes    string `gorm:"type:text"`
	ConditionBefore string // good, fair, poor
	ConditionAfter  string
	FilterChanged   bool `gorm:"default:false"`
	PartsReplaced   bool `gorm:"default:false"`
	PartsList       string   `gorm:"type:text"`
	LaborHours      *float64 `gorm:"type:decimal(4,2)"`

	Asset Asset `gorm:"foreignKey:AssetID"`
	Task  Task  `gorm:"foreignKey:TaskID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (at *AssetTask) BeforeCreate(tx *gorm.DB) (err error) {
	if at.ID == uuid.Nil {
		at.ID = uuid.New()
	}
	return
}
