package models

import (
	"hvacpro-backend/utils"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task is a scheduled or completed unit of field work at a site. "Task" and
// "job" are synonyms in this domain.
type Task struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	SiteID uuid.UUID `gorm:"type:uuid;index;not null"`

	Type        TaskType   `gorm:"type:varchar(20);not null"`
	Title       string     `gorm:"not null"`
	Description string     `gorm:"type:text"`
	Status      TaskStatus `gorm:"type:varchar(20);not null;default:'scheduled'"`
	ScheduledAt time.Time  `gorm:"not null;index"`
	CompletedAt *time.Time
	Slug        string `gorm:"uniqueIndex;not null"`

	Site    Site        `gorm:"foreignKey:SiteID"`
	Invoice *Invoice    `gorm:"foreignKey:TaskID"`
	Assets  []AssetTask `gorm:"foreignKey:TaskID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Slug combines title and scheduled date, like "spring-tune-up-2025-03-14".
func (t *Task) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Slug == "" {
		t.Slug, err = utils.UniqueSlug(tx, &Task{}, t.Title+" "+t.ScheduledAt.Format("2006-01-02"), nil)
	}
	return
}
