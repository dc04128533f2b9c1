package models

import (
	"hvacpro-backend/utils"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	Email    string    `gorm:"uniqueIndex;not null"`
	Password string    `gorm:"not null" json:"-"`
	Name     string    `gorm:"not null"`
	Phone    string

	// Name of the HVAC company, printed on invoice documents.
	CompanyName string

	// Whether the daily job-reminder SMS sweep includes this user's customers.
	SMSReminders bool `gorm:"default:true"`

	Customers []Customer `gorm:"foreignKey:UserID"`

	LastLogin *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Initialize UUID and hash the password before creating
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return
}
