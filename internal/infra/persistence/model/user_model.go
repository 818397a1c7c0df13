package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// UserModel mirrors the 'users' table. The email column carries the unique index
// that guards against duplicate registrations.
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"type:varchar(100);not null"`
	Age          int       `gorm:"not null"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex:users_email_key"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// BeforeCreate assigns a time-ordered UUID when the caller did not provide one.
func (m *UserModel) BeforeCreate(_ *gorm.DB) error {
	if m.ID != uuid.Nil {
		return nil
	}

	id, err := uuid.NewV7()
	if err != nil {
		return errors.Wrap(err, "generate user id")
	}
	m.ID = id

	return nil
}
