package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleTeacher UserRole = "teacher"
	RoleStudent UserRole = "student"
)

type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	FirstName    string     `gorm:"type:varchar(255);not null" json:"firstName"`
	LastName     string     `gorm:"type:varchar(255);not null" json:"lastName"`
	Email        string     `gorm:"type:citext;uniqueIndex;not null" json:"emailAddress"`
	Role         UserRole   `gorm:"type:varchar(16);not null;default:'student'" json:"role"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	TOTPSecret   *string    `gorm:"type:varchar(64)" json:"-"`
	FailedLogins int        `gorm:"not null;default:0" json:"-"`
	LockUntil    *time.Time `gorm:"type:timestamptz" json:"-"`
	CreatedAt    time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	// Relationships
	Courses []Course `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate hook to generate UUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TOTPEnrolled reports whether a second factor is required at login.
func (u *User) TOTPEnrolled() bool {
	return u.TOTPSecret != nil && *u.TOTPSecret != ""
}
