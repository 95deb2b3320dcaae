package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Course struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Title           string    `gorm:"type:varchar(255);not null" json:"title"`
	Description     string    `gorm:"type:text;not null" json:"description"`
	EstimatedTime   *string   `gorm:"type:varchar(255)" json:"estimatedTime"`
	MaterialsNeeded *string   `gorm:"type:text" json:"materialsNeeded"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	CreatedAt       time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	Owner User `gorm:"foreignKey:UserID" json:"owner"`
}

func (Course) TableName() string {
	return "courses"
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
