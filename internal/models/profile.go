package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile holds the free-form physiological and preference attributes a user
// fills in over time. It is created lazily on the first update; every field
// except the owner link is optional.
type Profile struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Age                *int      `json:"age"`
	Sex                *string   `gorm:"size:20" json:"sex"`
	Height             *float64  `json:"height"`
	Weight             *float64  `json:"weight"`
	ActivityLevel      *string   `gorm:"size:50" json:"activity_level"`
	DietaryPreferences *string   `gorm:"type:text" json:"dietary_preferences"`
	Constraints        *string   `gorm:"type:text" json:"constraints"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	User               User      `gorm:"foreignKey:UserID" json:"-"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
