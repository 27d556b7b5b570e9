package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Checkin is a dated self-report. It is immutable once created and keeps a
// link to the plan that was active at check-in time, if any.
type Checkin struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	PlanID       *uuid.UUID `gorm:"type:uuid;index" json:"plan_id"`
	Date         time.Time  `gorm:"not null;index" json:"date"`
	Energy       int        `gorm:"not null" json:"energy"`
	Mood         int        `gorm:"not null" json:"mood"`
	SleepQuality int        `gorm:"not null" json:"sleep_quality"`
	Adherence    int        `gorm:"not null" json:"adherence"`
	Note         *string    `gorm:"type:text" json:"note"`
	CreatedAt    time.Time  `json:"created_at"`
	User         User       `gorm:"foreignKey:UserID" json:"-"`
}

func (c *Checkin) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
