package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PlanStatus string

const (
	PlanActive   PlanStatus = "active"
	PlanArchived PlanStatus = "archived"
)

// Plan is a generated, versioned artifact. At most one plan per user is
// active at any time; generating a new one archives the previous active plan
// in the same transaction. Plans are never mutated after creation, only
// re-statused active → archived.
type Plan struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Status    PlanStatus     `gorm:"size:20;not null;default:'active';index" json:"status"`
	PlanData  datatypes.JSON `gorm:"type:jsonb;not null" json:"plan_data"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	User      User           `gorm:"foreignKey:UserID" json:"-"`
}

func (p *Plan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
