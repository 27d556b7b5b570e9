package models

import (
	"bytes"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OnboardingStatus string

const (
	OnboardingNotStarted OnboardingStatus = "not_started"
	OnboardingInProgress OnboardingStatus = "in_progress"
	OnboardingCompleted  OnboardingStatus = "completed"
)

// Onboarding carries the three independently-settable intake sections.
// Status is always derived from which sections are present; it is never
// written on its own.
type Onboarding struct {
	ID               uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Status           OnboardingStatus `gorm:"size:20;not null;default:'not_started'" json:"status"`
	GoalData         datatypes.JSON   `gorm:"type:jsonb" json:"goal_data"`
	CurrentStateData datatypes.JSON   `gorm:"type:jsonb" json:"current_state_data"`
	RoutineData      datatypes.JSON   `gorm:"type:jsonb" json:"routine_data"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	User             User             `gorm:"foreignKey:UserID" json:"-"`
}

func (o *Onboarding) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

var jsonNull = []byte("null")

// SectionPresent reports whether a stored JSON section holds a real value.
// An unset column and an explicit JSON null both count as absent.
func SectionPresent(section datatypes.JSON) bool {
	return len(section) > 0 && !bytes.Equal(bytes.TrimSpace(section), jsonNull)
}

// DeriveOnboardingStatus computes the status from the post-update values of
// all three sections: all present → completed, any present → in_progress,
// none → not_started.
func DeriveOnboardingStatus(goal, currentState, routine datatypes.JSON) OnboardingStatus {
	hasGoal := SectionPresent(goal)
	hasCurrent := SectionPresent(currentState)
	hasRoutine := SectionPresent(routine)

	switch {
	case hasGoal && hasCurrent && hasRoutine:
		return OnboardingCompleted
	case hasGoal || hasCurrent || hasRoutine:
		return OnboardingInProgress
	default:
		return OnboardingNotStarted
	}
}
