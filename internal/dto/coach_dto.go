package dto

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate runs struct-tag validation on a request body.
func Validate(v interface{}) error {
	return validate.Struct(v)
}

// Each onboarding update carries one section. The section replaces the
// stored blob wholesale; there is no partial merge within a section.
type UpdateGoalsRequest struct {
	GoalData json.RawMessage `json:"goalData" validate:"required"`
}

type UpdateCurrentStateRequest struct {
	CurrentStateData json.RawMessage `json:"currentStateData" validate:"required"`
}

type UpdateRoutineRequest struct {
	RoutineData json.RawMessage `json:"routineData" validate:"required"`
}

type UpdateProfileRequest struct {
	Age                *int     `json:"age" validate:"omitempty,gte=10,lte=120"`
	Sex                *string  `json:"sex"`
	Height             *float64 `json:"height" validate:"omitempty,gt=0"`
	Weight             *float64 `json:"weight" validate:"omitempty,gt=0"`
	ActivityLevel      *string  `json:"activity_level"`
	DietaryPreferences *string  `json:"dietary_preferences"`
	Constraints        *string  `json:"constraints"`
}

type CreateCheckinRequest struct {
	Date         string  `json:"date" validate:"omitempty"`
	Energy       int     `json:"energy" validate:"required,gte=1,lte=5"`
	Mood         int     `json:"mood" validate:"required,gte=1,lte=5"`
	SleepQuality int     `json:"sleep_quality" validate:"required,gte=1,lte=5"`
	Adherence    int     `json:"adherence" validate:"gte=0,lte=100"`
	Note         *string `json:"note"`
}

type CreateSessionRequest struct {
	Type string `json:"type" validate:"required,oneof=onboarding coaching"`
}

type SendMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

type SendMessageResponse struct {
	UserMessage      string `json:"userMessage"`
	AssistantMessage string `json:"assistantMessage"`
}
