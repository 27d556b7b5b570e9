package ai

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrInvalidPlan = errors.New("plan does not match the expected structure")

// TrainingDay is one scheduled training block.
type TrainingDay struct {
	Day             string   `json:"day"`
	Focus           string   `json:"focus"`
	DurationMinutes *int     `json:"durationMinutes"`
	Exercises       []string `json:"exercises"`
	Notes           *string  `json:"notes,omitempty"`
}

type NutritionGuidelines struct {
	TargetCalories *int     `json:"targetCalories"`
	ProteinGrams   *int     `json:"proteinGrams"`
	CarbsGrams     *int     `json:"carbsGrams"`
	FatsGrams      *int     `json:"fatsGrams"`
	MealsPerDay    *int     `json:"mealsPerDay"`
	Notes          *string  `json:"notes,omitempty"`
	SampleMeals    []string `json:"sampleMeals,omitempty"`
}

type SleepAndRecovery struct {
	TargetSleepHours  *float64 `json:"targetSleepHours"`
	SleepWindow       string   `json:"sleepWindow"`
	PreSleepRoutine   []string `json:"preSleepRoutine"`
	RecoveryPractices []string `json:"recoveryPractices"`
}

type Habit struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Frequency   string `json:"frequency"`
}

var validFrequencies = map[string]bool{
	"daily":     true,
	"weekly":    true,
	"on_demand": true,
}

// PlanData is the structured plan the model must return. Required scalars are
// pointers so an omitted field is distinguishable from a zero value.
type PlanData struct {
	Summary       string               `json:"summary"`
	KeyFocuses    []string             `json:"keyFocuses"`
	Training      []TrainingDay        `json:"training"`
	Nutrition     *NutritionGuidelines `json:"nutrition"`
	SleepRecovery *SleepAndRecovery    `json:"sleepRecovery"`
	Habits        []Habit              `json:"habits"`
}

// ParsePlanData strips an optional wrapping code fence, parses the remaining
// text as JSON and validates the result. Nothing invalid ever leaves this
// function.
func ParsePlanData(raw string) (*PlanData, error) {
	content := StripFence(raw)

	var plan PlanData
	if err := json.Unmarshal([]byte(content), &plan); err != nil {
		return nil, fmt.Errorf("failed to parse plan JSON: %w", err)
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Validate checks the full structural contract: presence of required fields,
// non-negative macros, sleep hours within a day, known habit frequencies.
func (p *PlanData) Validate() error {
	if p.Summary == "" {
		return invalid("summary is required")
	}
	if p.KeyFocuses == nil {
		return invalid("keyFocuses is required")
	}
	if p.Training == nil {
		return invalid("training is required")
	}
	for i, day := range p.Training {
		if day.Day == "" || day.Focus == "" {
			return invalid("training[%d] needs day and focus", i)
		}
		if day.DurationMinutes == nil || *day.DurationMinutes < 0 {
			return invalid("training[%d].durationMinutes must be a non-negative integer", i)
		}
		if day.Exercises == nil {
			return invalid("training[%d].exercises is required", i)
		}
	}

	n := p.Nutrition
	if n == nil {
		return invalid("nutrition is required")
	}
	for _, f := range []struct {
		name string
		val  *int
	}{
		{"targetCalories", n.TargetCalories},
		{"proteinGrams", n.ProteinGrams},
		{"carbsGrams", n.CarbsGrams},
		{"fatsGrams", n.FatsGrams},
	} {
		if f.val == nil || *f.val < 0 {
			return invalid("nutrition.%s must be a non-negative integer", f.name)
		}
	}
	if n.MealsPerDay == nil || *n.MealsPerDay < 1 {
		return invalid("nutrition.mealsPerDay must be at least 1")
	}

	s := p.SleepRecovery
	if s == nil {
		return invalid("sleepRecovery is required")
	}
	if s.TargetSleepHours == nil || *s.TargetSleepHours < 0 || *s.TargetSleepHours > 24 {
		return invalid("sleepRecovery.targetSleepHours must be between 0 and 24")
	}
	if s.SleepWindow == "" {
		return invalid("sleepRecovery.sleepWindow is required")
	}
	if s.PreSleepRoutine == nil || s.RecoveryPractices == nil {
		return invalid("sleepRecovery routines are required")
	}

	if p.Habits == nil {
		return invalid("habits is required")
	}
	for i, h := range p.Habits {
		if h.Name == "" || h.Description == "" {
			return invalid("habits[%d] needs name and description", i)
		}
		if !validFrequencies[h.Frequency] {
			return invalid("habits[%d].frequency must be daily, weekly or on_demand", i)
		}
	}

	return nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidPlan, fmt.Sprintf(format, args...))
}
