package services

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/reflalabs/refla-backend/internal/models"
	"gorm.io/gorm"
)

// recentCheckinLimit caps how many check-ins travel with the snapshot.
const recentCheckinLimit = 7

type ContextUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Provider  string `json:"provider"`
	CreatedAt string `json:"createdAt"`
}

type ContextProfile struct {
	Age                *int     `json:"age"`
	Sex                *string  `json:"sex"`
	Height             *float64 `json:"height"`
	Weight             *float64 `json:"weight"`
	ActivityLevel      *string  `json:"activityLevel"`
	DietaryPreferences *string  `json:"dietaryPreferences"`
	Constraints        *string  `json:"constraints"`
}

type ContextOnboarding struct {
	Status           models.OnboardingStatus `json:"status"`
	GoalData         json.RawMessage         `json:"goalData"`
	CurrentStateData json.RawMessage         `json:"currentStateData"`
	RoutineData      json.RawMessage         `json:"routineData"`
}

type ContextCheckin struct {
	Date         string  `json:"date"`
	Energy       int     `json:"energy"`
	Mood         int     `json:"mood"`
	SleepQuality int     `json:"sleepQuality"`
	Adherence    int     `json:"adherence"`
	Note         *string `json:"note,omitempty"`
}

// ContextSnapshot is the single point-in-time aggregation handed to the
// model. Both the plan pipeline and the chat orchestrator pass exactly this
// and nothing else.
type ContextSnapshot struct {
	User           ContextUser        `json:"user"`
	Profile        *ContextProfile    `json:"profile"`
	Onboarding     *ContextOnboarding `json:"onboarding"`
	RecentCheckins []ContextCheckin   `json:"recentCheckins"`
}

// ContextBuilder denormalizes a user's scattered records into one snapshot.
type ContextBuilder struct {
	db *gorm.DB
}

func NewContextBuilder(db *gorm.DB) *ContextBuilder {
	return &ContextBuilder{db: db}
}

// Build reads fresh state on every call. Snapshots are never cached, since
// onboarding and profile data can change between turns.
func (b *ContextBuilder) Build(userID uuid.UUID) (*ContextSnapshot, error) {
	var user models.User
	if err := b.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	snapshot := &ContextSnapshot{
		User: ContextUser{
			ID:        user.ID.String(),
			Email:     user.Email,
			Provider:  user.AuthProvider,
			CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
		},
		RecentCheckins: []ContextCheckin{},
	}

	var profile models.Profile
	if err := b.db.First(&profile, "user_id = ?", userID).Error; err == nil {
		snapshot.Profile = &ContextProfile{
			Age:                profile.Age,
			Sex:                profile.Sex,
			Height:             profile.Height,
			Weight:             profile.Weight,
			ActivityLevel:      profile.ActivityLevel,
			DietaryPreferences: profile.DietaryPreferences,
			Constraints:        profile.Constraints,
		}
	}

	var onboarding models.Onboarding
	if err := b.db.First(&onboarding, "user_id = ?", userID).Error; err == nil {
		snapshot.Onboarding = &ContextOnboarding{
			Status:           onboarding.Status,
			GoalData:         json.RawMessage(onboarding.GoalData),
			CurrentStateData: json.RawMessage(onboarding.CurrentStateData),
			RoutineData:      json.RawMessage(onboarding.RoutineData),
		}
	}

	var checkins []models.Checkin
	if err := b.db.Where("user_id = ?", userID).
		Order("date DESC").
		Limit(recentCheckinLimit).
		Find(&checkins).Error; err != nil {
		return nil, err
	}
	for _, c := range checkins {
		snapshot.RecentCheckins = append(snapshot.RecentCheckins, ContextCheckin{
			Date:         c.Date.UTC().Format(time.RFC3339),
			Energy:       c.Energy,
			Mood:         c.Mood,
			SleepQuality: c.SleepQuality,
			Adherence:    c.Adherence,
			Note:         c.Note,
		})
	}

	return snapshot, nil
}
