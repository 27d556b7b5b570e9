package services

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/reflalabs/refla-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrOnboardingMissing = errors.New("onboarding not found, complete onboarding first")

// OnboardingService owns the three-section intake record. Each update
// replaces exactly one section and recomputes the derived status from the
// post-update values of all three; section and status are persisted together.
type OnboardingService struct {
	db *gorm.DB
}

func NewOnboardingService(db *gorm.DB) *OnboardingService {
	return &OnboardingService{db: db}
}

func (s *OnboardingService) Get(userID uuid.UUID) (*models.Onboarding, error) {
	var onboarding models.Onboarding
	if err := s.db.First(&onboarding, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOnboardingMissing
		}
		return nil, err
	}
	return &onboarding, nil
}

// ensure fetches the user's onboarding record, creating an empty one if it
// does not exist yet. Safe to call repeatedly.
func (s *OnboardingService) ensure(userID uuid.UUID) (*models.Onboarding, error) {
	var onboarding models.Onboarding
	err := s.db.First(&onboarding, "user_id = ?", userID).Error
	if err == nil {
		return &onboarding, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	onboarding = models.Onboarding{
		UserID: userID,
		Status: models.OnboardingNotStarted,
	}
	if err := s.db.Create(&onboarding).Error; err != nil {
		return nil, err
	}
	return &onboarding, nil
}

func (s *OnboardingService) UpdateGoals(userID uuid.UUID, goalData json.RawMessage) (*models.Onboarding, error) {
	onboarding, err := s.ensure(userID)
	if err != nil {
		return nil, err
	}

	section := datatypes.JSON(goalData)
	status := models.DeriveOnboardingStatus(section, onboarding.CurrentStateData, onboarding.RoutineData)
	return s.persist(onboarding, map[string]interface{}{
		"goal_data": section,
		"status":    status,
	})
}

func (s *OnboardingService) UpdateCurrentState(userID uuid.UUID, currentStateData json.RawMessage) (*models.Onboarding, error) {
	onboarding, err := s.ensure(userID)
	if err != nil {
		return nil, err
	}

	section := datatypes.JSON(currentStateData)
	status := models.DeriveOnboardingStatus(onboarding.GoalData, section, onboarding.RoutineData)
	return s.persist(onboarding, map[string]interface{}{
		"current_state_data": section,
		"status":             status,
	})
}

func (s *OnboardingService) UpdateRoutine(userID uuid.UUID, routineData json.RawMessage) (*models.Onboarding, error) {
	onboarding, err := s.ensure(userID)
	if err != nil {
		return nil, err
	}

	section := datatypes.JSON(routineData)
	status := models.DeriveOnboardingStatus(onboarding.GoalData, onboarding.CurrentStateData, section)
	return s.persist(onboarding, map[string]interface{}{
		"routine_data": section,
		"status":       status,
	})
}

func (s *OnboardingService) persist(onboarding *models.Onboarding, updates map[string]interface{}) (*models.Onboarding, error) {
	if err := s.db.Model(onboarding).Updates(updates).Error; err != nil {
		return nil, err
	}

	var fresh models.Onboarding
	if err := s.db.First(&fresh, "id = ?", onboarding.ID).Error; err != nil {
		return nil, err
	}
	return &fresh, nil
}
