package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/reflalabs/refla-backend/internal/dto"
	"github.com/reflalabs/refla-backend/internal/models"
	"gorm.io/gorm"
)

type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// MeResponse bundles the user with their profile and onboarding record for
// the account overview endpoint.
type MeResponse struct {
	User       models.User        `json:"user"`
	Profile    *models.Profile    `json:"profile"`
	Onboarding *models.Onboarding `json:"onboarding"`
}

func (s *ProfileService) Me(userID uuid.UUID) (*MeResponse, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	resp := &MeResponse{User: user}

	var profile models.Profile
	if err := s.db.First(&profile, "user_id = ?", userID).Error; err == nil {
		resp.Profile = &profile
	}

	var onboarding models.Onboarding
	if err := s.db.First(&onboarding, "user_id = ?", userID).Error; err == nil {
		resp.Onboarding = &onboarding
	}

	return resp, nil
}

// Update mutates only the supplied fields, creating the profile on first use.
func (s *ProfileService) Update(userID uuid.UUID, req *dto.UpdateProfileRequest) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.First(&profile, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.Profile{UserID: userID}
		if err := s.db.Create(&profile).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	if req.Age != nil {
		profile.Age = req.Age
	}
	if req.Sex != nil {
		profile.Sex = req.Sex
	}
	if req.Height != nil {
		profile.Height = req.Height
	}
	if req.Weight != nil {
		profile.Weight = req.Weight
	}
	if req.ActivityLevel != nil {
		profile.ActivityLevel = req.ActivityLevel
	}
	if req.DietaryPreferences != nil {
		profile.DietaryPreferences = req.DietaryPreferences
	}
	if req.Constraints != nil {
		profile.Constraints = req.Constraints
	}

	if err := s.db.Save(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}
