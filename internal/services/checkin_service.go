package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/reflalabs/refla-backend/internal/dto"
	"github.com/reflalabs/refla-backend/internal/models"
	"gorm.io/gorm"
)

// CheckinService records dated self-reports. Check-ins are immutable once
// created and keep a link to the plan active at creation time.
type CheckinService struct {
	db *gorm.DB
}

func NewCheckinService(db *gorm.DB) *CheckinService {
	return &CheckinService{db: db}
}

func parseCheckinDate(raw string) time.Time {
	if raw == "" {
		return time.Now()
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t
	}
	return time.Now()
}

func (s *CheckinService) Create(userID uuid.UUID, req *dto.CreateCheckinRequest) (*models.Checkin, error) {
	checkin := &models.Checkin{
		UserID:       userID,
		Date:         parseCheckinDate(req.Date),
		Energy:       req.Energy,
		Mood:         req.Mood,
		SleepQuality: req.SleepQuality,
		Adherence:    req.Adherence,
		Note:         req.Note,
	}

	var activePlan models.Plan
	if err := s.db.Where("user_id = ? AND status = ?", userID, models.PlanActive).
		Order("created_at DESC").
		First(&activePlan).Error; err == nil {
		checkin.PlanID = &activePlan.ID
	}

	if err := s.db.Create(checkin).Error; err != nil {
		return nil, err
	}
	return checkin, nil
}

// List returns the user's check-ins newest first, optionally bounded by an
// inclusive date range.
func (s *CheckinService) List(userID uuid.UUID, from, to string) ([]models.Checkin, error) {
	query := s.db.Where("user_id = ?", userID)
	if from != "" {
		query = query.Where("date >= ?", parseCheckinDate(from))
	}
	if to != "" {
		query = query.Where("date <= ?", parseCheckinDate(to))
	}

	var checkins []models.Checkin
	if err := query.Order("date DESC").Find(&checkins).Error; err != nil {
		return nil, err
	}
	return checkins, nil
}
