package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/reflalabs/refla-backend/internal/ai"
	"github.com/reflalabs/refla-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrOnboardingIncomplete = errors.New("onboarding not completed")
	ErrNoActivePlan         = errors.New("no active plan found")
)

// PlanService runs the generation pipeline: gate on onboarding, snapshot
// context, call the model, validate the output, then swap plans atomically.
type PlanService struct {
	db        *gorm.DB
	completer Completer
	contexts  *ContextBuilder
}

func NewPlanService(db *gorm.DB, completer Completer, contexts *ContextBuilder) *PlanService {
	return &PlanService{db: db, completer: completer, contexts: contexts}
}

// Generate produces, validates and persists a new active plan for the user,
// archiving any previously active plan in the same transaction. The model
// output is validated before anything is written, so a bad completion leaves
// the user's current plan untouched.
func (s *PlanService) Generate(ctx context.Context, userID uuid.UUID) (*models.Plan, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var onboarding models.Onboarding
	if err := s.db.First(&onboarding, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOnboardingMissing
		}
		return nil, err
	}
	if onboarding.Status != models.OnboardingCompleted {
		return nil, fmt.Errorf("%w (status: %s)", ErrOnboardingIncomplete, onboarding.Status)
	}

	snapshot, err := s.contexts.Build(userID)
	if err != nil {
		return nil, err
	}
	contextJSON, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize context: %w", err)
	}

	raw, err := s.completer.Complete(ctx, ai.PlanMessages(contextJSON), ai.PlanTemperature)
	if err != nil {
		slog.Error("plan completion failed", "action", "plan_generate", "user_id", userID.String(), "error", err)
		return nil, err
	}

	planData, err := ai.ParsePlanData(raw)
	if err != nil {
		slog.Error("model returned an unusable plan", "action", "plan_generate", "user_id", userID.String(), "error", err)
		return nil, err
	}

	payload, err := json.Marshal(planData)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize plan: %w", err)
	}

	plan := &models.Plan{
		UserID:   userID,
		Status:   models.PlanActive,
		PlanData: datatypes.JSON(payload),
	}

	// Archive and insert together so there is never a window with two active
	// plans, or none after a failed swap.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Plan{}).
			Where("user_id = ? AND status = ?", userID, models.PlanActive).
			Update("status", models.PlanArchived).Error; err != nil {
			return err
		}
		return tx.Create(plan).Error
	})
	if err != nil {
		return nil, err
	}

	slog.Info("plan generated", "user_id", userID.String(), "plan_id", plan.ID.String())
	return plan, nil
}

// ActivePlan returns the most recent plan with status active.
func (s *PlanService) ActivePlan(userID uuid.UUID) (*models.Plan, error) {
	var plan models.Plan
	err := s.db.Where("user_id = ? AND status = ?", userID, models.PlanActive).
		Order("created_at DESC").
		First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActivePlan
		}
		return nil, err
	}
	return &plan, nil
}

// List returns all plans for the user, newest first.
func (s *PlanService) List(userID uuid.UUID) ([]models.Plan, error) {
	var plans []models.Plan
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}
