package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/reflalabs/refla-backend/internal/ai"
	"github.com/reflalabs/refla-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func completedOnboardingUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := createUser(t, db, email)
	svc := NewOnboardingService(db)
	_, err := svc.UpdateGoals(user.ID, json.RawMessage(`{"goal":"build muscle"}`))
	require.NoError(t, err)
	_, err = svc.UpdateCurrentState(user.ID, json.RawMessage(`{"weight":75}`))
	require.NoError(t, err)
	_, err = svc.UpdateRoutine(user.ID, json.RawMessage(`{"gym_days":3}`))
	require.NoError(t, err)
	return user
}

func newPlanService(db *gorm.DB, completer Completer) *PlanService {
	return NewPlanService(db, completer, NewContextBuilder(db))
}

func TestGenerateRequiresUser(t *testing.T) {
	db := setupDB(t)
	svc := newPlanService(db, &stubCompleter{reply: validPlanJSON})

	_, err := svc.Generate(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGenerateRequiresCompletedOnboarding(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, "partial@example.com")
	onboardingSvc := NewOnboardingService(db)
	_, err := onboardingSvc.UpdateGoals(user.ID, json.RawMessage(`{"goal":"run"}`))
	require.NoError(t, err)

	stub := &stubCompleter{reply: validPlanJSON}
	svc := newPlanService(db, stub)

	_, err = svc.Generate(context.Background(), user.ID)
	assert.ErrorIs(t, err, ErrOnboardingIncomplete)
	assert.Contains(t, err.Error(), "in_progress")

	// The gate fires before the model is ever contacted.
	assert.Zero(t, stub.calls)

	var count int64
	require.NoError(t, db.Model(&models.Plan{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGenerateMissingOnboarding(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, "noonboarding@example.com")
	svc := newPlanService(db, &stubCompleter{reply: validPlanJSON})

	_, err := svc.Generate(context.Background(), user.ID)
	assert.ErrorIs(t, err, ErrOnboardingMissing)
}

func TestGenerateFirstPlan(t *testing.T) {
	db := setupDB(t)
	user := completedOnboardingUser(t, db, "first@example.com")
	stub := &stubCompleter{reply: validPlanJSON}
	svc := newPlanService(db, stub)

	plan, err := svc.Generate(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, models.PlanActive, plan.Status)
	assert.Equal(t, user.ID, plan.UserID)
	assert.InDelta(t, ai.PlanTemperature, stub.lastTemperature, 0.001)

	// The prompt carries the user's context snapshot.
	require.NotEmpty(t, stub.lastMessages)
	assert.Contains(t, stub.lastMessages[len(stub.lastMessages)-1].Content, "build muscle")

	var parsed ai.PlanData
	require.NoError(t, json.Unmarshal(plan.PlanData, &parsed))
	assert.Equal(t, "A four-week base building block.", parsed.Summary)
}

func TestGenerateArchivesPreviousPlan(t *testing.T) {
	db := setupDB(t)
	user := completedOnboardingUser(t, db, "regen@example.com")
	svc := newPlanService(db, &stubCompleter{reply: validPlanJSON})

	first, err := svc.Generate(context.Background(), user.ID)
	require.NoError(t, err)
	second, err := svc.Generate(context.Background(), user.ID)
	require.NoError(t, err)

	var firstReloaded models.Plan
	require.NoError(t, db.First(&firstReloaded, "id = ?", first.ID).Error)
	assert.Equal(t, models.PlanArchived, firstReloaded.Status)

	var active int64
	require.NoError(t, db.Model(&models.Plan{}).
		Where("user_id = ? AND status = ?", user.ID, models.PlanActive).
		Count(&active).Error)
	assert.EqualValues(t, 1, active)

	current, err := svc.ActivePlan(user.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, current.ID)
}

func TestGenerateModelFailureLeavesActivePlan(t *testing.T) {
	db := setupDB(t)
	user := completedOnboardingUser(t, db, "failure@example.com")

	good := newPlanService(db, &stubCompleter{reply: validPlanJSON})
	existing, err := good.Generate(context.Background(), user.ID)
	require.NoError(t, err)

	bad := newPlanService(db, &stubCompleter{err: errors.New("upstream timeout")})
	_, err = bad.Generate(context.Background(), user.ID)
	require.Error(t, err)

	// The failed attempt wrote nothing and the old plan is still active.
	current, err := good.ActivePlan(user.ID)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, current.ID)

	var count int64
	require.NoError(t, db.Model(&models.Plan{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGenerateRejectsInvalidSchema(t *testing.T) {
	db := setupDB(t)
	user := completedOnboardingUser(t, db, "badschema@example.com")

	// mealsPerDay missing from an otherwise plausible plan.
	svc := newPlanService(db, &stubCompleter{reply: `{
		"summary": "ok", "keyFocuses": [], "training": [],
		"nutrition": {"targetCalories": 2000, "proteinGrams": 100, "carbsGrams": 200, "fatsGrams": 60},
		"sleepRecovery": {"targetSleepHours": 8, "sleepWindow": "23:00-07:00", "preSleepRoutine": [], "recoveryPractices": []},
		"habits": []
	}`})

	_, err := svc.Generate(context.Background(), user.ID)
	assert.ErrorIs(t, err, ai.ErrInvalidPlan)

	var count int64
	require.NoError(t, db.Model(&models.Plan{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGenerateAcceptsFencedOutput(t *testing.T) {
	db := setupDB(t)
	user := completedOnboardingUser(t, db, "fenced@example.com")
	svc := newPlanService(db, &stubCompleter{reply: "```json\n" + validPlanJSON + "\n```"})

	plan, err := svc.Generate(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PlanActive, plan.Status)
}

func TestActivePlanMissing(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, "noplan@example.com")
	svc := newPlanService(db, &stubCompleter{})

	_, err := svc.ActivePlan(user.ID)
	assert.ErrorIs(t, err, ErrNoActivePlan)
}

func TestListPlansNewestFirst(t *testing.T) {
	db := setupDB(t)
	user := completedOnboardingUser(t, db, "history@example.com")
	svc := newPlanService(db, &stubCompleter{reply: validPlanJSON})

	_, err := svc.Generate(context.Background(), user.ID)
	require.NoError(t, err)
	second, err := svc.Generate(context.Background(), user.ID)
	require.NoError(t, err)

	plans, err := svc.List(user.ID)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, second.ID, plans[0].ID)
	assert.Equal(t, models.PlanArchived, plans[1].Status)
}
