package services

import (
	"encoding/json"
	"testing"

	"github.com/reflalabs/refla-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestDeriveOnboardingStatus(t *testing.T) {
	filled := datatypes.JSON(`{"k":"v"}`)
	var empty datatypes.JSON

	tests := []struct {
		name    string
		goal    datatypes.JSON
		current datatypes.JSON
		routine datatypes.JSON
		want    models.OnboardingStatus
	}{
		{"none set", empty, empty, empty, models.OnboardingNotStarted},
		{"only goal", filled, empty, empty, models.OnboardingInProgress},
		{"only current state", empty, filled, empty, models.OnboardingInProgress},
		{"only routine", empty, empty, filled, models.OnboardingInProgress},
		{"goal and current state", filled, filled, empty, models.OnboardingInProgress},
		{"goal and routine", filled, empty, filled, models.OnboardingInProgress},
		{"current state and routine", empty, filled, filled, models.OnboardingInProgress},
		{"all set", filled, filled, filled, models.OnboardingCompleted},
		{"json null counts as absent", datatypes.JSON(`null`), filled, filled, models.OnboardingInProgress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, models.DeriveOnboardingStatus(tt.goal, tt.current, tt.routine))
		})
	}
}

func TestOnboardingGetMissing(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, "missing@example.com")
	svc := NewOnboardingService(db)

	_, err := svc.Get(user.ID)
	assert.ErrorIs(t, err, ErrOnboardingMissing)
}

func TestOnboardingUpdateCreatesRecord(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, "lazy@example.com")
	svc := NewOnboardingService(db)

	onboarding, err := svc.UpdateGoals(user.ID, json.RawMessage(`{"goal":"get stronger"}`))
	require.NoError(t, err)

	assert.Equal(t, models.OnboardingInProgress, onboarding.Status)
	assert.JSONEq(t, `{"goal":"get stronger"}`, string(onboarding.GoalData))
	assert.False(t, models.SectionPresent(onboarding.CurrentStateData))
	assert.False(t, models.SectionPresent(onboarding.RoutineData))
}

func TestOnboardingSectionsAreIndependent(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, "sections@example.com")
	svc := NewOnboardingService(db)

	_, err := svc.UpdateGoals(user.ID, json.RawMessage(`{"goal":"run a marathon"}`))
	require.NoError(t, err)

	onboarding, err := svc.UpdateCurrentState(user.ID, json.RawMessage(`{"weight":80}`))
	require.NoError(t, err)

	// Updating one section must not disturb another.
	assert.JSONEq(t, `{"goal":"run a marathon"}`, string(onboarding.GoalData))
	assert.JSONEq(t, `{"weight":80}`, string(onboarding.CurrentStateData))
	assert.Equal(t, models.OnboardingInProgress, onboarding.Status)
}

func TestOnboardingCompletesWithLastSection(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, "complete@example.com")
	svc := NewOnboardingService(db)

	_, err := svc.UpdateGoals(user.ID, json.RawMessage(`{"goal":"sleep better"}`))
	require.NoError(t, err)
	_, err = svc.UpdateCurrentState(user.ID, json.RawMessage(`{"sleep":5}`))
	require.NoError(t, err)

	onboarding, err := svc.UpdateRoutine(user.ID, json.RawMessage(`{"bedtime":"23:00"}`))
	require.NoError(t, err)
	assert.Equal(t, models.OnboardingCompleted, onboarding.Status)

	// Re-submitting a section keeps the record completed.
	onboarding, err = svc.UpdateGoals(user.ID, json.RawMessage(`{"goal":"sleep much better"}`))
	require.NoError(t, err)
	assert.Equal(t, models.OnboardingCompleted, onboarding.Status)
}

func TestOnboardingNullSectionRegresses(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, "regress@example.com")
	svc := NewOnboardingService(db)

	_, err := svc.UpdateGoals(user.ID, json.RawMessage(`{"goal":"eat better"}`))
	require.NoError(t, err)
	_, err = svc.UpdateCurrentState(user.ID, json.RawMessage(`{"meals":2}`))
	require.NoError(t, err)
	_, err = svc.UpdateRoutine(user.ID, json.RawMessage(`{"wake":"06:30"}`))
	require.NoError(t, err)

	// Writing a JSON null clears the section and the status falls back.
	onboarding, err := svc.UpdateRoutine(user.ID, json.RawMessage(`null`))
	require.NoError(t, err)
	assert.Equal(t, models.OnboardingInProgress, onboarding.Status)
}
