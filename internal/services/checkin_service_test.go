package services

import (
	"testing"
	"time"

	"github.com/reflalabs/refla-backend/internal/dto"
	"github.com/reflalabs/refla-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestCreateCheckinLinksActivePlan(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, "linked@example.com")
	svc := NewCheckinService(db)

	plan := &models.Plan{
		UserID:   user.ID,
		Status:   models.PlanActive,
		PlanData: datatypes.JSON(`{}`),
	}
	require.NoError(t, db.Create(plan).Error)

	checkin, err := svc.Create(user.ID, &dto.CreateCheckinRequest{
		Date:         "2026-08-30",
		Energy:       4,
		Mood:         3,
		SleepQuality: 5,
		Adherence:    90,
	})
	require.NoError(t, err)

	require.NotNil(t, checkin.PlanID)
	assert.Equal(t, plan.ID, *checkin.PlanID)
	assert.Equal(t, 2026, checkin.Date.Year())
}

func TestCreateCheckinWithoutPlan(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, "unlinked@example.com")
	svc := NewCheckinService(db)

	checkin, err := svc.Create(user.ID, &dto.CreateCheckinRequest{
		Energy:       2,
		Mood:         2,
		SleepQuality: 3,
		Adherence:    50,
	})
	require.NoError(t, err)
	assert.Nil(t, checkin.PlanID)

	// No date supplied defaults to now.
	assert.WithinDuration(t, time.Now(), checkin.Date, time.Minute)
}

func TestListCheckinsDateRange(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, "range@example.com")
	svc := NewCheckinService(db)

	for _, day := range []string{"2026-08-01", "2026-08-10", "2026-08-20"} {
		_, err := svc.Create(user.ID, &dto.CreateCheckinRequest{
			Date: day, Energy: 3, Mood: 3, SleepQuality: 3, Adherence: 70,
		})
		require.NoError(t, err)
	}

	checkins, err := svc.List(user.ID, "2026-08-05", "2026-08-15")
	require.NoError(t, err)
	require.Len(t, checkins, 1)
	assert.Equal(t, 10, checkins[0].Date.Day())

	all, err := svc.List(user.ID, "", "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Newest first.
	assert.Equal(t, 20, all[0].Date.Day())
}
