package services

import (
	"context"
	"testing"

	"github.com/reflalabs/refla-backend/internal/ai"
	"github.com/reflalabs/refla-backend/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Profile{},
		&models.Onboarding{},
		&models.Checkin{},
		&models.Plan{},
		&models.Session{},
		&models.Message{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:        email,
		Password:     "irrelevant",
		AuthProvider: "email",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// stubCompleter returns a canned reply or error and records what it was
// asked, so tests can assert on the prompt without a live endpoint.
type stubCompleter struct {
	reply string
	err   error

	calls           int
	lastMessages    []ai.Message
	lastTemperature float64
}

func (s *stubCompleter) Complete(_ context.Context, messages []ai.Message, temperature float64) (string, error) {
	s.calls++
	s.lastMessages = messages
	s.lastTemperature = temperature
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

// validPlanJSON satisfies every rule in the plan schema.
const validPlanJSON = `{
	"summary": "A four-week base building block.",
	"keyFocuses": ["strength", "sleep consistency"],
	"training": [
		{"day": "monday", "focus": "full body strength", "durationMinutes": 45, "exercises": ["squat", "press"]}
	],
	"nutrition": {
		"targetCalories": 2400,
		"proteinGrams": 150,
		"carbsGrams": 250,
		"fatsGrams": 80,
		"mealsPerDay": 3
	},
	"sleepRecovery": {
		"targetSleepHours": 8,
		"sleepWindow": "23:00-07:00",
		"preSleepRoutine": ["no screens after 22:00"],
		"recoveryPractices": ["daily walk"]
	},
	"habits": [
		{"name": "Hydration", "description": "Drink 2L of water.", "frequency": "daily"}
	]
}`
