package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/reflalabs/refla-backend/internal/ai"
	"github.com/reflalabs/refla-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newChatService(db *gorm.DB, completer Completer) *ChatService {
	return NewChatService(db, completer, NewContextBuilder(db))
}

func TestCreateAndListSessions(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, "chat@example.com")
	svc := newChatService(db, &stubCompleter{})

	first, err := svc.CreateSession(user.ID, models.SessionOnboarding)
	require.NoError(t, err)
	assert.Equal(t, models.SessionOnboarding, first.Type)
	assert.Equal(t, "active", first.Status)

	_, err = svc.CreateSession(user.ID, models.SessionCoaching)
	require.NoError(t, err)

	sessions, err := svc.ListSessions(user.ID)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}

func TestMessagesUnknownSession(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, "unknown@example.com")
	svc := newChatService(db, &stubCompleter{})

	_, err := svc.Messages(user.ID, uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSendMessageForeignSession(t *testing.T) {
	db := setupDB(t)
	owner := createUser(t, db, "owner@example.com")
	intruder := createUser(t, db, "intruder@example.com")
	svc := newChatService(db, &stubCompleter{reply: "hi"})

	session, err := svc.CreateSession(owner.ID, models.SessionCoaching)
	require.NoError(t, err)

	_, err = svc.SendMessage(context.Background(), intruder.ID, session.ID, "let me in")
	assert.ErrorIs(t, err, ErrNotSessionOwner)

	// The rejected attempt left no trace in the session.
	var count int64
	require.NoError(t, db.Model(&models.Message{}).Where("session_id = ?", session.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSendMessagePersistsBothTurns(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, "turns@example.com")
	stub := &stubCompleter{reply: "Start with three sessions a week."}
	svc := newChatService(db, stub)

	session, err := svc.CreateSession(user.ID, models.SessionCoaching)
	require.NoError(t, err)

	reply, err := svc.SendMessage(context.Background(), user.ID, session.ID, "How often should I train?")
	require.NoError(t, err)
	assert.Equal(t, "Start with three sessions a week.", reply)
	assert.InDelta(t, ai.ChatTemperature, stub.lastTemperature, 0.001)

	messages, err := svc.Messages(user.ID, session.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, models.RoleUser, messages[0].Role)
	assert.Equal(t, "How often should I train?", messages[0].Content)
	assert.Equal(t, models.RoleAssistant, messages[1].Role)
	assert.Equal(t, reply, messages[1].Content)
}

func TestSendMessageHistoryWindow(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, "window@example.com")
	stub := &stubCompleter{reply: "noted"}
	svc := newChatService(db, stub)

	session, err := svc.CreateSession(user.ID, models.SessionCoaching)
	require.NoError(t, err)

	// Seed more history than the window holds, spaced so ordering is exact.
	base := time.Now().Add(-1 * time.Hour)
	for i := 0; i < 25; i++ {
		role := models.RoleUser
		if i%2 == 1 {
			role = models.RoleAssistant
		}
		require.NoError(t, db.Create(&models.Message{
			SessionID: session.ID,
			Role:      role,
			Content:   fmt.Sprintf("turn %02d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}).Error)
	}

	_, err = svc.SendMessage(context.Background(), user.ID, session.ID, "latest question")
	require.NoError(t, err)

	// Two system turns, then at most twenty history turns.
	require.Len(t, stub.lastMessages, 22)
	history := stub.lastMessages[2:]

	// Window is the newest turns in ascending order, ending with the new one.
	assert.Equal(t, "turn 06", history[0].Content)
	assert.Equal(t, "latest question", history[len(history)-1].Content)
	assert.Equal(t, "user", history[len(history)-1].Role)
}

func TestSendMessageModelFailureKeepsUserTurn(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, "modelfail@example.com")
	svc := newChatService(db, &stubCompleter{err: errors.New("upstream down")})

	session, err := svc.CreateSession(user.ID, models.SessionCoaching)
	require.NoError(t, err)

	_, err = svc.SendMessage(context.Background(), user.ID, session.ID, "are you there?")
	require.Error(t, err)

	// The user's turn survives so a retry has full context.
	messages, err := svc.Messages(user.ID, session.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, models.RoleUser, messages[0].Role)
}

func TestSendMessageEmptyReply(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, "empty@example.com")
	svc := newChatService(db, &stubCompleter{reply: "   "})

	session, err := svc.CreateSession(user.ID, models.SessionCoaching)
	require.NoError(t, err)

	_, err = svc.SendMessage(context.Background(), user.ID, session.ID, "hello")
	assert.ErrorIs(t, err, ai.ErrEmptyCompletion)
}
