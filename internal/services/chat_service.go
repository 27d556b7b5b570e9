package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/reflalabs/refla-backend/internal/ai"
	"github.com/reflalabs/refla-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNotSessionOwner = errors.New("you do not have access to this session")
)

// historyLimit caps how many stored turns accompany a chat completion.
const historyLimit = 20

// ChatService maintains ordered per-session message history and produces the
// next assistant turn.
type ChatService struct {
	db        *gorm.DB
	completer Completer
	contexts  *ContextBuilder
}

func NewChatService(db *gorm.DB, completer Completer, contexts *ContextBuilder) *ChatService {
	return &ChatService{db: db, completer: completer, contexts: contexts}
}

func (s *ChatService) CreateSession(userID uuid.UUID, sessionType models.SessionType) (*models.Session, error) {
	session := &models.Session{
		UserID: userID,
		Type:   sessionType,
		Status: "active",
	}
	if err := s.db.Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

func (s *ChatService) ListSessions(userID uuid.UUID) ([]models.Session, error) {
	var sessions []models.Session
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (s *ChatService) assertOwnership(userID, sessionID uuid.UUID) (*models.Session, error) {
	var session models.Session
	if err := s.db.First(&session, "id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrNotSessionOwner
	}
	return &session, nil
}

// Messages returns the session's full history in creation order.
func (s *ChatService) Messages(userID, sessionID uuid.UUID) ([]models.Message, error) {
	if _, err := s.assertOwnership(userID, sessionID); err != nil {
		return nil, err
	}

	var messages []models.Message
	if err := s.db.Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// recentHistory returns the newest historyLimit messages in ascending
// creation order, oldest of the window first.
func (s *ChatService) recentHistory(sessionID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	if err := s.db.Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Limit(historyLimit).
		Find(&messages).Error; err != nil {
		return nil, err
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// SendMessage persists the user's turn, asks the model for a reply with a
// fresh context snapshot and the bounded history window, persists the
// assistant turn and returns its text. The user's turn is written before the
// model call so a model failure never loses their input.
func (s *ChatService) SendMessage(ctx context.Context, userID, sessionID uuid.UUID, content string) (string, error) {
	if _, err := s.assertOwnership(userID, sessionID); err != nil {
		return "", err
	}

	userTurn := &models.Message{
		SessionID: sessionID,
		Role:      models.RoleUser,
		Content:   content,
	}
	if err := s.db.Create(userTurn).Error; err != nil {
		return "", err
	}

	history, err := s.recentHistory(sessionID)
	if err != nil {
		return "", err
	}

	snapshot, err := s.contexts.Build(userID)
	if err != nil {
		return "", err
	}
	contextJSON, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("failed to serialize context: %w", err)
	}

	turns := make([]ai.Message, 0, len(history))
	for _, m := range history {
		turns = append(turns, ai.Message{Role: string(m.Role), Content: m.Content})
	}

	reply, err := s.completer.Complete(ctx, ai.ChatMessages(contextJSON, turns), ai.ChatTemperature)
	if err != nil {
		slog.Error("chat completion failed", "action", "chat_reply", "user_id", userID.String(), "error", err)
		return "", err
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", ai.ErrEmptyCompletion
	}

	assistantTurn := &models.Message{
		SessionID: sessionID,
		Role:      models.RoleAssistant,
		Content:   reply,
	}
	if err := s.db.Create(assistantTurn).Error; err != nil {
		return "", err
	}

	return reply, nil
}
