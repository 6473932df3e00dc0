package telegram

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"vitalplan/internal/database"
)

// Session types for a chat that is waiting for free-text input.
const (
	SessionAwaitingAddress = "awaiting_address"
	SessionAwaitingProfile = "awaiting_profile"
)

const sessionStatePending = "pending"

// sessionTTL bounds how long the bot waits for the follow-up message.
const sessionTTL = 10 * time.Minute

// Session represents a pending conversational step for one chat.
type Session struct {
	ID          int64
	ChatID      int64
	SessionType string
	State       string
	ContextData string
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// SessionContextData holds structured data stored in the context_data JSON field
type SessionContextData struct {
	PromptMessageID int `json:"prompt_message_id,omitempty"`
}

// GetContextData unmarshals the context_data JSON field
func (s *Session) GetContextData() (SessionContextData, error) {
	var data SessionContextData
	err := json.Unmarshal([]byte(s.ContextData), &data)
	return data, err
}

// SessionRepository provides access to session persistence operations
type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create replaces any pending session of the chat and returns the new ID.
func (sr *SessionRepository) Create(ctx context.Context, chatID int64, sessionType string, contextData SessionContextData, ttl time.Duration, now time.Time) (int64, error) {
	jsonData, err := json.Marshal(contextData)
	if err != nil {
		return 0, err
	}
	if err := sr.DeleteForChat(ctx, chatID); err != nil {
		return 0, err
	}

	res, err := sr.db.ExecContext(ctx,
		`INSERT INTO chat_sessions (chat_id, session_type, state, context_data, expires_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		chatID, sessionType, sessionStatePending, string(jsonData),
		database.FormatTime(now.Add(ttl)), database.FormatTime(now),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create session: %w", err)
	}
	return res.LastInsertId()
}

// GetActive retrieves the most recent non-expired session of a chat, or
// nil when there is none.
func (sr *SessionRepository) GetActive(ctx context.Context, chatID int64, now time.Time) (*Session, error) {
	row := sr.db.QueryRowContext(ctx,
		`SELECT id, chat_id, session_type, state, context_data, expires_at, created_at
		 FROM chat_sessions
		 WHERE chat_id = ? AND expires_at > ?
		 ORDER BY id DESC LIMIT 1`,
		chatID, database.FormatTime(now),
	)

	var (
		s                  Session
		expires, createdAt string
	)
	err := row.Scan(&s.ID, &s.ChatID, &s.SessionType, &s.State, &s.ContextData, &expires, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if s.ExpiresAt, err = database.ParseTime(expires); err != nil {
		return nil, err
	}
	if s.CreatedAt, err = database.ParseTime(createdAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// Delete removes a single session.
func (sr *SessionRepository) Delete(ctx context.Context, sessionID int64) error {
	_, err := sr.db.ExecContext(ctx, `DELETE FROM chat_sessions WHERE id = ?`, sessionID)
	return err
}

// DeleteForChat removes every session of a chat.
func (sr *SessionRepository) DeleteForChat(ctx context.Context, chatID int64) error {
	_, err := sr.db.ExecContext(ctx, `DELETE FROM chat_sessions WHERE chat_id = ?`, chatID)
	return err
}

// CleanupExpired removes all sessions that expired before now.
func (sr *SessionRepository) CleanupExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := sr.db.ExecContext(ctx, `DELETE FROM chat_sessions WHERE expires_at <= ?`, database.FormatTime(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
