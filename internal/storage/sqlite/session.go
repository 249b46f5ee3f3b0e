package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sandevgo/jarvis/internal/core"
	"github.com/sandevgo/jarvis/pkg/log"
)

var ErrNoSession = errors.New("no conversation session recorded")

// SessionLog is a conversation log scoped to one session id, so
// concurrent sessions never share turns.
type SessionLog struct {
	db *sql.DB
	id string
}

// NewSessionLog registers a fresh session.
func NewSessionLog(ctx context.Context, db *sql.DB) (*SessionLog, error) {
	id := uuid.NewString()
	if _, err := db.ExecContext(ctx, `INSERT INTO sessions (id) VALUES (?)`, id); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	log.FromCtx(ctx).Debug().Str("session", id).Msg("opened conversation session")
	return &SessionLog{db: db, id: id}, nil
}

// OpenSessionLog attaches to an existing session.
func OpenSessionLog(db *sql.DB, id string) *SessionLog {
	return &SessionLog{db: db, id: id}
}

// LatestSessionLog attaches to the most recently started session.
func LatestSessionLog(ctx context.Context, db *sql.DB) (*SessionLog, error) {
	var id string
	err := db.QueryRowContext(ctx,
		`SELECT id FROM sessions ORDER BY started_at DESC, rowid DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find latest session: %w", err)
	}
	return &SessionLog{db: db, id: id}, nil
}

func (s *SessionLog) ID() string {
	return s.id
}

func (s *SessionLog) Load(ctx context.Context) ([]core.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT role, content FROM messages WHERE session_id = ? ORDER BY id ASC`, s.id)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []core.Message
	for rows.Next() {
		var msg core.Message
		if err := rows.Scan(&msg.Role, &msg.Content); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.FromCtx(ctx).Debug().Int("count", len(messages)).Msg("loaded history messages")
	return messages, nil
}

func (s *SessionLog) Append(ctx context.Context, msgs ...core.Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, msg := range msgs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO messages (session_id, role, content) VALUES (?, ?, ?)`,
			s.id, msg.Role, msg.Content)
		if err != nil {
			return fmt.Errorf("failed to insert message: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SessionLog) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE session_id = ?`, s.id); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
