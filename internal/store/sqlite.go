package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/soluna-app/soluna/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS chat_sessions (
			session_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			session_type TEXT NOT NULL,
			scene_type TEXT NOT NULL,
			started_at DATETIME NOT NULL,
			completed_at DATETIME,
			insight_id TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chat_sessions_user ON chat_sessions(user_id, started_at)`,
		`CREATE INDEX IF NOT EXISTS idx_chat_sessions_type ON chat_sessions(user_id, session_type, started_at)`,
		`CREATE TABLE IF NOT EXISTS insights (
			insight_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			quote TEXT NOT NULL,
			pinned INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (session_id) REFERENCES chat_sessions(session_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_insights_session ON insights(session_id)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateChatSession records a newly started session.
func (s *SQLiteStore) CreateChatSession(ctx context.Context, sessionID, userID string, t domain.SessionType, scene domain.SceneType, startedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_sessions (session_id, user_id, session_type, scene_type, started_at) VALUES (?, ?, ?, ?, ?)`,
		sessionID, userID, string(t), string(scene), startedAt)
	return err
}

// CompleteChatSession authorizes by matching the session's owning identity
// against the caller, inserts one insight row, and marks the session
// completed.
func (s *SQLiteStore) CompleteChatSession(ctx context.Context, sessionID, userID, quote string, scene domain.SceneType) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	var owner string
	err = tx.QueryRowContext(ctx,
		`SELECT user_id FROM chat_sessions WHERE session_id = ?`, sessionID).Scan(&owner)
	if err == sql.ErrNoRows {
		return "", ErrUnauthorized
	}
	if err != nil {
		return "", err
	}
	if owner != userID {
		return "", ErrUnauthorized
	}

	insightID := "ins_" + uuid.New().String()[:8]
	now := time.Now()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO insights (insight_id, session_id, quote, created_at) VALUES (?, ?, ?, ?)`,
		insightID, sessionID, quote, now); err != nil {
		return "", fmt.Errorf("failed to insert insight: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE chat_sessions SET completed_at = ?, scene_type = ?, insight_id = ? WHERE session_id = ?`,
		now, string(scene), insightID, sessionID); err != nil {
		return "", fmt.Errorf("failed to mark session completed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}
	return insightID, nil
}

// RecentChatSessions returns session summaries newest-first.
func (s *SQLiteStore) RecentChatSessions(ctx context.Context, userID string, limit int, sessionType *domain.SessionType) ([]domain.SessionSummary, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `SELECT cs.session_id, cs.session_type, cs.scene_type, cs.started_at, cs.completed_at,
			i.insight_id, i.quote, i.pinned, i.created_at
		FROM chat_sessions cs
		LEFT JOIN insights i ON i.insight_id = cs.insight_id
		WHERE cs.user_id = ?`
	args := []interface{}{userID}
	if sessionType != nil {
		query += ` AND cs.session_type = ?`
		args = append(args, string(*sessionType))
	}
	query += ` ORDER BY cs.started_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]domain.SessionSummary, 0)
	for rows.Next() {
		var sum domain.SessionSummary
		var sType, scene string
		var completedAt sql.NullTime
		var insightID, insightQuote sql.NullString
		var pinned sql.NullBool
		var insightCreated sql.NullTime
		if err := rows.Scan(&sum.SessionID, &sType, &scene, &sum.StartedAt, &completedAt,
			&insightID, &insightQuote, &pinned, &insightCreated); err != nil {
			return nil, err
		}
		sum.Type = domain.SessionType(sType)
		sum.SceneType = domain.SceneType(scene)
		if completedAt.Valid {
			t := completedAt.Time
			sum.CompletedAt = &t
		}
		if insightID.Valid {
			sum.Insight = &domain.Insight{
				InsightID: insightID.String,
				SessionID: sum.SessionID,
				Quote:     insightQuote.String,
				Pinned:    pinned.Valid && pinned.Bool,
				CreatedAt: insightCreated.Time,
			}
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// PruneStaleSessions deletes incomplete sessions started before cutoff.
func (s *SQLiteStore) PruneStaleSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM chat_sessions WHERE completed_at IS NULL AND started_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Maintain refreshes query planner statistics.
func (s *SQLiteStore) Maintain(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `ANALYZE`)
	return err
}
