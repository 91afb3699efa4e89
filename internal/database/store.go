package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrCredentialNotFound is returned when no credential exists for the
// requested (service, key) pair.
var ErrCredentialNotFound = errors.New("credential not found")

// Store defines the interface for database operations.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// GetCredential returns the value stored for (service, key).
	// Returns ErrCredentialNotFound if no row exists.
	GetCredential(ctx context.Context, service, key string) (string, error)

	// SetCredential inserts or replaces a credential value.
	SetCredential(ctx context.Context, cred *Credential) error

	// SaveDialogueTurn inserts one conversation turn.
	SaveDialogueTurn(ctx context.Context, turn *DialogueTurn) error

	// GetRecentDialogueTurns retrieves up to 'limit' newest turns for a user,
	// ordered oldest first.
	GetRecentDialogueTurns(ctx context.Context, userID int64, limit int) ([]DialogueTurn, error)

	// DeleteDialogueTurnsBefore removes turns older than cutoff, for all users.
	DeleteDialogueTurnsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// DeleteDialogueTurns removes all turns for a single user.
	DeleteDialogueTurns(ctx context.Context, userID int64) error

	// RecordCacheWrite journals a cache store, inserting the entry or
	// bumping its hit counter if the normalized query is already known.
	RecordCacheWrite(ctx context.Context, normalizedQuery, answer string) error

	// RecordCacheHit bumps the hit counter for a journaled entry.
	RecordCacheHit(ctx context.Context, normalizedQuery string) error

	// RecordTokenUsage inserts one completion usage record.
	RecordTokenUsage(ctx context.Context, usage *TokenUsage) error

	// RecordResponseQuality inserts an operator rating for a logged exchange.
	// Returns false without error when the message was already rated.
	RecordResponseQuality(ctx context.Context, quality *ResponseQuality) (bool, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore implements Store using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store backed by the given sqlx connection pool.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) GetCredential(ctx context.Context, service, key string) (string, error) {
	if service == "" || key == "" {
		return "", fmt.Errorf("credential service and key must be non-empty")
	}

	var value string
	query := `SELECT credential_value FROM credentials WHERE service_name = ? AND credential_key = ?;`
	err := s.db.GetContext(ctx, &value, query, service, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%s/%s: %w", service, key, ErrCredentialNotFound)
		}
		s.logger.ErrorContext(ctx, "Error fetching credential", "service", service, "key", key, "error", err)
		return "", fmt.Errorf("failed to fetch credential %s/%s: %w", service, key, err)
	}
	return value, nil
}

func (s *sqlxStore) SetCredential(ctx context.Context, cred *Credential) error {
	if cred == nil {
		return fmt.Errorf("cannot save nil credential")
	}
	if cred.ServiceName == "" || cred.Key == "" {
		return fmt.Errorf("credential must have non-empty service_name and credential_key")
	}

	cred.UpdatedAt = time.Now().UTC()

	query := `
        INSERT INTO credentials (service_name, credential_key, credential_value, description, updated_at)
        VALUES (:service_name, :credential_key, :credential_value, :description, :updated_at)
        ON CONFLICT(service_name, credential_key) DO UPDATE SET
            credential_value = excluded.credential_value,
            description      = excluded.description,
            updated_at       = excluded.updated_at;
    `

	if _, err := s.db.NamedExecContext(ctx, query, cred); err != nil {
		s.logger.ErrorContext(ctx, "Error saving credential", "service", cred.ServiceName, "key", cred.Key, "error", err)
		return fmt.Errorf("failed to save credential %s/%s: %w", cred.ServiceName, cred.Key, err)
	}
	return nil
}

func (s *sqlxStore) SaveDialogueTurn(ctx context.Context, turn *DialogueTurn) error {
	if turn == nil {
		return fmt.Errorf("cannot save nil dialogue turn")
	}
	if turn.UserID == 0 {
		return fmt.Errorf("dialogue turn must have a non-zero user_id")
	}
	if turn.Content == "" {
		return fmt.Errorf("dialogue turn must have non-empty content")
	}
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now().UTC()
	}
	turn.CreatedAt = time.Now().UTC()

	query := `
        INSERT INTO dialogue_turns (user_id, role, content, turn_type, timestamp, created_at)
        VALUES (:user_id, :role, :content, :turn_type, :timestamp, :created_at);
    `

	result, err := s.db.NamedExecContext(ctx, query, turn)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving dialogue turn", "user_id", turn.UserID, "error", err)
		return fmt.Errorf("failed to save dialogue turn (user %d): %w", turn.UserID, err)
	}

	if id, err := result.LastInsertId(); err == nil {
		//nolint:gosec // auto-increment IDs stay well within uint range
		turn.ID = uint(id)
	}
	return nil
}

func (s *sqlxStore) GetRecentDialogueTurns(ctx context.Context, userID int64, limit int) ([]DialogueTurn, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	// Newest N rows, then reversed so callers get chronological order.
	query := `
        SELECT id, user_id, role, content, turn_type, timestamp, created_at
        FROM dialogue_turns
        WHERE user_id = ?
        ORDER BY timestamp DESC, id DESC
        LIMIT ?;
    `

	var turns []DialogueTurn
	if err := s.db.SelectContext(ctx, &turns, query, userID, limit); err != nil {
		s.logger.ErrorContext(ctx, "Error fetching dialogue turns", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to fetch dialogue turns (user %d): %w", userID, err)
	}

	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

func (s *sqlxStore) DeleteDialogueTurnsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM dialogue_turns WHERE timestamp < ?;`, cutoff)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error pruning dialogue turns", "cutoff", cutoff, "error", err)
		return 0, fmt.Errorf("failed to prune dialogue turns: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return rows, nil
}

func (s *sqlxStore) DeleteDialogueTurns(ctx context.Context, userID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM dialogue_turns WHERE user_id = ?;`, userID); err != nil {
		s.logger.ErrorContext(ctx, "Error deleting dialogue turns", "user_id", userID, "error", err)
		return fmt.Errorf("failed to delete dialogue turns (user %d): %w", userID, err)
	}
	return nil
}

func (s *sqlxStore) RecordCacheWrite(ctx context.Context, normalizedQuery, answer string) error {
	if normalizedQuery == "" {
		return fmt.Errorf("normalized query must be non-empty")
	}

	now := time.Now().UTC()
	query := `
        INSERT INTO cache_journal (normalized_query, answer, hit_count, last_hit_at, created_at)
        VALUES (?, ?, 0, ?, ?)
        ON CONFLICT(normalized_query) DO UPDATE SET
            answer      = excluded.answer,
            last_hit_at = excluded.last_hit_at;
    `

	if _, err := s.db.ExecContext(ctx, query, normalizedQuery, answer, now, now); err != nil {
		s.logger.ErrorContext(ctx, "Error journaling cache write", "error", err)
		return fmt.Errorf("failed to journal cache write: %w", err)
	}
	return nil
}

func (s *sqlxStore) RecordCacheHit(ctx context.Context, normalizedQuery string) error {
	query := `
        UPDATE cache_journal
        SET hit_count = hit_count + 1, last_hit_at = ?
        WHERE normalized_query = ?;
    `

	if _, err := s.db.ExecContext(ctx, query, time.Now().UTC(), normalizedQuery); err != nil {
		s.logger.ErrorContext(ctx, "Error journaling cache hit", "error", err)
		return fmt.Errorf("failed to journal cache hit: %w", err)
	}
	return nil
}

func (s *sqlxStore) RecordTokenUsage(ctx context.Context, usage *TokenUsage) error {
	if usage == nil {
		return fmt.Errorf("cannot save nil token usage")
	}
	if usage.Model == "" {
		return fmt.Errorf("token usage must have a non-empty model")
	}
	usage.CreatedAt = time.Now().UTC()

	query := `
        INSERT INTO token_usage (message_id, model, scenario, prompt_tokens, completion_tokens, created_at)
        VALUES (:message_id, :model, :scenario, :prompt_tokens, :completion_tokens, :created_at);
    `

	if _, err := s.db.NamedExecContext(ctx, query, usage); err != nil {
		s.logger.ErrorContext(ctx, "Error saving token usage", "model", usage.Model, "error", err)
		return fmt.Errorf("failed to save token usage: %w", err)
	}
	return nil
}

func (s *sqlxStore) RecordResponseQuality(ctx context.Context, quality *ResponseQuality) (bool, error) {
	if quality == nil {
		return false, fmt.Errorf("cannot save nil response quality")
	}
	if quality.MessageID == "" {
		return false, fmt.Errorf("response quality must have a non-empty message_id")
	}
	quality.CreatedAt = time.Now().UTC()

	// OR IGNORE relies on the unique index on message_id; a second rating
	// for the same message inserts nothing.
	query := `
        INSERT OR IGNORE INTO response_quality (message_id, source, rating, created_at)
        VALUES (:message_id, :source, :rating, :created_at);
    `

	result, err := s.db.NamedExecContext(ctx, query, quality)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving response quality", "message_id", quality.MessageID, "error", err)
		return false, fmt.Errorf("failed to save response quality: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check response quality insert: %w", err)
	}
	return rows > 0, nil
}

func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	statements := []string{"VACUUM;", "ANALYZE;", "PRAGMA optimize;"}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			name := strings.TrimSuffix(stmt, ";")
			s.logger.ErrorContext(ctx, "Maintenance statement failed", "statement", name, "error", err)
			return fmt.Errorf("maintenance statement %q failed: %w", name, err)
		}
	}

	s.logger.InfoContext(ctx, "Database maintenance completed")
	return nil
}
