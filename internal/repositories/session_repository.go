package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/courseforge/backend/internal/models"
)

var (
	// ErrSnapshotNotFound indicates the user has no persisted session
	ErrSnapshotNotFound = errors.New("session snapshot not found")
	// ErrSnapshotCorrupt indicates a stored snapshot that cannot be decoded
	ErrSnapshotCorrupt = errors.New("session snapshot corrupt")
)

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new session snapshot repository
func NewSessionRepository(db *sql.DB) *sessionRepository {
	return &sessionRepository{
		db: db,
	}
}

// Save stores the snapshot for a user, replacing any previous one. The
// whole snapshot is written as a single JSON document so the course, the
// completed set and the current lesson pointer can never be persisted out
// of step with each other.
func (r *sessionRepository) Save(ctx context.Context, userID string, snapshot *models.Snapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	query := `
		INSERT INTO session_snapshots (user_id, snapshot)
		VALUES (?, ?)
		ON DUPLICATE KEY UPDATE snapshot = VALUES(snapshot)
	`

	_, err = r.db.ExecContext(ctx, query, userID, payload)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

// Load retrieves the snapshot for a user. Returns ErrSnapshotNotFound when
// no row exists and ErrSnapshotCorrupt when the stored document cannot be
// decoded; the caller decides how to recover.
func (r *sessionRepository) Load(ctx context.Context, userID string) (*models.Snapshot, error) {
	query := `SELECT snapshot FROM session_snapshots WHERE user_id = ?`

	var payload []byte
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snapshot models.Snapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, ErrSnapshotCorrupt
	}

	return &snapshot, nil
}

// Delete removes the snapshot for a user. Deleting a missing snapshot is
// not an error.
func (r *sessionRepository) Delete(ctx context.Context, userID string) error {
	query := `DELETE FROM session_snapshots WHERE user_id = ?`

	_, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	return nil
}
