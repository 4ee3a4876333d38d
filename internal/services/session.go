package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/courseforge/backend/internal/models"
	"github.com/courseforge/backend/internal/player"
	"github.com/courseforge/backend/internal/repositories"
	"go.uber.org/zap"
)

// ErrNoActiveSession indicates the user has no usable persisted session.
// A corrupt snapshot is discarded and reported the same way, never as a
// parse error.
var ErrNoActiveSession = errors.New("no active session")

// SnapshotRepository defines methods for session snapshot persistence
type SnapshotRepository interface {
	// Save stores the snapshot for a user, replacing any previous one
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "snapshot" is the snapshot to store.
	//
	// Returns an error if any.
	Save(ctx context.Context, userID string, snapshot *models.Snapshot) error
	// Load retrieves the snapshot for a user
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns the snapshot and an error if any.
	Load(ctx context.Context, userID string) (*models.Snapshot, error)
	// Delete removes the snapshot for a user
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns an error if any.
	Delete(ctx context.Context, userID string) error
}

// loadSession loads and sanitizes a user's snapshot. Corrupt or structurally
// invalid snapshots are discarded (row deleted, warning logged) and the user
// starts clean. A valid snapshot without a current lesson id is defaulted to
// the first lesson of the first unit; completed ids that no longer exist in
// the course are dropped rather than crashing the player.
func loadSession(ctx context.Context, repo SnapshotRepository, userID string, logger *zap.Logger) (*models.Snapshot, error) {
	snapshot, err := repo.Load(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrSnapshotNotFound) {
			return nil, ErrNoActiveSession
		}
		if errors.Is(err, repositories.ErrSnapshotCorrupt) {
			return nil, discardSession(ctx, repo, userID, logger, "snapshot corrupt")
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if !validSnapshot(snapshot) {
		return nil, discardSession(ctx, repo, userID, logger, "snapshot invalid")
	}

	nav := player.NewNavigator(snapshot.Course)

	kept := snapshot.CompletedLessons[:0]
	for _, id := range snapshot.CompletedLessons {
		if _, ok := nav.Lesson(id); ok {
			kept = append(kept, id)
		} else {
			logger.Warn("dropping completed lesson id absent from course",
				zap.String("user_id", userID),
				zap.String("lesson_id", id),
			)
		}
	}
	snapshot.CompletedLessons = kept

	if _, ok := nav.Lesson(snapshot.CurrentLessonID); !ok {
		first, _ := nav.First()
		snapshot.CurrentLessonID = first.ID
	}

	return snapshot, nil
}

// validSnapshot checks the structural invariants a resumable snapshot must
// hold: matching schema version and a course with at least one unit, each
// with at least one lesson.
func validSnapshot(s *models.Snapshot) bool {
	if s == nil || s.Course == nil || s.Version != models.SnapshotVersion {
		return false
	}
	if len(s.Course.Units) == 0 {
		return false
	}
	for _, u := range s.Course.Units {
		if len(u.Lessons) == 0 {
			return false
		}
	}
	return true
}

// discardSession drops an unusable snapshot and reports a clean start
func discardSession(ctx context.Context, repo SnapshotRepository, userID string, logger *zap.Logger, reason string) error {
	logger.Warn("discarding unusable session snapshot",
		zap.String("user_id", userID),
		zap.String("reason", reason),
	)
	if err := repo.Delete(ctx, userID); err != nil {
		logger.Error("failed to discard snapshot", zap.String("user_id", userID), zap.Error(err))
	}
	return ErrNoActiveSession
}
