package services

import (
	"context"
	"fmt"

	"github.com/courseforge/backend/internal/models"
	"github.com/courseforge/backend/internal/player"
	"go.uber.org/zap"
)

// SessionView represents the active session with its derived progress state
type SessionView struct {
	Course           *models.Course `json:"course"`
	CompletedLessons []string       `json:"completedLessons"`
	CurrentLessonID  string         `json:"currentLessonId"`
	Percentage       int            `json:"percentage"`
	CourseCompleted  bool           `json:"courseCompleted"`
}

// LessonView represents one lesson joined with its derived status
type LessonView struct {
	Lesson    models.Lesson `json:"lesson"`
	Completed bool          `json:"completed"`
}

// CompletionResult represents the outcome of marking a lesson completed
type CompletionResult struct {
	Percentage        int      `json:"percentage"`
	CompletedLessons  []string `json:"completedLessons"`
	CourseCompleted   bool     `json:"courseCompleted"`
	CertificateEarned bool     `json:"certificateEarned"`
	NextLessonID      string   `json:"nextLessonId,omitempty"`
}

type playerService struct {
	repo   SnapshotRepository
	logger *zap.Logger
}

// NewPlayerService creates a new player service
func NewPlayerService(repo SnapshotRepository, logger *zap.Logger) *playerService {
	return &playerService{
		repo:   repo,
		logger: logger,
	}
}

// Overview returns the active session with completion percentage
func (s *playerService) Overview(ctx context.Context, userID string) (*SessionView, error) {
	snapshot, err := loadSession(ctx, s.repo, userID, s.logger)
	if err != nil {
		return nil, err
	}

	progress := player.NewProgress(snapshot.Course.TotalLessons(), snapshot.CompletedLessons)
	return &SessionView{
		Course:           snapshot.Course,
		CompletedLessons: progress.CompletedIDs(),
		CurrentLessonID:  snapshot.CurrentLessonID,
		Percentage:       progress.Percentage(),
		CourseCompleted:  progress.IsComplete(),
	}, nil
}

// CurrentLesson returns the lesson the session currently points at
func (s *playerService) CurrentLesson(ctx context.Context, userID string) (*LessonView, error) {
	snapshot, err := loadSession(ctx, s.repo, userID, s.logger)
	if err != nil {
		return nil, err
	}

	nav := player.NewNavigator(snapshot.Course)
	lesson, ok := nav.Lesson(snapshot.CurrentLessonID)
	if !ok {
		return nil, player.ErrLessonNotFound
	}

	progress := player.NewProgress(snapshot.Course.TotalLessons(), snapshot.CompletedLessons)
	return &LessonView{
		Lesson:    lesson,
		Completed: progress.Completed(lesson.ID),
	}, nil
}

// SelectLesson moves the current lesson pointer. Locked lessons that have
// not been completed are not selectable; the session is left untouched and
// player.ErrLessonLocked is returned.
func (s *playerService) SelectLesson(ctx context.Context, userID, lessonID string) error {
	snapshot, err := loadSession(ctx, s.repo, userID, s.logger)
	if err != nil {
		return err
	}

	nav := player.NewNavigator(snapshot.Course)
	progress := player.NewProgress(snapshot.Course.TotalLessons(), snapshot.CompletedLessons)
	if err := nav.Selectable(lessonID, progress); err != nil {
		return err
	}

	snapshot.CurrentLessonID = lessonID
	if err := s.repo.Save(ctx, userID, snapshot); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// CompleteLesson marks a lesson completed. The call is idempotent; the
// certificate flag is raised only on the call that completed the final
// remaining lesson. Unless the course is now complete, the current lesson
// pointer advances to the next lesson in the flattened order, ignoring lock
// flags (advancement is how locked lessons open up).
func (s *playerService) CompleteLesson(ctx context.Context, userID, lessonID string) (*CompletionResult, error) {
	snapshot, err := loadSession(ctx, s.repo, userID, s.logger)
	if err != nil {
		return nil, err
	}

	nav := player.NewNavigator(snapshot.Course)
	if _, ok := nav.Lesson(lessonID); !ok {
		return nil, player.ErrLessonNotFound
	}

	progress := player.NewProgress(snapshot.Course.TotalLessons(), snapshot.CompletedLessons)
	justCompleted := progress.MarkCompleted(lessonID)

	next, hasNext := nav.Advance(lessonID)

	snapshot.CompletedLessons = progress.CompletedIDs()
	if !progress.IsComplete() && hasNext {
		snapshot.CurrentLessonID = next
	}

	if err := s.repo.Save(ctx, userID, snapshot); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	result := &CompletionResult{
		Percentage:        progress.Percentage(),
		CompletedLessons:  progress.CompletedIDs(),
		CourseCompleted:   progress.IsComplete(),
		CertificateEarned: justCompleted,
	}
	if hasNext {
		result.NextLessonID = next
	}
	return result, nil
}
