package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/courseforge/backend/internal/clients/genai"
	"github.com/courseforge/backend/internal/models"
	"github.com/courseforge/backend/internal/player"
	"github.com/courseforge/backend/internal/schema"
	"go.uber.org/zap"
)

// ErrGenerationFailed indicates the course could not be produced and no
// fallback was available; the caller should surface a retry notice.
var ErrGenerationFailed = errors.New("course generation failed")

// CourseGenerator defines methods for the generative course producer
type CourseGenerator interface {
	// GenerateCourse produces a raw course document for the request
	//
	// "ctx" is the context for the request.
	// "req" is the course request (topic, level, learner profile, ...).
	//
	// Returns the raw JSON document, any grounding sources, and an error if any.
	GenerateCourse(ctx context.Context, req models.CourseRequest) ([]byte, []models.Source, error)
}

// UserStateResetter defines methods for per-user in-memory state that must
// be cleared when the active course is replaced or destroyed
type UserStateResetter interface {
	// Reset drops all in-memory state held for the user
	//
	// "userID" is the ID of the user.
	Reset(userID string)
}

type courseService struct {
	repo         SnapshotRepository
	generator    CourseGenerator
	logger       *zap.Logger
	mockFallback bool
	resetters    []UserStateResetter
}

// NewCourseService creates a new course service. When mockFallback is set,
// producer and schema failures degrade to the built-in mock course instead
// of an error.
func NewCourseService(repo SnapshotRepository, generator CourseGenerator, logger *zap.Logger, mockFallback bool, resetters ...UserStateResetter) *courseService {
	return &courseService{
		repo:         repo,
		generator:    generator,
		logger:       logger,
		mockFallback: mockFallback,
		resetters:    resetters,
	}
}

// Generate produces a new course for the user and replaces their session
// wholesale: fresh progress, current lesson at the first lesson of the first
// unit. The previous session is only touched once a valid course exists
// (request/replace, never incremental merge).
func (s *courseService) Generate(ctx context.Context, userID string, req models.CourseRequest) (*models.Snapshot, error) {
	course, err := s.produceCourse(ctx, req)
	if err != nil {
		return nil, err
	}

	first, _ := player.NewNavigator(course).First()
	snapshot := &models.Snapshot{
		Version:          models.SnapshotVersion,
		Course:           course,
		CompletedLessons: []string{},
		CurrentLessonID:  first.ID,
	}

	if err := s.repo.Save(ctx, userID, snapshot); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	for _, r := range s.resetters {
		r.Reset(userID)
	}

	return snapshot, nil
}

// produceCourse runs the generate-then-normalize pipeline, falling back to
// the mock document when allowed. Mock and real generations go through the
// same validator so the rest of the system treats them uniformly.
func (s *courseService) produceCourse(ctx context.Context, req models.CourseRequest) (*models.Course, error) {
	raw, grounded, err := s.generator.GenerateCourse(ctx, req)
	if err != nil {
		if !s.mockFallback {
			return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
		}
		s.logger.Warn("course producer unavailable, using mock course", zap.Error(err))
		raw, grounded = genai.MockCourseDocument(), nil
	}

	course, err := schema.Normalize(raw, req.Topic)
	if err != nil {
		var schemaErr *schema.SchemaError
		if !errors.As(err, &schemaErr) || !s.mockFallback {
			return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
		}
		s.logger.Warn("generated course failed validation, using mock course",
			zap.String("reason", schemaErr.Reason),
		)
		course, err = schema.Normalize(genai.MockCourseDocument(), req.Topic)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
		}
	}

	mergeSources(course, grounded)
	return course, nil
}

// mergeSources appends grounding sources not already referenced by URL
func mergeSources(course *models.Course, grounded []models.Source) {
	if len(grounded) == 0 {
		return
	}
	existing := make(map[string]struct{}, len(course.Sources))
	for _, src := range course.Sources {
		existing[src.URL] = struct{}{}
	}
	for _, src := range grounded {
		if _, ok := existing[src.URL]; ok {
			continue
		}
		existing[src.URL] = struct{}{}
		course.Sources = append(course.Sources, src)
	}
}

// GetSession returns the user's active session, applying the recovery and
// defaulting rules for persisted snapshots
func (s *courseService) GetSession(ctx context.Context, userID string) (*models.Snapshot, error) {
	return loadSession(ctx, s.repo, userID, s.logger)
}

// ExitToHome destroys the active session: the snapshot is cleared with no
// undo and all per-user in-memory state is dropped.
func (s *courseService) ExitToHome(ctx context.Context, userID string) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	for _, r := range s.resetters {
		r.Reset(userID)
	}
	return nil
}
