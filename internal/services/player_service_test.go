package services

import (
	"context"
	"testing"

	"github.com/courseforge/backend/internal/player"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPlayerService_Overview(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	repo := newMockSnapshotRepository()
	snapshot := testSnapshot()
	snapshot.CompletedLessons = []string{"l1"}
	repo.snapshots["user-1"] = snapshot

	svc := NewPlayerService(repo, logger)

	view, err := svc.Overview(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, "Curso de prueba", view.Course.Title)
	assert.Equal(t, []string{"l1"}, view.CompletedLessons)
	assert.Equal(t, "l1", view.CurrentLessonID)
	assert.Equal(t, 33, view.Percentage)
	assert.False(t, view.CourseCompleted)
}

func TestPlayerService_Overview_NoSession(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	svc := NewPlayerService(newMockSnapshotRepository(), logger)

	_, err := svc.Overview(context.Background(), "user-1")
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestPlayerService_CurrentLesson(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	repo := newMockSnapshotRepository()
	snapshot := testSnapshot()
	snapshot.CompletedLessons = []string{"l1"}
	repo.snapshots["user-1"] = snapshot

	svc := NewPlayerService(repo, logger)

	view, err := svc.CurrentLesson(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "l1", view.Lesson.ID)
	assert.True(t, view.Completed)
}

func TestPlayerService_SelectLesson(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	tests := []struct {
		name        string
		lessonID    string
		completed   []string
		expectedErr error
	}{
		{
			name:     "unlocked lesson",
			lessonID: "l1",
		},
		{
			name:        "locked lesson rejected",
			lessonID:    "l2",
			expectedErr: player.ErrLessonLocked,
		},
		{
			name:      "completed locked lesson stays revisitable",
			lessonID:  "l2",
			completed: []string{"l1", "l2"},
		},
		{
			name:        "unknown lesson",
			lessonID:    "missing",
			expectedErr: player.ErrLessonNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockSnapshotRepository()
			snapshot := testSnapshot()
			if tt.completed != nil {
				snapshot.CompletedLessons = tt.completed
			}
			repo.snapshots["user-1"] = snapshot
			svc := NewPlayerService(repo, logger)

			err := svc.SelectLesson(context.Background(), "user-1", tt.lessonID)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				// a rejected selection never moves the pointer
				assert.Equal(t, "l1", repo.snapshots["user-1"].CurrentLessonID)
				assert.Equal(t, 0, repo.saves)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.lessonID, repo.snapshots["user-1"].CurrentLessonID)
			}
		})
	}
}

func TestPlayerService_CompleteLesson_AdvancesThroughCourse(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	repo := newMockSnapshotRepository()
	repo.snapshots["user-1"] = testSnapshot()
	svc := NewPlayerService(repo, logger)
	ctx := context.Background()

	// first lesson: progress a third, pointer moves onto the locked l2
	result, err := svc.CompleteLesson(ctx, "user-1", "l1")
	require.NoError(t, err)
	assert.Equal(t, 33, result.Percentage)
	assert.Equal(t, []string{"l1"}, result.CompletedLessons)
	assert.False(t, result.CourseCompleted)
	assert.False(t, result.CertificateEarned)
	assert.Equal(t, "l2", result.NextLessonID)
	assert.Equal(t, "l2", repo.snapshots["user-1"].CurrentLessonID)

	// second lesson crosses the unit boundary
	result, err = svc.CompleteLesson(ctx, "user-1", "l2")
	require.NoError(t, err)
	assert.Equal(t, 67, result.Percentage)
	assert.Equal(t, "l3", result.NextLessonID)
	assert.Equal(t, "l3", repo.snapshots["user-1"].CurrentLessonID)

	// final lesson completes the course and raises the certificate once
	result, err = svc.CompleteLesson(ctx, "user-1", "l3")
	require.NoError(t, err)
	assert.Equal(t, 100, result.Percentage)
	assert.True(t, result.CourseCompleted)
	assert.True(t, result.CertificateEarned)
	assert.Empty(t, result.NextLessonID)
	assert.Equal(t, "l3", repo.snapshots["user-1"].CurrentLessonID)
}

func TestPlayerService_CompleteLesson_Idempotent(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	repo := newMockSnapshotRepository()
	snapshot := testSnapshot()
	snapshot.CompletedLessons = []string{"l1", "l2", "l3"}
	snapshot.CurrentLessonID = "l3"
	repo.snapshots["user-1"] = snapshot
	svc := NewPlayerService(repo, logger)

	result, err := svc.CompleteLesson(context.Background(), "user-1", "l3")
	require.NoError(t, err)

	assert.Equal(t, 100, result.Percentage)
	assert.True(t, result.CourseCompleted)
	// the certificate was earned by an earlier call, never re-raised
	assert.False(t, result.CertificateEarned)
	assert.Equal(t, []string{"l1", "l2", "l3"}, result.CompletedLessons)
}

func TestPlayerService_CompleteLesson_UnknownLesson(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	repo := newMockSnapshotRepository()
	repo.snapshots["user-1"] = testSnapshot()
	svc := NewPlayerService(repo, logger)

	_, err := svc.CompleteLesson(context.Background(), "user-1", "missing")
	assert.ErrorIs(t, err, player.ErrLessonNotFound)
	assert.Equal(t, 0, repo.saves)
}

func TestPlayerService_CompleteLesson_OutOfOrderKeepsPointerRule(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	repo := newMockSnapshotRepository()
	snapshot := testSnapshot()
	snapshot.CompletedLessons = []string{"l1", "l2"}
	snapshot.CurrentLessonID = "l3"
	repo.snapshots["user-1"] = snapshot
	svc := NewPlayerService(repo, logger)

	// completing l3 finishes the course; the pointer stays put
	result, err := svc.CompleteLesson(context.Background(), "user-1", "l3")
	require.NoError(t, err)
	assert.True(t, result.CertificateEarned)
	assert.Equal(t, "l3", repo.snapshots["user-1"].CurrentLessonID)
}
