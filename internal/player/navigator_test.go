package player

import (
	"testing"

	"github.com/courseforge/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCourse builds a two-unit course: l1 unlocked, l2 and l3 locked
func testCourse() *models.Course {
	return &models.Course{
		Title: "Curso de prueba",
		Units: []models.Unit{
			{
				ID:    "u1",
				Title: "Unidad 1",
				Lessons: []models.Lesson{
					{ID: "l1", Title: "Lección 1"},
					{ID: "l2", Title: "Lección 2", Locked: true},
				},
			},
			{
				ID:    "u2",
				Title: "Unidad 2",
				Lessons: []models.Lesson{
					{ID: "l3", Title: "Lección 3", Locked: true},
				},
			},
		},
	}
}

func TestFlatten_OrderAndStability(t *testing.T) {
	course := testCourse()

	first := Flatten(course)
	second := Flatten(course)

	require.Len(t, first, 3)
	assert.Equal(t, "l1", first[0].ID)
	assert.Equal(t, "l2", first[1].ID)
	assert.Equal(t, "l3", first[2].ID)

	// same course, same sequence
	assert.Equal(t, first, second)
}

func TestNavigator_Lesson(t *testing.T) {
	nav := NewNavigator(testCourse())

	lesson, ok := nav.Lesson("l2")
	assert.True(t, ok)
	assert.Equal(t, "Lección 2", lesson.Title)

	_, ok = nav.Lesson("missing")
	assert.False(t, ok)

	assert.Equal(t, 3, nav.Len())
}

func TestNavigator_First(t *testing.T) {
	nav := NewNavigator(testCourse())

	first, ok := nav.First()
	assert.True(t, ok)
	assert.Equal(t, "l1", first.ID)

	empty := NewNavigator(&models.Course{})
	_, ok = empty.First()
	assert.False(t, ok)
}

func TestNavigator_Selectable(t *testing.T) {
	nav := NewNavigator(testCourse())

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
			name:        "locked and not completed",
			lessonID:    "l2",
			expectedErr: ErrLessonLocked,
		},
		{
			name:      "locked but completed stays revisitable",
			lessonID:  "l2",
			completed: []string{"l1", "l2"},
		},
		{
			name:        "unknown lesson",
			lessonID:    "missing",
			expectedErr: ErrLessonNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			progress := NewProgress(3, tt.completed)
			err := nav.Selectable(tt.lessonID, progress)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNavigator_Advance(t *testing.T) {
	nav := NewNavigator(testCourse())

	// advancement crosses unit boundaries and ignores lock flags
	next, ok := nav.Advance("l1")
	assert.True(t, ok)
	assert.Equal(t, "l2", next)

	next, ok = nav.Advance("l2")
	assert.True(t, ok)
	assert.Equal(t, "l3", next)

	_, ok = nav.Advance("l3")
	assert.False(t, ok)

	_, ok = nav.Advance("missing")
	assert.False(t, ok)
}
