// Package player implements the lesson-playback state machines: the
// flattened navigation order, the completion tracker, the per-quiz
// evaluation state and the tutor context builder. Everything here is
// in-memory and deterministic; persistence lives in the repositories.
package player

import (
	"errors"

	"github.com/courseforge/backend/internal/models"
)

var (
	// ErrLessonNotFound indicates an id absent from the course
	ErrLessonNotFound = errors.New("lesson not found")
	// ErrLessonLocked indicates a locked lesson that has not been completed
	ErrLessonLocked = errors.New("lesson is locked")
)

// Flatten returns every lesson of the course in unit order, then lesson
// order. It is a pure function of the course: identical input yields an
// identical sequence, which keeps totals stable for progress math.
func Flatten(course *models.Course) []models.Lesson {
	lessons := make([]models.Lesson, 0, course.TotalLessons())
	for _, u := range course.Units {
		lessons = append(lessons, u.Lessons...)
	}
	return lessons
}

// Navigator resolves lessons and computes advancement over the flattened
// sequence of one course. It never mutates the course.
type Navigator struct {
	order []models.Lesson
	index map[string]int
}

// NewNavigator creates a navigator for the given course
func NewNavigator(course *models.Course) *Navigator {
	order := Flatten(course)
	index := make(map[string]int, len(order))
	for i, l := range order {
		// First occurrence wins; duplicate ids are rejected by the
		// validator, so this only matters for snapshots that predate it.
		if _, ok := index[l.ID]; !ok {
			index[l.ID] = i
		}
	}
	return &Navigator{order: order, index: index}
}

// Len returns the number of lessons in the flattened sequence
func (n *Navigator) Len() int {
	return len(n.order)
}

// Lesson returns the lesson with the given id
func (n *Navigator) Lesson(id string) (models.Lesson, bool) {
	i, ok := n.index[id]
	if !ok {
		return models.Lesson{}, false
	}
	return n.order[i], true
}

// First returns the first lesson of the first unit
func (n *Navigator) First() (models.Lesson, bool) {
	if len(n.order) == 0 {
		return models.Lesson{}, false
	}
	return n.order[0], true
}

// Selectable reports whether a lesson may be manually selected. A lesson is
// selectable when it is not locked, or when it has already been completed.
func (n *Navigator) Selectable(id string, progress *Progress) error {
	lesson, ok := n.Lesson(id)
	if !ok {
		return ErrLessonNotFound
	}
	if lesson.Locked && !progress.Completed(id) {
		return ErrLessonLocked
	}
	return nil
}

// Advance returns the id of the lesson following currentID in the flattened
// sequence. It ignores lock state: advancement after completing a lesson is
// how locked lessons become reachable. The second return is false when
// currentID is unknown or already the last lesson.
func (n *Navigator) Advance(currentID string) (string, bool) {
	i, ok := n.index[currentID]
	if !ok || i >= len(n.order)-1 {
		return "", false
	}
	return n.order[i+1].ID, true
}
