package player

import (
	"strings"

	"github.com/courseforge/backend/internal/models"
)

// maxTutorContextLen bounds the lesson context handed to the tutor so a
// content-heavy lesson cannot blow up the prompt.
const maxTutorContextLen = 6000

// BuildTutorContext derives the grounding context for a tutor exchange from
// the current lesson. Prose blocks contribute "title: content"; image and
// quiz blocks contribute only their title. The result is truncated to a
// fixed budget. Pure function, safe to call on every question.
func BuildTutorContext(lesson models.Lesson) string {
	parts := make([]string, 0, len(lesson.Blocks))
	for _, b := range lesson.Blocks {
		if b.Type.Textual() && b.Content != "" {
			parts = append(parts, b.Title+": "+b.Content)
			continue
		}
		if b.Title != "" {
			parts = append(parts, b.Title)
		}
	}

	context := strings.Join(parts, "\n\n")
	runes := []rune(context)
	if len(runes) > maxTutorContextLen {
		context = string(runes[:maxTutorContextLen])
	}
	return context
}
