// Package schema normalizes generated course documents. The generator output
// is untrusted free-form JSON, so the package repairs what it can (field
// aliases, missing ids, unknown block types) and rejects only documents that
// break structural invariants.
package schema

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/courseforge/backend/internal/models"
)

// SchemaError indicates a generated course document that cannot be repaired
// into a valid course.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid course document: %s", e.Reason)
}

// defaultOptionText is used when a quiz option carries no text under any of
// the accepted field names.
const defaultOptionText = "Opción"

// maxCoverPromptLen bounds the topic-derived cover prompt before encoding
const maxCoverPromptLen = 50

var coverPromptStrip = regexp.MustCompile(`[^\w\s]`)

// rawCourse mirrors the generator contract loosely. Block content stays raw
// because its shape depends on the block type.
type rawCourse struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Level       string          `json:"level"`
	Tags        []string        `json:"tags"`
	Units       []rawUnit       `json:"units"`
	Sources     []models.Source `json:"sources"`
}

type rawUnit struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Lessons     []rawLesson `json:"lessons"`
}

type rawLesson struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Duration string          `json:"duration"`
	IsLocked bool            `json:"isLocked"`
	Blocks   []rawBlock      `json:"blocks"`
	Content  json.RawMessage `json:"content"` // ignored, some generations misplace it here
}

type rawBlock struct {
	Type    string          `json:"type"`
	Title   string          `json:"title"`
	Content json.RawMessage `json:"content"`
}

type rawQuestion struct {
	Question    string      `json:"question"`
	Options     []rawOption `json:"options"`
	Explanation string      `json:"explanation"`
}

// rawOption accepts the option text under several field names; generations
// are inconsistent about which one they use.
type rawOption struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Label     string `json:"label"`
	Content   string `json:"content"`
	IsCorrect bool   `json:"isCorrect"`
}

// Normalize validates and repairs a generated course document. It is a pure
// transform: on success it returns a canonical course with the cover prompt
// derived from the topic, on failure a *SchemaError. It never panics on
// malformed input.
func Normalize(raw []byte, topic string) (*models.Course, error) {
	var doc rawCourse
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &SchemaError{Reason: fmt.Sprintf("malformed JSON: %v", err)}
	}

	if len(doc.Units) == 0 {
		return nil, &SchemaError{Reason: "course has no units"}
	}

	course := &models.Course{
		Title:       strings.TrimSpace(doc.Title),
		Description: strings.TrimSpace(doc.Description),
		Level:       strings.TrimSpace(doc.Level),
		Tags:        doc.Tags,
		Sources:     doc.Sources,
		CoverPrompt: CoverPrompt(topic),
	}

	seen := make(map[string]struct{})
	for ui, ru := range doc.Units {
		if len(ru.Lessons) == 0 {
			return nil, &SchemaError{Reason: fmt.Sprintf("unit %d has no lessons", ui+1)}
		}

		unit := models.Unit{
			ID:          ru.ID,
			Title:       strings.TrimSpace(ru.Title),
			Description: strings.TrimSpace(ru.Description),
		}
		if unit.ID == "" {
			unit.ID = fmt.Sprintf("u%d", ui+1)
		}

		for li, rl := range ru.Lessons {
			lesson := models.Lesson{
				ID:       rl.ID,
				Title:    strings.TrimSpace(rl.Title),
				Duration: strings.TrimSpace(rl.Duration),
				Locked:   rl.IsLocked,
			}
			if lesson.ID == "" {
				lesson.ID = fmt.Sprintf("%s-l%d", unit.ID, li+1)
			}
			if _, dup := seen[lesson.ID]; dup {
				return nil, &SchemaError{Reason: fmt.Sprintf("duplicate lesson id %q", lesson.ID)}
			}
			seen[lesson.ID] = struct{}{}

			lesson.Blocks = normalizeBlocks(rl.Blocks)
			unit.Lessons = append(unit.Lessons, lesson)
		}

		course.Units = append(course.Units, unit)
	}

	return course, nil
}

// normalizeBlocks converts raw blocks into their canonical form. Blocks of
// unknown type, and quiz blocks whose questions cannot be decoded, are
// dropped rather than failing the whole course.
func normalizeBlocks(raw []rawBlock) []models.ContentBlock {
	var blocks []models.ContentBlock
	for _, rb := range raw {
		t := models.BlockType(strings.ToLower(strings.TrimSpace(rb.Type)))
		if !t.Known() {
			continue
		}

		block := models.ContentBlock{
			Type:  t,
			Title: strings.TrimSpace(rb.Title),
		}

		if t == models.BlockTypeQuiz {
			questions, ok := decodeQuestions(rb.Content)
			if !ok || len(questions) == 0 {
				continue
			}
			block.Questions = questions
		} else {
			var content string
			if len(rb.Content) > 0 {
				// Non-string content on a prose block is a malformed
				// generation; keep the block with empty content.
				_ = json.Unmarshal(rb.Content, &content)
			}
			block.Content = content
		}

		blocks = append(blocks, block)
	}
	return blocks
}

// decodeQuestions parses the polymorphic quiz payload and resolves the
// option-text aliases. Exactly-one-correct is intentionally not enforced;
// scoring follows each option's own correctness flag.
func decodeQuestions(raw json.RawMessage) ([]models.QuizQuestion, bool) {
	var rqs []rawQuestion
	if err := json.Unmarshal(raw, &rqs); err != nil {
		return nil, false
	}

	questions := make([]models.QuizQuestion, 0, len(rqs))
	for _, rq := range rqs {
		q := models.QuizQuestion{
			Question:    strings.TrimSpace(rq.Question),
			Explanation: strings.TrimSpace(rq.Explanation),
		}
		for _, ro := range rq.Options {
			q.Options = append(q.Options, models.QuizOption{
				ID:        ro.ID,
				Text:      optionText(ro),
				IsCorrect: ro.IsCorrect,
			})
		}
		questions = append(questions, q)
	}
	return questions, true
}

// optionText picks the first non-empty of the accepted text fields
func optionText(o rawOption) string {
	for _, candidate := range []string{o.Text, o.Label, o.Content} {
		if s := strings.TrimSpace(candidate); s != "" {
			return s
		}
	}
	return defaultOptionText
}

// CoverPrompt derives the cover-image prompt from the requested topic:
// non-word, non-space characters stripped, truncated to 50 characters,
// URL-encoded. The derivation is deterministic so regenerating the same
// topic yields the same prompt.
func CoverPrompt(topic string) string {
	clean := coverPromptStrip.ReplaceAllString(topic, "")
	runes := []rune(clean)
	if len(runes) > maxCoverPromptLen {
		runes = runes[:maxCoverPromptLen]
	}
	return url.PathEscape(string(runes))
}
