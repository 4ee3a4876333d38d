package models

// Level represents the difficulty level of a course. The generator is free
// to return other labels, so the type stays an open string.
type Level = string

const (
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
)

// BlockType represents the type of a content block within a lesson
type BlockType string

const (
	BlockTypeTheory   BlockType = "theory"
	BlockTypeExample  BlockType = "example"
	BlockTypeActivity BlockType = "activity"
	BlockTypeQuiz     BlockType = "quiz"
	BlockTypeImage    BlockType = "image"
)

// Known reports whether the block type is one of the supported variants
func (t BlockType) Known() bool {
	switch t {
	case BlockTypeTheory, BlockTypeExample, BlockTypeActivity, BlockTypeQuiz, BlockTypeImage:
		return true
	}
	return false
}

// Textual reports whether the block carries prose content. Image blocks
// carry a generation prompt instead, quiz blocks carry questions.
func (t BlockType) Textual() bool {
	switch t {
	case BlockTypeTheory, BlockTypeExample, BlockTypeActivity:
		return true
	}
	return false
}

// QuizOption represents a single selectable answer of a quiz question
type QuizOption struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// QuizQuestion represents one question of a quiz block
type QuizQuestion struct {
	Question    string       `json:"question"`
	Options     []QuizOption `json:"options"`
	Explanation string       `json:"explanation"`
}

// ContentBlock represents a typed chunk of lesson material. Content holds
// the prose for textual variants and the generation prompt for image blocks;
// Questions is populated for quiz blocks only.
type ContentBlock struct {
	Type      BlockType      `json:"type"`
	Title     string         `json:"title"`
	Content   string         `json:"content,omitempty"`
	Questions []QuizQuestion `json:"questions,omitempty"`
}

// Lesson represents the atomic consumable unit of a course. Lesson content
// never mutates after generation; completion and effective lock state are
// derived from the session's progress, not stored here.
type Lesson struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Duration string         `json:"duration"`
	Locked   bool           `json:"isLocked"`
	Blocks   []ContentBlock `json:"blocks"`
}

// Unit represents an ordered group of lessons under a titled theme
type Unit struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Lessons     []Lesson `json:"lessons"`
}

// Source represents a bibliography entry attached to a course
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Course represents a full generated curriculum
type Course struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Level       Level    `json:"level"`
	Tags        []string `json:"tags"`
	Units       []Unit   `json:"units"`
	Sources     []Source `json:"sources,omitempty"`
	CoverPrompt string   `json:"imagePrompt,omitempty"`
}

// TotalLessons returns the number of lessons across all units
func (c *Course) TotalLessons() int {
	total := 0
	for _, u := range c.Units {
		total += len(u.Lessons)
	}
	return total
}

// CourseRequest represents a request to generate a course
type CourseRequest struct {
	Topic   string `json:"topic"`
	Level   string `json:"level"`
	Profile string `json:"profile"`
	Goal    string `json:"goal"`
	Time    string `json:"time"`
	Format  string `json:"format"`
}
