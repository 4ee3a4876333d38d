package player

import (
	"errors"

	"github.com/courseforge/backend/internal/models"
)

var (
	// ErrQuizNotAnswered indicates an advance before the current question
	// has been answered
	ErrQuizNotAnswered = errors.New("current question not answered")
	// ErrQuizLastQuestion indicates an advance past the final question
	ErrQuizLastQuestion = errors.New("already at last question")
	// ErrQuizEmpty indicates a quiz block with no questions
	ErrQuizEmpty = errors.New("quiz has no questions")
)

// Quiz is the evaluation state machine for one quiz-block instance. Each
// instance is independent: answering one quiz never affects another.
type Quiz struct {
	questions []models.QuizQuestion
	index     int
	selected  string
	answered  bool
	score     int
}

// NewQuiz creates a quiz instance over the block's questions
func NewQuiz(questions []models.QuizQuestion) (*Quiz, error) {
	if len(questions) == 0 {
		return nil, ErrQuizEmpty
	}
	return &Quiz{questions: questions}, nil
}

// Index returns the 0-based index of the current question
func (q *Quiz) Index() int { return q.index }

// Len returns the number of questions in the quiz
func (q *Quiz) Len() int { return len(q.questions) }

// Score returns the running score. It is never decremented.
func (q *Quiz) Score() int { return q.score }

// Answered reports whether the current question has been answered
func (q *Quiz) Answered() bool { return q.answered }

// SelectedOption returns the option id chosen for the current question,
// empty until answered
func (q *Quiz) SelectedOption() string { return q.selected }

// IsLast reports whether the current question is the final one
func (q *Quiz) IsLast() bool { return q.index == len(q.questions)-1 }

// Current returns the current question
func (q *Quiz) Current() models.QuizQuestion {
	return q.questions[q.index]
}

// SelectOption records the answer for the current question. Once a question
// is answered further selections are no-ops, so the score and the recorded
// selection never change retroactively. The score increments iff the chosen
// option's correctness flag is set; an id that matches no option counts as
// a wrong answer but still locks the question.
func (q *Quiz) SelectOption(optionID string) {
	if q.answered {
		return
	}
	q.selected = optionID
	q.answered = true

	for _, opt := range q.Current().Options {
		if opt.ID == optionID {
			if opt.IsCorrect {
				q.score++
			}
			return
		}
	}
}

// AdvanceQuestion moves to the next question, resetting the selection and
// answered flag. It is only valid after the current question was answered
// and while there is a next question.
func (q *Quiz) AdvanceQuestion() error {
	if !q.answered {
		return ErrQuizNotAnswered
	}
	if q.IsLast() {
		return ErrQuizLastQuestion
	}
	q.index++
	q.selected = ""
	q.answered = false
	return nil
}
