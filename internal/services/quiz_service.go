package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/courseforge/backend/internal/models"
	"github.com/courseforge/backend/internal/player"
	"go.uber.org/zap"
)

// ErrQuizBlockNotFound indicates the block index does not reference a quiz
// block of the lesson
var ErrQuizBlockNotFound = errors.New("quiz block not found")

// QuizOptionView is an option as exposed to the client. Correctness is only
// revealed once the question has been answered.
type QuizOptionView struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect *bool  `json:"isCorrect,omitempty"`
}

// QuizView represents the visible state of one quiz instance
type QuizView struct {
	QuestionIndex    int              `json:"questionIndex"`
	TotalQuestions   int              `json:"totalQuestions"`
	Question         string           `json:"question"`
	Options          []QuizOptionView `json:"options"`
	Answered         bool             `json:"answered"`
	SelectedOptionID string           `json:"selectedOptionId,omitempty"`
	Explanation      string           `json:"explanation,omitempty"`
	Score            int              `json:"score"`
	IsLast           bool             `json:"isLast"`
}

type quizKey struct {
	userID   string
	lessonID string
	block    int
}

type quizService struct {
	repo   SnapshotRepository
	logger *zap.Logger

	mu        sync.Mutex
	instances map[quizKey]*player.Quiz
}

// NewQuizService creates a new quiz service. Quiz state is held in memory
// per (user, lesson, block) instance; it does not survive a restart and is
// dropped when the active course is replaced.
func NewQuizService(repo SnapshotRepository, logger *zap.Logger) *quizService {
	return &quizService{
		repo:      repo,
		logger:    logger,
		instances: make(map[quizKey]*player.Quiz),
	}
}

// State returns the current visible state of a quiz instance, creating it
// on first access
func (s *quizService) State(ctx context.Context, userID, lessonID string, blockIndex int) (*QuizView, error) {
	quiz, err := s.instance(ctx, userID, lessonID, blockIndex)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return view(quiz), nil
}

// Answer records the selected option for the quiz's current question.
// Answering an already answered question changes nothing.
func (s *quizService) Answer(ctx context.Context, userID, lessonID string, blockIndex int, optionID string) (*QuizView, error) {
	quiz, err := s.instance(ctx, userID, lessonID, blockIndex)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	quiz.SelectOption(optionID)
	return view(quiz), nil
}

// Next advances the quiz to its next question
func (s *quizService) Next(ctx context.Context, userID, lessonID string, blockIndex int) (*QuizView, error) {
	quiz, err := s.instance(ctx, userID, lessonID, blockIndex)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := quiz.AdvanceQuestion(); err != nil {
		return nil, err
	}
	return view(quiz), nil
}

// Reset drops all quiz instances of a user
func (s *quizService) Reset(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.instances {
		if key.userID == userID {
			delete(s.instances, key)
		}
	}
}

// instance returns the quiz state machine for the given block, creating it
// from the persisted course on first access
func (s *quizService) instance(ctx context.Context, userID, lessonID string, blockIndex int) (*player.Quiz, error) {
	key := quizKey{userID: userID, lessonID: lessonID, block: blockIndex}

	s.mu.Lock()
	if quiz, ok := s.instances[key]; ok {
		s.mu.Unlock()
		return quiz, nil
	}
	s.mu.Unlock()

	snapshot, err := loadSession(ctx, s.repo, userID, s.logger)
	if err != nil {
		return nil, err
	}

	nav := player.NewNavigator(snapshot.Course)
	lesson, ok := nav.Lesson(lessonID)
	if !ok {
		return nil, player.ErrLessonNotFound
	}
	if blockIndex < 0 || blockIndex >= len(lesson.Blocks) {
		return nil, ErrQuizBlockNotFound
	}
	block := lesson.Blocks[blockIndex]
	if block.Type != models.BlockTypeQuiz {
		return nil, ErrQuizBlockNotFound
	}

	quiz, err := player.NewQuiz(block.Questions)
	if err != nil {
		return nil, fmt.Errorf("failed to start quiz: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.instances[key]; ok {
		return existing, nil
	}
	s.instances[key] = quiz
	return quiz, nil
}

// view projects the quiz state into its client-visible form. Before the
// current question is answered, option correctness and the explanation stay
// hidden; after answering, every option's correctness is revealed for
// review until the quiz advances.
func view(q *player.Quiz) *QuizView {
	question := q.Current()
	v := &QuizView{
		QuestionIndex:    q.Index(),
		TotalQuestions:   q.Len(),
		Question:         question.Question,
		Answered:         q.Answered(),
		SelectedOptionID: q.SelectedOption(),
		Score:            q.Score(),
		IsLast:           q.IsLast(),
	}

	for _, opt := range question.Options {
		ov := QuizOptionView{ID: opt.ID, Text: opt.Text}
		if q.Answered() {
			correct := opt.IsCorrect
			ov.IsCorrect = &correct
		}
		v.Options = append(v.Options, ov)
	}
	if q.Answered() {
		v.Explanation = question.Explanation
	}
	return v
}
