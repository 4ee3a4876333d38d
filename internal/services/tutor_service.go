package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/courseforge/backend/internal/models"
	"github.com/courseforge/backend/internal/player"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrReplyPending indicates a question is already awaiting its answer; the
// conversation accepts one in-flight question at a time so replies can never
// interleave out of order.
var ErrReplyPending = errors.New("a tutor reply is already pending")

const (
	tutorWelcomeText = "¡Hola! Soy tu tutor IA. ¿Tienes alguna duda sobre esta lección?"
	tutorApologyText = "Lo siento, ahora mismo no puedo responderte. Inténtalo de nuevo en un momento."
)

// TutorClient defines methods for the question-answering collaborator
type TutorClient interface {
	// AskTutor answers a question grounded on the lesson context
	//
	// "ctx" is the context for the request.
	// "question" is the student's free-text question.
	// "lessonContext" is the bounded context string built from the lesson.
	//
	// Returns the answer text and an error if any.
	AskTutor(ctx context.Context, question, lessonContext string) (string, error)
}

// conversation is one user's tutor exchange: an append-only message log and
// the single-flight guard
type conversation struct {
	messages []models.ChatMessage
	pending  bool
}

type tutorService struct {
	repo   SnapshotRepository
	client TutorClient
	logger *zap.Logger

	mu            sync.Mutex
	conversations map[string]*conversation
}

// NewTutorService creates a new tutor service. Conversations are ephemeral:
// they live in memory for the duration of a session and are dropped when the
// course is replaced or the user exits to home.
func NewTutorService(repo SnapshotRepository, client TutorClient, logger *zap.Logger) *tutorService {
	return &tutorService{
		repo:          repo,
		client:        client,
		logger:        logger,
		conversations: make(map[string]*conversation),
	}
}

// Messages returns the user's conversation log, seeding a new conversation
// with the welcome message
func (s *tutorService) Messages(userID string) []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.conversation(userID)
	out := make([]models.ChatMessage, len(conv.messages))
	copy(out, conv.messages)
	return out
}

// Ask submits a question grounded on the current lesson and returns the
// tutor's reply message. Messages are appended strictly in send order: the
// question is appended before the collaborator is called, and the reply (or
// the apology substituted on failure) is appended when it arrives. While a
// reply is outstanding further questions are rejected with ErrReplyPending.
func (s *tutorService) Ask(ctx context.Context, userID, question string) (*models.ChatMessage, error) {
	snapshot, err := loadSession(ctx, s.repo, userID, s.logger)
	if err != nil {
		return nil, err
	}

	nav := player.NewNavigator(snapshot.Course)
	lesson, ok := nav.Lesson(snapshot.CurrentLessonID)
	if !ok {
		return nil, player.ErrLessonNotFound
	}
	lessonContext := player.BuildTutorContext(lesson)

	s.mu.Lock()
	conv := s.conversation(userID)
	if conv.pending {
		s.mu.Unlock()
		return nil, ErrReplyPending
	}
	conv.pending = true
	conv.messages = append(conv.messages, models.ChatMessage{
		ID:        uuid.New().String(),
		Role:      models.ChatRoleUser,
		Text:      question,
		Timestamp: time.Now(),
	})
	s.mu.Unlock()

	answer, err := s.client.AskTutor(ctx, question, lessonContext)
	if err != nil {
		s.logger.Warn("tutor collaborator unavailable", zap.Error(err))
		answer = tutorApologyText
	}

	reply := models.ChatMessage{
		ID:        uuid.New().String(),
		Role:      models.ChatRoleAI,
		Text:      answer,
		Timestamp: time.Now(),
	}

	s.mu.Lock()
	// Even if the user moved to another lesson meanwhile, the reply still
	// belongs to this conversation and is appended after its question.
	conv.messages = append(conv.messages, reply)
	conv.pending = false
	s.mu.Unlock()

	return &reply, nil
}

// Reset drops the user's conversation
func (s *tutorService) Reset(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conversations, userID)
}

// conversation returns the user's conversation, creating and seeding it on
// first access. Callers must hold s.mu.
func (s *tutorService) conversation(userID string) *conversation {
	conv, ok := s.conversations[userID]
	if !ok {
		conv = &conversation{
			messages: []models.ChatMessage{{
				ID:        uuid.New().String(),
				Role:      models.ChatRoleAI,
				Text:      tutorWelcomeText,
				Timestamp: time.Now(),
			}},
		}
		s.conversations[userID] = conv
	}
	return conv
}
