package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/courseforge/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockTutorClient is a mock implementation of TutorClient
type mockTutorClient struct {
	answer   string
	err      error
	contexts []string
	started  chan struct{}
	release  chan struct{}
}

func (m *mockTutorClient) AskTutor(ctx context.Context, question, lessonContext string) (string, error) {
	m.contexts = append(m.contexts, lessonContext)
	if m.started != nil {
		m.started <- struct{}{}
	}
	if m.release != nil {
		<-m.release
	}
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}

func setupTutorService(client *mockTutorClient) (*tutorService, *mockSnapshotRepository) {
	logger, _ := zap.NewDevelopment()
	repo := newMockSnapshotRepository()
	repo.snapshots["user-1"] = testSnapshot()
	return NewTutorService(repo, client, logger), repo
}

func TestTutorService_Messages_SeedsWelcome(t *testing.T) {
	svc, _ := setupTutorService(&mockTutorClient{})

	messages := svc.Messages("user-1")
	require.Len(t, messages, 1)
	assert.Equal(t, models.ChatRoleAI, messages[0].Role)
	assert.Equal(t, tutorWelcomeText, messages[0].Text)
}

func TestTutorService_Ask(t *testing.T) {
	client := &mockTutorClient{answer: "La gravedad es una fuerza."}
	svc, _ := setupTutorService(client)

	reply, err := svc.Ask(context.Background(), "user-1", "¿Qué es la gravedad?")
	require.NoError(t, err)
	assert.Equal(t, models.ChatRoleAI, reply.Role)
	assert.Equal(t, "La gravedad es una fuerza.", reply.Text)

	// welcome, question, reply in send order
	messages := svc.Messages("user-1")
	require.Len(t, messages, 3)
	assert.Equal(t, tutorWelcomeText, messages[0].Text)
	assert.Equal(t, models.ChatRoleUser, messages[1].Role)
	assert.Equal(t, "¿Qué es la gravedad?", messages[1].Text)
	assert.Equal(t, reply.ID, messages[2].ID)

	// context derives from the current lesson's blocks
	require.Len(t, client.contexts, 1)
	assert.True(t, strings.Contains(client.contexts[0], "Teoría: Contenido"))
}

func TestTutorService_Ask_NoSession(t *testing.T) {
	svc, _ := setupTutorService(&mockTutorClient{answer: "ok"})

	_, err := svc.Ask(context.Background(), "stranger", "¿Hola?")
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestTutorService_Ask_SubstitutesApology(t *testing.T) {
	client := &mockTutorClient{err: errors.New("upstream timeout")}
	svc, _ := setupTutorService(client)

	reply, err := svc.Ask(context.Background(), "user-1", "¿Qué es la gravedad?")
	require.NoError(t, err)
	assert.Equal(t, tutorApologyText, reply.Text)

	// the failed exchange still lands in the log in order
	messages := svc.Messages("user-1")
	require.Len(t, messages, 3)
	assert.Equal(t, tutorApologyText, messages[2].Text)
}

func TestTutorService_Ask_SingleFlight(t *testing.T) {
	client := &mockTutorClient{
		answer:  "respuesta",
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc, _ := setupTutorService(client)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := svc.Ask(context.Background(), "user-1", "primera pregunta")
		assert.NoError(t, err)
	}()

	// wait until the first question reaches the collaborator
	<-client.started

	_, err := svc.Ask(context.Background(), "user-1", "segunda pregunta")
	assert.ErrorIs(t, err, ErrReplyPending)

	close(client.release)
	wg.Wait()
	client.started = nil

	// once the reply landed, asking works again
	_, err = svc.Ask(context.Background(), "user-1", "tercera pregunta")
	assert.NoError(t, err)
}

func TestTutorService_Reset(t *testing.T) {
	client := &mockTutorClient{answer: "respuesta"}
	svc, _ := setupTutorService(client)

	_, err := svc.Ask(context.Background(), "user-1", "¿Hola?")
	require.NoError(t, err)
	require.Len(t, svc.Messages("user-1"), 3)

	svc.Reset("user-1")

	// fresh conversation, welcome only
	messages := svc.Messages("user-1")
	require.Len(t, messages, 1)
	assert.Equal(t, tutorWelcomeText, messages[0].Text)
}
