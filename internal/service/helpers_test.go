package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"wspace-be/internal/entity"
	"wspace-be/internal/pkg/logger"
	"wspace-be/internal/repository/specification"
	"wspace-be/internal/repository/unitofwork"
	"wspace-be/pkg/database/databasetest"
	"wspace-be/pkg/events"
	"wspace-be/pkg/i18n"
	"wspace-be/pkg/llm"
	"wspace-be/pkg/websearch"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeLLM struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(history) > 0 {
		f.prompts = append(f.prompts, history[len(history)-1].Content)
	}
	return f.reply, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

func (f *fakeLLM) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

type fakeSearcher struct {
	results []websearch.Result
	err     error
	queries []string
}

func (f *fakeSearcher) Search(ctx context.Context, query string) ([]websearch.Result, error) {
	f.queries = append(f.queries, query)
	return f.results, f.err
}

type fakeJobPublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (f *fakeJobPublisher) Publish(ctx context.Context, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, payload)
	return nil
}

// frozenClock never advances, so every ordering guarantee comes from nextTimestamp.
func frozenClock(at time.Time) Clock {
	return func() time.Time { return at }
}

var testEpoch = time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC)

type chatHarness struct {
	db       *gorm.DB
	factory  unitofwork.RepositoryFactory
	sessions ISessionService
	chat     IChatService
	llm      *fakeLLM
	searcher *fakeSearcher
	events   *events.Recorder
}

func newChatHarness(t *testing.T, clock Clock) *chatHarness {
	t.Helper()

	db := databasetest.NewSQLite(t)
	factory := unitofwork.NewRepositoryFactory(db)
	recorder := events.NewRecorder(32)
	log := logger.NewNopLogger()

	h := &chatHarness{
		db:       db,
		factory:  factory,
		llm:      &fakeLLM{reply: `{"content":"hi there","needsWebSearch":false}`},
		searcher: &fakeSearcher{},
		events:   recorder,
	}
	h.sessions = NewSessionService(factory, i18n.NewResolver("en"), recorder, log, clock)
	h.chat = NewChatService(factory, h.sessions, h.llm, h.searcher, recorder, log, clock)
	return h
}

func (h *chatHarness) newSession(t *testing.T, userId uuid.UUID) *entity.ChatSession {
	t.Helper()
	res, err := h.sessions.CreateSession(context.Background(), userId, nil, "en")
	require.NoError(t, err)
	session, err := h.sessions.FindOwnedSession(context.Background(), userId, res.Session.Id)
	require.NoError(t, err)
	return session
}

func (h *chatHarness) messages(t *testing.T, sessionId uuid.UUID) []*entity.ChatMessage {
	t.Helper()
	msgs, err := h.factory.NewUnitOfWork(context.Background()).ChatMessageRepository().FindAll(context.Background(),
		bySession(sessionId)...,
	)
	require.NoError(t, err)
	return msgs
}

func waitForEvent(t *testing.T, rec *events.Recorder, eventType string) events.Event {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case evt := <-rec.Events():
			if evt.EventType() == eventType {
				return evt
			}
		case <-timeout:
			t.Fatalf("no %s event published", eventType)
			return nil
		}
	}
}

func bySession(sessionId uuid.UUID) []specification.Specification {
	return []specification.Specification{
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at"},
	}
}
