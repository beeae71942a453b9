package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"wspace-be/internal/dto"
	"wspace-be/internal/entity"
	"wspace-be/internal/pkg/logger"
	"wspace-be/internal/repository/specification"
	"wspace-be/internal/repository/unitofwork"
	"wspace-be/pkg/analysis"
	"wspace-be/pkg/database/databasetest"
	"wspace-be/pkg/events"
	"wspace-be/pkg/notion"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTopic = "ANALYZE_CONTENT"

type fakeAnalyzer struct {
	result analysis.Result
	err    error
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, title, content string) (analysis.Result, error) {
	if f.err != nil {
		return analysis.Fallback(title, content), f.err
	}
	return f.result, nil
}

type fakeNotion struct {
	mu      sync.Mutex
	created []notion.Page
	updated []string
}

func (f *fakeNotion) CreatePage(ctx context.Context, token, databaseId string, p notion.Page) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, p)
	return "page-123", nil
}

func (f *fakeNotion) UpdatePage(ctx context.Context, token, pageId string, p notion.Page) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, pageId)
	return nil
}

func (f *fakeNotion) createdCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

type consumerHarness struct {
	factory unitofwork.RepositoryFactory
	notes   INoteService
	jobs    IPublisherService
	notion  *fakeNotion
	events  *events.Recorder
}

func newConsumerHarness(t *testing.T, analyzer ContentAnalyzer) *consumerHarness {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	factory := unitofwork.NewRepositoryFactory(databasetest.NewSQLite(t))
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })

	h := &consumerHarness{
		factory: factory,
		notion:  &fakeNotion{},
		events:  events.NewRecorder(16),
	}
	consumer := NewConsumerService(pubSub, testTopic, factory, analyzer, h.notion, h.events, logger.NewNopLogger(), SystemClock)
	require.NoError(t, consumer.Consume(ctx))

	h.jobs = NewPublisherService(testTopic, pubSub)
	h.notes = NewNoteService(factory, h.jobs, SystemClock)
	return h
}

func (h *consumerHarness) waitForStatus(t *testing.T, noteId uuid.UUID, status entity.AnalysisStatus) *entity.Note {
	t.Helper()
	var note *entity.Note
	require.Eventually(t, func() bool {
		var err error
		note, err = h.factory.NewUnitOfWork(context.Background()).NoteRepository().FindOne(context.Background(), specification.ByID{ID: noteId})
		return err == nil && note != nil && note.Analysis.Status == status
	}, 3*time.Second, 20*time.Millisecond)
	return note
}

func (h *consumerHarness) linkNotion(t *testing.T, userId uuid.UUID) {
	t.Helper()
	token, databaseId := "secret_abc", "db-1"
	uow := h.factory.NewUnitOfWork(context.Background())
	require.NoError(t, uow.UserRepository().Create(context.Background(), &entity.User{
		Id:                userId,
		Email:             userId.String() + "@example.com",
		FullName:          "Tester",
		NotionAccessToken: &token,
		NotionDatabaseId:  &databaseId,
	}))
}

func TestConsumerStoresAnalysisAndSyncsNotion(t *testing.T) {
	h := newConsumerHarness(t, &fakeAnalyzer{result: analysis.Result{
		Title:       "Sprint",
		Summary:     "Plan the sprint",
		Category:    "work",
		Tags:        []string{"sprint", "planning"},
		Priority:    "high",
		ActionItems: []string{"book room"},
	}})
	owner := uuid.New()
	h.linkNotion(t, owner)

	created, err := h.notes.Create(context.Background(), owner, &dto.CreateNoteRequest{Title: "Sprint", Content: "plan sprint, book room"})
	require.NoError(t, err)

	note := h.waitForStatus(t, created.Id, entity.AnalysisCompleted)
	assert.Equal(t, entity.CategoryWork, note.Analysis.Category)
	assert.Equal(t, entity.PriorityHigh, note.Analysis.Priority)
	assert.Equal(t, []string{"sprint", "planning"}, note.Analysis.Tags)
	assert.Equal(t, "Plan the sprint", note.Analysis.Summary)

	evt := waitForEvent(t, h.events, events.ContentSyncedNotion)
	assert.Equal(t, "page-123", evt.Payload()["notion_page_id"])
	assert.Equal(t, 1, h.notion.createdCount())

	synced, err := h.factory.NewUnitOfWork(context.Background()).NoteRepository().FindOne(context.Background(), specification.ByID{ID: created.Id})
	require.NoError(t, err)
	require.NotNil(t, synced.Analysis.NotionPageId)
	assert.Equal(t, "page-123", *synced.Analysis.NotionPageId)
}

func TestConsumerStoresFallbackOnFailure(t *testing.T) {
	h := newConsumerHarness(t, &fakeAnalyzer{err: errors.New("model overloaded")})
	owner := uuid.New()
	h.linkNotion(t, owner)

	created, err := h.notes.Create(context.Background(), owner, &dto.CreateNoteRequest{Title: "Groceries", Content: "milk, eggs"})
	require.NoError(t, err)

	note := h.waitForStatus(t, created.Id, entity.AnalysisFailed)
	assert.Equal(t, entity.CategoryOther, note.Analysis.Category)
	assert.Equal(t, "milk, eggs", note.Analysis.Summary)

	evt := waitForEvent(t, h.events, events.ContentAnalyzed)
	assert.Equal(t, "failed", evt.Payload()["status"])
	assert.Zero(t, h.notion.createdCount(), "failed analysis is not synced")
}

func TestConsumerAcksMalformedJobs(t *testing.T) {
	h := newConsumerHarness(t, &fakeAnalyzer{})
	ctx := context.Background()

	unknownKind, err := json.Marshal(dto.PublishAnalysisMessage{Kind: "spreadsheet", Id: uuid.New()})
	require.NoError(t, err)
	missingNote, err := json.Marshal(dto.PublishAnalysisMessage{Kind: dto.AnalysisKindNote, Id: uuid.New()})
	require.NoError(t, err)

	require.NoError(t, h.jobs.Publish(ctx, []byte("not json")))
	require.NoError(t, h.jobs.Publish(ctx, unknownKind))
	require.NoError(t, h.jobs.Publish(ctx, missingNote))

	created, err := h.notes.Create(ctx, uuid.New(), &dto.CreateNoteRequest{Title: "After", Content: "still processed"})
	require.NoError(t, err)
	note := h.waitForStatus(t, created.Id, entity.AnalysisCompleted)
	assert.Equal(t, entity.CategoryOther, note.Analysis.Category)
}
