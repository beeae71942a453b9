package service

import (
	"context"
	"testing"
	"time"

	"wspace-be/internal/dto"
	"wspace-be/internal/entity"
	"wspace-be/internal/model"
	"wspace-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSessionDefaultsToLocaleTitle(t *testing.T) {
	h := newChatHarness(t, SystemClock)
	ctx := context.Background()
	userId := uuid.New()

	tests := []struct {
		name     string
		req      *dto.CreateSessionRequest
		language string
		want     string
	}{
		{name: "no body", req: nil, language: "en-US", want: "New Chat"},
		{name: "chinese", req: &dto.CreateSessionRequest{}, language: "zh-CN,zh;q=0.9", want: "新对话"},
		{name: "blank title", req: &dto.CreateSessionRequest{Title: ptr("   ")}, language: "", want: "New Chat"},
		{name: "explicit title", req: &dto.CreateSessionRequest{Title: ptr("  Trip plan ")}, language: "zh", want: "Trip plan"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := h.sessions.CreateSession(ctx, userId, tt.req, tt.language)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Session.Title)
			assert.Empty(t, res.Session.Messages)
			assert.NotNil(t, res.Session.Messages)
			assert.Equal(t, res.Session.CreatedAt, res.Session.UpdatedAt)
		})
	}
}

func TestCreateSessionRequiresUser(t *testing.T) {
	h := newChatHarness(t, SystemClock)

	_, err := h.sessions.CreateSession(context.Background(), uuid.Nil, nil, "en")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestAppendMessageKeepsOrderWithFrozenClock(t *testing.T) {
	h := newChatHarness(t, frozenClock(testEpoch))
	ctx := context.Background()
	session := h.newSession(t, uuid.New())

	var appended []*entity.ChatMessage
	for i, content := range []string{"one", "two", "three", "four"} {
		role := entity.ChatRoleUser
		if i%2 == 1 {
			role = entity.ChatRoleAssistant
		}
		msg, err := h.sessions.AppendMessage(ctx, session.Id, role, content, nil)
		require.NoError(t, err)
		appended = append(appended, msg)
	}

	stored := h.messages(t, session.Id)
	require.Len(t, stored, 4)
	for i := range stored {
		assert.Equal(t, appended[i].Id, stored[i].Id)
		if i > 0 {
			assert.True(t, stored[i].CreatedAt.After(stored[i-1].CreatedAt), "createdAt must strictly increase")
		}
	}

	reloaded, err := h.sessions.FindOwnedSession(ctx, session.UserId, session.Id)
	require.NoError(t, err)
	assert.False(t, reloaded.UpdatedAt.Before(stored[len(stored)-1].CreatedAt))
	assert.True(t, reloaded.UpdatedAt.After(session.UpdatedAt))
}

func TestAppendMessageUnknownSession(t *testing.T) {
	h := newChatHarness(t, SystemClock)

	_, err := h.sessions.AppendMessage(context.Background(), uuid.New(), entity.ChatRoleUser, "hi", nil)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestListSessionsOrderedByActivity(t *testing.T) {
	current := testEpoch
	clock := func() time.Time {
		current = current.Add(time.Second)
		return current
	}
	h := newChatHarness(t, clock)
	ctx := context.Background()
	userId := uuid.New()

	older := h.newSession(t, userId)
	newer := h.newSession(t, userId)
	h.newSession(t, uuid.New()) // someone else's

	_, err := h.sessions.AppendMessage(ctx, older.Id, entity.ChatRoleUser, "first", nil)
	require.NoError(t, err)
	_, err = h.sessions.AppendMessage(ctx, older.Id, entity.ChatRoleAssistant, "second", nil)
	require.NoError(t, err)

	res, err := h.sessions.ListSessions(ctx, userId)
	require.NoError(t, err)
	require.Len(t, res.Sessions, 2)

	assert.Equal(t, older.Id, res.Sessions[0].Id, "most recently active first")
	assert.Equal(t, newer.Id, res.Sessions[1].Id)

	require.Len(t, res.Sessions[0].Messages, 2)
	assert.Equal(t, "first", res.Sessions[0].Messages[0].Content)
	assert.Equal(t, "second", res.Sessions[0].Messages[1].Content)
	assert.Empty(t, res.Sessions[1].Messages)
}

func TestRenameSession(t *testing.T) {
	h := newChatHarness(t, frozenClock(testEpoch))
	ctx := context.Background()
	owner := uuid.New()
	session := h.newSession(t, owner)

	t.Run("not owned", func(t *testing.T) {
		err := h.sessions.RenameSession(ctx, uuid.New(), &dto.RenameSessionRequest{Id: session.Id, Title: "x"})
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("blank title", func(t *testing.T) {
		err := h.sessions.RenameSession(ctx, owner, &dto.RenameSessionRequest{Id: session.Id, Title: "  "})
		assert.ErrorIs(t, err, apperror.ErrSessionTitleMissing)
	})

	t.Run("renames and bumps updatedAt", func(t *testing.T) {
		err := h.sessions.RenameSession(ctx, owner, &dto.RenameSessionRequest{Id: session.Id, Title: " Groceries "})
		require.NoError(t, err)

		renamed, err := h.sessions.FindOwnedSession(ctx, owner, session.Id)
		require.NoError(t, err)
		assert.Equal(t, "Groceries", renamed.Title)
		assert.True(t, renamed.UpdatedAt.After(session.UpdatedAt))
		assert.Equal(t, owner, renamed.UserId)
	})
}

func TestDeleteSessionRemovesMessages(t *testing.T) {
	h := newChatHarness(t, SystemClock)
	ctx := context.Background()
	owner := uuid.New()
	session := h.newSession(t, owner)
	keep := h.newSession(t, owner)

	for _, id := range []uuid.UUID{session.Id, keep.Id} {
		_, err := h.sessions.AppendMessage(ctx, id, entity.ChatRoleUser, "hello", nil)
		require.NoError(t, err)
	}

	err := h.sessions.DeleteSession(ctx, uuid.New(), session.Id)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Len(t, h.messages(t, session.Id), 1, "failed delete leaves messages alone")

	require.NoError(t, h.sessions.DeleteSession(ctx, owner, session.Id))

	var orphans int64
	require.NoError(t, h.db.Model(&model.ChatMessage{}).Where("chat_session_id = ?", session.Id).Count(&orphans).Error)
	assert.Zero(t, orphans)
	assert.Len(t, h.messages(t, keep.Id), 1)

	_, err = h.sessions.FindOwnedSession(ctx, owner, session.Id)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	evt := waitForEvent(t, h.events, "CHAT_SESSION_DELETED")
	assert.Equal(t, session.Id, evt.Payload()["session_id"])
}

func TestListMessagesChecksOwnership(t *testing.T) {
	h := newChatHarness(t, SystemClock)
	ctx := context.Background()
	owner := uuid.New()
	session := h.newSession(t, owner)

	_, err := h.sessions.AppendMessage(ctx, session.Id, entity.ChatRoleUser, "hello", []entity.SearchResult{
		{Title: "Go", Link: "https://go.dev", Snippet: "The Go language"},
	})
	require.NoError(t, err)

	_, err = h.sessions.ListMessages(ctx, uuid.New(), session.Id)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	res, err := h.sessions.ListMessages(ctx, owner, session.Id)
	require.NoError(t, err)
	require.Len(t, res.Messages, 1)
	assert.Equal(t, "user", res.Messages[0].Role)
	require.Len(t, res.Messages[0].SearchResults, 1)
	assert.Equal(t, "https://go.dev", res.Messages[0].SearchResults[0].Link)
}

func TestNextTimestamp(t *testing.T) {
	floor := testEpoch
	assert.Equal(t, floor.Add(time.Second), nextTimestamp(floor.Add(time.Second), floor))
	assert.Equal(t, floor.Add(time.Millisecond), nextTimestamp(floor, floor))
	assert.Equal(t, floor.Add(time.Millisecond), nextTimestamp(floor.Add(-time.Hour), floor))
}

func ptr[T any](v T) *T {
	return &v
}
