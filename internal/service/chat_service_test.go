package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"wspace-be/internal/dto"
	"wspace-be/internal/entity"
	"wspace-be/internal/pkg/apperror"
	"wspace-be/internal/pkg/logger"
	"wspace-be/pkg/llm"
	"wspace-be/pkg/websearch"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendChatFirstTurnBootstrapsTitle(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{name: "short text kept", message: "hello", want: "hello"},
		{name: "exactly twenty", message: "12345678901234567890", want: "12345678901234567890"},
		{name: "long text truncated", message: "What is the weather in Jakarta today?", want: "What is the weather ..."},
		{name: "runes not bytes", message: "今天天气怎么样今天天气怎么样今天天气怎么样", want: "今天天气怎么样今天天气怎么样今天天气怎么..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newChatHarness(t, SystemClock)
			userId := uuid.New()
			session := h.newSession(t, userId)

			res, err := h.chat.SendChat(context.Background(), userId, &dto.SendChatRequest{
				SessionId: session.Id,
				Message:   tt.message,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.SessionTitle)

			reloaded, err := h.sessions.FindOwnedSession(context.Background(), userId, session.Id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, reloaded.Title)
		})
	}
}

func TestSendChatPersistsBothMessages(t *testing.T) {
	h := newChatHarness(t, SystemClock)
	ctx := context.Background()
	userId := uuid.New()
	session := h.newSession(t, userId)

	res, err := h.chat.SendChat(ctx, userId, &dto.SendChatRequest{SessionId: session.Id, Message: "hello"})
	require.NoError(t, err)

	assert.Equal(t, "hello", res.UserMessage.Content)
	assert.Equal(t, "user", res.UserMessage.Role)
	assert.Equal(t, "assistant", res.AssistantMessage.Role)
	assert.Equal(t, "hi there", res.AssistantMessage.Content)
	assert.False(t, res.NeedsWebSearch)
	assert.True(t, res.AssistantMessage.CreatedAt.After(res.UserMessage.CreatedAt))

	stored := h.messages(t, session.Id)
	require.Len(t, stored, 2)
	assert.Equal(t, res.UserMessage.Id, stored[0].Id)
	assert.Equal(t, res.AssistantMessage.Id, stored[1].Id)

	reloaded, err := h.sessions.FindOwnedSession(ctx, userId, session.Id)
	require.NoError(t, err)
	assert.True(t, reloaded.UpdatedAt.After(session.UpdatedAt))
	assert.False(t, reloaded.UpdatedAt.Before(stored[1].CreatedAt))

	evt := waitForEvent(t, h.events, "CHAT_TURN_COMPLETED")
	assert.Equal(t, session.Id, evt.Payload()["session_id"])
}

func TestSendChatStoresMessageAsSent(t *testing.T) {
	h := newChatHarness(t, SystemClock)
	ctx := context.Background()
	userId := uuid.New()
	session := h.newSession(t, userId)

	raw := "  what is\n  the plan?  "
	res, err := h.chat.SendChat(ctx, userId, &dto.SendChatRequest{SessionId: session.Id, Message: raw})
	require.NoError(t, err)

	assert.Equal(t, raw, res.UserMessage.Content)
	stored := h.messages(t, session.Id)
	require.Len(t, stored, 2)
	assert.Equal(t, raw, stored[0].Content)
	assert.Equal(t, "what is\n  the plan?", res.SessionTitle)
}

func TestSendChatLaterTurnKeepsTitle(t *testing.T) {
	h := newChatHarness(t, SystemClock)
	ctx := context.Background()
	userId := uuid.New()
	session := h.newSession(t, userId)

	_, err := h.chat.SendChat(ctx, userId, &dto.SendChatRequest{SessionId: session.Id, Message: "first question"})
	require.NoError(t, err)
	require.NoError(t, h.sessions.RenameSession(ctx, userId, &dto.RenameSessionRequest{Id: session.Id, Title: "Pinned"}))

	res, err := h.chat.SendChat(ctx, userId, &dto.SendChatRequest{SessionId: session.Id, Message: "a follow up question that is long"})
	require.NoError(t, err)
	assert.Equal(t, "Pinned", res.SessionTitle)
	assert.Len(t, h.messages(t, session.Id), 4)
}

func TestSendChatForeignSessionPersistsNothing(t *testing.T) {
	h := newChatHarness(t, SystemClock)
	session := h.newSession(t, uuid.New())

	_, err := h.chat.SendChat(context.Background(), uuid.New(), &dto.SendChatRequest{SessionId: session.Id, Message: "hello"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Empty(t, h.messages(t, session.Id))
	assert.Empty(t, h.llm.prompts, "LLM must not be called")
}

func TestSendChatRejectsBlankMessage(t *testing.T) {
	h := newChatHarness(t, SystemClock)
	userId := uuid.New()
	session := h.newSession(t, userId)

	_, err := h.chat.SendChat(context.Background(), userId, &dto.SendChatRequest{SessionId: session.Id, Message: "   "})
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)
	assert.Empty(t, h.messages(t, session.Id))
}

func TestSendChatLLMFailureKeepsUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		provider func(h *chatHarness) llm.LLMProvider
		want     error
	}{
		{
			name: "provider error",
			provider: func(h *chatHarness) llm.LLMProvider {
				h.llm.err = errors.New("503 from upstream")
				return h.llm
			},
			want: apperror.ErrAIServiceFailure,
		},
		{
			name: "not configured",
			provider: func(h *chatHarness) llm.LLMProvider {
				return llm.Unavailable(errors.New("OPENAI_API_KEY is empty"))
			},
			want: apperror.ErrAIServiceMisconfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newChatHarness(t, SystemClock)
			chat := NewChatService(h.factory, h.sessions, tt.provider(h), nil, h.events, logger.NewNopLogger(), SystemClock)
			userId := uuid.New()
			session := h.newSession(t, userId)

			_, err := chat.SendChat(context.Background(), userId, &dto.SendChatRequest{SessionId: session.Id, Message: "hello"})
			assert.ErrorIs(t, err, tt.want)

			stored := h.messages(t, session.Id)
			require.Len(t, stored, 1, "user message survives, no assistant message")
			assert.Equal(t, entity.ChatRoleUser, stored[0].Role)
			assert.Equal(t, "hello", stored[0].Content)
		})
	}
}

func TestSendChatSchemaMismatchUsesRawText(t *testing.T) {
	h := newChatHarness(t, SystemClock)
	h.llm.reply = "  Sure, here is a plain answer.  "
	userId := uuid.New()
	session := h.newSession(t, userId)

	res, err := h.chat.SendChat(context.Background(), userId, &dto.SendChatRequest{SessionId: session.Id, Message: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "Sure, here is a plain answer.", res.AssistantMessage.Content)
	assert.False(t, res.NeedsWebSearch)
}

func TestSendChatWebSearch(t *testing.T) {
	h := newChatHarness(t, SystemClock)
	h.llm.reply = `{"content":"It is sunny.","needsWebSearch":true}`
	h.searcher.results = []websearch.Result{
		{Title: "Jakarta weather", Link: "https://weather.example/jkt", Snippet: "Sunny, 31C"},
	}
	userId := uuid.New()
	session := h.newSession(t, userId)

	res, err := h.chat.SendChat(context.Background(), userId, &dto.SendChatRequest{
		SessionId:        session.Id,
		Message:          "weather in jakarta",
		WebSearchEnabled: true,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"weather in jakarta"}, h.searcher.queries)
	assert.True(t, res.NeedsWebSearch)
	require.Len(t, res.AssistantMessage.SearchResults, 1)
	assert.Equal(t, "Jakarta weather", res.AssistantMessage.SearchResults[0].Title)
	assert.Empty(t, res.UserMessage.SearchResults)
	assert.Contains(t, h.llm.lastPrompt(), "Sunny, 31C")

	stored := h.messages(t, session.Id)
	require.Len(t, stored[1].SearchResults, 1)
	assert.Equal(t, "https://weather.example/jkt", stored[1].SearchResults[0].Link)
}

func TestSendChatWebSearchFailureIsSilent(t *testing.T) {
	h := newChatHarness(t, SystemClock)
	h.searcher.err = errors.New("quota exceeded")
	userId := uuid.New()
	session := h.newSession(t, userId)

	res, err := h.chat.SendChat(context.Background(), userId, &dto.SendChatRequest{
		SessionId:        session.Id,
		Message:          "latest news",
		WebSearchEnabled: true,
	})
	require.NoError(t, err)
	assert.Empty(t, res.AssistantMessage.SearchResults)
	assert.NotContains(t, h.llm.lastPrompt(), "Web search results")
}

func TestSendChatSearchDisabled(t *testing.T) {
	h := newChatHarness(t, SystemClock)
	userId := uuid.New()
	session := h.newSession(t, userId)

	_, err := h.chat.SendChat(context.Background(), userId, &dto.SendChatRequest{SessionId: session.Id, Message: "hi"})
	require.NoError(t, err)
	assert.Empty(t, h.searcher.queries)
}

func TestSendChatPromptUsesLastFivePriorTurns(t *testing.T) {
	h := newChatHarness(t, frozenClock(testEpoch))
	ctx := context.Background()
	userId := uuid.New()
	session := h.newSession(t, userId)

	for i := 0; i < 12; i++ {
		role := entity.ChatRoleUser
		if i%2 == 1 {
			role = entity.ChatRoleAssistant
		}
		_, err := h.sessions.AppendMessage(ctx, session.Id, role, fmt.Sprintf("turn-%02d", i), nil)
		require.NoError(t, err)
	}

	_, err := h.chat.SendChat(ctx, userId, &dto.SendChatRequest{SessionId: session.Id, Message: "current question"})
	require.NoError(t, err)

	prompt := h.llm.lastPrompt()
	for i := 0; i < 7; i++ {
		assert.NotContains(t, prompt, fmt.Sprintf("turn-%02d", i))
	}
	for i := 7; i < 12; i++ {
		assert.Contains(t, prompt, fmt.Sprintf("turn-%02d", i))
	}
	assert.Contains(t, prompt, "User: current question\nAssistant:")
}
