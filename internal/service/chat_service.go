package service

import (
	"context"
	"errors"
	"strings"

	"wspace-be/internal/dto"
	"wspace-be/internal/entity"
	"wspace-be/internal/pkg/apperror"
	"wspace-be/internal/pkg/logger"
	"wspace-be/internal/repository/specification"
	"wspace-be/internal/repository/unitofwork"
	"wspace-be/pkg/conversation"
	"wspace-be/pkg/events"
	"wspace-be/pkg/llm"
	"wspace-be/pkg/sideeffect"
	"wspace-be/pkg/websearch"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IChatService interface {
	SendChat(ctx context.Context, userId uuid.UUID, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
}

type chatService struct {
	uowFactory  unitofwork.RepositoryFactory
	sessions    ISessionService
	llmProvider llm.LLMProvider
	searcher    websearch.Searcher // nil when web search is not configured
	publisher   events.Publisher
	log         logger.ILogger
	clock       Clock
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	sessions ISessionService,
	llmProvider llm.LLMProvider,
	searcher websearch.Searcher,
	publisher events.Publisher,
	log logger.ILogger,
	clock Clock,
) IChatService {
	return &chatService{
		uowFactory:  uowFactory,
		sessions:    sessions,
		llmProvider: llmProvider,
		searcher:    searcher,
		publisher:   publisher,
		log:         log,
		clock:       clock,
	}
}

func (s *chatService) SendChat(ctx context.Context, userId uuid.UUID, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, apperror.NewValidation("message is required").WithDetails(map[string]string{"message": "is required"})
	}

	session, err := s.sessions.FindOwnedSession(ctx, userId, req.SessionId)
	if err != nil {
		return nil, err
	}

	priorCount, history, err := s.loadHistory(ctx, session.Id)
	if err != nil {
		return nil, err
	}

	userMessage, err := s.sessions.AppendMessage(ctx, session.Id, entity.ChatRoleUser, req.Message, nil)
	if err != nil {
		return nil, err
	}

	results := s.search(ctx, strings.TrimSpace(req.Message), req.WebSearchEnabled)

	prompt := conversation.BuildPrompt(conversation.PromptInput{
		History: history,
		Sources: lo.Map(results, func(r entity.SearchResult, _ int) conversation.Source {
			return conversation.Source{Title: r.Title, Link: r.Link, Snippet: r.Snippet}
		}),
		Message: req.Message,
	})

	reply, err := s.generate(ctx, prompt)
	if err != nil {
		s.log.Error("CHAT", "LLM call failed", map[string]interface{}{
			"error":      err.Error(),
			"session_id": session.Id,
		})
		return nil, err
	}

	assistantMessage, err := s.sessions.AppendMessage(ctx, session.Id, entity.ChatRoleAssistant, reply.Content, results)
	if err != nil {
		return nil, err
	}

	title := session.Title
	if priorCount == 0 {
		renamed := sideeffect.Try(ctx, s.log, "bootstrap session title", func(ctx context.Context) (string, error) {
			newTitle := conversation.BootstrapTitle(req.Message)
			return newTitle, s.sessions.RenameSession(ctx, userId, &dto.RenameSessionRequest{
				Id:    session.Id,
				Title: newTitle,
			})
		})
		if renamed.Ok() {
			title = renamed.Value
		}
	}

	sideeffect.Go(ctx, s.log, "publish chat turn", func(ctx context.Context) error {
		return s.publisher.Publish(ctx, events.New(events.ChatTurnCompleted, map[string]interface{}{
			"session_id":       session.Id,
			"user_id":          userId,
			"needs_web_search": reply.NeedsWebSearch,
			"search_results":   len(results),
		}, s.clock()))
	})

	return &dto.SendChatResponse{
		UserMessage:      dto.NewMessageResponse(userMessage),
		AssistantMessage: dto.NewMessageResponse(assistantMessage),
		SessionTitle:     title,
		NeedsWebSearch:   reply.NeedsWebSearch,
	}, nil
}

// loadHistory returns how many messages the session had and the last HistoryWindow of them, oldest first.
func (s *chatService) loadHistory(ctx context.Context, sessionId uuid.UUID) (int64, []conversation.Turn, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	count, err := uow.ChatMessageRepository().Count(ctx, specification.ByChatSessionID{ChatSessionID: sessionId})
	if err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	recent, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: conversation.HistoryWindow},
	)
	if err != nil {
		return 0, nil, err
	}

	turns := make([]conversation.Turn, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		turns = append(turns, conversation.Turn{Role: string(recent[i].Role), Content: recent[i].Content})
	}
	return count, turns, nil
}

func (s *chatService) search(ctx context.Context, query string, enabled bool) []entity.SearchResult {
	if !enabled || s.searcher == nil {
		return nil
	}

	res := sideeffect.Try(ctx, s.log, "web search", func(ctx context.Context) ([]websearch.Result, error) {
		return s.searcher.Search(ctx, query)
	})
	if !res.Ok() {
		return nil
	}

	return lo.Map(res.Value, func(r websearch.Result, _ int) entity.SearchResult {
		return entity.SearchResult{Title: r.Title, Link: r.Link, Snippet: r.Snippet}
	})
}

func (s *chatService) generate(ctx context.Context, prompt string) (conversation.Reply, error) {
	reply, raw, err := llm.GenerateStructured[conversation.Reply](ctx, s.llmProvider,
		[]llm.Message{{Role: "user", Content: prompt}},
		conversation.ReplySchema,
	)
	switch {
	case err == nil:
		return reply, nil
	case errors.Is(err, llm.ErrSchemaMismatch):
		s.log.Warn("CHAT", "reply did not match schema, using raw text", map[string]interface{}{
			"error": err.Error(),
		})
		return conversation.Reply{Content: strings.TrimSpace(raw)}, nil
	case errors.Is(err, llm.ErrNotConfigured):
		return conversation.Reply{}, apperror.ErrAIServiceMisconfig.Wrap(err)
	default:
		return conversation.Reply{}, apperror.ErrAIServiceFailure.Wrap(err)
	}
}
