package service

import (
	"context"
	"strings"

	"wspace-be/internal/dto"
	"wspace-be/internal/entity"
	"wspace-be/internal/pkg/apperror"
	"wspace-be/internal/pkg/logger"
	"wspace-be/internal/repository/specification"
	"wspace-be/internal/repository/unitofwork"
	"wspace-be/pkg/events"
	"wspace-be/pkg/i18n"
	"wspace-be/pkg/sideeffect"

	"github.com/google/uuid"
)

type ISessionService interface {
	CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest, acceptLanguage string) (*dto.CreateSessionResponse, error)
	ListSessions(ctx context.Context, userId uuid.UUID) (*dto.ListSessionsResponse, error)
	RenameSession(ctx context.Context, userId uuid.UUID, req *dto.RenameSessionRequest) error
	DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error
	ListMessages(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.ListMessagesResponse, error)

	// FindOwnedSession returns ErrNotFound unless the session exists and belongs to userId.
	FindOwnedSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*entity.ChatSession, error)
	// AppendMessage does not check ownership; callers must have done so.
	AppendMessage(ctx context.Context, sessionId uuid.UUID, role entity.ChatRole, content string, searchResults []entity.SearchResult) (*entity.ChatMessage, error)
}

type sessionService struct {
	uowFactory unitofwork.RepositoryFactory
	locales    *i18n.Resolver
	publisher  events.Publisher
	log        logger.ILogger
	clock      Clock
}

func NewSessionService(
	uowFactory unitofwork.RepositoryFactory,
	locales *i18n.Resolver,
	publisher events.Publisher,
	log logger.ILogger,
	clock Clock,
) ISessionService {
	return &sessionService{
		uowFactory: uowFactory,
		locales:    locales,
		publisher:  publisher,
		log:        log,
		clock:      clock,
	}
}

func (s *sessionService) CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest, acceptLanguage string) (*dto.CreateSessionResponse, error) {
	if userId == uuid.Nil {
		return nil, apperror.ErrUnauthorized
	}

	title := ""
	if req != nil && req.Title != nil {
		title = strings.TrimSpace(*req.Title)
	}
	if title == "" {
		title = s.locales.DefaultSessionTitle(acceptLanguage)
	}

	now := s.clock()
	session := entity.ChatSession{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ChatSessionRepository().Create(ctx, &session); err != nil {
		return nil, err
	}

	return &dto.CreateSessionResponse{
		Session: dto.NewSessionResponse(&session),
	}, nil
}

func (s *sessionService) ListSessions(ctx context.Context, userId uuid.UUID) (*dto.ListSessionsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.PreloadMessages{},
	)
	if err != nil {
		return nil, err
	}

	res := make([]dto.SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		res = append(res, dto.NewSessionResponse(session))
	}
	return &dto.ListSessionsResponse{Sessions: res}, nil
}

func (s *sessionService) RenameSession(ctx context.Context, userId uuid.UUID, req *dto.RenameSessionRequest) error {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return apperror.ErrSessionTitleMissing
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if session == nil {
		return apperror.ErrNotFound
	}

	session.Title = title
	session.UpdatedAt = nextTimestamp(s.clock(), session.UpdatedAt)
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *sessionService) DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if session == nil {
		return apperror.ErrNotFound
	}

	if err := uow.ChatMessageRepository().DeleteByChatSessionId(ctx, session.Id); err != nil {
		return err
	}
	if err := uow.ChatSessionRepository().Delete(ctx, session.Id); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	sideeffect.Go(ctx, s.log, "publish session deleted", func(ctx context.Context) error {
		return s.publisher.Publish(ctx, events.New(events.ChatSessionDeleted, map[string]interface{}{
			"session_id": session.Id,
			"user_id":    userId,
		}, s.clock()))
	})
	return nil
}

func (s *sessionService) ListMessages(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.ListMessagesResponse, error) {
	session, err := s.FindOwnedSession(ctx, userId, sessionId)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: session.Id},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	return &dto.ListMessagesResponse{
		Messages: dto.NewMessageResponses(messages),
	}, nil
}

func (s *sessionService) FindOwnedSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*entity.ChatSession, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.ErrNotFound
	}
	return session, nil
}

func (s *sessionService) AppendMessage(ctx context.Context, sessionId uuid.UUID, role entity.ChatRole, content string, searchResults []entity.SearchResult) (*entity.ChatMessage, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.ErrNotFound
	}

	if searchResults == nil {
		searchResults = []entity.SearchResult{}
	}
	message := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Role:          role,
		Content:       content,
		SearchResults: searchResults,
		CreatedAt:     nextTimestamp(s.clock(), session.UpdatedAt),
	}
	if err := uow.ChatMessageRepository().Create(ctx, &message); err != nil {
		return nil, err
	}

	session.UpdatedAt = message.CreatedAt
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return &message, nil
}
