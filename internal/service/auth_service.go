package service

import (
	"context"
	"strings"
	"time"

	"wspace-be/internal/dto"
	"wspace-be/internal/entity"
	"wspace-be/internal/pkg/apperror"
	"wspace-be/internal/pkg/logger"
	"wspace-be/internal/pkg/serverutils"
	"wspace-be/internal/repository/specification"
	"wspace-be/internal/repository/unitofwork"
	"wspace-be/pkg/events"
	"wspace-be/pkg/sideeffect"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
	jwtSecret  string
	tokenTTL   time.Duration
	publisher  events.Publisher
	log        logger.ILogger
	clock      Clock
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	jwtSecret string,
	tokenTTL time.Duration,
	publisher events.Publisher,
	log logger.ILogger,
	clock Clock,
) IAuthService {
	return &authService{
		uowFactory: uowFactory,
		jwtSecret:  jwtSecret,
		tokenTTL:   tokenTTL,
		publisher:  publisher,
		log:        log,
		clock:      clock,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.ErrEmailTaken
	}

	user := &entity.User{
		Id:           uuid.New(),
		Email:        req.Email,
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: &hashStr,
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	sideeffect.Go(ctx, s.log, "publish user registered", func(ctx context.Context) error {
		return s.publisher.Publish(ctx, events.New(events.UserRegistered, map[string]interface{}{
			"user_id": user.Id,
			"email":   user.Email,
		}, s.clock()))
	})

	return &dto.RegisterResponse{User: dto.NewUserResponse(user)}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	token, err := serverutils.IssueToken(s.jwtSecret, user.Id, s.tokenTTL, s.clock())
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token: token,
		User:  dto.NewUserResponse(user),
	}, nil
}
