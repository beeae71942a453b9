package service

import (
	"context"
	"strings"

	"wspace-be/internal/dto"
	"wspace-be/internal/pkg/apperror"
	"wspace-be/internal/repository/specification"
	"wspace-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IUserService interface {
	Me(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error)
	UpdateNotion(ctx context.Context, userId uuid.UUID, req *dto.UpdateNotionRequest) (*dto.UserResponse, error)
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewUserService(uowFactory unitofwork.RepositoryFactory) IUserService {
	return &userService{uowFactory: uowFactory}
}

func (s *userService) Me(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrUnauthorized
	}
	res := dto.NewUserResponse(user)
	return &res, nil
}

func (s *userService) UpdateNotion(ctx context.Context, userId uuid.UUID, req *dto.UpdateNotionRequest) (*dto.UserResponse, error) {
	token := strings.TrimSpace(req.AccessToken)
	databaseId := strings.TrimSpace(req.DatabaseId)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrUnauthorized
	}

	user.NotionAccessToken = &token
	user.NotionDatabaseId = &databaseId
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	res := dto.NewUserResponse(user)
	return &res, nil
}
