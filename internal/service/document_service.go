package service

import (
	"context"

	"wspace-be/internal/dto"
	"wspace-be/internal/entity"
	"wspace-be/internal/pkg/apperror"
	"wspace-be/internal/repository/specification"
	"wspace-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IDocumentService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateDocumentRequest) (*dto.DocumentResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DocumentResponse, error)
	List(ctx context.Context, userId uuid.UUID, category string) ([]dto.DocumentResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type documentService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	clock            Clock
}

func NewDocumentService(uowFactory unitofwork.RepositoryFactory, publisherService IPublisherService, clock Clock) IDocumentService {
	return &documentService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		clock:            clock,
	}
}

func (c *documentService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	doc := entity.Document{
		Id:        uuid.New(),
		UserId:    userId,
		FileName:  req.FileName,
		Content:   req.Content,
		Analysis:  entity.Analysis{Status: entity.AnalysisPending},
		CreatedAt: c.clock(),
	}

	if err := uow.DocumentRepository().Create(ctx, &doc); err != nil {
		return nil, err
	}

	if err := publishAnalysis(ctx, c.publisherService, dto.AnalysisKindDocument, doc.Id); err != nil {
		return nil, err
	}

	res := dto.NewDocumentResponse(&doc, false)
	return &res, nil
}

func (c *documentService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DocumentResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperror.ErrNotFound
	}
	res := dto.NewDocumentResponse(doc, true)
	return &res, nil
}

func (c *documentService) List(ctx context.Context, userId uuid.UUID, category string) ([]dto.DocumentResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	docs, err := uow.DocumentRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByCategory{Category: category},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	return lo.Map(docs, func(d *entity.Document, _ int) dto.DocumentResponse {
		return dto.NewDocumentResponse(d, false)
	}), nil
}

func (c *documentService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if doc == nil {
		return apperror.ErrNotFound
	}
	if err := uow.DocumentRepository().Delete(ctx, doc.Id); err != nil {
		return err
	}
	return uow.Commit()
}
