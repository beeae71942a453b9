package service

import (
	"context"
	"encoding/json"

	"wspace-be/internal/dto"
	"wspace-be/internal/entity"
	"wspace-be/internal/pkg/apperror"
	"wspace-be/internal/repository/specification"
	"wspace-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type INoteService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.NoteResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NoteResponse, error)
	List(ctx context.Context, userId uuid.UUID, category string) ([]dto.NoteResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type noteService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	clock            Clock
}

func NewNoteService(uowFactory unitofwork.RepositoryFactory, publisherService IPublisherService, clock Clock) INoteService {
	return &noteService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		clock:            clock,
	}
}

// publishAnalysis queues content for the analysis consumer.
func publishAnalysis(ctx context.Context, publisher IPublisherService, kind dto.AnalysisKind, id uuid.UUID) error {
	payload, err := json.Marshal(dto.PublishAnalysisMessage{Kind: kind, Id: id})
	if err != nil {
		return err
	}
	return publisher.Publish(ctx, payload)
}

func (c *noteService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.NoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	note := entity.Note{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     req.Title,
		Content:   req.Content,
		Analysis:  entity.Analysis{Status: entity.AnalysisPending},
		CreatedAt: c.clock(),
	}

	if err := uow.NoteRepository().Create(ctx, &note); err != nil {
		return nil, err
	}

	if err := publishAnalysis(ctx, c.publisherService, dto.AnalysisKindNote, note.Id); err != nil {
		return nil, err
	}

	res := dto.NewNoteResponse(&note)
	return &res, nil
}

func (c *noteService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NoteResponse, error) {
	note, err := c.findOwned(ctx, c.uowFactory.NewUnitOfWork(ctx), userId, id)
	if err != nil {
		return nil, err
	}
	res := dto.NewNoteResponse(note)
	return &res, nil
}

func (c *noteService) List(ctx context.Context, userId uuid.UUID, category string) ([]dto.NoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	notes, err := uow.NoteRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByCategory{Category: category},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	return lo.Map(notes, func(n *entity.Note, _ int) dto.NoteResponse {
		return dto.NewNoteResponse(n)
	}), nil
}

func (c *noteService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	note, err := c.findOwned(ctx, uow, userId, req.Id)
	if err != nil {
		return nil, err
	}

	now := c.clock()
	note.Title = req.Title
	note.Content = req.Content
	note.UpdatedAt = &now
	note.Analysis.Status = entity.AnalysisPending

	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if err := publishAnalysis(ctx, c.publisherService, dto.AnalysisKindNote, note.Id); err != nil {
		return nil, err
	}

	res := dto.NewNoteResponse(note)
	return &res, nil
}

func (c *noteService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	note, err := c.findOwned(ctx, uow, userId, id)
	if err != nil {
		return err
	}
	if err := uow.NoteRepository().Delete(ctx, note.Id); err != nil {
		return err
	}
	return uow.Commit()
}

func (c *noteService) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, userId, id uuid.UUID) (*entity.Note, error) {
	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, apperror.ErrNotFound
	}
	return note, nil
}
