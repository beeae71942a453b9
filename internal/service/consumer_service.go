package service

import (
	"context"
	"encoding/json"

	"wspace-be/internal/dto"
	"wspace-be/internal/entity"
	"wspace-be/internal/pkg/logger"
	"wspace-be/internal/repository/specification"
	"wspace-be/internal/repository/unitofwork"
	"wspace-be/pkg/analysis"
	"wspace-be/pkg/events"
	"wspace-be/pkg/notion"
	"wspace-be/pkg/sideeffect"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type ContentAnalyzer interface {
	Analyze(ctx context.Context, title, content string) (analysis.Result, error)
}

type NotionSyncer interface {
	CreatePage(ctx context.Context, token, databaseId string, p notion.Page) (string, error)
	UpdatePage(ctx context.Context, token, pageId string, p notion.Page) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	analyzer   ContentAnalyzer
	notion     NotionSyncer
	publisher  events.Publisher
	log        logger.ILogger
	clock      Clock
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	analyzer ContentAnalyzer,
	notionSyncer NotionSyncer,
	publisher events.Publisher,
	log logger.ILogger,
	clock Clock,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		uowFactory: uowFactory,
		analyzer:   analyzer,
		notion:     notionSyncer,
		publisher:  publisher,
		log:        log,
		clock:      clock,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// analysisTarget is the part of a note or document the analyzer reads and writes.
type analysisTarget struct {
	userId   uuid.UUID
	title    string
	content  string
	analysis *entity.Analysis
	save     func(ctx context.Context, uow unitofwork.UnitOfWork) error
}

func loadTarget(ctx context.Context, uow unitofwork.UnitOfWork, job dto.PublishAnalysisMessage) (*analysisTarget, error) {
	switch job.Kind {
	case dto.AnalysisKindNote:
		note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: job.Id})
		if err != nil || note == nil {
			return nil, err
		}
		return &analysisTarget{
			userId:   note.UserId,
			title:    note.Title,
			content:  note.Content,
			analysis: &note.Analysis,
			save: func(ctx context.Context, uow unitofwork.UnitOfWork) error {
				return uow.NoteRepository().Update(ctx, note)
			},
		}, nil
	case dto.AnalysisKindDocument:
		doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: job.Id})
		if err != nil || doc == nil {
			return nil, err
		}
		return &analysisTarget{
			userId:   doc.UserId,
			title:    doc.FileName,
			content:  doc.Content,
			analysis: &doc.Analysis,
			save: func(ctx context.Context, uow unitofwork.UnitOfWork) error {
				return uow.DocumentRepository().Update(ctx, doc)
			},
		}, nil
	default:
		return nil, nil
	}
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var job dto.PublishAnalysisMessage
	if err := json.Unmarshal(msg.Payload, &job); err != nil {
		cs.log.Error("CONSUMER", "Failed to unmarshal analysis job", map[string]interface{}{"error": err.Error()})
		msg.Ack() // malformed jobs are never retried
		return
	}
	details := map[string]interface{}{"kind": job.Kind, "id": job.Id}

	target, err := loadTarget(ctx, cs.uowFactory.NewUnitOfWork(ctx), job)
	if err != nil {
		cs.log.Error("CONSUMER", "Failed to load content", withError(details, err))
		msg.Nack()
		return
	}
	if target == nil {
		cs.log.Warn("CONSUMER", "Content no longer exists, skipping", details)
		msg.Ack()
		return
	}

	result, analyzeErr := cs.analyzer.Analyze(ctx, target.title, target.content)
	status := entity.AnalysisCompleted
	if analyzeErr != nil {
		cs.log.Warn("CONSUMER", "Analysis failed, storing fallback", withError(details, analyzeErr))
		status = entity.AnalysisFailed
	}

	stored, err := cs.storeAnalysis(ctx, job, result, status)
	if err != nil {
		cs.log.Error("CONSUMER", "Failed to store analysis", withError(details, err))
		msg.Nack()
		return
	}
	if stored == nil {
		msg.Ack()
		return
	}

	cs.log.Info("CONSUMER", "Content analyzed", map[string]interface{}{
		"kind":     job.Kind,
		"id":       job.Id,
		"status":   status,
		"category": result.Category,
	})

	sideeffect.Go(ctx, cs.log, "publish content analyzed", func(ctx context.Context) error {
		return cs.publisher.Publish(ctx, events.New(events.ContentAnalyzed, map[string]interface{}{
			"kind":     string(job.Kind),
			"id":       job.Id,
			"user_id":  stored.userId,
			"status":   string(status),
			"category": result.Category,
		}, cs.clock()))
	})

	if status == entity.AnalysisCompleted && cs.notion != nil {
		sideeffect.Go(ctx, cs.log, "notion sync", func(ctx context.Context) error {
			return cs.syncNotion(ctx, job, result)
		})
	}

	msg.Ack()
}

// storeAnalysis re-reads the row inside a transaction so concurrent edits to title or content survive.
func (cs *consumerService) storeAnalysis(ctx context.Context, job dto.PublishAnalysisMessage, result analysis.Result, status entity.AnalysisStatus) (*analysisTarget, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	target, err := loadTarget(ctx, uow, job)
	if err != nil || target == nil {
		return nil, err
	}

	target.analysis.Summary = result.Summary
	target.analysis.Category = entity.Category(result.Category)
	target.analysis.Tags = result.Tags
	target.analysis.Priority = entity.Priority(result.Priority)
	target.analysis.ActionItems = result.ActionItems
	target.analysis.Status = status

	if err := target.save(ctx, uow); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return target, nil
}

func (cs *consumerService) syncNotion(ctx context.Context, job dto.PublishAnalysisMessage, result analysis.Result) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	target, err := loadTarget(ctx, uow, job)
	if err != nil || target == nil {
		return err
	}
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: target.userId})
	if err != nil || user == nil || !user.HasNotion() {
		return err
	}

	page := notion.Page{
		Title:       target.title,
		Summary:     result.Summary,
		Category:    result.Category,
		Tags:        result.Tags,
		Priority:    result.Priority,
		ActionItems: result.ActionItems,
	}

	if target.analysis.NotionPageId != nil {
		if err := cs.notion.UpdatePage(ctx, *user.NotionAccessToken, *target.analysis.NotionPageId, page); err != nil {
			return err
		}
	} else {
		pageId, err := cs.notion.CreatePage(ctx, *user.NotionAccessToken, *user.NotionDatabaseId, page)
		if err != nil {
			return err
		}
		target.analysis.NotionPageId = &pageId
		if err := target.save(ctx, uow); err != nil {
			return err
		}
	}

	return cs.publisher.Publish(ctx, events.New(events.ContentSyncedNotion, map[string]interface{}{
		"kind":           string(job.Kind),
		"id":             job.Id,
		"notion_page_id": *target.analysis.NotionPageId,
	}, cs.clock()))
}

func withError(details map[string]interface{}, err error) map[string]interface{} {
	return lo.Assign(details, map[string]interface{}{"error": err.Error()})
}
