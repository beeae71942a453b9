package implementation

import (
	"context"

	"wspace-be/internal/entity"
	"wspace-be/internal/mapper"
	"wspace-be/internal/model"
	"wspace-be/internal/repository/contract"
	"wspace-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NoteMapper
}

func NewDocumentRepository(db *gorm.DB) contract.DocumentRepository {
	return &DocumentRepositoryImpl{db: db, mapper: mapper.NewNoteMapper()}
}

func (r *DocumentRepositoryImpl) Create(ctx context.Context, document *entity.Document) error {
	return insert(ctx, r.db, document, r.mapper.DocumentToModel, r.mapper.DocumentToEntity)
}

func (r *DocumentRepositoryImpl) Update(ctx context.Context, document *entity.Document) error {
	return save(ctx, r.db, document, r.mapper.DocumentToModel, r.mapper.DocumentToEntity)
}

func (r *DocumentRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Document{}).Error
}

func (r *DocumentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	return findOne(ctx, r.db, r.mapper.DocumentToEntity, specs)
}

func (r *DocumentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	return findAll(ctx, r.db, r.mapper.DocumentsToEntities, specs)
}
