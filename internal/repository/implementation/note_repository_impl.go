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

type NoteRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NoteMapper
}

func NewNoteRepository(db *gorm.DB) contract.NoteRepository {
	return &NoteRepositoryImpl{db: db, mapper: mapper.NewNoteMapper()}
}

func (r *NoteRepositoryImpl) Create(ctx context.Context, note *entity.Note) error {
	return insert(ctx, r.db, note, r.mapper.ToModel, r.mapper.ToEntity)
}

func (r *NoteRepositoryImpl) Update(ctx context.Context, note *entity.Note) error {
	return save(ctx, r.db, note, r.mapper.ToModel, r.mapper.ToEntity)
}

// Delete is a soft delete.
func (r *NoteRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Note{}).Error
}

func (r *NoteRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error) {
	return findOne(ctx, r.db, r.mapper.ToEntity, specs)
}

func (r *NoteRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error) {
	return findAll(ctx, r.db, r.mapper.ToEntities, specs)
}
