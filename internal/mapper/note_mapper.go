package mapper

import (
	"time"

	"wspace-be/internal/entity"
	"wspace-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NoteMapper struct{}

func NewNoteMapper() *NoteMapper {
	return &NoteMapper{}
}

func (m *NoteMapper) ToEntity(n *model.Note) *entity.Note {
	if n == nil {
		return nil
	}

	deletedAt, updatedAt := softDeleteTimes(n.DeletedAt, n.UpdatedAt)

	return &entity.Note{
		Id:        n.Id,
		UserId:    n.UserId,
		Title:     n.Title,
		Content:   n.Content,
		Analysis:  analysisToEntity(n.Analysis),
		CreatedAt: n.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: n.DeletedAt.Valid,
	}
}

func (m *NoteMapper) ToModel(n *entity.Note) *model.Note {
	if n == nil {
		return nil
	}

	deletedAt, updatedAt := softDeleteColumns(n.DeletedAt, n.IsDeleted, n.UpdatedAt)

	return &model.Note{
		Id:        n.Id,
		UserId:    n.UserId,
		Title:     n.Title,
		Content:   n.Content,
		Analysis:  analysisToModel(n.Analysis),
		CreatedAt: n.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *NoteMapper) ToEntities(notes []*model.Note) []*entity.Note {
	entities := make([]*entity.Note, len(notes))
	for i, n := range notes {
		entities[i] = m.ToEntity(n)
	}
	return entities
}

func (m *NoteMapper) DocumentToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}

	deletedAt, updatedAt := softDeleteTimes(d.DeletedAt, d.UpdatedAt)

	return &entity.Document{
		Id:        d.Id,
		UserId:    d.UserId,
		FileName:  d.FileName,
		Content:   d.Content,
		Analysis:  analysisToEntity(d.Analysis),
		CreatedAt: d.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: d.DeletedAt.Valid,
	}
}

func (m *NoteMapper) DocumentToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}

	deletedAt, updatedAt := softDeleteColumns(d.DeletedAt, d.IsDeleted, d.UpdatedAt)

	return &model.Document{
		Id:        d.Id,
		UserId:    d.UserId,
		FileName:  d.FileName,
		Content:   d.Content,
		Analysis:  analysisToModel(d.Analysis),
		CreatedAt: d.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *NoteMapper) DocumentsToEntities(docs []*model.Document) []*entity.Document {
	entities := make([]*entity.Document, len(docs))
	for i, d := range docs {
		entities[i] = m.DocumentToEntity(d)
	}
	return entities
}

func analysisToEntity(a model.Analysis) entity.Analysis {
	return entity.Analysis{
		Summary:      a.Summary,
		Category:     entity.Category(a.Category),
		Tags:         []string(a.Tags),
		Priority:     entity.Priority(a.Priority),
		ActionItems:  []string(a.ActionItems),
		Status:       entity.AnalysisStatus(a.AnalysisStatus),
		NotionPageId: a.NotionPageId,
	}
}

func analysisToModel(a entity.Analysis) model.Analysis {
	category := a.Category
	if category == "" {
		category = entity.CategoryOther
	}
	priority := a.Priority
	if priority == "" {
		priority = entity.PriorityMedium
	}
	status := a.Status
	if status == "" {
		status = entity.AnalysisPending
	}

	return model.Analysis{
		Summary:        a.Summary,
		Category:       string(category),
		Tags:           nonNilStrings(a.Tags),
		Priority:       string(priority),
		ActionItems:    nonNilStrings(a.ActionItems),
		AnalysisStatus: string(status),
		NotionPageId:   a.NotionPageId,
	}
}

func nonNilStrings(s []string) datatypes.JSONSlice[string] {
	if s == nil {
		return datatypes.JSONSlice[string]{}
	}
	return datatypes.JSONSlice[string](s)
}

func softDeleteTimes(d gorm.DeletedAt, u time.Time) (*time.Time, *time.Time) {
	var deletedAt *time.Time
	if d.Valid {
		t := d.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !u.IsZero() {
		t := u
		updatedAt = &t
	}
	return deletedAt, updatedAt
}

func softDeleteColumns(d *time.Time, isDeleted bool, u *time.Time) (gorm.DeletedAt, time.Time) {
	var deletedAt gorm.DeletedAt
	if d != nil {
		deletedAt = gorm.DeletedAt{Time: *d, Valid: true}
	} else if isDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if u != nil {
		updatedAt = *u
	}
	return deletedAt, updatedAt
}
