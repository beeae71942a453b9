package implementation

import (
	"context"
	"errors"

	"wspace-be/internal/repository/specification"

	"gorm.io/gorm"
)

func applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// The helpers below are shared by every gorm repository: M is the row type, E the entity.

// findOne returns (nil, nil) when no row matches.
func findOne[M, E any](ctx context.Context, db *gorm.DB, toEntity func(*M) *E, specs []specification.Specification) (*E, error) {
	var row M
	if err := applySpecifications(db.WithContext(ctx), specs...).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toEntity(&row), nil
}

func findAll[M, E any](ctx context.Context, db *gorm.DB, toEntities func([]*M) []*E, specs []specification.Specification) ([]*E, error) {
	var rows []*M
	if err := applySpecifications(db.WithContext(ctx), specs...).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

func count[M any](ctx context.Context, db *gorm.DB, specs []specification.Specification) (int64, error) {
	var n int64
	if err := applySpecifications(db.WithContext(ctx).Model(new(M)), specs...).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// insert creates the row and copies generated columns back into e.
func insert[M, E any](ctx context.Context, db *gorm.DB, e *E, toModel func(*E) *M, toEntity func(*M) *E) error {
	row := toModel(e)
	if err := db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	*e = *toEntity(row)
	return nil
}

func save[M, E any](ctx context.Context, db *gorm.DB, e *E, toModel func(*E) *M, toEntity func(*M) *E) error {
	row := toModel(e)
	if err := db.WithContext(ctx).Save(row).Error; err != nil {
		return err
	}
	*e = *toEntity(row)
	return nil
}
