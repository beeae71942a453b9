package implementation

import (
	"context"
	"strings"

	"wspace-be/internal/entity"
	"wspace-be/internal/mapper"
	"wspace-be/internal/model"
	"wspace-be/internal/repository/contract"
	"wspace-be/internal/repository/specification"

	"gorm.io/gorm"
)

type UserRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewUserRepository(db *gorm.DB) contract.UserRepository {
	return &UserRepositoryImpl{db: db, mapper: mapper.NewUserMapper()}
}

// Create stores the email lower-cased so ByEmail lookups are case-insensitive.
func (r *UserRepositoryImpl) Create(ctx context.Context, user *entity.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	return insert(ctx, r.db, user, r.mapper.ToModel, r.mapper.ToEntity)
}

func (r *UserRepositoryImpl) Update(ctx context.Context, user *entity.User) error {
	return save(ctx, r.db, user, r.mapper.ToModel, r.mapper.ToEntity)
}

func (r *UserRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	return findOne(ctx, r.db, r.mapper.ToEntity, specs)
}

func (r *UserRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return count[model.User](ctx, r.db, specs)
}
