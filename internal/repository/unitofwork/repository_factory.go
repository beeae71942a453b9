package unitofwork

import "context"

// RepositoryFactory hands out a UnitOfWork bound to ctx. Services take the factory,
// never a *gorm.DB, so tests can swap the database underneath.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
