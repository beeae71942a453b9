package unitofwork

import (
	"context"
	"errors"

	"wspace-be/internal/repository/contract"
)

var (
	ErrTransactionActive = errors.New("unit of work: transaction already started")
	ErrNoTransaction     = errors.New("unit of work: no transaction in progress")
)

// UnitOfWork scopes repositories to one database handle. Without Begin every call
// auto-commits; after Begin all repositories share the transaction until Commit or Rollback.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
	NoteRepository() contract.NoteRepository
	DocumentRepository() contract.DocumentRepository
}
