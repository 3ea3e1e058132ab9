package unitofwork

import (
	"context"

	"ai-scribe-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ClientRepository() contract.ClientRepository
	ActivityRepository() contract.ActivityRepository
	AuditLogRepository() contract.AuditLogRepository
}
