package service

import (
	"context"

	"ai-scribe-be/internal/entity"
	"ai-scribe-be/internal/repository/unitofwork"
	"ai-scribe-be/pkg/events"
	pktNats "ai-scribe-be/pkg/nats"

	"github.com/google/uuid"
)

// IAuditConsumerService drains the NATS audit stream into the audit_logs
// table so every domain event leaves a durable trace.
type IAuditConsumerService interface {
	Consume() error
}

type auditConsumerService struct {
	subscriber *pktNats.Subscriber
	uowFactory unitofwork.RepositoryFactory
}

func NewAuditConsumerService(
	subscriber *pktNats.Subscriber,
	uowFactory unitofwork.RepositoryFactory,
) IAuditConsumerService {
	return &auditConsumerService{
		subscriber: subscriber,
		uowFactory: uowFactory,
	}
}

func (s *auditConsumerService) Consume() error {
	return s.subscriber.Subscribe("audit.>", "audit-log-writer", s.handle)
}

func (s *auditConsumerService) handle(ctx context.Context, event events.Event) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.AuditLogRepository().Create(ctx, &entity.AuditLog{
		Id:        uuid.New(),
		EventType: event.EventType(),
		Details:   event.Payload(),
		CreatedAt: event.Timestamp(),
	})
}
