package service

import (
	"context"
	"fmt"
	"time"

	"ai-scribe-be/internal/constant"
	"ai-scribe-be/internal/dto"
	"ai-scribe-be/internal/entity"
	"ai-scribe-be/internal/repository/memory"
	"ai-scribe-be/internal/repository/specification"
	"ai-scribe-be/internal/repository/unitofwork"
	"ai-scribe-be/pkg/events"
	pktNats "ai-scribe-be/pkg/nats"

	"github.com/google/uuid"
)

type IClientService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateClientRequest) (*dto.CreateClientResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateClientRequest) (*dto.UpdateClientResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowClientResponse, error)
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.ShowClientResponse, error)
}

type clientService struct {
	uowFactory     unitofwork.RepositoryFactory
	workspaceRepo  *memory.WorkspaceRepository
	eventPublisher *pktNats.Publisher
}

func NewClientService(
	uowFactory unitofwork.RepositoryFactory,
	workspaceRepo *memory.WorkspaceRepository,
	eventPublisher *pktNats.Publisher,
) IClientService {
	return &clientService{
		uowFactory:     uowFactory,
		workspaceRepo:  workspaceRepo,
		eventPublisher: eventPublisher,
	}
}

func (s *clientService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateClientRequest) (*dto.CreateClientResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	client := entity.Client{
		Id:          uuid.New(),
		UserId:      userId,
		DisplayName: req.DisplayName,
		CreatedAt:   time.Now(),
	}
	if err := uow.ClientRepository().Create(ctx, &client); err != nil {
		return nil, err
	}
	return &dto.CreateClientResponse{Id: client.Id}, nil
}

func (s *clientService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateClientRequest) (*dto.UpdateClientResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	client, err := uow.ClientRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, nil // Not found
	}

	client.DisplayName = req.DisplayName
	now := time.Now()
	client.UpdatedAt = &now
	if err := uow.ClientRepository().Update(ctx, client); err != nil {
		return nil, err
	}
	return &dto.UpdateClientResponse{Id: client.Id}, nil
}

// Delete removes a client and all of its activities in one transaction.
func (s *clientService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	client, err := uow.ClientRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if client == nil {
		return nil // Already gone, idempotent
	}

	// The active selection may be about to disappear; check before deleting
	activeBelongsHere := false
	if ws, found := s.workspaceRepo.Get(userId.String()); found && ws.ActiveActivityID != "" {
		activeId, parseErr := uuid.Parse(ws.ActiveActivityID)
		if parseErr == nil {
			active, findErr := uow.ActivityRepository().FindOne(ctx, specification.ByID{ID: activeId})
			if findErr == nil && active != nil && active.ClientId == id {
				activeBelongsHere = true
			}
		}
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	if err := uow.ActivityRepository().DeleteByClientId(ctx, id); err != nil {
		_ = uow.Rollback()
		return err
	}
	if err := uow.ClientRepository().Delete(ctx, id); err != nil {
		_ = uow.Rollback()
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	if activeBelongsHere {
		fallbackSelection(ctx, uow, s.workspaceRepo, userId)
	}

	if s.eventPublisher != nil {
		evt := events.New(constant.EventClientDeleted, map[string]interface{}{
			"client_id": id,
			"user_id":   userId,
		})
		// Audit is auxiliary, never fail the request over it
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish %s event: %v\n", constant.EventClientDeleted, err)
		}
	}

	return nil
}

func (s *clientService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowClientResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	client, err := uow.ClientRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, nil
	}
	return &dto.ShowClientResponse{
		Id:          client.Id,
		DisplayName: client.DisplayName,
		CreatedAt:   client.CreatedAt,
		UpdatedAt:   client.UpdatedAt,
	}, nil
}

func (s *clientService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.ShowClientResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	clients, err := uow.ClientRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.ShowClientResponse, len(clients))
	for i, c := range clients {
		responses[i] = &dto.ShowClientResponse{
			Id:          c.Id,
			DisplayName: c.DisplayName,
			CreatedAt:   c.CreatedAt,
			UpdatedAt:   c.UpdatedAt,
		}
	}
	return responses, nil
}
