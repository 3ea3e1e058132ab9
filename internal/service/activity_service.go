package service

import (
	"context"
	"errors"
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
	"ai-scribe-be/pkg/scribe/codec"
	"ai-scribe-be/pkg/store"

	"github.com/google/uuid"
)

// ErrInvalidActivitySelection reports a Select on an activity that does not
// exist or is not owned by the caller. The workspace has already been moved
// to the fallback selection when this is returned.
var ErrInvalidActivitySelection = errors.New("invalid activity selection")

// IActivityService manages documentation activities and the clinician's
// workspace selection.
type IActivityService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateActivityRequest) (*dto.CreateActivityResponse, error)
	Rename(ctx context.Context, userId uuid.UUID, req *dto.RenameActivityRequest) (*dto.RenameActivityResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowActivityResponse, error)
	GetAllByClient(ctx context.Context, userId uuid.UUID, clientId uuid.UUID) ([]*dto.ShowActivityResponse, error)
	GetPersistedExchange(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.PersistedExchangeResponse, error)

	Select(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.WorkspaceResponse, error)
	GetWorkspace(ctx context.Context, userId uuid.UUID) (*dto.WorkspaceResponse, error)
	UpdateSampling(ctx context.Context, userId uuid.UUID, req *dto.UpdateSamplingRequest) (*dto.SamplingResponse, error)
}

type activityService struct {
	uowFactory     unitofwork.RepositoryFactory
	workspaceRepo  *memory.WorkspaceRepository
	eventPublisher *pktNats.Publisher
}

func NewActivityService(
	uowFactory unitofwork.RepositoryFactory,
	workspaceRepo *memory.WorkspaceRepository,
	eventPublisher *pktNats.Publisher,
) IActivityService {
	return &activityService{
		uowFactory:     uowFactory,
		workspaceRepo:  workspaceRepo,
		eventPublisher: eventPublisher,
	}
}

func (s *activityService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateActivityRequest) (*dto.CreateActivityResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// 1. The client must exist and belong to this clinician
	client, err := uow.ClientRepository().FindOne(ctx,
		specification.ByID{ID: req.ClientId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("client %s not found", req.ClientId)
	}

	// 2. Create with a per-type placeholder title when none is supplied
	title := req.Title
	if title == "" {
		title = constant.DefaultTitleFor(req.Type)
	}
	activity := entity.Activity{
		Id:        uuid.New(),
		ClientId:  req.ClientId,
		UserId:    userId,
		Type:      req.Type,
		Title:     title,
		CreatedAt: time.Now(),
	}
	if err := uow.ActivityRepository().Create(ctx, &activity); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, constant.EventActivityCreated, map[string]interface{}{
		"activity_id": activity.Id,
		"client_id":   activity.ClientId,
		"user_id":     userId,
		"type":        activity.Type,
	})

	return &dto.CreateActivityResponse{Id: activity.Id}, nil
}

func (s *activityService) Rename(ctx context.Context, userId uuid.UUID, req *dto.RenameActivityRequest) (*dto.RenameActivityResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	activity, err := uow.ActivityRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, nil // Not found
	}

	activity.Title = req.Title
	now := time.Now()
	activity.UpdatedAt = &now
	if err := uow.ActivityRepository().Update(ctx, activity); err != nil {
		return nil, err
	}

	return &dto.RenameActivityResponse{Id: activity.Id}, nil
}

func (s *activityService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	activity, err := uow.ActivityRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if activity == nil {
		return nil // Already gone, idempotent
	}

	if err := uow.ActivityRepository().Delete(ctx, id); err != nil {
		return err
	}

	// Deleting the active selection moves the workspace to the most recent
	// surviving activity, or clears it when none remain.
	if ws, found := s.workspaceRepo.Get(userId.String()); found && ws.ActiveActivityID == id.String() {
		fallbackSelection(ctx, uow, s.workspaceRepo, userId)
	}

	s.publishEvent(ctx, constant.EventActivityDeleted, map[string]interface{}{
		"activity_id": id,
		"user_id":     userId,
	})

	return nil
}

func (s *activityService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowActivityResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	activity, err := uow.ActivityRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, nil
	}
	res := toShowActivityResponse(activity)
	return &res, nil
}

func (s *activityService) GetAllByClient(ctx context.Context, userId uuid.UUID, clientId uuid.UUID) ([]*dto.ShowActivityResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	activities, err := uow.ActivityRepository().FindAll(ctx,
		specification.ByClientID{ClientID: clientId},
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.ShowActivityResponse, len(activities))
	for i, a := range activities {
		res := toShowActivityResponse(a)
		responses[i] = &res
	}
	return responses, nil
}

func (s *activityService) GetPersistedExchange(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.PersistedExchangeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	activity, err := uow.ActivityRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if activity == nil || len(activity.PersistedRecord) == 0 {
		return nil, nil
	}

	ex := codec.Decode(activity.PersistedRecord)
	return &dto.PersistedExchangeResponse{
		DisplayPrompt: ex.DisplayPrompt,
		FinalResponse: ex.FinalResponse,
		Reasoning:     ex.Reasoning,
		FormatUsed:    ex.FormatUsed,
		Legacy:        ex.Legacy,
	}, nil
}

func (s *activityService) Select(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.WorkspaceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	activity, err := uow.ActivityRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}

	// An invalid selection falls back to the most recent valid activity
	// rather than leaving the workspace pointing at nothing. The caller
	// still learns the requested id was bad.
	if activity == nil {
		ws := fallbackSelection(ctx, uow, s.workspaceRepo, userId)
		return toWorkspaceResponse(ws), ErrInvalidActivitySelection
	}

	ws := selectActivity(s.workspaceRepo, userId, activity)
	return toWorkspaceResponse(ws), nil
}

func (s *activityService) GetWorkspace(ctx context.Context, userId uuid.UUID) (*dto.WorkspaceResponse, error) {
	ws, found := s.workspaceRepo.Get(userId.String())
	if !found {
		return toWorkspaceResponse(nil), nil
	}
	return toWorkspaceResponse(ws), nil
}

func (s *activityService) UpdateSampling(ctx context.Context, userId uuid.UUID, req *dto.UpdateSamplingRequest) (*dto.SamplingResponse, error) {
	ws, found := s.workspaceRepo.Get(userId.String())
	if !found || ws.ActiveActivityID == "" {
		return nil, fmt.Errorf("no active activity selected")
	}

	if req.Temperature != nil {
		ws.Sampling.Temperature = *req.Temperature
	}
	if req.TopP != nil {
		ws.Sampling.TopP = *req.TopP
	}
	if req.TopK != nil {
		ws.Sampling.TopK = *req.TopK
	}
	if req.MaxTokens != nil {
		ws.Sampling.MaxTokens = *req.MaxTokens
	}
	if req.SystemInstruction != nil {
		ws.Sampling.SystemInstruction = *req.SystemInstruction
	}
	s.workspaceRepo.Save(ws)

	return &dto.SamplingResponse{
		Temperature:       ws.Sampling.Temperature,
		TopP:              ws.Sampling.TopP,
		TopK:              ws.Sampling.TopK,
		MaxTokens:         ws.Sampling.MaxTokens,
		SystemInstruction: ws.Sampling.SystemInstruction,
	}, nil
}

func (s *activityService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	// Audit is auxiliary; log-and-continue on failure
	if err := s.eventPublisher.Publish(ctx, events.New(eventType, data)); err != nil {
		fmt.Printf("[WARN] Failed to publish %s event: %v\n", eventType, err)
	}
}

// selectActivity makes the given activity the active selection. Selection
// always clears the buffer and resets sampling to the type defaults.
func selectActivity(workspaceRepo *memory.WorkspaceRepository, userId uuid.UUID, activity *entity.Activity) *store.Workspace {
	ws := &store.Workspace{
		UserID:           userId.String(),
		ActiveActivityID: activity.Id.String(),
		ActivityType:     activity.Type,
		Sampling:         constant.DefaultSamplingFor(activity.Type),
	}
	workspaceRepo.Save(ws)
	return ws
}

// fallbackSelection repoints the workspace at the clinician's most recent
// activity, or clears the workspace when they have none left.
func fallbackSelection(ctx context.Context, uow unitofwork.UnitOfWork, workspaceRepo *memory.WorkspaceRepository, userId uuid.UUID) *store.Workspace {
	candidates, err := uow.ActivityRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: 1, Offset: 0},
	)
	if err != nil || len(candidates) == 0 {
		workspaceRepo.Delete(userId.String())
		return nil
	}
	return selectActivity(workspaceRepo, userId, candidates[0])
}

func toShowActivityResponse(a *entity.Activity) dto.ShowActivityResponse {
	return dto.ShowActivityResponse{
		Id:        a.Id,
		ClientId:  a.ClientId,
		Type:      a.Type,
		Title:     a.Title,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func toWorkspaceResponse(ws *store.Workspace) *dto.WorkspaceResponse {
	if ws == nil {
		return &dto.WorkspaceResponse{Buffer: []dto.BufferMessageDTO{}}
	}
	buffer := make([]dto.BufferMessageDTO, len(ws.Buffer))
	for i, m := range ws.Buffer {
		buffer[i] = dto.BufferMessageDTO{Role: m.Role, Content: m.Content}
	}
	return &dto.WorkspaceResponse{
		ActiveActivityId: ws.ActiveActivityID,
		ActivityType:     ws.ActivityType,
		Sampling: dto.SamplingResponse{
			Temperature:       ws.Sampling.Temperature,
			TopP:              ws.Sampling.TopP,
			TopK:              ws.Sampling.TopK,
			MaxTokens:         ws.Sampling.MaxTokens,
			SystemInstruction: ws.Sampling.SystemInstruction,
		},
		Buffer: buffer,
	}
}
