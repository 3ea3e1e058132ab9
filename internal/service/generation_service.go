package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"time"

	"ai-scribe-be/internal/constant"
	"ai-scribe-be/internal/dto"
	"ai-scribe-be/internal/repository/memory"
	"ai-scribe-be/internal/repository/specification"
	"ai-scribe-be/internal/repository/unitofwork"
	"ai-scribe-be/pkg/events"
	"ai-scribe-be/pkg/inference"
	pktNats "ai-scribe-be/pkg/nats"
	"ai-scribe-be/pkg/scribe/codec"
	"ai-scribe-be/pkg/scribe/composer"
	"ai-scribe-be/pkg/scribe/orchestrator"

	"github.com/google/uuid"
)

var ErrActivityNotFound = errors.New("activity not found")

// ProgressBroadcaster pushes live generation events to connected clients.
type ProgressBroadcaster interface {
	BroadcastProgress(userId string, activityId string, p orchestrator.Progress)
	BroadcastComplete(userId string, activityId string, finalResponse string)
	BroadcastError(userId string, activityId string, message string)
}

// IGenerationService runs and supervises document generations.
type IGenerationService interface {
	Start(ctx context.Context, userId uuid.UUID, req *dto.StartGenerationRequest) (*dto.StartGenerationResponse, error)
	Cancel(ctx context.Context, userId uuid.UUID, activityId uuid.UUID) (*dto.CancelGenerationResponse, error)
	Status(ctx context.Context, userId uuid.UUID, activityId uuid.UUID) (*dto.GenerationStatusResponse, error)
	ListModels(ctx context.Context) (*dto.ModelListResponse, error)
	Health(ctx context.Context) (*dto.InferenceHealthResponse, error)
}

type generationService struct {
	uowFactory       unitofwork.RepositoryFactory
	orch             *orchestrator.Orchestrator
	client           inference.Client
	workspaceRepo    *memory.WorkspaceRepository
	broadcaster      ProgressBroadcaster
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	modelName        string
	backendType      string
	genLogger        *log.Logger
}

func NewGenerationService(
	uowFactory unitofwork.RepositoryFactory,
	orch *orchestrator.Orchestrator,
	client inference.Client,
	workspaceRepo *memory.WorkspaceRepository,
	broadcaster ProgressBroadcaster,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	modelName string,
	backendType string,
) IGenerationService {
	return &generationService{
		uowFactory:       uowFactory,
		orch:             orch,
		client:           client,
		workspaceRepo:    workspaceRepo,
		broadcaster:      broadcaster,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		modelName:        modelName,
		backendType:      backendType,
		genLogger:        initGenLogger(),
	}
}

func initGenLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "generation.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[GEN] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

func (s *generationService) Start(ctx context.Context, userId uuid.UUID, req *dto.StartGenerationRequest) (*dto.StartGenerationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// 1. Ownership check
	activity, err := uow.ActivityRepository().FindOne(ctx,
		specification.ByID{ID: req.ActivityId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}

	// 2. Make the activity the active selection if it is not already
	ws, found := s.workspaceRepo.Get(userId.String())
	if !found || ws.ActiveActivityID != activity.Id.String() {
		ws = selectActivity(s.workspaceRepo, userId, activity)
	}

	// 3. Every run starts from an empty buffer: regeneration replaces the
	// previous exchange, for every activity type.
	ws.ClearBuffer()
	s.workspaceRepo.Save(ws)

	// 4. Hand off to the orchestrator
	in := composer.Input{
		ActivityType:      activity.Type,
		RawText:           req.RawText,
		Format:            req.Format,
		Fields:            toComposerFields(req.Fields),
		SystemInstruction: ws.Sampling.SystemInstruction,
	}
	orchReq := orchestrator.Request{
		ActivityID: activity.Id.String(),
		ModelName:  s.modelName,
		Input:      in,
		Sampling:   ws.Sampling,
	}
	sink := &generationSink{svc: s, userId: userId, activityId: activity.Id}
	if err := s.orch.Start(ctx, orchReq, sink); err != nil {
		return nil, err
	}

	s.genLogger.Printf("generation started activity=%s type=%s model=%s", activity.Id, activity.Type, s.modelName)

	return &dto.StartGenerationResponse{
		ActivityId: activity.Id,
		State:      string(s.orch.Status(activity.Id.String())),
	}, nil
}

func (s *generationService) Cancel(ctx context.Context, userId uuid.UUID, activityId uuid.UUID) (*dto.CancelGenerationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	activity, err := uow.ActivityRepository().FindOne(ctx,
		specification.ByID{ID: activityId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}

	s.orch.Cancel(activityId.String())
	return &dto.CancelGenerationResponse{
		ActivityId: activityId,
		State:      string(s.orch.Status(activityId.String())),
	}, nil
}

func (s *generationService) Status(ctx context.Context, userId uuid.UUID, activityId uuid.UUID) (*dto.GenerationStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	activity, err := uow.ActivityRepository().FindOne(ctx,
		specification.ByID{ID: activityId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}

	return &dto.GenerationStatusResponse{
		ActivityId: activityId,
		State:      string(s.orch.Status(activityId.String())),
	}, nil
}

func (s *generationService) ListModels(ctx context.Context) (*dto.ModelListResponse, error) {
	models, err := s.client.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.ModelListResponse{Models: models}, nil
}

func (s *generationService) Health(ctx context.Context) (*dto.InferenceHealthResponse, error) {
	return &dto.InferenceHealthResponse{
		Reachable: s.client.Reachable(ctx),
		Backend:   s.backendType,
		Model:     s.modelName,
	}, nil
}

// finalize persists the completed exchange and fans out the downstream
// notifications. Runs on the job goroutine after streaming ends.
func (s *generationService) finalize(userId uuid.UUID, activityId uuid.UUID, out orchestrator.Outcome) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	encoded, err := codec.Encode(codec.Exchange{
		DisplayPrompt: out.DisplayPrompt,
		FinalResponse: out.FinalResponse,
		Reasoning:     out.Reasoning,
		FormatUsed:    out.FormatUsed,
	})
	if err != nil {
		s.genLogger.Printf("encode failed activity=%s: %v", activityId, err)
		s.broadcaster.BroadcastError(userId.String(), activityId.String(), "failed to persist result")
		return
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	activity, err := uow.ActivityRepository().FindOne(ctx, specification.ByID{ID: activityId})
	if err != nil || activity == nil {
		s.genLogger.Printf("persist failed activity=%s: %v", activityId, err)
		s.broadcaster.BroadcastError(userId.String(), activityId.String(), "failed to persist result")
		return
	}

	// Overwrite: an activity holds exactly one persisted exchange
	activity.PersistedRecord = encoded
	now := time.Now()
	activity.UpdatedAt = &now
	if err := uow.ActivityRepository().Update(ctx, activity); err != nil {
		s.genLogger.Printf("persist failed activity=%s: %v", activityId, err)
		s.broadcaster.BroadcastError(userId.String(), activityId.String(), "failed to persist result")
		return
	}

	// Buffer reflects the completed exchange, only while still selected
	if ws, found := s.workspaceRepo.Get(userId.String()); found && ws.ActiveActivityID == activityId.String() {
		ws.AppendMessage(constant.MessageRoleUser, out.DisplayPrompt)
		ws.AppendMessage(constant.MessageRoleAssistant, out.FinalResponse)
		s.workspaceRepo.Save(ws)
	}

	// Async auto-titling
	payload, err := json.Marshal(dto.PublishExchangePersistedMessage{ActivityId: activityId})
	if err == nil {
		if err := s.publisherService.Publish(ctx, payload); err != nil {
			s.genLogger.Printf("publish %s failed activity=%s: %v", constant.ExchangePersistedTopic, activityId, err)
		}
	}

	if s.eventPublisher != nil {
		evt := events.New(constant.EventGenerationCompleted, map[string]interface{}{
			"activity_id": activityId,
			"user_id":     userId,
			"format":      out.FormatUsed,
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.genLogger.Printf("publish audit event failed: %v", err)
		}
	}

	s.genLogger.Printf("generation completed activity=%s chars=%d", activityId, len(out.FinalResponse))
	s.broadcaster.BroadcastComplete(userId.String(), activityId.String(), out.FinalResponse)
}

func (s *generationService) failed(userId uuid.UUID, activityId uuid.UUID, genErr error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.eventPublisher != nil {
		evt := events.New(constant.EventGenerationFailed, map[string]interface{}{
			"activity_id": activityId,
			"user_id":     userId,
			"error":       genErr.Error(),
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.genLogger.Printf("publish audit event failed: %v", err)
		}
	}

	s.genLogger.Printf("generation failed activity=%s: %v", activityId, genErr)
	s.broadcaster.BroadcastError(userId.String(), activityId.String(), genErr.Error())
}

func toComposerFields(f *dto.StructuredFieldsDTO) *composer.StructuredFields {
	if f == nil {
		return nil
	}
	return &composer.StructuredFields{
		SessionMetadata: f.SessionMetadata,
		Approach:        f.Approach,
		Interventions:   f.Interventions,
		PresentingIssue: f.PresentingIssue,
		Response:        f.Response,
		ClinicalFocus:   f.ClinicalFocus,
		Goals:           f.Goals,
		DiagnosisCode:   f.DiagnosisCode,
		Notes:           f.Notes,
		RiskFlags:       f.RiskFlags,
	}
}

// generationSink bridges orchestrator callbacks into broadcast + persistence.
type generationSink struct {
	svc        *generationService
	userId     uuid.UUID
	activityId uuid.UUID
}

func (g *generationSink) OnProgress(activityID string, p orchestrator.Progress) {
	g.svc.broadcaster.BroadcastProgress(g.userId.String(), activityID, p)
}

func (g *generationSink) OnComplete(activityID string, out orchestrator.Outcome) {
	g.svc.finalize(g.userId, g.activityId, out)
}

func (g *generationSink) OnError(activityID string, err error) {
	g.svc.failed(g.userId, g.activityId, err)
}
