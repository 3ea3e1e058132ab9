package bootstrap

import (
	"context"
	"log"

	"ai-scribe-be/internal/config"
	"ai-scribe-be/internal/controller"
	"ai-scribe-be/internal/handler"
	"ai-scribe-be/internal/pkg/logger"
	"ai-scribe-be/internal/repository/memory"
	"ai-scribe-be/internal/repository/unitofwork"
	"ai-scribe-be/internal/service"
	"ai-scribe-be/internal/websocket"
	"ai-scribe-be/pkg/inference/factory"
	pktNats "ai-scribe-be/pkg/nats"
	"ai-scribe-be/pkg/scribe/analysis"
	"ai-scribe-be/pkg/scribe/composer"
	"ai-scribe-be/pkg/scribe/orchestrator"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ClientController     controller.IClientController
	ActivityController   controller.IActivityController
	GenerationController controller.IGenerationController

	// Background Services (exposed for main.go to run)
	ConsumerService      service.IConsumerService
	AuditConsumerService service.IAuditConsumerService

	// WebSockets
	GenerationStreamHandler *handler.GenerationStreamHandler
	WebSocketHub            *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Inference Backend
	inferenceClient, err := factory.NewInferenceClient(
		cfg.Inference.Backend,
		cfg.Inference.Model,
		cfg.Inference.BaseURL,
		cfg.Keys.InferenceAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize inference client: %v", err)
	}
	log.Printf("[INFO] Using inference backend: %s (%s)", cfg.Inference.Backend, cfg.Inference.Model)

	if cfg.Inference.HealthCheck && !inferenceClient.Reachable(context.Background()) {
		log.Printf("[WARN] Inference backend %s is not reachable at boot", cfg.Inference.Backend)
	}

	// In-memory workspace storage
	workspaceRepo := memory.NewWorkspaceRepository()

	// 3.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		natsSub = nil
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/stream.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 4. Generation Pipeline
	stage := analysis.NewStage(inferenceClient, log.Default())
	comp := composer.NewComposer()
	orch := orchestrator.New(inferenceClient, stage, comp, log.Default())

	// 5. Services
	publisherService := service.NewPublisherService(cfg.Keys.ExchangePersistedTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.ExchangePersistedTopic,
		uowFactory,
	)

	clientService := service.NewClientService(uowFactory, workspaceRepo, natsPub)
	activityService := service.NewActivityService(uowFactory, workspaceRepo, natsPub)
	generationService := service.NewGenerationService(
		uowFactory,
		orch,
		inferenceClient,
		workspaceRepo,
		wsHub,
		publisherService,
		natsPub,
		cfg.Inference.Model,
		cfg.Inference.Backend,
	)

	var auditConsumerService service.IAuditConsumerService
	if natsSub != nil {
		auditConsumerService = service.NewAuditConsumerService(natsSub, uowFactory)
	}

	streamHandler := handler.NewGenerationStreamHandler(wsHub, sysLogger)

	// 6. Controllers
	return &Container{
		ClientController:     controller.NewClientController(clientService),
		ActivityController:   controller.NewActivityController(activityService),
		GenerationController: controller.NewGenerationController(generationService),

		ConsumerService:      consumerService,
		AuditConsumerService: auditConsumerService,

		GenerationStreamHandler: streamHandler,
		WebSocketHub:            wsHub,
	}
}
