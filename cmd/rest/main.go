package main

import (
	"context"
	"log"

	"ai-scribe-be/internal/bootstrap"
	"ai-scribe-be/internal/config"
	"ai-scribe-be/internal/server"
	"ai-scribe-be/internal/tracer"
	"ai-scribe-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	if container.AuditConsumerService != nil {
		go func() {
			log.Println("Background: Starting Audit Consumer...")
			if err := container.AuditConsumerService.Consume(); err != nil {
				log.Printf("Background Audit Consumer Error: %v", err)
			}
		}()
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
