package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"

	"github.com/VibeCodiac/UnTrash-Emergent/internal/config"
	"github.com/VibeCodiac/UnTrash-Emergent/internal/db"
	"github.com/VibeCodiac/UnTrash-Emergent/internal/handler"
	"github.com/VibeCodiac/UnTrash-Emergent/internal/middleware"
	"github.com/VibeCodiac/UnTrash-Emergent/internal/repository"
	"github.com/VibeCodiac/UnTrash-Emergent/internal/router"
	"github.com/VibeCodiac/UnTrash-Emergent/internal/service"
)

func main() {
	cfg := config.Load()

	middleware.InitLogger(cfg.LogLevel, "untrash-engine")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	handler.InitMetrics(pool)

	cache := service.NewCacheService(cfg.RedisURL)
	defer cache.Close()

	// Repositories
	userRepo := repository.NewUserRepo(pool)
	reportRepo := repository.NewReportRepo(pool)
	areaRepo := repository.NewAreaRepo(pool)
	groupRepo := repository.NewGroupRepo(pool)
	notificationRepo := repository.NewNotificationRepo(pool)

	// Services
	pointsSvc := service.NewPointsService()
	medalSvc := service.NewMedalService()
	notifySvc := service.NewNotifyService(notificationRepo)
	ledgerSvc := service.NewLedgerService(userRepo, groupRepo, medalSvc, notifySvc)
	submissionSvc := service.NewSubmissionService(reportRepo, pointsSvc, ledgerSvc, notifySvc, cache)
	areaSvc := service.NewAreaService(areaRepo, pointsSvc, ledgerSvc, notifySvc, cache)
	moderationSvc := service.NewModerationService(reportRepo, areaRepo, cache)
	heatmapSvc := service.NewHeatmapService(reportRepo, areaRepo, cache)
	userSvc := service.NewUserService(userRepo, groupRepo, notificationRepo, ledgerSvc)

	// Background workers
	heatmapWorker := service.NewHeatmapWorker(pool, heatmapSvc)
	go heatmapWorker.Start(ctx)

	rolloverWorker := service.NewRolloverWorker(repository.NewRolloverRepo(pool), cfg.RolloverInterval)
	go rolloverWorker.Start(ctx)

	app := fiber.New(fiber.Config{
		AppName:      "UnTrash Engine",
		ServerHeader: "UnTrash",
	})

	router.Setup(app, &router.Handlers{
		Report:  handler.NewReportHandler(submissionSvc),
		Area:    handler.NewAreaHandler(areaSvc),
		Admin:   handler.NewAdminHandler(submissionSvc, areaSvc, moderationSvc, userSvc),
		User:    handler.NewUserHandler(userSvc),
		Ranking: handler.NewRankingHandler(userSvc),
		Heatmap: handler.NewHeatmapHandler(heatmapSvc),
		Stats:   handler.NewStatsHandler(submissionSvc),
		Health:  handler.NewHealthHandler(pool, cache.Client()),
	}, userRepo, cfg.CORSOrigins)

	// Graceful shutdown on SIGINT/SIGTERM
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Println("shutdown signal received")
		cancel()
		if err := app.Shutdown(); err != nil {
			log.Printf("server shutdown error: %v", err)
		}
	}()

	log.Printf("UnTrash engine starting on :%s (env=%s)", cfg.Port, cfg.Environment)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
	log.Println("server stopped")
}
