package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/scribalabs/scriba-api/internal/config"
	"github.com/scribalabs/scriba-api/internal/database"
	"github.com/scribalabs/scriba-api/internal/handler"
	"github.com/scribalabs/scriba-api/internal/middleware"
	"github.com/scribalabs/scriba-api/internal/models"
	"github.com/scribalabs/scriba-api/internal/repository"
	"github.com/scribalabs/scriba-api/internal/router"
	"github.com/scribalabs/scriba-api/internal/scoring"
	"github.com/scribalabs/scriba-api/internal/service"
	"github.com/scribalabs/scriba-api/pkg/ai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Rubric{}, &models.ScoreRecord{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not configured, score listing cache disabled")
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
	} else {
		logger.Warn().Msg("nats url not configured, scored events disabled")
	}

	var judge ai.SimilarityJudge
	if cfg.OpenAIAPIKey != "" {
		openAIJudge, err := ai.NewOpenAIJudge(ai.OpenAIConfig{
			APIKey:         cfg.OpenAIAPIKey,
			Model:          cfg.OpenAIModel,
			RequestTimeout: cfg.OracleTimeout,
			Logger:         logger,
		})
		if err != nil {
			log.Fatalf("failed to create similarity judge: %v", err)
		}
		judge = openAIJudge
	} else {
		logger.Warn().Msg("openai api key not configured, similarity scores will be neutral")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	engine := scoring.NewEngine(judge, logger)

	rubricRepo := repository.NewRubricRepository(db)
	scoreRepo := repository.NewScoreRepository(db)

	rubricService := service.NewRubricService(rubricRepo, validate, logger)

	var events service.EventPublisher
	if natsConn != nil {
		events = natsConn
	}
	scoringService := service.NewScoringService(
		rubricRepo,
		scoreRepo,
		engine,
		validate,
		redisClient,
		cfg.ScoresCacheTTL,
		events,
		cfg.ScoredSubject,
		cfg.UploadMaxBytes,
		logger,
	)

	rubricHandler := handler.NewRubricHandler(rubricService, logger)
	scoringHandler := handler.NewScoringHandler(scoringService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		RubricHandler:  rubricHandler,
		ScoringHandler: scoringHandler,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
