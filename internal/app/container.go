package app

import (
	"context"
	"log"
	"time"

	"teachassist/internal/config"
	"teachassist/internal/database"
	"teachassist/internal/database/migration"
	dbpostgres "teachassist/internal/database/postgres"
	"teachassist/internal/delivery/http/handler"
	"teachassist/internal/delivery/http/middleware"
	"teachassist/internal/delivery/http/routes"
	"teachassist/internal/infrastructure/cache"
	"teachassist/internal/infrastructure/llm"
	"teachassist/internal/infrastructure/storage"
	"teachassist/internal/jobs"
	"teachassist/internal/pkg/jwt"
	"teachassist/internal/repository"
	"teachassist/internal/usecase"
	dashuc "teachassist/internal/usecase/dashboard"
	eventuc "teachassist/internal/usecase/event"
	quizuc "teachassist/internal/usecase/quiz"
	resourceuc "teachassist/internal/usecase/resource"
	useruc "teachassist/internal/usecase/user"
	"teachassist/internal/ws"
)

// Container wires configuration, infrastructure, and the feature stack. It
// owns every long-lived dependency the HTTP layer and background jobs share.
type Container struct {
	Config config.Config
	Logger *log.Logger

	DB    database.DB
	Cache *cache.Redis
	Store *storage.FileStore
	LLM   llm.Client

	Hub      *ws.Hub
	Reminder *jobs.ReminderJob

	Routes routes.Deps
}

func NewContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	runner := migration.Runner{Dir: cfg.Database.MigrationsDir}
	if err := runner.Run(ctx, db.SQLDB()); err != nil {
		_ = db.Close()
		return nil, err
	}

	store, err := storage.NewFileStore(cfg.Storage.Dir)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	redisCache := cache.NewRedis(cfg.Redis, logger)
	llmClient := llm.NewClient(cfg.OpenAI, logger)
	hub := ws.NewHub(logger)

	userRepo := repository.NewPostgresUserRepository(db)
	eventRepo := repository.NewPostgresEventRepository(db)
	resourceRepo := repository.NewPostgresResourceRepository(db)
	quizRepo := repository.NewPostgresQuizRepository(db)

	jwtSvc := jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)

	authUC := usecase.NewAuthUsecase(userRepo, jwtSvc)
	userUC := useruc.NewService(userRepo, store)
	eventUC := eventuc.NewService(eventRepo, redisCache)
	resourceUC := resourceuc.NewService(resourceRepo, store, redisCache)
	quizUC := quizuc.NewService(quizRepo, llmClient, redisCache, logger)
	dashUC := dashuc.NewService(eventRepo, resourceRepo, quizRepo)

	c := &Container{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Cache:  redisCache,
		Store:  store,
		LLM:    llmClient,
		Hub:    hub,
		Reminder: jobs.NewReminderJob(
			userRepo, eventRepo, hub,
			cfg.Reminder.Interval, cfg.Reminder.Timeout, logger,
		),
		Routes: routes.Deps{
			Health:    handler.NewHealthHandler(db, redisCache),
			Auth:      handler.NewAuthHandler(authUC),
			User:      handler.NewUserHandler(userUC),
			Event:     handler.NewEventHandler(eventUC),
			Resource:  handler.NewResourceHandler(resourceUC),
			Quiz:      handler.NewQuizHandler(quizUC),
			Dashboard: handler.NewDashboardHandler(dashUC),
			WS:        ws.NewHandler(hub, logger),

			AuthMw:       middleware.NewAuthMiddleware(jwtSvc),
			OnboardingMw: middleware.NewOnboardingMiddleware(userRepo),
		},
	}
	return c, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
