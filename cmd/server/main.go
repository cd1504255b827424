// Command server runs the JobRadar API: job ingestion from the JobTech
// search API, authenticated browsing, and the daily digest dispatcher.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jobradar/jobradar/internal/api"
	"github.com/jobradar/jobradar/internal/api/metrics"
	"github.com/jobradar/jobradar/internal/core/ports"
	"github.com/jobradar/jobradar/internal/core/service"
	"github.com/jobradar/jobradar/internal/infrastructure/config"
	mongodb "github.com/jobradar/jobradar/internal/infrastructure/db/mongo"
	redisdb "github.com/jobradar/jobradar/internal/infrastructure/db/redis"
	"github.com/jobradar/jobradar/internal/infrastructure/jobtech"
	"github.com/jobradar/jobradar/internal/infrastructure/mail"
	"github.com/jobradar/jobradar/internal/infrastructure/scheduler"
	"github.com/jobradar/jobradar/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- Stores ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(shutdownCtx)
	}()

	jobRepo := mongodb.NewJobRepository(db)
	userRepo := mongodb.NewUserRepository(db)
	if err := jobRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create job indexes")
	}
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create user indexes")
	}

	if cfg.SeedOnBoot {
		if err := mongodb.Seed(ctx, userRepo, jobRepo); err != nil {
			log.Fatal().Err(err).Msg("failed to seed database")
		}
	}

	// Redis is optional: without it runs proceed unlocked.
	var lock ports.RunLocker = redisdb.NopLock{}
	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, run locks disabled")
		rdb = nil
	} else {
		lock = redisdb.NewRunLock(rdb)
		defer rdb.Close()
	}

	// --- External collaborators ---
	fetcher := jobtech.NewClient(jobtech.Config{
		Endpoint:  cfg.JobTech.Endpoint,
		Keywords:  cfg.JobTech.Keywords,
		Region:    cfg.JobTech.Region,
		Locations: cfg.JobTech.Locations,
		Limit:     cfg.JobTech.Limit,
		Timeout:   cfg.JobTech.Timeout,
	}, log.With().Str("component", "jobtech").Logger())

	mailer := mail.NewResend(mail.Config{
		APIKey: cfg.Resend.APIKey,
		From:   cfg.Resend.From,
	}, log.With().Str("component", "mail").Logger())

	// --- Services ---
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, time.Hour)
	jobService := service.NewJobService(jobRepo, log.With().Str("component", "jobs").Logger())
	statsService := service.NewStatsService(jobRepo)
	ingestService := service.NewIngestService(fetcher, jobRepo, lock, log.With().Str("component", "ingest").Logger())
	notifyService := service.NewNotifyService(jobRepo, userRepo, mailer, lock, cfg.Scheduler.SendDelay, log.With().Str("component", "notify").Logger())

	// --- Scheduler ---
	if cfg.Scheduler.Enabled {
		sched := scheduler.New(log.With().Str("component", "scheduler").Logger(),
			scheduler.Task{
				Name:      "fetch-jobs",
				Every:     cfg.Scheduler.FetchInterval,
				Immediate: true,
				Run: func(ctx context.Context) error {
					res, err := ingestService.Run(ctx)
					metrics.ObserveIngest(res, err)
					return err
				},
			},
			scheduler.Task{
				Name:  "send-emails",
				Every: cfg.Scheduler.EmailInterval,
				Run: func(ctx context.Context) error {
					start := time.Now()
					res, err := notifyService.DispatchDigest(ctx)
					metrics.ObserveDispatch(res, time.Since(start))
					return err
				},
			},
		)
		sched.Start(ctx)
	}

	// --- HTTP server ---
	e := api.NewRouter(api.Deps{
		Auth:       authService,
		Jobs:       jobService,
		Stats:      statsService,
		Ingest:     ingestService,
		Notify:     notifyService,
		JobRepo:    jobRepo,
		UserRepo:   userRepo,
		Mongo:      db,
		Redis:      rdb,
		JWTSecret:  cfg.JWTSecret,
		CronSecret: cfg.CronSecret,
		Logger:     log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("jobradar started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
