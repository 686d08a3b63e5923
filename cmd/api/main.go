package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/verityai/kyc-platform/internal/api"
	"github.com/verityai/kyc-platform/internal/core/service"
	mongodb "github.com/verityai/kyc-platform/internal/infrastructure/db/mongo"
	redisdb "github.com/verityai/kyc-platform/internal/infrastructure/db/redis"
	"github.com/verityai/kyc-platform/internal/infrastructure/queue"
	"github.com/verityai/kyc-platform/internal/infrastructure/storage"
	"github.com/verityai/kyc-platform/internal/pkg/config"
	"github.com/verityai/kyc-platform/pkg/logger"
)

// @title KYC Verification Platform API
// @version 1.0
// @description Document-verification case management, public applicant onboarding, and verification pipeline.
// @BasePath /
func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	store, err := storage.NewMinIOStore(ctx, storage.Config{
		Endpoint:  cfg.Minio.Endpoint,
		AccessKey: cfg.Minio.AccessKey,
		SecretKey: cfg.Minio.SecretKey,
		UseSSL:    cfg.Minio.UseSSL,
		Bucket:    cfg.Minio.Bucket,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("object store initialisation failed")
	}

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	orgRepo := mongodb.NewOrgRepository(db)
	caseRepo := mongodb.NewCaseRepository(db)
	docRepo := mongodb.NewDocumentRepository(db)
	checkRepo := mongodb.NewCheckRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)
	keyRepo := mongodb.NewAPIKeyRepository(db)

	ensureIndexes(ctx, log, userRepo, caseRepo, docRepo, checkRepo, auditRepo, keyRepo)

	dedup := redisdb.NewDedupChecker(rdb)

	// --- Services ---
	auditSvc := service.NewAuditService(auditRepo, log)
	authSvc := service.NewAuthService(userRepo, orgRepo, cfg.JWTSecret, 0, log)
	caseSvc := service.NewCaseService(caseRepo, docRepo, checkRepo, userRepo, auditSvc, log)
	verifySvc := service.NewVerificationService(docRepo, caseRepo, checkRepo, service.NewHeuristicRunner(), dedup, log)

	dispatcher := queue.NewDispatcher(cfg.Workers, verifySvc, log)
	dispatcher.Start(ctx)

	docSvc := service.NewDocumentService(docRepo, caseRepo, store, dedup, dispatcher, cfg.Upload.MaxSize, log)
	teamSvc := service.NewTeamService(userRepo, auditSvc, log)
	keySvc := service.NewAPIKeyService(keyRepo, auditSvc, log)

	// --- HTTP server ---
	e := api.NewRouter(api.Dependencies{
		Auth:        authSvc,
		Cases:       caseSvc,
		Documents:   docSvc,
		Team:        teamSvc,
		Audit:       auditSvc,
		APIKeys:     keySvc,
		Mongo:       db,
		Redis:       rdb,
		Storage:     store,
		JWTSecret:   cfg.JWTSecret,
		PublicRPS:   cfg.Public.RPS,
		PublicBurst: cfg.Public.Burst,
		Log:         log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting kyc platform api")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

type indexEnsurer interface {
	EnsureIndexes(ctx context.Context) error
}

// ensureIndexes creates query indexes at startup. Failures are logged but not
// fatal: the collections stay usable, just slower.
func ensureIndexes(ctx context.Context, log zerolog.Logger, ensurers ...indexEnsurer) {
	for _, e := range ensurers {
		if err := e.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("index creation failed")
		}
	}
}
