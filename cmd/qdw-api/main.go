package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/qdconsortium/qdw-api/internal/api"
	"github.com/qdconsortium/qdw-api/internal/core/domain"
	"github.com/qdconsortium/qdw-api/internal/core/ports"
	"github.com/qdconsortium/qdw-api/internal/core/service"
	"github.com/qdconsortium/qdw-api/internal/infrastructure/config"
	mongodb "github.com/qdconsortium/qdw-api/internal/infrastructure/db/mongo"
	redisdb "github.com/qdconsortium/qdw-api/internal/infrastructure/db/redis"
	"github.com/qdconsortium/qdw-api/internal/infrastructure/forward"
	"github.com/qdconsortium/qdw-api/internal/infrastructure/news"
	"github.com/qdconsortium/qdw-api/internal/infrastructure/payment"
	"github.com/qdconsortium/qdw-api/internal/infrastructure/queue"
	"github.com/qdconsortium/qdw-api/internal/infrastructure/storage"
	"github.com/qdconsortium/qdw-api/pkg/logger"
)

const (
	sessionTTL      = 24 * time.Hour
	numTaskWorkers  = 4
	shutdownTimeout = 10 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{Level: "info"})
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	store, err := storage.New(ctx, storage.Config{
		Region:        cfg.Storage.Region,
		Endpoint:      cfg.Storage.Endpoint,
		AccessKey:     cfg.Storage.AccessKey,
		SecretKey:     cfg.Storage.SecretKey,
		Bucket:        cfg.Storage.Bucket,
		ArchiveBucket: cfg.Storage.ArchiveBucket,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build object store")
	}

	dispatcher := queue.NewDispatcher(numTaskWorkers, log)
	defer dispatcher.Close()

	gateway := payment.NewGateway(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)
	fetcher := news.NewClient(cfg.News.OpenAIKey)
	forwarder := forward.New(cfg.JoinWebhookURL)

	repo := mongodb.NewRegistrantRepository(db)
	limiter := redisdb.NewRateLimiter(rdb, cfg.News.RateLimit, time.Duration(cfg.News.WindowHours)*time.Hour)
	cache := redisdb.NewNewsCache(rdb)

	// --- Services ---
	strategy := ports.PersistDeferred
	if cfg.Persistence == string(ports.PersistImmediate) {
		strategy = ports.PersistImmediate
	}

	prices := service.PriceTable{
		domain.TypeStudentInPerson:      cfg.Stripe.PriceStudentInPerson,
		domain.TypeStudentOnline:        cfg.Stripe.PriceStudentOnline,
		domain.TypeProfessionalInPerson: cfg.Stripe.PriceProfessionalInPerson,
		domain.TypeProfessionalOnline:   cfg.Stripe.PriceProfessionalOnline,
	}

	registrations := service.NewRegistrationService(repo, strategy, log)
	uploads := service.NewUploadService(store, dispatcher, log)
	payments := service.NewPaymentService(gateway, repo, prices, cfg.SiteBaseURL, log)
	members := service.NewMemberService(repo, cfg.SessionSecret, sessionTTL, log)
	newsService := service.NewNewsService(limiter, cache, fetcher, dispatcher,
		cfg.News.RateLimit, time.Duration(cfg.News.WindowHours)*time.Hour, log)

	e := api.NewRouter(api.Deps{
		Registrations: registrations,
		Uploads:       uploads,
		Payments:      payments,
		Members:       members,
		News:          newsService,
		Forwarder:     forwarder,
		Mongo:         db,
		Redis:         rdb,
		AdminAPIKey:   cfg.AdminAPIKey,
		Log:           log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
}
