package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/hersouls/AI-Biz-Eyes-v1.0-sub001/internal/config"
	"github.com/hersouls/AI-Biz-Eyes-v1.0-sub001/internal/httpapi"
	"github.com/hersouls/AI-Biz-Eyes-v1.0-sub001/internal/httpclient"
	"github.com/hersouls/AI-Biz-Eyes-v1.0-sub001/internal/metrics"
	"github.com/hersouls/AI-Biz-Eyes-v1.0-sub001/internal/model"
	"github.com/hersouls/AI-Biz-Eyes-v1.0-sub001/internal/relay"
	"github.com/hersouls/AI-Biz-Eyes-v1.0-sub001/internal/service"
	"github.com/hersouls/AI-Biz-Eyes-v1.0-sub001/internal/store"
	"github.com/hersouls/AI-Biz-Eyes-v1.0-sub001/internal/upstream"
	"github.com/hersouls/AI-Biz-Eyes-v1.0-sub001/internal/webhook"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const serviceName = "procurement-relay"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "development" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	slog.Info("starting "+serviceName,
		"environment", cfg.Environment,
		"port", cfg.Port,
		"store_type", cfg.StoreType,
	)
	if cfg.UpstreamServiceKey == "" {
		slog.Warn("UPSTREAM_SERVICE_KEY is empty, every relay will use substitute data")
	}

	// Initialize store
	var statusStore store.StatusStore
	var mongoClient *mongo.Client

	switch cfg.StoreType {
	case config.StoreMongo:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var mongoErr error
		mongoClient, mongoErr = mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if mongoErr != nil {
			slog.Error("failed to connect to mongodb", "error", mongoErr)
			os.Exit(1)
		}
		if err := mongoClient.Ping(ctx, nil); err != nil {
			slog.Error("failed to ping mongodb", "error", err)
			os.Exit(1)
		}

		mongoStore := store.NewMongoStatusStore(mongoClient, cfg.MongoDB, cfg.MongoRunsCollection, cfg.MongoStatusCollection)
		if err := mongoStore.EnsureIndexes(ctx); err != nil {
			slog.Warn("failed to create indexes", "error", err)
		}
		statusStore = mongoStore
		slog.Info("using mongodb store", "db", cfg.MongoDB, "runs", cfg.MongoRunsCollection, "status", cfg.MongoStatusCollection)

	case config.StoreFirestore:
		var storeErr error
		statusStore, storeErr = store.NewFirestoreStatusStore(context.Background(),
			cfg.FirestoreProjectID, cfg.FirestoreRunsCollection, cfg.FirestoreStatusCollection)
		if storeErr != nil {
			slog.Error("failed to initialize firestore", "error", storeErr)
			os.Exit(1)
		}
		slog.Info("using firestore store", "project", cfg.FirestoreProjectID)

	default:
		statusStore = store.NewMemoryStore(store.DefaultMaxRuns)
		slog.Info("using in-memory store (development mode)")
	}
	defer func() { _ = statusStore.Close() }()
	if mongoClient != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := mongoClient.Disconnect(ctx); err != nil {
				slog.Error("failed to disconnect mongodb", "error", err)
			}
		}()
	}

	recorder, err := metrics.New(cfg.StatsdAddr, serviceName, cfg.Environment)
	if err != nil {
		slog.Warn("metrics disabled", "error", err)
		recorder = metrics.NewNoop()
	}
	defer func() { _ = recorder.Close() }()

	// Wire the relay
	fetcher := upstream.NewClient(upstream.Config{
		BaseURL:       cfg.UpstreamBaseURL,
		ServiceKey:    cfg.UpstreamServiceKey,
		Timeout:       cfg.UpstreamTimeout,
		RatePerSecond: cfg.UpstreamRatePerSecond,
		Burst:         cfg.UpstreamBurst,
	})

	retry := httpclient.NoRetry()
	if cfg.OutboundMaxRetries > 0 {
		retry = httpclient.DefaultRetryConfig()
		retry.MaxRetries = cfg.OutboundMaxRetries
	}
	deliverer, err := webhook.NewDeliverer(webhook.Config{
		URL:     cfg.OutboundURL,
		APIKey:  cfg.OutboundAPIKey,
		Timeout: cfg.OutboundTimeout,
		Retry:   retry,
	})
	if err != nil {
		slog.Error("invalid outbound endpoint", "error", err)
		os.Exit(1)
	}
	slog.Info("outbound endpoint configured", "outbound_url", deliverer.Endpoint())

	dispatcher, err := relay.NewDispatcher(fetcher, deliverer,
		relay.WithConcurrency(cfg.RelayConcurrency),
		relay.WithObserver(recorder),
	)
	if err != nil {
		slog.Error("failed to build relay", "error", err)
		os.Exit(1)
	}

	svc := service.New(dispatcher, statusStore, recorder)
	defaults := model.Params{PageNo: model.DefaultPageNo, NumOfRows: cfg.RelayNumOfRows}

	// Scheduled relay stops with rootCtx
	rootCtx, stopScheduler := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	if cfg.RelayInterval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.RunScheduled(rootCtx, cfg.RelayInterval, defaults)
		}()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpapi.NewRouter(svc, defaults),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// A full relay waits on the upstream and the outbound endpoint
		WriteTimeout: cfg.UpstreamTimeout + cfg.OutboundTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	stopScheduler()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}
	wg.Wait()

	slog.Info("server stopped")
}
