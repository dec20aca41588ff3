package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/lib/pq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/animalrescue/rescue-connect/internal/ai"
	"github.com/animalrescue/rescue-connect/internal/config"
	"github.com/animalrescue/rescue-connect/internal/httpx"
	"github.com/animalrescue/rescue-connect/internal/identity"
	"github.com/animalrescue/rescue-connect/internal/logging"
	"github.com/animalrescue/rescue-connect/internal/notify"
	"github.com/animalrescue/rescue-connect/internal/reports"
	"github.com/animalrescue/rescue-connect/internal/treatments"
	"github.com/animalrescue/rescue-connect/internal/triage"
)

func main() {
	defaultPath := os.Getenv("CONFIG_PATH")
	if defaultPath == "" {
		defaultPath = "config.yaml"
	}
	configPath := flag.String("config", defaultPath, "path to YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	reportRepo, treatmentRepo, closeStore, err := openStorage(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("storage error", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer closeStore()

	// --- AI ---
	backend, err := ai.New(ctx, cfg.Backend(), logger)
	if err != nil {
		logger.Fatal("ai backend error", zap.Error(err))
	}
	classifier := triage.NewClassifier(backend, logger)

	// --- Notifications ---
	notifier, closeNotifier := buildNotifier(cfg.Notify, logger)
	defer closeNotifier()

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpx.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type",
			identity.HeaderUserID, identity.HeaderEmail, identity.HeaderRole},
	}))
	r.Use(middleware.Timeout(cfg.HTTP.RequestTimeout))
	r.Use(identity.Middleware)

	// --- Reports module wiring ---
	reportService := reports.NewService(reportRepo, classifier, notifier, logger)
	submitLimit := httpx.RateLimit(rate.Limit(cfg.HTTP.SubmitRate), cfg.HTTP.SubmitBurst)
	reports.RegisterRoutes(r, reports.NewHandler(reportService), submitLimit)

	// --- Treatments module wiring ---
	treatmentService := treatments.NewService(treatmentRepo, logger)
	treatments.RegisterRoutes(r, treatments.NewHandler(treatmentService))

	// --- health ---
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("listening",
		zap.String("port", cfg.HTTP.Port),
		zap.String("storage", cfg.Storage.Driver),
		zap.String("ai_provider", cfg.AI.Provider))
	if err := serve(ctx, srv, srv.ListenAndServe, 10*time.Second, logger); err != nil {
		logger.Error("server error", zap.Error(err))
		return
	}
	logger.Info("server stopped")
}

// serve runs listen until ctx is done, then shuts srv down and waits for
// in-flight requests (at most grace) before returning. Storage and
// notifiers are closed by the caller only after serve returns.
func serve(ctx context.Context, srv *http.Server, listen func() error, grace time.Duration, logger *zap.Logger) error {
	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		done <- srv.Shutdown(shutdownCtx)
	}()

	if err := listen(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-done
}

func openStorage(ctx context.Context, cfg config.StorageConfig) (reports.Repo, treatments.Repo, func(), error) {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	switch cfg.Driver {
	case config.DriverMongo:
		client, err := mongo.Connect(pingCtx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, nil, nil, err
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }
		if err := client.Ping(pingCtx, nil); err != nil {
			closeFn()
			return nil, nil, nil, err
		}
		db := client.Database(cfg.MongoDatabase)
		if err := reports.EnsureMongoIndexes(pingCtx, db); err != nil {
			closeFn()
			return nil, nil, nil, err
		}
		if err := treatments.EnsureMongoIndexes(pingCtx, db); err != nil {
			closeFn()
			return nil, nil, nil, err
		}
		return reports.NewMongoRepo(db), treatments.NewMongoRepo(db), closeFn, nil

	default:
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			return nil, nil, nil, err
		}
		closeFn := func() { _ = db.Close() }
		if err := db.PingContext(pingCtx); err != nil {
			closeFn()
			return nil, nil, nil, err
		}
		if err := reports.EnsureSchema(pingCtx, db); err != nil {
			closeFn()
			return nil, nil, nil, err
		}
		if err := treatments.EnsureSchema(pingCtx, db); err != nil {
			closeFn()
			return nil, nil, nil, err
		}
		return reports.NewRepo(db), treatments.NewRepo(db), closeFn, nil
	}
}

func buildNotifier(cfg config.NotifyConfig, logger *zap.Logger) (notify.Notifier, func()) {
	var out notify.Multi
	closeFn := func() {}

	if len(cfg.KafkaBrokers) > 0 {
		producer := notify.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		out = append(out, producer)
		closeFn = func() {
			if err := producer.Close(); err != nil {
				logger.Warn("kafka close error", zap.Error(err))
			}
		}
	}
	if cfg.WebhookURL != "" {
		out = append(out, notify.NewWebhook(cfg.WebhookURL, cfg.WebhookToken, logger))
	}

	if len(out) == 0 {
		logger.Info("urgent notifications disabled")
		return notify.Nop{}, closeFn
	}
	return out, closeFn
}
