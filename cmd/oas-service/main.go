package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/oas-switchboard/broadcaster/pkg/broadcast"
	"github.com/oas-switchboard/broadcaster/pkg/common/config"
	"github.com/oas-switchboard/broadcaster/pkg/common/database"
	"github.com/oas-switchboard/broadcaster/pkg/common/kafka"
	"github.com/oas-switchboard/broadcaster/pkg/common/logger"
	"github.com/oas-switchboard/broadcaster/pkg/gateway/auth"
	"github.com/oas-switchboard/broadcaster/pkg/gateway/httpclient"
	"github.com/oas-switchboard/broadcaster/pkg/gateway/middleware"
	"github.com/oas-switchboard/broadcaster/pkg/settings"
	"github.com/oas-switchboard/broadcaster/pkg/switchboard"
)

func main() {
	logger.Init()
	cfg, err := config.Load()
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load configuration")
	}

	db, err := database.GetPostgres(cfg)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres()

	records := broadcast.NewRepository(db)
	if err := records.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("Failed to migrate switchboard messages")
	}
	store := settings.NewGormStore(db)
	if err := store.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("Failed to migrate journal settings")
	}

	redisClient := database.GetRedis(cfg)
	defer database.CloseRedis()

	provider := settings.NewProvider(
		settings.NewCachedStore(store, redisClient, cfg.SettingsCacheTTL),
		settings.Defaults{URL: cfg.SwitchboardURL, SandboxURL: cfg.SwitchboardSandboxURL},
	)

	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.BroadcastEventTopic)
	defer producer.Close()

	client := switchboard.NewClient(httpclient.New(cfg.SwitchboardTimeout))
	service := broadcast.NewService(provider, client, records, producer)

	jwt, err := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTTTL)
	if err != nil {
		logger.Log.WithError(err).Fatal("Invalid JWT configuration")
	}

	router := mux.NewRouter()
	router.Use(middleware.Logging)
	router.Use(middleware.Recovery)
	router.Use(middleware.BodyLimit(cfg.MaxRequestBody))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1/oas").Subrouter()

	staff := api.PathPrefix("/journals").Subrouter()
	staff.Use(middleware.RequireRole(jwt, auth.RoleStaff))
	staff.Use(middleware.RequireJournal("code"))
	settings.NewHandler(provider).Register(staff)

	editors := api.NewRoute().Subrouter()
	editors.Use(middleware.RequireRole(jwt, auth.RoleEditor))
	broadcast.NewHandler(service).Register(editors)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.PublishedTopic, cfg.KafkaGroupID)
	go func() {
		logger.Log.WithField("topic", cfg.PublishedTopic).Info("Listening for published articles")
		if err := consumer.Consume(ctx, service.HandleEvent); err != nil && !errors.Is(err, context.Canceled) {
			logger.Log.WithError(err).Error("Article consumer stopped")
		}
	}()

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		}).Info("OA Switchboard broadcaster started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down OA Switchboard broadcaster...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("Server forced to shutdown")
	}
	if err := consumer.Close(); err != nil {
		logger.Log.WithError(err).Warn("Failed to close article consumer")
	}

	logger.Log.Info("OA Switchboard broadcaster stopped")
}
