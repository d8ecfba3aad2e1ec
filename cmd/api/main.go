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

	fb "firebase.google.com/go/v4"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"io.winapps.traveljournal/internal/config"
	"io.winapps.traveljournal/internal/db"
	firebaseutil "io.winapps.traveljournal/internal/firebase"
	"io.winapps.traveljournal/internal/geocode"
	"io.winapps.traveljournal/internal/handlers"
	"io.winapps.traveljournal/internal/logger"
	"io.winapps.traveljournal/internal/metrics"
	"io.winapps.traveljournal/internal/middleware"
	"io.winapps.traveljournal/internal/repository"
	"io.winapps.traveljournal/internal/storage"
	"io.winapps.traveljournal/internal/upload"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "traveljournal",
		Short:         "Travel journal server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create the database tables",
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrate(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "sweep",
			Short: "Delete uploaded photos that no entry references",
			RunE: func(cmd *cobra.Command, args []string) error {
				return sweepOnce(cmd.Context())
			},
		},
	)

	return rootCmd
}

// app holds the process wide clients every command shares.
type app struct {
	cfg      *config.Config
	logger   *zap.SugaredLogger
	postgres *pgxpool.Pool
	redis    *redis.Client
	firebase *fb.App
	registry *prometheus.Registry
	metrics  *metrics.Metrics
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.NewLogger(cfg.Env, cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	postgresDB, err := db.InitPostgres(cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.NewMetrics(registry)
	if err != nil {
		postgresDB.Close()
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	return &app{
		cfg:      cfg,
		logger:   log,
		postgres: postgresDB,
		registry: registry,
		metrics:  m,
	}, nil
}

// connectRemote opens Redis and Firebase, which only the server and the
// sweeper need.
func (a *app) connectRemote(ctx context.Context) error {
	redisClient, err := db.InitRedis(a.cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to initialize Redis: %w", err)
	}
	a.redis = redisClient

	firebaseApp, err := firebaseutil.InitFirebase(ctx, a.cfg.Firebase)
	if err != nil {
		return fmt.Errorf("failed to initialize Firebase: %w", err)
	}
	a.firebase = firebaseApp
	return nil
}

func (a *app) close() {
	if a.redis != nil {
		a.redis.Close()
	}
	a.postgres.Close()
	_ = a.logger.Sync()
}

func migrate(ctx context.Context) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := db.CreateTables(ctx, a.postgres); err != nil {
		return err
	}
	a.logger.Infow("Database tables ready")
	return nil
}

func sweepOnce(ctx context.Context) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.connectRemote(ctx); err != nil {
		return err
	}
	store, err := storage.NewObjectStore(ctx, a.cfg, a.firebase)
	if err != nil {
		return err
	}

	sweeper := upload.NewSweeper(repository.NewUploadRepository(a.postgres), store, a.cfg.Sweep.Grace, a.logger, a.metrics)
	removed, err := sweeper.Sweep(ctx)
	if err != nil {
		return err
	}
	a.logger.Infow("Sweep finished", "removed", removed)
	return nil
}

func serve(ctx context.Context) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.connectRemote(ctx); err != nil {
		return err
	}
	if err := db.CreateTables(ctx, a.postgres); err != nil {
		return err
	}

	cfg, log := a.cfg, a.logger

	authClient, err := firebaseutil.GetAuthClient(ctx, a.firebase)
	if err != nil {
		return fmt.Errorf("failed to get Firebase Auth client: %w", err)
	}
	authenticator := middleware.NewAuthenticator(authClient, a.redis, cfg.Redis.SessionTTL, log)

	store, err := storage.NewObjectStore(ctx, cfg, a.firebase)
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}

	entryStore := repository.NewCachedEntryRepository(
		repository.NewEntryRepository(a.postgres), a.redis, cfg.Redis.EntryTTL, log)
	uploads := repository.NewUploadRepository(a.postgres)
	orchestrator := upload.NewOrchestrator(store, uploads, upload.Options{
		Concurrency: cfg.Upload.Concurrency,
		MaxFiles:    cfg.Upload.MaxFiles,
		MaxBytes:    cfg.Upload.MaxBytes,
		Timeout:     cfg.Upload.Timeout,
	}, log, a.metrics)

	sweeper := upload.NewSweeper(uploads, store, cfg.Sweep.Grace, log, a.metrics)
	if cfg.Sweep.Enabled {
		if err := sweeper.Start(cfg.Sweep.Schedule); err != nil {
			return fmt.Errorf("failed to schedule sweeper: %w", err)
		}
		defer sweeper.Stop()
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	router := gin.New()
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RequestLoggingMiddleware(log, a.metrics))
	router.Use(middleware.RecoveryMiddleware(log))
	router.SetHTMLTemplate(handlers.Templates())

	// Initialize handlers
	entryHandler := handlers.NewEntryHandler(entryStore, orchestrator, cfg.RemoteTimeout, log)
	locationHandler := handlers.NewLocationHandler(geocode.NewClient(cfg.Geocoder, log, a.metrics), log)
	pageHandler := handlers.NewPageHandler(entryHandler, cfg.Firebase, authClient, !cfg.IsDevelopment())

	// Define routes
	v1 := router.Group("/api/v1")
	{
		// Protected entries routes
		entries := v1.Group("/entries")
		entries.Use(authenticator.AuthMiddleware())
		{
			entries.POST("/list-entries", entryHandler.ListEntries)
			entries.POST("/get-entry", entryHandler.GetEntry)
			entries.POST("/create-entry", entryHandler.CreateEntry)
			entries.POST("/update-entry", entryHandler.UpdateEntry)
			entries.POST("/delete-entry", entryHandler.DeleteEntry)
			entries.POST("/add-photos", entryHandler.AddPhotos)
			entries.POST("/remove-photo", entryHandler.RemovePhoto)
		}

		explore := v1.Group("/explore")
		explore.Use(authenticator.OptionalAuthMiddleware())
		{
			explore.POST("/list-entries", entryHandler.ExploreEntries)
		}

		v1.GET("/locations/suggest", authenticator.OptionalAuthMiddleware(), locationHandler.SuggestLocations)
	}

	site := router.Group("/")
	site.Use(authenticator.OptionalAuthMiddleware())
	{
		site.GET("/", pageHandler.Home)
		site.GET("/explore", pageHandler.Explore)
		site.GET("/entries/:id", pageHandler.Detail)
		site.POST("/session", pageHandler.SignIn)
		site.POST("/session/delete", pageHandler.SignOut)

		forms := site.Group("/entries", pageHandler.RequireSession)
		{
			forms.POST("", pageHandler.CreateEntry)
			forms.POST("/:id/edit", pageHandler.UpdateEntry)
			forms.POST("/:id/delete", pageHandler.DeleteEntry)
			forms.POST("/:id/photos", pageHandler.AddPhotos)
			forms.POST("/:id/photos/remove", pageHandler.RemovePhoto)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))

	// Serve stored photos when they live on local disk
	if cfg.Storage.Driver == "local" {
		router.Static("/images", cfg.Storage.LocalDir)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    cfg.GetServerAddr(),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("Server starting", "addr", srv.Addr, "env", cfg.Env, "storage", cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}
	log.Infow("Shutting down server...")

	// Give a 5 second timeout for graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Infow("Server exited")
	return nil
}
