package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/yukikurage/directory-api/internal/config"
	"github.com/yukikurage/directory-api/internal/database"
	"github.com/yukikurage/directory-api/internal/handlers"
	"github.com/yukikurage/directory-api/internal/logger"
	"github.com/yukikurage/directory-api/internal/metrics"
	"github.com/yukikurage/directory-api/internal/middleware"
	"github.com/yukikurage/directory-api/internal/repository"
	"github.com/yukikurage/directory-api/internal/revocation"
	"github.com/yukikurage/directory-api/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

var (
	rootCmd = &cobra.Command{
		Use:   "directory-api",
		Short: "Organizational directory API",
		Long:  `directory-api serves units, positions and persons, and the login statistics built on them`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			lg, err := logger.New(cfg.Log)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer lg.Sync()

			db, err := connect(cfg, lg)
			if err != nil {
				return err
			}
			return database.Migrate(db, lg)
		},
	}
)

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func connect(cfg *config.Config, lg *zap.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func serve(ctx context.Context) error {
	cfg := config.Load()

	lg, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer lg.Sync()

	gin.SetMode(cfg.GinMode)

	db, err := connect(cfg, lg)
	if err != nil {
		return err
	}
	if err := database.Migrate(db, lg); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	revoked, err := revocation.NewStore(ctx, revocation.Type(cfg.RevocationStore), revocation.RedisOptions{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return fmt.Errorf("failed to create revocation store: %w", err)
	}
	if closer, ok := revoked.(io.Closer); ok {
		defer closer.Close()
	}

	tokens, err := services.NewTokenService(cfg.JWTSecret, services.DefaultTokenTTL, services.WithRevocationStore(revoked))
	if err != nil {
		return fmt.Errorf("failed to create token service: %w", err)
	}

	// Repositories
	unitRepo := repository.NewUnitRepository(db)
	positionRepo := repository.NewPositionRepository(db)
	personRepo := repository.NewPersonRepository(db)
	loginRepo := repository.NewLoginEventRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	// Services
	authService := services.NewAuthService(personRepo, loginRepo, tokens, lg)
	unitService := services.NewUnitService(unitRepo)
	positionService := services.NewPositionService(positionRepo)
	personService := services.NewPersonService(personRepo)
	statsService := services.NewStatsService(statsRepo)

	m := metrics.New(cfg.MetricsNS)

	r := gin.New()
	r.Use(middleware.RequestLogger(lg), m.Middleware(), middleware.Recovery(lg))

	r.GET("/health", handlers.Health(func(ctx context.Context) error {
		return database.HealthCheck(ctx, db)
	}))
	r.GET("/metrics", gin.WrapH(m.Handler()))

	handlers.Router{
		Auth:      handlers.NewAuthHandler(authService, m, lg),
		Units:     handlers.NewUnitHandler(unitService, lg),
		Positions: handlers.NewPositionHandler(positionService, lg),
		Persons:   handlers.NewPersonHandler(personService, lg),
		Stats:     handlers.NewStatsHandler(statsService, lg),
		Verifier:  authService,
		Logger:    lg,
	}.RegisterRoutes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		lg.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	lg.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Printf("directory-api: %v", err)
		os.Exit(1)
	}
}
