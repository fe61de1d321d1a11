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

	"github.com/gin-gonic/gin"

	"github.com/weiawesome/prefixid/id-service/internal/config"
	"github.com/weiawesome/prefixid/id-service/internal/domain"
	"github.com/weiawesome/prefixid/id-service/internal/generator"
	"github.com/weiawesome/prefixid/id-service/internal/handler"
	"github.com/weiawesome/prefixid/id-service/internal/repository"
	"github.com/weiawesome/prefixid/id-service/internal/service"
	"github.com/weiawesome/prefixid/pkg/database"
	"github.com/weiawesome/prefixid/pkg/jwt"
	pkglog "github.com/weiawesome/prefixid/pkg/log"
	"github.com/weiawesome/prefixid/pkg/middleware"
	"github.com/weiawesome/prefixid/pkg/payload"
	"github.com/weiawesome/prefixid/pkg/pubsub"
	"github.com/weiawesome/prefixid/pkg/typeid"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	pkglog.Init(pkglog.Config{
		Level:       cfg.Log.Level,
		Pretty:      cfg.Log.Pretty,
		ServiceName: "id-service",
	})
	logger := pkglog.L()

	logger.Info().Msg("starting id-service")

	// Initialize Snowflake source
	snowflake, err := payload.NewSnowflake(cfg.Snowflake.MachineID, cfg.Snowflake.Epoch)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create snowflake source")
	}
	logger.Info().Int64("machine_id", cfg.Snowflake.MachineID).Int64("epoch", cfg.Snowflake.Epoch).Msg("snowflake source initialized")

	// Register configured kinds
	kinds := make([]generator.Kind, len(cfg.Kinds))
	for i, k := range cfg.Kinds {
		kinds[i] = generator.Kind{Prefix: k.Prefix, Width: k.Width, Source: k.Source}
	}
	generators, err := generator.NewSet(typeid.Default(), generator.NewSources(snowflake), kinds)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to register kinds")
	}
	for _, g := range generators.List() {
		logger.Info().Str(pkglog.FieldPrefix, g.Spec().Prefix.String()).Int(pkglog.FieldWidth, g.Spec().Width).Str(pkglog.FieldSource, g.Source()).Msg("kind registered")
	}

	// Issued-id ledger
	var ledger repository.LedgerRepository = repository.NoopLedgerRepository{}
	if cfg.Database.Driver != "" {
		db, err := database.New(&database.Config{
			Driver:          cfg.Database.Driver,
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			DBName:          cfg.Database.DBName,
			SSLMode:         cfg.Database.SSLMode,
			FilePath:        cfg.Database.FilePath,
			LogLevel:        cfg.Database.LogLevel,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		if err := database.AutoMigrate(db, &domain.IssuedIDModel{}); err != nil {
			logger.Fatal().Err(err).Msg("failed to auto-migrate")
		}
		logger.Info().Str("driver", cfg.Database.Driver).Msg("ledger enabled")
		ledger = repository.NewGormLedgerRepository(db)
	} else {
		logger.Info().Msg("ledger disabled, no database driver configured")
	}

	// Event bus for issued batches
	publisher, err := pubsub.NewPublisher(cfg.PubSub)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create publisher")
	}
	defer publisher.Close()
	if cfg.PubSub.Driver != "" {
		logger.Info().Str("driver", cfg.PubSub.Driver).Msg("issued events enabled")
	}

	// Initialize service
	idService, err := service.NewIDService(generators, ledger, publisher, cfg.Server.MaxBatch)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create id service")
	}

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(pkglog.GinMiddleware(logger))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Token checks for issuance
	var authMiddleware *middleware.AuthMiddleware
	if cfg.Auth.Secret != "" {
		manager, err := jwt.NewManager(cfg.Auth.Secret, cfg.Auth.Issuer, time.Duration(cfg.Auth.TokenTTL)*time.Hour)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create jwt manager")
		}
		authMiddleware = middleware.NewAuthMiddleware(manager)
		logger.Info().Str("issuer", cfg.Auth.Issuer).Msg("issuance requires a bearer token")
	} else {
		logger.Warn().Msg("auth disabled, issuance is open")
	}

	handler.NewHandler(idService, authMiddleware).RegisterRoutes(r)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", addr).Int("max_batch", cfg.Server.MaxBatch).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down id-service")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	logger.Info().Msg("id-service stopped")
}
