package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/taskmanager-api/internal/auth"
	"github.com/redmonkez12/taskmanager-api/internal/config"
	"github.com/redmonkez12/taskmanager-api/internal/database"
	httpServer "github.com/redmonkez12/taskmanager-api/internal/http"
	"github.com/redmonkez12/taskmanager-api/internal/logging"
	"github.com/redmonkez12/taskmanager-api/internal/ratelimit"
	"github.com/redmonkez12/taskmanager-api/internal/task"
	"github.com/redmonkez12/taskmanager-api/internal/user"
)

func runServe(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"db_driver", cfg.Database.Driver,
	)

	// Initialize database connection
	db, err := openDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		applied, err := database.Migrate(cmd.Context(), db)
		if err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		logger.Info("database migrated", "applied", len(applied))
	}

	// Initialize repositories
	userRepo := user.NewRepository(db)
	taskRepo := task.NewRepository(db)

	hasher := newPasswordHasher(cfg.Auth)
	tokens, err := newTokenService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	// Rate limiting is optional; a nil limiter disables it
	var rateLimiter auth.RateLimiter
	if cfg.Redis.Enabled {
		redisClient, err := ratelimit.Connect(cmd.Context(), cfg.Redis.Address(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fmt.Errorf("failed to initialize Redis: %w", err)
		}
		defer redisClient.Close()

		rateLimiter = ratelimit.NewLimiter(redisClient, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
	} else {
		logger.Warn("rate limiting disabled", "reason", "REDIS_ENABLED=false")
	}

	// Initialize services
	authService := auth.NewService(userRepo, hasher, tokens, logger, cfg.Auth.TokenTTL)
	taskService := task.NewService(taskRepo, cfg.Tasks.EnforceTransitions)

	// Initialize HTTP handlers
	exposeInternal := cfg.Server.IsDevelopment()
	router := httpServer.NewRouter(cfg, httpServer.Handlers{
		Auth:           auth.NewHandler(authService, rateLimiter, exposeInternal),
		AuthMiddleware: auth.NewMiddleware(authService),
		Task:           task.NewHandler(taskService, exposeInternal),
	}, logger)

	// Initialize HTTP server
	server := httpServer.NewServer(
		":"+cfg.Server.Port,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-shutdown:
		logger.Info("received signal", "signal", sig.String())

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

func openDB(cfg config.DatabaseConfig) (*bun.DB, error) {
	db, err := database.Open(cfg.Driver, cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return db, nil
}

func newPasswordHasher(cfg config.AuthConfig) auth.PasswordHasher {
	if cfg.PasswordHasher == config.HasherArgon2id {
		return auth.NewArgon2Hasher()
	}
	return auth.NewBcryptHasher(cfg.BcryptRounds)
}

func newTokenService(cfg config.AuthConfig) (auth.TokenService, error) {
	if cfg.TokenStrategy == config.TokenStrategyPaseto {
		svc, err := auth.NewPasetoService([]byte(cfg.PasetoKey))
		if err != nil {
			return nil, err
		}
		return svc, nil
	}
	return auth.NewJWTService(cfg.JWTSecret), nil
}
