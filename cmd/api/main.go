package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/attendance-service/internal/api/http"
	"github.com/spec-kit/attendance-service/internal/api/http/handlers"
	"github.com/spec-kit/attendance-service/internal/auth"
	"github.com/spec-kit/attendance-service/internal/config"
	"github.com/spec-kit/attendance-service/internal/events"
	"github.com/spec-kit/attendance-service/internal/observability"
	"github.com/spec-kit/attendance-service/internal/persistence"
	"github.com/spec-kit/attendance-service/internal/repository"
	"github.com/spec-kit/attendance-service/internal/service"
	"github.com/spec-kit/attendance-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if pool := pg.PoolHandle(); pool != nil {
			if err := persistence.RunMigrations(ctx, pool, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		} else {
			logger.Warn("no postgres pool available; skipping migrations")
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	// The fallback admin password is hashed before the listener starts so no
	// request ever races the bootstrap credential.
	var bootstrapHash string
	if cfg.Bootstrap.AdminPassword != "" {
		bootstrapHash, err = auth.HashPassword(cfg.Bootstrap.AdminPassword, cfg.Auth.BcryptCost)
		if err != nil {
			logger.Fatal("failed to hash bootstrap admin password", zap.Error(err))
		}
		logger.Info("bootstrap admin enabled", zap.String("email", cfg.Bootstrap.AdminEmail))
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	employeeRepo := repository.NewEmployeeRepository(pool)
	attendanceRepo := repository.NewAttendanceRepository(pool)

	dispatcher := events.NewInMemoryDispatcher(logger)

	authService := service.NewAuthService(*cfg, userRepo, bootstrapHash)
	userService := service.NewUserService(userRepo)
	employeeService := service.NewEmployeeService(employeeRepo, dispatcher)
	attendanceService := service.NewAttendanceService(attendanceRepo, employeeRepo, dispatcher)
	statsService := service.NewStatsService(attendanceRepo, employeeRepo, dispatcher, redis.Client, cfg.Stats.CacheTTLSeconds, logger)

	worker.StartStatsWorker(statsService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService, userService),
		Employees:      handlers.NewEmployeesHandler(employeeService),
		Attendance:     handlers.NewAttendanceHandler(attendanceService),
		Stats:          handlers.NewStatsHandler(statsService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
