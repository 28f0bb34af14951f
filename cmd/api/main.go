package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/smarttrack/smarttrack-backend-go/internal/config"
	appHTTP "github.com/smarttrack/smarttrack-backend-go/internal/handler/http"
	"github.com/smarttrack/smarttrack-backend-go/internal/pkg/civil"
	"github.com/smarttrack/smarttrack-backend-go/internal/pkg/cron"
	"github.com/smarttrack/smarttrack-backend-go/internal/pkg/database"
	"github.com/smarttrack/smarttrack-backend-go/internal/pkg/jwt"
	"github.com/smarttrack/smarttrack-backend-go/internal/pkg/lock"
	"github.com/smarttrack/smarttrack-backend-go/internal/repository/postgresql"
	attendanceService "github.com/smarttrack/smarttrack-backend-go/internal/service/attendance"
	serviceAuth "github.com/smarttrack/smarttrack-backend-go/internal/service/auth"
	officeService "github.com/smarttrack/smarttrack-backend-go/internal/service/office"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.SlogLevel(),
	})).With(slog.String("app", "smarttrack"), slog.String("env", cfg.App.Env)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := civil.ParseOffset(cfg.Attendance.UTCOffset)
	if err != nil {
		return fmt.Errorf("invalid ATTENDANCE_UTC_OFFSET: %w", err)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	applied, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	if len(applied) > 0 {
		slog.Info("Applied migrations", "versions", applied)
	}

	userRepo := postgresql.NewUserRepository(db)
	officeRepo := postgresql.NewOfficeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)

	var locker lock.Locker = lock.NewKeyedMutex()
	if cfg.Redis.Addr != "" {
		redisClient, err := lock.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer redisClient.Close()
		locker = lock.NewRedisLocker(redisClient, "smarttrack:lock:", cfg.Redis.LockTTL)
		slog.Info("Using redis attendance locks", "addr", cfg.Redis.Addr)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	authService := serviceAuth.NewAuthService(userRepo, JWTService)
	officeSvc := officeService.NewOfficeService(officeRepo)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, officeRepo, userRepo, locker, loc)

	authHandler := appHTTP.NewAuthHandler(authService)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	officeHandler := appHTTP.NewOfficeHandler(officeSvc)

	router := appHTTP.NewRouter(cfg.App, JWTService, authHandler, attendanceHandler, officeHandler)

	scheduler := cron.NewScheduler(ctx)
	cron.NewAttendanceJobs(attendanceRepo, loc, cfg.Attendance.StaleCheckInterval).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
