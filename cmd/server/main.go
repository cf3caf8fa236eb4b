package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpcadapter "github.com/simaogato/wealthlog-backend/internal/adapter/grpc"
	"github.com/simaogato/wealthlog-backend/internal/adapter/httpapi"
	"github.com/simaogato/wealthlog-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/wealthlog-backend/internal/config"
	"github.com/simaogato/wealthlog-backend/internal/logger"
	"github.com/simaogato/wealthlog-backend/internal/scheduler"
	"github.com/simaogato/wealthlog-backend/internal/usecase/dashboard"
	"github.com/simaogato/wealthlog-backend/internal/usecase/journal"
	"github.com/simaogato/wealthlog-backend/internal/usecase/target"
)

func main() {
	// 1. Configuration and logging
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(logger.Config{})
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.DevMode})

	// 2. Setup Database
	db, err := connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	// 3. Initialize Repositories (Postgres)
	snapshotRepo := postgres.NewSnapshotRepository(db)
	adjustmentRepo := postgres.NewAdjustmentRepository(db)
	targetRepo := postgres.NewTargetRepository(db)

	// 4. Initialize Services (Use Cases)
	journalService := journal.NewJournalService(snapshotRepo, adjustmentRepo, postgres.NewDayRepository(db), log)
	targetService := target.NewTargetService(targetRepo, snapshotRepo, adjustmentRepo, log)
	dashboardService := dashboard.NewDashboardService(snapshotRepo, adjustmentRepo, targetRepo)

	// 5. Background jobs
	sched := scheduler.New(log)
	watcher := target.NewWatcher(targetService, log)
	if err := sched.AddJob(cfg.TargetCheckSchedule, watcher); err != nil {
		log.Fatal().Err(err).Msg("Failed to register target watcher")
	}
	// Prime the watcher so targets already achieved at startup are not announced again
	if err := sched.RunNow(watcher); err != nil {
		log.Warn().Err(err).Msg("Initial target check failed")
	}
	sched.Start()

	// 6. Start gRPC Server
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(log.With().Str("component", "grpc").Logger()),
			grpcadapter.AuthInterceptor(cfg.APIToken),
		),
	)
	grpcadapter.RegisterJournalServiceServer(grpcServer, grpcadapter.NewServer(journalService, targetService, dashboardService))
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.GRPCAddr).Msg("Failed to listen")
	}

	go func() {
		log.Info().Str("addr", cfg.GRPCAddr).Msg("gRPC server listening")
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatal().Err(err).Msg("Failed to serve gRPC server")
		}
	}()

	// 7. Start HTTP Server
	httpServer := httpapi.New(httpapi.Config{
		Port:     cfg.HTTPPort,
		APIToken: cfg.APIToken,
		DevMode:  cfg.DevMode,
		Log:      log,
		Reader:   dashboardService,
	})

	go func() {
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to serve HTTP server")
		}
	}()

	// Graceful shutdown
	waitForShutdown(log, grpcServer, httpServer, sched)
}

// connect retries until Postgres accepts connections, for containers starting together
func connect(dsn string, log zerolog.Logger) (*postgres.DB, error) {
	var err error
	for attempt := 1; attempt <= 5; attempt++ {
		var db *postgres.DB
		if db, err = postgres.NewDB(dsn); err == nil {
			return db, nil
		}
		log.Warn().Err(err).Int("attempt", attempt).Msg("Database not ready, retrying")
		time.Sleep(2 * time.Second)
	}
	return nil, err
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the servers
func waitForShutdown(log zerolog.Logger, grpcServer *grpclib.Server, httpServer *httpapi.Server, sched *scheduler.Scheduler) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	grpcServer.GracefulStop()
	log.Info().Msg("gRPC server stopped")

	sched.Stop()
}
