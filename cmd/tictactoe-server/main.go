package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BrandonDHaskell/tictactoe/internal/config"
	"github.com/BrandonDHaskell/tictactoe/internal/db"
	"github.com/BrandonDHaskell/tictactoe/internal/grpcapi"
	"github.com/BrandonDHaskell/tictactoe/internal/httpapi"
	"github.com/BrandonDHaskell/tictactoe/internal/tictactoe/audit"
	"github.com/BrandonDHaskell/tictactoe/internal/tictactoe/service"
	"github.com/BrandonDHaskell/tictactoe/internal/tictactoe/store"
	"github.com/BrandonDHaskell/tictactoe/internal/tictactoe/store/memory"
	"github.com/BrandonDHaskell/tictactoe/internal/tictactoe/store/sqlite"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "tictactoe-server ", log.LstdFlags|log.LUTC)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Audit export sink
	var (
		sink   store.AuditEventStore
		prune  store.AuditPruneStore
		export store.AuditExportReader
	)
	switch cfg.AuditSink {
	case config.SinkSQLite:
		conn, err := db.Open(ctx, db.Config{Path: cfg.DBPath, Env: cfg.Env})
		if err != nil {
			logger.Fatalf("open db: %v", err)
		}
		defer conn.Close()

		writer := db.NewWorker(conn)
		defer writer.Close()

		st := sqlite.NewAuditEventStore(conn, writer)
		sink, prune, export = st, st, st
	default:
		st := memory.NewAuditEventStore()
		sink, prune, export = st, st, st
	}

	// Core
	recorder := audit.NewRecorder(logger, audit.WithSinks(sink))
	gameSvc := service.NewGameService(recorder)
	logger.Printf("session %s (audit sink=%s)", recorder.SessionID(), cfg.AuditSink)

	// Retention for exports left by earlier sessions
	pruner := service.NewAuditPruner(prune, service.PrunerConfig{
		RetentionDays: cfg.AuditRetentionDays,
		IntervalHours: cfg.PruneIntervalHours,
		KeepSessionID: recorder.SessionID(),
	}, logger)
	prunerDone := make(chan struct{})
	go func() {
		defer close(prunerDone)
		pruner.Run(ctx)
	}()

	// HTTP
	srv := httpapi.NewServer(httpapi.Dependencies{
		Logger:      logger,
		Addr:        cfg.HTTPAddr,
		GameService: gameSvc,
		Export:      export,
	})

	go func() {
		logger.Printf("listening on %s", cfg.HTTPAddr)
		if err := srv.Start(); err != nil {
			logger.Printf("server error: %v", err)
			stop()
		}
	}()

	// gRPC health
	var health *grpcapi.HealthServer
	if cfg.GRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			logger.Fatalf("grpc listen: %v", err)
		}
		health = grpcapi.NewHealthServer(logger)
		go func() {
			if err := health.Serve(lis); err != nil {
				logger.Printf("grpc error: %v", err)
				stop()
			}
		}()
	}

	<-ctx.Done()

	if health != nil {
		health.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)

	<-prunerDone
}
