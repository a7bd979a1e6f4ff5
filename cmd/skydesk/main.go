package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"

	"amonic/skydesk/internal/api"
	"amonic/skydesk/internal/common"
	"amonic/skydesk/internal/config"
	"amonic/skydesk/internal/db"
	"amonic/skydesk/internal/db/repositories"
	"amonic/skydesk/internal/logging"
	"amonic/skydesk/internal/metrics"
	"amonic/skydesk/internal/routes"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

func run() error {
	var envFiles []string
	var port string

	flagSet := pflag.NewFlagSet("skydesk", pflag.ContinueOnError)
	flagSet.StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load before reading the environment")
	flagSet.StringVar(&port, "port", "", "listen port (overrides SKYDESK_PORT)")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(envFiles...)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if port != "" {
		cfg.Port = port
	}

	if err := logging.Init(cfg.AppEnv, cfg.LogLevel); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logging.Close()

	logging.Info("SkyDesk starting up",
		"environment", cfg.AppEnv,
		"backend", cfg.BackendBaseURL,
		"session_store", cfg.SessionStore,
		"journal", cfg.JournalDriver,
	)

	checks := map[string]api.Pinger{}

	var store common.SessionStore
	switch cfg.SessionStore {
	case "redis":
		client := common.NewRedisClient(cfg.RedisAddr(), cfg.RedisPassword, cfg.RedisDB)
		defer client.Close()
		store = common.NewRedisSessionStore(client)
		checks["sessions"] = api.PingFunc(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
	default:
		store = common.NewMemorySessionStore(10 * time.Minute)
	}

	repos := &api.Repositories{}
	if cfg.JournalEnabled() {
		orm, err := db.InitJournalORM(cfg.JournalDriver, cfg.JournalDSN)
		if err != nil {
			return err
		}
		sqlDB, err := db.InitJournalSQL(cfg.JournalDriver, cfg.JournalDSN, orm)
		if err != nil {
			return err
		}
		defer sqlDB.Close()
		repos.Journal = repositories.NewJournalRepo(orm)
		repos.JournalQuery = repositories.NewJournalQueryRepo(sqlDB)
	}

	metricsReg := metrics.NewMetricsRegistry(prometheus.DefaultRegisterer)

	deps, err := api.InitDependencies(cfg, metricsReg, store, repos)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	for name, check := range checks {
		deps.Checks[name] = check
	}

	upSince := time.Now()
	router := routes.RegisterRoutes(deps, prometheus.DefaultGatherer, upSince)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logging.Info("Server starting", "port", cfg.Port)
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
	case <-ctx.Done():
		logging.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
