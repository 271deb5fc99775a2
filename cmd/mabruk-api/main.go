package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/edvin/mabruk/internal/api"
	"github.com/edvin/mabruk/internal/config"
	"github.com/edvin/mabruk/internal/core"
	"github.com/edvin/mabruk/internal/db"
	"github.com/edvin/mabruk/internal/logging"
	"github.com/edvin/mabruk/internal/metrics"
	"github.com/edvin/mabruk/internal/seed"
	"github.com/edvin/mabruk/internal/store"
	"github.com/edvin/mabruk/internal/store/memory"
	"github.com/edvin/mabruk/internal/store/postgres"
)

func main() {
	if len(os.Args) >= 2 && os.Args[1] == "seed" {
		runSeed(os.Args[2:])
		return
	}

	migrateFlag := flag.Bool("migrate", false, "Run database migrations before starting")
	migrateDirFlag := flag.String("migrate-dir", "migrations", "Migration files directory")
	seedFlag := flag.String("seed", "", "Seed fixture to load before serving")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = logger.WithContext(ctx)

	if *migrateFlag && cfg.StoreDriver == config.StoreDriverPostgres {
		logger.Info().Str("dir", *migrateDirFlag).Msg("running database migrations")
		if err := db.RunMigrations(ctx, cfg.DatabaseURL, *migrateDirFlag); err != nil {
			logger.Fatal().Err(err).Msg("migration failed")
		}
	}

	st, closeStore, err := openStore(ctx, cfg, true)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open store")
	}
	defer closeStore()

	services := core.NewServices(st)

	if *seedFlag != "" {
		if err := loadFixture(ctx, services, *seedFlag); err != nil {
			logger.Fatal().Err(err).Msg("seed failed")
		}
	}

	srv := api.NewServer(logger, services, cfg)

	httpServer := &http.Server{
		Addr:         cfg.HTTPListenAddr,
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPListenAddr).Msg("starting API server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown incomplete")
	}
}

// openStore connects the configured backend. Pool gauges are registered
// only for the serving process.
func openStore(ctx context.Context, cfg *config.Config, withMetrics bool) (*store.Store, func(), error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		zerolog.Ctx(ctx).Warn().Msg("using in-memory store, data is lost on exit")
		return memory.New(), func() {}, nil
	}
	if cfg.DatabaseURL == "" {
		return nil, nil, errors.New("DATABASE_URL is required for the postgres store")
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if withMetrics {
		metrics.RegisterPgxPoolMetrics(prometheus.DefaultRegisterer, pool)
	}
	return postgres.New(pool, pool.Ping), pool.Close, nil
}

func loadFixture(ctx context.Context, services *core.Services, path string) error {
	f, err := seed.LoadFile(path)
	if err != nil {
		return err
	}
	sum, err := seed.NewSeeder(services).Run(ctx, f)
	if err != nil {
		return err
	}
	zerolog.Ctx(ctx).Info().
		Interface("created", sum.Created).
		Interface("existing", sum.Existing).
		Str("file", path).
		Msg("seed complete")
	return nil
}

func runSeed(args []string) {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	file := fs.String("file", "seeds/dev.yaml", "Seed fixture file")
	timeout := fs.Duration("timeout", time.Minute, "Overall time limit")
	fs.Parse(args)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.StoreDriver != config.StoreDriverPostgres {
		fmt.Fprintln(os.Stderr, "error: seed needs STORE_DRIVER=postgres; use -seed on the server for the memory store")
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)
	ctx, cancel := context.WithTimeout(logger.WithContext(context.Background()), *timeout)
	defer cancel()

	st, closeStore, err := openStore(ctx, cfg, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	if err := loadFixture(ctx, core.NewServices(st), *file); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
