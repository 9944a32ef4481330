package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/alexanderramin/chantier/internal/catalog"
	"github.com/alexanderramin/chantier/internal/cli"
	"github.com/alexanderramin/chantier/internal/config"
	"github.com/alexanderramin/chantier/internal/db"
	"github.com/alexanderramin/chantier/internal/lock"
	"github.com/alexanderramin/chantier/internal/logging"
	"github.com/alexanderramin/chantier/internal/metrics"
	"github.com/alexanderramin/chantier/internal/notify"
	"github.com/alexanderramin/chantier/internal/repository"
	"github.com/alexanderramin/chantier/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	// Catalog problems fail before anything touches the database.
	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		if cat, err = catalog.LoadFile(cfg.CatalogPath); err != nil {
			return err
		}
	}

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	projectRepo := repository.NewSQLiteProjectRepo(database)
	scheduleRepo := repository.NewSQLiteScheduleRepo(database)
	alertRepo := repository.NewSQLiteAlertRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	registry, m := metrics.NewRegistry()
	opts := []service.ScheduleOption{
		service.WithLogger(logger),
		service.WithObservers(
			service.NewLogUseCaseObserver(logger),
			service.NewMetricsUseCaseObserver(m),
		),
	}

	if cfg.Redis.Addr != "" {
		rdb := lock.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer rdb.Close()
		opts = append(opts, service.WithLocker(lock.NewRedisLocker(rdb, cfg.LockTTL(), logger)))
		logger.Debug("using redis project lock", zap.String("addr", cfg.Redis.Addr))
	}

	if cfg.AMQP.URL != "" {
		pub, err := notify.DialAMQP(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			return err
		}
		defer pub.Close()
		opts = append(opts, service.WithPublisher(pub))
	} else {
		opts = append(opts, service.WithPublisher(notify.NewLogPublisher(logger)))
	}

	app := &cli.App{
		Projects:  service.NewProjectService(projectRepo),
		Schedules: service.NewScheduleService(cat, projectRepo, scheduleRepo, alertRepo, uow, opts...),
		Catalog:   cat,
	}

	// Detect interactive terminal for the edit form.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	execErr := rootCmd.ExecuteContext(ctx)

	if cfg.MetricsFile != "" {
		if err := metrics.WriteToTextfile(cfg.MetricsFile, registry); err != nil {
			logger.Warn("writing metrics file failed", zap.Error(err))
		}
	}
	return execErr
}
