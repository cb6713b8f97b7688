package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/bnema/smsman-cli/internal/adapters/render/report"
	tomlrepo "github.com/bnema/smsman-cli/internal/adapters/repo/toml"
	chainstore "github.com/bnema/smsman-cli/internal/adapters/secrets/chain"
	filestore "github.com/bnema/smsman-cli/internal/adapters/secrets/file"
	passstore "github.com/bnema/smsman-cli/internal/adapters/secrets/pass"
	"github.com/bnema/smsman-cli/internal/adapters/smsman"
	"github.com/bnema/smsman-cli/internal/application"
	"github.com/bnema/smsman-cli/internal/config"
	"github.com/bnema/smsman-cli/internal/logging"
	"github.com/bnema/smsman-cli/internal/metrics"
	"github.com/bnema/smsman-cli/internal/ports"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

type app struct {
	viper *viper.Viper
	cfg   config.Config

	logger    *zap.Logger
	metrics   *metrics.Metrics
	clock     ports.Clock
	store     *application.Store
	registry  *application.Registry
	engine    *application.Engine
	scheduler *application.Scheduler
	explorer  *application.Explorer
	ledger    *application.Ledger

	reportRenderer func(report.Report, report.Options) (string, error)
	wired          bool
}

func newApp(v *viper.Viper) *app {
	return &app{
		viper:          v,
		clock:          ports.SystemClock{},
		reportRenderer: report.Render,
	}
}

func (a *app) wire(ctx context.Context, logOutput io.Writer) error {
	if a.wired {
		return nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolve home directory: %w", err)
	}

	cfg, err := config.Load(a.viper, homeDir, smsman.DefaultBaseURL)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, logOutput)
	if err != nil {
		return fmt.Errorf("wire logger: %w", err)
	}

	secrets, err := newSecretStore(cfg)
	if err != nil {
		return fmt.Errorf("wire secret store: %w", err)
	}

	repo, err := tomlrepo.NewRepository(a.viper)
	if err != nil {
		return fmt.Errorf("wire state repository: %w", err)
	}

	state, err := application.LoadState(ctx, repo, secrets, logger)
	if err != nil {
		return err
	}

	m := metrics.New()
	store := application.NewStore(state, repo)
	store.Subscribe(m.ObserveState)

	gateway := metrics.InstrumentGateway(
		smsman.NewClient(cfg.APIBaseURL, &http.Client{Timeout: cfg.APITimeout}),
		m,
	)
	explorer := application.NewExplorer(store, gateway, logger)
	engine := application.NewEngine(store, gateway, explorer, a.clock, application.EngineConfig{
		RemovalGrace: cfg.RemovalGrace,
		Logger:       logger,
	})

	a.cfg = cfg
	a.logger = logger
	a.metrics = m
	a.store = store
	a.explorer = explorer
	a.engine = engine
	a.scheduler = application.NewScheduler(store, engine, gateway, application.SchedulerConfig{
		Interval: cfg.PollInterval,
		Metrics:  m,
		Logger:   logger,
	})
	a.registry = application.NewRegistry(store, secrets, a.clock, logger)
	a.ledger = application.NewLedger(store)
	a.wired = true

	logger.Debug("wired",
		zap.String("state_path", repo.Path()),
		zap.String("api_base_url", cfg.APIBaseURL),
		zap.String("secrets_backend", cfg.SecretsBackend),
	)
	return nil
}

func newSecretStore(cfg config.Config) (ports.SecretStore, error) {
	pass := passstore.Options{Binary: cfg.PassBinary, Prefix: cfg.PassPrefix}

	switch cfg.SecretsBackend {
	case config.BackendPass:
		return passstore.NewStore(pass), nil
	case config.BackendFile:
		return filestore.NewStore(cfg.SecretsDir), nil
	default:
		return chainstore.NewPassFirstWithFileFallback(pass, cfg.SecretsDir)
	}
}

// close stops background work and flushes metrics and logs. Safe to call when wiring failed.
func (a *app) close() error {
	if !a.wired {
		return nil
	}
	a.wired = false

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.scheduler.Stop(ctx)
	a.engine.Close()

	var errs []error
	if path := a.cfg.MetricsTextfile; path != "" {
		if err := a.metrics.WriteTextfile(path); err != nil {
			errs = append(errs, fmt.Errorf("write metrics textfile: %w", err))
		}
	}
	// Sync fails on plain terminals; nothing to report there.
	_ = a.logger.Sync()

	return errors.Join(errs...)
}
