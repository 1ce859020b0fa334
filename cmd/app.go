package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/hotel-reservations/internal/auth"
	"github.com/example/hotel-reservations/internal/config"
	"github.com/example/hotel-reservations/internal/db"
	"github.com/example/hotel-reservations/internal/engine"
	"github.com/example/hotel-reservations/internal/infrastructure/filestore"
	"github.com/example/hotel-reservations/internal/infrastructure/postgres"
	"github.com/example/hotel-reservations/internal/infrastructure/redisstore"
	"github.com/example/hotel-reservations/internal/logging"
	"github.com/example/hotel-reservations/internal/metrics"
	"github.com/example/hotel-reservations/internal/migrate"
	"github.com/example/hotel-reservations/internal/receipt"
	"github.com/example/hotel-reservations/internal/store"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	configFile    string
	dataDir       string
	backend       string
	adminPassword string
}

type app struct {
	cfg      config.Config
	log      *zap.Logger
	engine   *engine.Engine
	metrics  *metrics.Metrics
	gate     *auth.Gate
	receipts *receipt.Issuer // nil without RECEIPT_HASH_KEY

	// sessionPassword is the shell's --admin-password, used when a line
	// does not pass its own.
	sessionPassword string

	closers []func() error
}

type appKey struct{}

func loadConfig(opts *rootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return config.Config{}, err
	}
	if opts.dataDir != "" {
		cfg.DataDir = opts.dataDir
	}
	if opts.backend != "" {
		cfg.StoreBackend = opts.backend
	}
	return cfg, nil
}

func openApp(ctx context.Context, opts *rootOptions) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: log, metrics: metrics.New()}

	if a.gate, err = auth.NewGate(cfg.AdminPasswordHash); err != nil {
		return nil, err
	}
	if len(cfg.ReceiptHashKey) > 0 {
		if a.receipts, err = receipt.NewIssuer(cfg.ReceiptHashKey, cfg.ReceiptBlockKey); err != nil {
			return nil, err
		}
	}

	gw, err := a.openGateway(ctx)
	if err != nil {
		_ = a.closeStores()
		return nil, err
	}
	policy, err := engine.ParsePolicy(cfg.PersistPolicy)
	if err != nil {
		_ = a.closeStores()
		return nil, err
	}
	a.engine, err = engine.Open(ctx, engine.Options{
		Gateway: gw,
		Policy:  policy,
		Logger:  log,
		Metrics: a.metrics,
	})
	if err != nil {
		_ = a.closeStores()
		return nil, err
	}
	return a, nil
}

func (a *app) openGateway(ctx context.Context) (store.Gateway, error) {
	switch a.cfg.StoreBackend {
	case config.BackendPostgres:
		d, err := db.Open(ctx, a.cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error { d.Close(); return nil })
		if err := d.Ping(ctx); err != nil {
			return nil, fmt.Errorf("db ping: %w", err)
		}
		if _, err := migrate.Up(ctx, d); err != nil {
			return nil, err
		}
		return postgres.NewStore(d, a.log), nil
	case config.BackendRedis:
		client := redisstore.NewClient(redisstore.Options{
			Addr:     a.cfg.RedisAddr,
			Password: a.cfg.RedisPassword,
			DB:       a.cfg.RedisDB,
		})
		s := redisstore.New(client, a.cfg.RedisKeyPrefix, a.log)
		a.closers = append(a.closers, s.Close)
		if err := redisstore.Ping(ctx, client); err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendFile, "":
		return filestore.New(a.cfg.DataDir, a.log)
	default:
		return nil, fmt.Errorf("invalid STORE_BACKEND %q", a.cfg.StoreBackend)
	}
}

func (a *app) closeStores() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// close flushes the engine, writes the metrics textfile and releases the
// store connections.
func (a *app) close(ctx context.Context) error {
	err := a.engine.Close(ctx)
	if a.cfg.MetricsTextfile != "" {
		if werr := a.metrics.WriteTextfile(a.cfg.MetricsTextfile); werr != nil {
			a.log.Warn("could not write metrics textfile", zap.String("path", a.cfg.MetricsTextfile), zap.Error(werr))
		}
	}
	err = errors.Join(err, a.closeStores())
	_ = a.log.Sync()
	return err
}

func (a *app) requireAdmin(opts *rootOptions) error {
	pw := opts.adminPassword
	if pw == "" {
		pw = a.sessionPassword
	}
	return a.gate.Require(pw)
}

// withApp runs fn against the shell's open app when there is one, and
// otherwise opens an app for this command alone.
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if a, ok := ctx.Value(appKey{}).(*app); ok {
		return fn(ctx, a)
	}
	a, err := openApp(ctx, opts)
	if err != nil {
		return err
	}
	err = fn(ctx, a)
	return errors.Join(err, a.close(ctx))
}
