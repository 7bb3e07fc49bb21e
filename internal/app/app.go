package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/five82/lister/internal/catalog"
	"github.com/five82/lister/internal/config"
	"github.com/five82/lister/internal/pager"
	"github.com/five82/lister/internal/prefs"
	"github.com/five82/lister/internal/source"
	"github.com/five82/lister/internal/state"
	"github.com/five82/lister/internal/ui"
)

// Options configure the browser.
type Options struct {
	PrefsPath   string       // empty uses ~/.config/lister/prefs.toml
	InitialList catalog.Kind // empty uses the saved preference
	Logger      *zap.Logger
}

// Run boots the list browser until the user quits or ctx is cancelled.
func Run(ctx context.Context, cfg config.Config, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs := prefs.Load(prefsPath)
	initial := userPrefs.List
	if opts.InitialList != "" {
		initial = opts.InitialList
	}

	health := &state.Store{}
	lists, err := OpenLists(ctx, cfg, health, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := lists.Close(); err != nil {
			logger.Warn("close lists", zap.Error(err))
		}
	}()

	if cfg.RefreshEvery > 0 {
		StartAutoRefresh(ctx, lists.Products, cfg.RefreshEvery, logger.Named("products"))
		StartAutoRefresh(ctx, lists.Contacts, cfg.RefreshEvery, logger.Named("contacts"))
	}

	logger.Info("starting browser",
		zap.String("backend", string(cfg.Backend)),
		zap.Int("page_size", cfg.PageSize),
		zap.String("list", string(initial)),
	)
	return ui.Run(ui.Options{
		Context:     ctx,
		Products:    lists.Products,
		Contacts:    lists.Contacts,
		Health:      health,
		Backend:     string(cfg.Backend),
		ThemeName:   userPrefs.Theme,
		PrefsPath:   prefsPath,
		InitialList: initial,
		Logger:      logger.Named("ui"),
	})
}

// Lists holds one controller per list kind and the backend serving them.
type Lists struct {
	Products *pager.Controller[catalog.Product]
	Contacts *pager.Controller[catalog.Contact]

	closers []func() error
}

// OpenLists builds both controllers on the configured backend. Every fetch
// outcome is recorded in health.
func OpenLists(ctx context.Context, cfg config.Config, health *state.Store, logger *zap.Logger) (*Lists, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		products pager.Source[catalog.Product]
		contacts pager.Source[catalog.Contact]
		closers  []func() error
	)

	switch cfg.Backend {
	case config.BackendMemory, "":
		products = source.NewMemory(catalog.SeedProducts(cfg.SeedCount), cfg.PageSize, cfg.FetchDelay)
		contacts = source.NewMemory(catalog.SeedContacts(cfg.SeedCount), cfg.PageSize, cfg.FetchDelay)

	case config.BackendSQLite:
		db, err := openSeeded(ctx, cfg.DBPath, cfg.SeedCount, logger)
		if err != nil {
			return nil, err
		}
		closers = append(closers, db.Close)
		products = db.ProductSource(cfg.PageSize)
		contacts = db.ContactSource(cfg.PageSize)

	case config.BackendHTTP:
		client, err := source.NewClient(cfg.APIBind)
		if err != nil {
			return nil, fmt.Errorf("init api client: %w", err)
		}
		// An unreachable API is not fatal: the lists show the error and
		// can be retried once it comes up.
		if err := client.Health(ctx); err != nil {
			logger.Warn("api not reachable", zap.String("api_bind", cfg.APIBind), zap.Error(err))
		}
		products = source.NewHTTP[catalog.Product](client, catalog.KindProducts, cfg.PageSize)
		contacts = source.NewHTTP[catalog.Contact](client, catalog.KindContacts, cfg.PageSize)

	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	return &Lists{
		Products: pager.New(source.Observe(products, health), pager.WithLogger(logger.Named("products"))),
		Contacts: pager.New(source.Observe(contacts, health), pager.WithLogger(logger.Named("contacts"))),
		closers:  closers,
	}, nil
}

// Close disposes both controllers and releases the backend.
func (l *Lists) Close() error {
	l.Products.Close()
	l.Contacts.Close()
	var errs []error
	for _, fn := range l.closers {
		errs = append(errs, fn())
	}
	return errors.Join(errs...)
}

// openSeeded opens the database at path and seeds it when the product table
// is empty.
func openSeeded(ctx context.Context, path string, count int, logger *zap.Logger) (*source.SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := source.OpenSQLite(ctx, path)
	if err != nil {
		return nil, err
	}
	n, err := db.Count(ctx, catalog.KindProducts)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if n > 0 {
		return db, nil
	}
	if err := db.Seed(ctx, catalog.SeedProducts(count), catalog.SeedContacts(count)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seed %s: %w", path, err)
	}
	logger.Info("seeded empty database", zap.String("path", path), zap.Int("count", count))
	return db, nil
}
