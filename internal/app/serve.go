package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/five82/lister/internal/catalog"
	"github.com/five82/lister/internal/config"
	"github.com/five82/lister/internal/server"
	"github.com/five82/lister/internal/source"
)

const shutdownTimeout = 5 * time.Second

// Serve exposes the SQLite catalog over HTTP until ctx is cancelled.
func Serve(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := openSeeded(ctx, cfg.DBPath, cfg.SeedCount, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("close database", zap.Error(err))
		}
	}()

	srv := server.New(cfg.APIBind, db, cfg.PageSize, logger.Named("server"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Seed upserts count products and contacts into the database at cfg.DBPath.
// Records are deterministic, so seeding twice leaves the same data.
func Seed(ctx context.Context, cfg config.Config, count int, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if count <= 0 {
		count = cfg.SeedCount
	}
	if cfg.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := source.OpenSQLite(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Seed(ctx, catalog.SeedProducts(count), catalog.SeedContacts(count)); err != nil {
		return fmt.Errorf("seed %s: %w", cfg.DBPath, err)
	}
	for _, kind := range catalog.Kinds {
		n, err := db.Count(ctx, kind)
		if err != nil {
			return err
		}
		logger.Info("seeded", zap.String("list", string(kind)), zap.Int("rows", n))
	}
	return nil
}
