package app

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/five82/lister/internal/catalog"
	"github.com/five82/lister/internal/config"
	"github.com/five82/lister/internal/server"
	"github.com/five82/lister/internal/source"
	"github.com/five82/lister/internal/state"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DBPath = filepath.Join(t.TempDir(), "data", "lister.db")
	cfg.LogFile = filepath.Join(t.TempDir(), "lister.log")
	cfg.PageSize = 10
	cfg.FetchDelay = 0
	cfg.SeedCount = 25
	return cfg
}

func TestOpenLists_MemoryBackend(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	health := &state.Store{}

	lists, err := OpenLists(ctx, cfg, health, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer lists.Close()

	require.NoError(t, lists.Products.LoadNext(ctx))
	require.NoError(t, lists.Contacts.LoadNext(ctx))

	assert.Len(t, lists.Products.State().Items, 10)
	assert.Len(t, lists.Contacts.State().Items, 10)
	assert.Equal(t, 2, health.Snapshot().Fetches)
}

func TestOpenLists_SQLiteBackendSeedsOnce(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Backend = config.BackendSQLite

	for range 2 {
		lists, err := OpenLists(ctx, cfg, nil, zaptest.NewLogger(t))
		require.NoError(t, err)

		for {
			err := lists.Products.LoadNext(ctx)
			require.NoError(t, err)
			if !lists.Products.State().HasMore {
				break
			}
		}
		st := lists.Products.State()
		assert.Len(t, st.Items, 25)
		assert.Equal(t, 4, st.Cursor)
		require.NoError(t, lists.Close())
	}
}

func TestOpenLists_HTTPBackend(t *testing.T) {
	ctx := context.Background()

	db, err := source.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Seed(ctx, catalog.SeedProducts(15), catalog.SeedContacts(15)))

	ts := httptest.NewServer(server.New("", db, 10, zaptest.NewLogger(t)).Handler())
	defer ts.Close()

	cfg := testConfig(t)
	cfg.Backend = config.BackendHTTP
	cfg.APIBind = ts.URL
	health := &state.Store{}

	lists, err := OpenLists(ctx, cfg, health, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer lists.Close()

	require.NoError(t, lists.Contacts.LoadNext(ctx))
	require.NoError(t, lists.Contacts.LoadNext(ctx))
	st := lists.Contacts.State()
	assert.Len(t, st.Items, 15)
	assert.False(t, st.HasMore)
	assert.False(t, health.Snapshot().IsOffline())
}

func TestOpenLists_UnreachableAPIIsNotFatal(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Backend = config.BackendHTTP
	cfg.APIBind = "127.0.0.1:1"
	health := &state.Store{}

	lists, err := OpenLists(ctx, cfg, health, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer lists.Close()

	for range 2 {
		err := lists.Products.LoadNext(ctx)
		require.Error(t, err)
	}
	st := lists.Products.State()
	assert.Empty(t, st.Items)
	assert.Equal(t, 1, st.Cursor)
	assert.True(t, health.Snapshot().IsOffline())
}

func TestOpenLists_UnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Backend = "carrier-pigeon"
	_, err := OpenLists(context.Background(), cfg, nil, nil)
	require.ErrorContains(t, err, "unknown backend")
}

func TestSeed_Idempotent(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	require.NoError(t, Seed(ctx, cfg, 12, zaptest.NewLogger(t)))
	require.NoError(t, Seed(ctx, cfg, 12, zaptest.NewLogger(t)))

	db, err := source.OpenSQLite(ctx, cfg.DBPath)
	require.NoError(t, err)
	defer db.Close()
	for _, kind := range catalog.Kinds {
		n, err := db.Count(ctx, kind)
		require.NoError(t, err)
		assert.Equal(t, 12, n, kind)
	}
}

func TestServe_StopsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	cfg.APIBind = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- Serve(ctx, cfg, zaptest.NewLogger(t)) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestNewLogger_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "lister.log")

	logger, err := NewLogger(true, path)
	require.NoError(t, err)
	logger.Debug("debug line")
	logger.Info("info line")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.True(t, strings.Contains(out, "debug line"), out)
	assert.True(t, strings.Contains(out, "info line"), out)
}
