package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Backend selects where the browser reads pages from.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendSQLite Backend = "sqlite"
	BackendHTTP   Backend = "http"
)

// Config holds lister settings.
type Config struct {
	APIBind      string
	Backend      Backend
	DBPath       string
	PageSize     int
	FetchDelay   time.Duration
	RefreshEvery time.Duration // zero disables auto refresh
	LogFile      string
	SeedCount    int
}

const (
	defaultConfigPath = "~/.config/lister/config.toml"
	defaultDataDir    = "~/.local/share/lister"
	defaultAPIBind    = "127.0.0.1:7488"
	defaultPageSize   = 25
	defaultFetchDelay = 600 * time.Millisecond
	defaultSeedCount  = 500
	maxPageSize       = 100
)

// Default returns the configuration used when no file exists.
func Default() Config {
	dataDir := mustExpand(defaultDataDir)
	return Config{
		APIBind:    defaultAPIBind,
		Backend:    BackendMemory,
		DBPath:     filepath.Join(dataDir, "lister.db"),
		PageSize:   defaultPageSize,
		FetchDelay: defaultFetchDelay,
		LogFile:    filepath.Join(dataDir, "lister.log"),
		SeedCount:  defaultSeedCount,
	}
}

// Load locates and parses the lister config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBind      string `toml:"api_bind"`
		Backend      string `toml:"backend"`
		DBPath       string `toml:"db_path"`
		PageSize     int    `toml:"page_size"`
		FetchDelayMS *int   `toml:"fetch_delay_ms"`
		RefreshEvery int    `toml:"refresh_every_s"`
		LogFile      string `toml:"log_file"`
		SeedCount    int    `toml:"seed_count"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIBind); v != "" {
		cfg.APIBind = v
	}
	if v := strings.ToLower(strings.TrimSpace(raw.Backend)); v != "" {
		switch Backend(v) {
		case BackendMemory, BackendSQLite, BackendHTTP:
			cfg.Backend = Backend(v)
		default:
			return Config{}, fmt.Errorf("parse config: unknown backend %q", raw.Backend)
		}
	}
	if v := strings.TrimSpace(raw.DBPath); v != "" {
		cfg.DBPath = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if raw.PageSize > 0 {
		cfg.PageSize = min(raw.PageSize, maxPageSize)
	}
	if raw.FetchDelayMS != nil && *raw.FetchDelayMS >= 0 {
		cfg.FetchDelay = time.Duration(*raw.FetchDelayMS) * time.Millisecond
	}
	if raw.RefreshEvery > 0 {
		cfg.RefreshEvery = time.Duration(raw.RefreshEvery) * time.Second
	}
	if raw.SeedCount > 0 {
		cfg.SeedCount = raw.SeedCount
	}

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
