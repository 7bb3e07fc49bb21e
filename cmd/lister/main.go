package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/five82/lister/internal/app"
	"github.com/five82/lister/internal/catalog"
	"github.com/five82/lister/internal/config"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// Loaded in PersistentPreRunE
	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "lister",
	Short: "Browse paginated lists in the terminal",
	Long: `lister pages through product and contact lists with infinite scroll,
pull-to-refresh and retry on failure.

Run without arguments to start the browser.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		// The browser owns the terminal, so it logs to a file.
		logPath := ""
		if isBrowse(cmd) {
			logPath = cfg.LogFile
		}
		logger, err = app.NewLogger(verbose, logPath)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runBrowse,
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open the list browser (default)",
	Args:  cobra.NoArgs,
	RunE:  runBrowse,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the SQLite catalog over the paged list API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write demo products and contacts into the SQLite catalog",
	Args:  cobra.NoArgs,
	RunE:  runSeed,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ~/.config/lister/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	for _, cmd := range []*cobra.Command{rootCmd, browseCmd} {
		cmd.Flags().String("backend", "", "Page source: memory, sqlite or http")
		cmd.Flags().String("list", "", "List to open: products or contacts")
		cmd.Flags().String("prefs", "", "Preferences file (default: ~/.config/lister/prefs.toml)")
	}
	serveCmd.Flags().String("addr", "", "Listen address (default: api_bind from config)")
	seedCmd.Flags().Int("count", 0, "Records per list (default: seed_count from config)")

	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
}

func isBrowse(cmd *cobra.Command) bool {
	return !cmd.HasParent() || cmd.Name() == "browse"
}

func runBrowse(cmd *cobra.Command, args []string) error {
	backend, _ := cmd.Flags().GetString("backend")
	list, _ := cmd.Flags().GetString("list")
	prefsPath, _ := cmd.Flags().GetString("prefs")

	if backend != "" {
		switch b := config.Backend(backend); b {
		case config.BackendMemory, config.BackendSQLite, config.BackendHTTP:
			cfg.Backend = b
		default:
			return fmt.Errorf("unknown backend %q", backend)
		}
	}
	opts := app.Options{PrefsPath: prefsPath, Logger: logger}
	if list != "" {
		kind, err := catalog.ParseKind(list)
		if err != nil {
			return err
		}
		opts.InitialList = kind
	}
	return app.Run(cmd.Context(), cfg, opts)
}

func runServe(cmd *cobra.Command, args []string) error {
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.APIBind = addr
	}
	return app.Serve(cmd.Context(), cfg, logger)
}

func runSeed(cmd *cobra.Command, args []string) error {
	count, _ := cmd.Flags().GetInt("count")
	return app.Seed(cmd.Context(), cfg, count, logger)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "lister: %v\n", err)
		cancel()
		os.Exit(1)
	}
}
