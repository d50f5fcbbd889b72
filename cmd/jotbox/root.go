package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/jotbox"
	"github.com/aretw0/jotbox/internal/config"
)

var (
	verbose    bool
	configPath string
	storePath  string
	adapter    string
	readOnly   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "jotbox",
	Short: "Notes, checklists and backups kept in a single local store",
	Long: `jotbox keeps notes and to-do lists in a key-value store (a directory,
a SQLite file or memory), exports selections of them and creates or restores
full backups as a single JSON document.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		settings = cfg

		level := slog.LevelInfo
		if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
			level = slog.LevelInfo
		}
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
		return nil
	},
}

// settings is the configuration resolved by the root command.
var settings *config.Config

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: jotbox.yaml in the nearest root)")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "Storage location (overrides storage.path)")
	rootCmd.PersistentFlags().StringVar(&adapter, "adapter", "", "Storage adapter: fs, sqlite or memory")
	rootCmd.PersistentFlags().BoolVar(&readOnly, "read-only", false, "Open the storage in read-only mode")
}

// loadConfig reads --config, or the jotbox.yaml of the nearest root, and
// applies the persistent flags on top.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			if root, err := jotbox.FindRoot(wd); err == nil {
				candidate := filepath.Join(root, config.FileName)
				if _, err := os.Stat(candidate); err == nil {
					path = candidate
				}
			}
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if storePath != "" {
		cfg.Storage.Path = storePath
	}
	if adapter != "" {
		cfg.Storage.Adapter = adapter
	}
	if readOnly {
		cfg.Storage.ReadOnly = true
	}
	return cfg, cfg.Validate()
}

// openApp opens the app described by the resolved configuration.
func openApp(ctx context.Context, extra ...jotbox.Option) (*jotbox.App, error) {
	if settings == nil {
		return nil, errors.New("configuration not loaded")
	}
	opts := []jotbox.Option{
		jotbox.WithLogger(slog.Default()),
		jotbox.WithAdapter(settings.Storage.Adapter),
		jotbox.WithPath(settings.Storage.Path),
		jotbox.WithReadOnly(settings.Storage.ReadOnly),
		jotbox.WithIDStrategy(settings.IDs.Strategy),
		jotbox.WithBackupDir(settings.Backup.Dir),
		jotbox.WithExportDir(settings.Export.Dir),
		jotbox.WithShareDir(settings.Export.ShareDir),
	}
	app, err := jotbox.Open(ctx, append(opts, extra...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return app, nil
}

// check turns a failed Result into a command error carrying its message.
func check(res jotbox.Result) error {
	if res.Success {
		return nil
	}
	msg := res.Message()
	if res.Err == nil || strings.HasSuffix(msg, res.Err.Error()) {
		return errors.New(msg)
	}
	return fmt.Errorf("%s: %w", msg, res.Err)
}
