package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"hubdeck/internal/kv"
	"hubdeck/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "hubdeck",
	Short: "hubdeck is a terminal canvas of panels wired to a virtual device hub",
	Long: `hubdeck lays out panels on a zoomable, pannable canvas next to a device hub.
Plug devices into the hub's ports and cables are drawn to every panel that
needs them. The layout is saved between runs.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a config file (default ~/.config/hubdeck/config.*)")
	rootCmd.PersistentFlags().String("store", "", "Store backend override: memory, file, redis or sqlite")
	rootCmd.PersistentFlags().Bool("ephemeral", false, "Keep the layout in memory only")
}

// configFromFlags loads the config and applies the store overrides.
func configFromFlags(cmd *cobra.Command) (*Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, err
	}
	if backend, _ := cmd.Flags().GetString("store"); backend != "" {
		cfg.Store.Backend = backend
	}
	if ephemeral, _ := cmd.Flags().GetBool("ephemeral"); ephemeral {
		cfg.Store.Backend = kv.BackendMemory
	}
	return cfg, nil
}

func openStore(cfg *Config) (kv.Store, error) {
	store, err := kv.Open(cfg.StoreOptions())
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	return store, nil
}

// openLogger logs to the configured file, or nowhere when none is set.
func openLogger(cfg *Config) (*slog.Logger, io.Closer, error) {
	if cfg.Log.File == "" {
		return logging.NewNop(), io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	return logging.NewFile(cfg.Log.File, logging.ParseLevel(cfg.Log.Level))
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := configFromFlags(cmd)
	if err != nil {
		return err
	}
	log, closer, err := openLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	s, err := newSession(cfg, log, store)
	if err != nil {
		store.Close()
		return err
	}
	defer func() {
		if err := s.close(); err != nil {
			log.Error("close session", "err", err)
		}
	}()

	log.Info("starting", "store", cfg.Store.Backend, "key", s.persist.Key())
	p := tea.NewProgram(
		initialModel(s, log),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}
