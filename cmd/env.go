package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/studydeck/internal/api"
	"github.com/abhisek/studydeck/internal/config"
	"github.com/abhisek/studydeck/internal/logging"
	"github.com/abhisek/studydeck/internal/store"
)

// env bundles what a command needs to talk to the server.
type env struct {
	cfg    config.Config
	log    *zap.SugaredLogger
	store  *store.Store
	client api.Client
}

func (e *env) Close() {
	if e.store != nil {
		_ = e.store.Close()
	}
	_ = e.log.Sync()
}

// loadConfig resolves configuration: defaults, YAML file, .env, STUDYDECK_*
// variables, then flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return config.Config{}, err
	}

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return config.Config{}, fmt.Errorf("resolve config path: %w", err)
		}
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if v, _ := cmd.Flags().GetString("server"); v != "" {
		cfg.ServerURL = v
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DBPath = v
	}
	if v, _ := cmd.Flags().GetDuration("timeout"); v > 0 {
		cfg.Timeout = v
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// resolveDBPath returns the journal path: --db / config first, then the
// default XDG location.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

func openStore(cfg config.Config) (*store.Store, error) {
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

func newLogger(cfg config.Config) (*zap.SugaredLogger, error) {
	path := cfg.LogFile
	if path == "" {
		p, err := config.DefaultLogFile()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return logging.New(path, cfg.LogLevel)
}

// setup loads configuration and builds a journaled client for cfg.ServerURL.
// A journal that cannot be opened is reported and skipped.
func setup(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return setupWith(cmd, cfg)
}

func setupWith(cmd *cobra.Command, cfg config.Config) (*env, error) {
	log, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Logging disabled:", err)
		log = logging.Nop()
	}

	e := &env{cfg: cfg, log: log}

	var repo store.EventRepo
	if st, err := openStore(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "Journal unavailable:", err)
		log.Warnw("journal unavailable", "error", err)
	} else {
		e.store = st
		repo = st.EventRepo()
		if err := repo.Prune(cmd.Context(), cfg.JournalKeep); err != nil {
			log.Warnw("journal prune failed", "error", err)
		}
	}

	httpClient := api.NewHTTPClient(api.HTTPConfig{
		BaseURL:   cfg.ServerURL,
		Timeout:   cfg.Timeout,
		UserAgent: "studydeck/" + version,
	})
	e.client = api.WithJournal(httpClient, repo, log)

	log.Infow("client ready", "server", cfg.ServerURL, "timeout", cfg.Timeout)
	return e, nil
}
