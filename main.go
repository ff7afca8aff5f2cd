package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bookstore-inventory/catalogue"
	"bookstore-inventory/config"
)

func main() {
	a := &app{v: config.New()}
	root := rootCmd(a)
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.AddCommand(listCmd(a))
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries the configuration shared by every command.
type app struct {
	v          *viper.Viper
	configFile string
	noSeed     bool
}

func rootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "bookshelf",
		Short:        "Interactive bookstore inventory manager",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := a.load()
			if err != nil {
				return err
			}
			return runSession(cfg, log)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "YAML config file")
	flags.String("db", config.DefaultDatabasePath, "SQLite database file")
	flags.String("log-level", "warn", "Log level: debug, info, warn or error")
	flags.BoolVar(&a.noSeed, "no-seed", false, "Do not load the demo catalogue into a new database")
	_ = a.v.BindPFlag("database_path", flags.Lookup("db"))
	_ = a.v.BindPFlag("log_level", flags.Lookup("log-level"))
	return cmd
}

// load resolves the configuration and installs the logger.
func (a *app) load() (*config.Config, *slog.Logger, error) {
	if a.configFile != "" {
		a.v.SetConfigFile(a.configFile)
	}
	if a.noSeed {
		a.v.Set("seed_demo", false)
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return nil, nil, err
	}
	lvl, err := cfg.LogLevel()
	if err != nil {
		return nil, nil, err
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(log)
	return cfg, log, nil
}

// openCatalogue opens the database, loading the demo catalogue when the
// file is created by this call and seeding is enabled.
func openCatalogue(cfg *config.Config, log *slog.Logger) (*catalogue.Database, error) {
	_, statErr := os.Stat(cfg.Database.Path)
	fresh := errors.Is(statErr, fs.ErrNotExist)

	if !fresh || !cfg.Database.SeedDemo {
		db, err := catalogue.NewDatabase(cfg.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		return db, nil
	}

	data, err := catalogue.DemoSeed()
	if err != nil {
		return nil, err
	}
	db, n, err := createSeeded(cfg.Database.Path, data)
	if err != nil {
		return nil, err
	}
	log.Info("demo catalogue loaded", "path", cfg.Database.Path, "books", n)
	return db, nil
}

// createSeeded creates a new database at path holding data. On failure the
// database files are removed again so the next start seeds from scratch.
func createSeeded(path string, data *catalogue.SeedData) (*catalogue.Database, int, error) {
	db, err := catalogue.NewDatabase(path)
	if err != nil {
		removeDatabaseFiles(path)
		return nil, 0, fmt.Errorf("create database: %w", err)
	}
	n, err := catalogue.Seed(db, data)
	if err != nil {
		db.Close()
		removeDatabaseFiles(path)
		return nil, 0, fmt.Errorf("seed demo catalogue: %w", err)
	}
	return db, n, nil
}

func removeDatabaseFiles(path string) {
	for _, f := range []string{path, path + "-shm", path + "-wal"} {
		if err := os.Remove(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("could not remove database file", "path", f, "error", err)
		}
	}
}
