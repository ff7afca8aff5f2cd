package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"bookstore-inventory/catalogue"
	"bookstore-inventory/config"
)

func main() {
	var dbPath, file string
	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Rebuild the catalogue database from seed data",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), dbPath, file)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", config.New().GetString("database_path"), "SQLite database file to rebuild")
	cmd.Flags().StringVar(&file, "file", "", "YAML seed file (default: the bundled demo catalogue)")
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(w io.Writer, dbPath, file string) error {
	data, err := loadSeed(file)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Cleaning up existing database files...")
	for _, f := range []string{dbPath, dbPath + "-shm", dbPath + "-wal"} {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(w, "Warning: Could not remove %s: %v\n", f, err)
		}
	}

	db, err := catalogue.NewDatabase(dbPath)
	if err != nil {
		return fmt.Errorf("create database: %w", err)
	}
	defer db.Close()

	n, err := catalogue.Seed(db, data)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	fmt.Fprintf(w, "Seeded %d authors and %d books into %s\n\n", len(data.Authors), n, dbPath)

	books, err := db.ListBookDetails()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, catalogue.ListHeader())
	fmt.Fprintln(w, catalogue.Rule(94))
	for _, b := range books {
		fmt.Fprintln(w, catalogue.PrettyBook(b))
	}
	return nil
}

func loadSeed(file string) (*catalogue.SeedData, error) {
	if file == "" {
		return catalogue.DemoSeed()
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return catalogue.LoadSeed(f)
}
