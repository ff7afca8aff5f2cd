package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"bookstore-inventory/catalogue"
)

func listCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every book with its author",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := a.load()
			if err != nil {
				return err
			}
			db, err := openCatalogue(cfg, log)
			if err != nil {
				return err
			}
			defer db.Close()

			books, err := db.ListBookDetails()
			if err != nil {
				return err
			}
			printBooks(cmd.OutOrStdout(), books)
			return nil
		},
	}
}

func printBooks(w io.Writer, books []*catalogue.BookDetail) {
	if len(books) == 0 {
		fmt.Fprintln(w, "No books in the catalogue.")
		return
	}
	fmt.Fprintln(w, catalogue.ListHeader())
	fmt.Fprintln(w, catalogue.Rule(94))
	for _, b := range books {
		fmt.Fprintln(w, catalogue.PrettyBook(b))
	}
}
