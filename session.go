package main

import (
	"errors"
	"fmt"
	"log/slog"

	"bookstore-inventory/catalogue"
	"bookstore-inventory/config"
	"bookstore-inventory/prompt"
)

var mainMenu = []string{
	"",
	"--Main Menu--",
	"1. Enter book",
	"2. Update book",
	"3. Delete book",
	"4. Search books",
	"5. View all books",
	"0. Exit",
}

func runSession(cfg *config.Config, log *slog.Logger) error {
	db, err := openCatalogue(cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	ui := prompt.NewStdio(db)
	ui.MaxAttempts = cfg.Prompt.MaxAttempts
	mgr := catalogue.NewManager(db, ui, catalogue.Options{
		TitleThreshold:  cfg.Matching.TitleThreshold,
		AuthorThreshold: cfg.Matching.AuthorThreshold,
		MatchLimit:      cfg.Matching.Limit,
		Logger:          log,
	})

	if prompt.IsInteractive() {
		ui.Display("Welcome to the bookstore inventory manager!")
	}
	return runMenu(mgr, ui)
}

// runMenu serves the main menu until the user exits or input runs out.
// Workflow errors are reported and the menu is shown again.
func runMenu(mgr *catalogue.Manager, ui catalogue.UI) error {
	for {
		ui.Display(mainMenu...)
		choice, err := ui.Choice([]int{0, 1, 2, 3, 4, 5})
		if errors.Is(err, prompt.ErrInputClosed) {
			return nil
		}
		if err != nil {
			return err
		}
		if choice == 0 {
			ui.Display("Goodbye!")
			return nil
		}

		err = runAction(mgr, choice)
		if errors.Is(err, prompt.ErrInputClosed) {
			return nil
		}
		if err != nil {
			report(ui, err)
		}
	}
}

func runAction(mgr *catalogue.Manager, choice int) error {
	var err error
	switch choice {
	case 1:
		_, err = mgr.AddBook()
	case 2:
		_, err = mgr.UpdateBook()
	case 3:
		_, err = mgr.DeleteBook()
	case 4:
		_, err = mgr.Search()
	case 5:
		err = mgr.ViewAll()
	}
	return err
}

func report(ui catalogue.UI, err error) {
	var warn *catalogue.ConsistencyWarning
	switch {
	case errors.As(err, &warn):
		ui.Display(fmt.Sprintf("WARNING: data consistency: author %s (ID: %d) has no books left and could not be removed: %v",
			warn.Author.Name, warn.Author.ID, warn.Err))
	case errors.Is(err, prompt.ErrTooManyAttempts):
		ui.Display("Too many invalid answers, returning to main menu.")
	default:
		ui.Display("Error: " + err.Error())
	}
}
