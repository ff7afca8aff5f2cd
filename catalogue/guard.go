package catalogue

import (
	"errors"
	"fmt"
	"log/slog"
)

// Guard keeps every author referenced by at least one book. Book edits and
// deletes that would leave an author without books run through Cascade,
// which asks for confirmation and removes the author afterwards.
type Guard struct {
	store Store
	ui    UI
	log   *slog.Logger
}

func NewGuard(store Store, ui UI, log *slog.Logger) *Guard {
	if log == nil {
		log = slog.Default()
	}
	return &Guard{store: store, ui: ui, log: log}
}

// WouldOrphan reports whether the author is referenced by exactly one book,
// so that changing or removing that book leaves the author with none.
func (g *Guard) WouldOrphan(authorID int) (bool, error) {
	books, err := g.store.BooksByAuthor(authorID)
	if err != nil {
		return false, err
	}
	if len(books) == 0 {
		return false, fmt.Errorf("author %d: %w", authorID, ErrNoReferences)
	}
	return len(books) < 2, nil
}

// AffectedBooks lists the books an edit of the author's own fields touches.
func (g *Guard) AffectedBooks(authorID int) ([]*Book, error) {
	return g.store.BooksByAuthor(authorID)
}

// Cascade runs mutate, a change that detaches one book from author. When
// that book is the author's last one the user must agree to the author's
// removal first, and the author row is deleted once mutate succeeded.
//
// A failed mutate is returned as is and nothing else is attempted. A failed
// author delete after a successful mutate yields *ConsistencyWarning; the
// mutation stays in place.
func (g *Guard) Cascade(author Author, mutate func() error) (Outcome, error) {
	orphan, err := g.WouldOrphan(author.ID)
	if err != nil {
		return Completed, err
	}

	if orphan {
		g.ui.Display(fmt.Sprintf("This change will also remove author %s from %s (ID: %d) from the catalogue.",
			author.Name, author.Country, author.ID))
		ok, err := g.ui.YesNo("Continue?")
		if err != nil {
			return Completed, err
		}
		if !ok {
			return Cancelled, nil
		}
	}

	if err := mutate(); err != nil {
		return Completed, err
	}
	if !orphan {
		return Completed, nil
	}

	// The reference count is taken again right before the delete: the
	// mutation itself may have kept the author (e.g. reassigned to it).
	remaining, err := g.store.BooksByAuthor(author.ID)
	if err != nil {
		return Completed, g.consistencyWarning(author, err)
	}
	if len(remaining) > 0 {
		g.log.Info("author still referenced, kept", "author_id", author.ID, "books", len(remaining))
		return Completed, nil
	}

	if err := g.store.DeleteAuthor(author.ID); err != nil {
		return Completed, g.consistencyWarning(author, err)
	}
	g.log.Info("orphan author removed", "author_id", author.ID, "name", author.Name)
	g.ui.Display(fmt.Sprintf("Orphan author %s from %s removed from the catalogue.", author.Name, author.Country))
	return Completed, nil
}

func (g *Guard) consistencyWarning(author Author, err error) error {
	g.log.Error("orphan author left in catalogue", "author_id", author.ID, "name", author.Name, "error", err)
	return &ConsistencyWarning{Author: author, Err: err}
}

// IsConsistencyWarning reports whether err carries a *ConsistencyWarning.
func IsConsistencyWarning(err error) bool {
	var w *ConsistencyWarning
	return errors.As(err, &w)
}
