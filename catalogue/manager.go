package catalogue

import (
	"errors"
	"fmt"
	"log/slog"
)

// Options tunes the duplicate detector used by a Manager. Zero values fall
// back to the defaults.
type Options struct {
	TitleThreshold  int
	AuthorThreshold int
	MatchLimit      int
	Logger          *slog.Logger
}

// Manager runs the interactive catalogue workflows: adding, updating,
// deleting and searching books. Every workflow returns an Outcome that is
// only meaningful when the error is nil.
type Manager struct {
	store    Store
	ui       UI
	log      *slog.Logger
	detector *Detector
	guard    *Guard
}

// NewManager wires a Manager to its store and UI.
func NewManager(store Store, ui UI, opts Options) *Manager {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	det := NewDetector(store)
	if opts.TitleThreshold > 0 {
		det.TitleThreshold = opts.TitleThreshold
	}
	if opts.AuthorThreshold > 0 {
		det.AuthorThreshold = opts.AuthorThreshold
	}
	if opts.MatchLimit > 0 {
		det.MatchLimit = opts.MatchLimit
	}
	return &Manager{
		store:    store,
		ui:       ui,
		log:      log,
		detector: det,
		guard:    NewGuard(store, ui, log),
	}
}

func (m *Manager) Detector() *Detector { return m.detector }
func (m *Manager) Guard() *Guard       { return m.guard }

// ------------------ Add ------------------

// AddBook collects a new book from the user and inserts it. The author is
// resolved (picked or created) before the book row is written, so a book
// never exists without its author.
func (m *Manager) AddBook() (Outcome, error) {
	title, err := m.ui.NonEmptyString("Please input the title: ")
	if err != nil {
		return Completed, err
	}

	similar, err := m.detector.SimilarTitles(title, "")
	if err != nil {
		return Completed, err
	}
	if len(similar) > 0 {
		m.ui.Display("Book may already exist in the catalogue as:")
		m.displaySimilarBooks(similar)
		ok, err := m.ui.YesNo(fmt.Sprintf("Continue adding %s to the catalogue?", title))
		if err != nil {
			return Completed, err
		}
		if !ok {
			m.ui.Display("Add book cancelled.")
			return Cancelled, nil
		}
	}

	id, err := m.ui.NewID(KindBook)
	if err != nil {
		return Completed, err
	}
	if err := m.ensureNewID(KindBook, id); err != nil {
		return Completed, err
	}

	authorID, err := m.AddAuthor()
	if err != nil {
		return Completed, fmt.Errorf("resolve author: %w", err)
	}

	qty, err := m.ui.Integer("Please input stock quantity: ")
	if err != nil {
		return Completed, m.dropIfUnreferenced(authorID, err)
	}

	book := &Book{ID: id, Title: title, AuthorID: authorID, Quantity: qty}
	if err := m.store.InsertBook(book); err != nil {
		return Completed, m.dropIfUnreferenced(authorID, err)
	}
	m.log.Info("book added", "book_id", book.ID, "title", book.Title, "author_id", book.AuthorID)
	m.ui.Display(fmt.Sprintf("New book %s added to the catalogue.", title))
	return Completed, nil
}

// AddAuthor asks for an author name and returns the id of either a similar
// existing author the user picked or a newly created one.
func (m *Manager) AddAuthor() (int, error) {
	name, err := m.ui.NonEmptyString("Please input author name: ")
	if err != nil {
		return 0, err
	}

	similar, err := m.detector.SimilarAuthors(name)
	if err != nil {
		return 0, err
	}
	if len(similar) > 0 {
		m.ui.Display("Similar authors found in the catalogue:")
		options := make([]int, len(similar))
		for i, a := range similar {
			options[i] = i
			m.ui.Display(fmt.Sprintf("Number: %d Name: %s. Country: %s", i, a.Name, a.Country))
		}
		useExisting, err := m.ui.YesNo("Do you wish to use an existing author?")
		if err != nil {
			return 0, err
		}
		if useExisting {
			idx, err := m.ui.Choice(options)
			if err != nil {
				return 0, err
			}
			return similar[idx].ID, nil
		}
	}

	country, err := m.ui.NonEmptyString("Please input author's country of origin: ")
	if err != nil {
		return 0, err
	}
	id, err := m.ui.NewID(KindAuthor)
	if err != nil {
		return 0, err
	}

	author := &Author{ID: id, Name: name, Country: country}
	if err := m.insertAuthor(author); err != nil {
		return 0, err
	}
	return id, nil
}

// ensureNewID rejects a taken id before anything is written.
func (m *Manager) ensureNewID(kind TableKind, id int) error {
	exists, err := m.store.IDExists(kind, id)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%s %d: %w", kind, id, ErrDuplicateID)
	}
	return nil
}

func (m *Manager) insertAuthor(a *Author) error {
	if err := m.ensureNewID(KindAuthor, a.ID); err != nil {
		return err
	}
	if err := m.store.InsertAuthor(a); err != nil {
		return err
	}
	m.log.Info("author added", "author_id", a.ID, "name", a.Name)
	return nil
}

// dropIfUnreferenced undoes the author created for a book that was never
// written. Selected existing authors always have books and are kept.
func (m *Manager) dropIfUnreferenced(authorID int, cause error) error {
	books, err := m.store.BooksByAuthor(authorID)
	if err == nil && len(books) > 0 {
		return cause
	}
	if err == nil {
		err = m.store.DeleteAuthor(authorID)
	}
	if err != nil {
		a := Author{ID: authorID}
		if got, gerr := m.store.GetAuthor(authorID); gerr == nil {
			a = *got
		}
		return errors.Join(cause, m.guard.consistencyWarning(a, err))
	}
	m.log.Info("unused author removed", "author_id", authorID)
	return cause
}

// ------------------ Update ------------------

var updateMenu = []string{
	"--Options--",
	"1. Update Stock Quantity",
	"2. Update Title",
	"3. Update Author ID",
	"4. Update Author Name",
	"5. Update Author Country",
	"0. Return To Main Menu",
}

// UpdateBook selects a book and dispatches to one field update.
func (m *Manager) UpdateBook() (Outcome, error) {
	id, err := m.ui.ExistingID(KindBook)
	if err != nil {
		return Completed, err
	}
	d, err := m.store.GetBookDetail(id)
	if err != nil {
		return Completed, err
	}

	m.ui.Display("Selected Book:")
	m.ui.Display(FormatBookDetail(d)...)
	m.ui.Display(updateMenu...)

	choice, err := m.ui.Choice([]int{0, 1, 2, 3, 4, 5})
	if err != nil {
		return Completed, err
	}
	switch choice {
	case 1:
		return m.UpdateQuantity(d)
	case 2:
		return m.UpdateTitle(d)
	case 3:
		return m.ReassignAuthor(d)
	case 4:
		return m.UpdateAuthorName(d)
	case 5:
		return m.UpdateAuthorCountry(d)
	}
	return Cancelled, nil
}

func (m *Manager) UpdateQuantity(d *BookDetail) (Outcome, error) {
	m.ui.Display(fmt.Sprintf("Current stock is: %d", d.Quantity))
	qty, err := m.ui.Integer("Please input the new stock quantity: ")
	if err != nil {
		return Completed, err
	}
	if err := m.store.UpdateBookQuantity(d.ID, qty); err != nil {
		return Completed, err
	}
	m.log.Info("book quantity updated", "book_id", d.ID, "qty", qty)
	d.Quantity = qty
	m.ui.Display(fmt.Sprintf("%s stock updated. New stock: %d", d.Title, qty))
	return Completed, nil
}

// UpdateTitle renames a book, warning first when the new title is close to
// another book's title.
func (m *Manager) UpdateTitle(d *BookDetail) (Outcome, error) {
	m.ui.Display("Current title is: " + d.Title)
	title, err := m.ui.NonEmptyString("Please input new title: ")
	if err != nil {
		return Completed, err
	}

	similar, err := m.detector.SimilarTitles(title, d.Title)
	if err != nil {
		return Completed, err
	}
	if len(similar) > 0 {
		m.ui.Display("Book title may already exist in the catalogue as:")
		m.displaySimilarBooks(similar)
		m.ui.Display("To avoid duplicate books consider deleting the current entry rather than changing its title.")
		ok, err := m.ui.YesNo("Continue editing book title?")
		if err != nil {
			return Completed, err
		}
		if !ok {
			m.ui.Display("Title update cancelled.")
			return Cancelled, nil
		}
	}

	if err := m.store.UpdateBookTitle(d.ID, title); err != nil {
		return Completed, err
	}
	m.log.Info("book title updated", "book_id", d.ID, "old", d.Title, "new", title)
	m.ui.Display(fmt.Sprintf("Book %s renamed to %s.", d.Title, title))
	d.Title = title
	return Completed, nil
}

var reassignMenu = []string{
	"--Options--",
	"1. Assign book to existing author",
	"2. Assign book to new author",
	"0. Return to main menu",
}

// ReassignAuthor points the book at another author, existing or new. When
// the book was its current author's last one, that author is removed.
func (m *Manager) ReassignAuthor(d *BookDetail) (Outcome, error) {
	m.ui.Display(reassignMenu...)
	choice, err := m.ui.Choice([]int{0, 1, 2})
	if err != nil {
		return Completed, err
	}

	var outcome Outcome
	switch choice {
	case 1:
		m.ui.Display("--Assigning book to existing author--")
		target, err := m.ui.ExistingID(KindAuthor)
		if err != nil {
			return Completed, err
		}
		if target == d.AuthorID {
			m.ui.Display("Book is already assigned to that author.")
			return Cancelled, nil
		}
		outcome, err = m.guard.Cascade(d.Author, func() error {
			return m.setBookAuthor(d, target)
		})
		if err != nil {
			return Completed, err
		}
	case 2:
		m.ui.Display("--Assigning book to new author--")
		outcome, err = m.guard.Cascade(d.Author, func() error {
			m.ui.Display("-Please provide author details-")
			target, err := m.AddAuthor()
			if err != nil {
				return fmt.Errorf("create author: %w", err)
			}
			if err := m.setBookAuthor(d, target); err != nil {
				return m.dropIfUnreferenced(target, err)
			}
			return nil
		})
		if err != nil {
			return Completed, err
		}
	default:
		outcome = Cancelled
	}

	if outcome == Cancelled {
		m.ui.Display("Author update cancelled.")
		return Cancelled, nil
	}
	m.ui.Display("Author changed successfully.")
	return Completed, nil
}

func (m *Manager) setBookAuthor(d *BookDetail, authorID int) error {
	if err := m.store.UpdateBookAuthor(d.ID, authorID); err != nil {
		return err
	}
	m.log.Info("book author changed", "book_id", d.ID, "from", d.AuthorID, "to", authorID)
	return nil
}

func (m *Manager) UpdateAuthorName(d *BookDetail) (Outcome, error) {
	return m.editAuthorField(d, "name", "Please input the new author name: ", m.store.UpdateAuthorName)
}

func (m *Manager) UpdateAuthorCountry(d *BookDetail) (Outcome, error) {
	return m.editAuthorField(d, "country", "Please input the new author country: ", m.store.UpdateAuthorCountry)
}

// editAuthorField changes a field of the book's author. The author keeps
// its books, so no orphan check is needed; the affected books are shown
// because all of them change at once.
func (m *Manager) editAuthorField(d *BookDetail, field, prompt string, update func(int, string) error) (Outcome, error) {
	affected, err := m.guard.AffectedBooks(d.AuthorID)
	if err != nil {
		return Completed, err
	}
	m.ui.Display(fmt.Sprintf("Modifying this author %s will affect the following books:", field))
	for _, b := range affected {
		m.ui.Display(formatAffectedBook(b))
	}

	ok, err := m.ui.YesNo(fmt.Sprintf("Continue editing author %s?", field))
	if err != nil {
		return Completed, err
	}
	if !ok {
		m.ui.Display(fmt.Sprintf("Editing author %s cancelled.", field))
		return Cancelled, nil
	}

	value, err := m.ui.NonEmptyString(prompt)
	if err != nil {
		return Completed, err
	}
	if err := update(d.AuthorID, value); err != nil {
		return Completed, err
	}
	m.log.Info("author updated", "author_id", d.AuthorID, "field", field, "value", value)
	m.ui.Display(fmt.Sprintf("Author %s changed to %s.", field, value))
	return Completed, nil
}

// ------------------ Delete ------------------

// DeleteBook removes a book after confirmation, and its author when the
// book was the author's last one.
func (m *Manager) DeleteBook() (Outcome, error) {
	id, err := m.ui.ExistingID(KindBook)
	if err != nil {
		return Completed, err
	}
	d, err := m.store.GetBookDetail(id)
	if err != nil {
		return Completed, err
	}

	m.ui.Display("Book to be deleted:")
	m.ui.Display(FormatBookDetail(d)...)
	ok, err := m.ui.YesNo("Is this the book you wish to delete?")
	if err != nil {
		return Completed, err
	}
	if !ok {
		m.ui.Display("Book delete cancelled.")
		return Cancelled, nil
	}

	outcome, err := m.guard.Cascade(d.Author, func() error {
		if err := m.store.DeleteBook(d.ID); err != nil {
			return err
		}
		m.log.Info("book deleted", "book_id", d.ID, "title", d.Title)
		return nil
	})
	if err != nil {
		return Completed, err
	}
	if outcome == Cancelled {
		m.ui.Display("Book delete cancelled.")
		return Cancelled, nil
	}
	m.ui.Display(fmt.Sprintf("Book %s successfully deleted.", d.Title))
	return Completed, nil
}

// ------------------ Search ------------------

var searchMenu = []string{
	"--Search Options--",
	"1. Search by ID",
	"2. Search by title",
	"0. Return to main menu",
}

// Search offers lookup by id or by approximate title. It never mutates.
func (m *Manager) Search() (Outcome, error) {
	m.ui.Display(searchMenu...)
	choice, err := m.ui.Choice([]int{0, 1, 2})
	if err != nil {
		return Completed, err
	}
	switch choice {
	case 1:
		_, err = m.SearchByID()
	case 2:
		_, err = m.SearchByTitle()
	default:
		return Cancelled, nil
	}
	return Completed, err
}

func (m *Manager) SearchByID() (*BookDetail, error) {
	id, err := m.ui.ExistingID(KindBook)
	if err != nil {
		return nil, err
	}
	d, err := m.store.GetBookDetail(id)
	if err != nil {
		return nil, err
	}
	m.ui.Display("-Results-")
	m.ui.Display(FormatBookDetail(d)...)
	return d, nil
}

func (m *Manager) SearchByTitle() ([]*BookDetail, error) {
	query, err := m.ui.NonEmptyString("Please input title to search for: ")
	if err != nil {
		return nil, err
	}
	results, err := m.detector.SimilarTitles(query, "")
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		m.ui.Display(fmt.Sprintf("No results for query %s found.", query))
		return nil, nil
	}
	m.ui.Display("-Best Results-")
	for _, d := range results {
		m.ui.Display(FormatBookDetail(d)...)
	}
	return results, nil
}

// ------------------ View ------------------

// ViewAll displays every book with its author.
func (m *Manager) ViewAll() error {
	books, err := m.store.ListBookDetails()
	if err != nil {
		return err
	}
	if len(books) == 0 {
		m.ui.Display("No books in the catalogue.")
		return nil
	}
	for _, d := range books {
		m.ui.Display(FormatBookDetail(d)...)
	}
	return nil
}

func (m *Manager) displaySimilarBooks(books []*BookDetail) {
	for _, d := range books {
		m.ui.Display(formatSimilarBook(d))
	}
}
