package catalogue

// Store is the record store consumed by the catalogue. Lookups that find
// nothing return ErrNotFound; failures of the engine itself come back as
// *StoreError.
type Store interface {
	IDExists(kind TableKind, id int) (bool, error)

	GetBookDetail(id int) (*BookDetail, error)
	GetAuthor(id int) (*Author, error)
	ListBookDetails() ([]*BookDetail, error)
	ListAuthors() ([]*Author, error)
	BooksByAuthor(authorID int) ([]*Book, error)

	InsertBook(b *Book) error
	InsertAuthor(a *Author) error

	UpdateBookQuantity(id, qty int) error
	UpdateBookTitle(id int, title string) error
	UpdateBookAuthor(id, authorID int) error
	UpdateAuthorName(id int, name string) error
	UpdateAuthorCountry(id int, country string) error

	DeleteBook(id int) error
	DeleteAuthor(id int) error
}

// UI is the interactive collaborator the workflows talk to. Reading
// methods only return already validated values; an error means input is
// no longer available and the workflow should stop.
type UI interface {
	Choice(valid []int) (int, error)
	// YesNo treats an empty answer as yes.
	YesNo(prompt string) (bool, error)
	NonEmptyString(prompt string) (string, error)
	Integer(prompt string) (int, error)
	// NewID returns a 4-digit id not yet present in the given table.
	NewID(kind TableKind) (int, error)
	// ExistingID returns a 4-digit id present in the given table.
	ExistingID(kind TableKind) (int, error)
	Display(lines ...string)
}
