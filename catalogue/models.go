package catalogue

import "fmt"

// Book is one stock line in the catalogue. AuthorID always references an
// existing Author.
type Book struct {
	ID       int    `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	AuthorID int    `json:"author_id" yaml:"author_id"`
	Quantity int    `json:"qty" yaml:"qty"`
}

// Author is referenced by at least one Book for as long as it exists.
type Author struct {
	ID      int    `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Country string `json:"country" yaml:"country"`
}

// BookDetail is a book joined with its author.
type BookDetail struct {
	Book
	Author Author `json:"author"`
}

// TableKind selects one of the two catalogue tables.
type TableKind int

const (
	KindBook TableKind = iota
	KindAuthor
)

func (k TableKind) String() string {
	switch k {
	case KindBook:
		return "book"
	case KindAuthor:
		return "author"
	}
	panic(fmt.Sprintf("catalogue: unknown table kind %d", int(k)))
}

// existsStmt returns the point lookup used to test whether an id is taken.
func (k TableKind) existsStmt() string {
	switch k {
	case KindBook:
		return `SELECT EXISTS(SELECT 1 FROM book WHERE id=?)`
	case KindAuthor:
		return `SELECT EXISTS(SELECT 1 FROM author WHERE id=?)`
	}
	panic(fmt.Sprintf("catalogue: unknown table kind %d", int(k)))
}

// MinID and MaxID bound the 4-digit identifiers used by both tables.
const (
	MinID = 1000
	MaxID = 9999
)

// ValidID reports whether id is a 4-digit positive integer.
func ValidID(id int) bool { return id >= MinID && id <= MaxID }

// Outcome tells a caller whether a workflow ran to completion or was
// stopped by the user. A cancelled workflow is not an error.
type Outcome int

const (
	Completed Outcome = iota
	Cancelled
)

func (o Outcome) String() string {
	if o == Cancelled {
		return "cancelled"
	}
	return "completed"
}
