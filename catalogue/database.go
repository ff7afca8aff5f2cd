package catalogue

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"
)

// Database implements Store on top of a SQLite file.
type Database struct {
	db *sql.DB

	addBookStmt   *sql.Stmt
	addAuthorStmt *sql.Stmt
}

var _ Store = (*Database)(nil)

// NewDatabase opens (or creates) the SQLite database at dbPath, applies schema
// migrations, and prepares common statements.
func NewDatabase(dbPath string) (*Database, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	// Enable busy_timeout and foreign keys.
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One interactive session, one connection.
	db.SetMaxOpenConns(1)

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	database := &Database{db: db}
	if err := database.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return database, nil
}

// Close releases prepared statements and closes the DB.
func (d *Database) Close() error {
	if d.addBookStmt != nil {
		d.addBookStmt.Close()
	}
	if d.addAuthorStmt != nil {
		d.addAuthorStmt.Close()
	}
	return d.db.Close()
}

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

func applyMigrations(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return err
	}

	var current int
	err := db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("read schema version: %w", err)
	}
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS author (
            id INTEGER PRIMARY KEY CHECK (id BETWEEN 1000 AND 9999),
            name TEXT NOT NULL CHECK (name <> ''),
            country TEXT NOT NULL CHECK (country <> '')
        );`,
		`CREATE TABLE IF NOT EXISTS book (
            id INTEGER PRIMARY KEY CHECK (id BETWEEN 1000 AND 9999),
            title TEXT NOT NULL CHECK (title <> ''),
            authorID INTEGER NOT NULL REFERENCES author(id),
            qty INTEGER NOT NULL DEFAULT 0
        );`,
		`CREATE INDEX IF NOT EXISTS idx_book_author ON book(authorID);`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO meta(key,value) VALUES('schema_version',?)
            ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, schemaVersion); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}

	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Prepared statements
// ---------------------------------------------------------------------------

func (d *Database) prepareStatements() error {
	var err error
	if d.addBookStmt, err = d.db.Prepare(`INSERT INTO book(id,title,authorID,qty) VALUES(?,?,?,?)`); err != nil {
		return err
	}
	if d.addAuthorStmt, err = d.db.Prepare(`INSERT INTO author(id,name,country) VALUES(?,?,?)`); err != nil {
		return err
	}
	return nil
}

// ---------------------------------------------------------------------------
// Lookups
// ---------------------------------------------------------------------------

const bookDetailSelect = `
        SELECT b.id, b.title, b.authorID, b.qty, a.id, a.name, a.country
        FROM book b
        JOIN author a ON a.id = b.authorID`

func scanBookDetail(sc interface{ Scan(...any) error }) (*BookDetail, error) {
	var bd BookDetail
	err := sc.Scan(&bd.ID, &bd.Title, &bd.AuthorID, &bd.Quantity, &bd.Author.ID, &bd.Author.Name, &bd.Author.Country)
	if err != nil {
		return nil, err
	}
	return &bd, nil
}

// IDExists reports whether id is already used in the table selected by kind.
func (d *Database) IDExists(kind TableKind, id int) (bool, error) {
	var exists bool
	if err := d.db.QueryRow(kind.existsStmt(), id).Scan(&exists); err != nil {
		return false, storeErr("lookup "+kind.String()+" id", err)
	}
	return exists, nil
}

func (d *Database) GetBookDetail(id int) (*BookDetail, error) {
	bd, err := scanBookDetail(d.db.QueryRow(bookDetailSelect+` WHERE b.id=?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("book %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, storeErr("get book", err)
	}
	return bd, nil
}

func (d *Database) GetAuthor(id int) (*Author, error) {
	var a Author
	err := d.db.QueryRow(`SELECT id,name,country FROM author WHERE id=?`, id).Scan(&a.ID, &a.Name, &a.Country)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("author %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, storeErr("get author", err)
	}
	return &a, nil
}

// ListBookDetails returns every book joined with its author, ordered by id.
func (d *Database) ListBookDetails() ([]*BookDetail, error) {
	rows, err := d.db.Query(bookDetailSelect + ` ORDER BY b.id`)
	if err != nil {
		return nil, storeErr("list books", err)
	}
	defer rows.Close()

	var books []*BookDetail
	for rows.Next() {
		bd, err := scanBookDetail(rows)
		if err != nil {
			return nil, storeErr("list books", err)
		}
		books = append(books, bd)
	}
	return books, storeErr("list books", rows.Err())
}

func (d *Database) ListAuthors() ([]*Author, error) {
	rows, err := d.db.Query(`SELECT id,name,country FROM author ORDER BY id`)
	if err != nil {
		return nil, storeErr("list authors", err)
	}
	defer rows.Close()

	var authors []*Author
	for rows.Next() {
		var a Author
		if err := rows.Scan(&a.ID, &a.Name, &a.Country); err != nil {
			return nil, storeErr("list authors", err)
		}
		authors = append(authors, &a)
	}
	return authors, storeErr("list authors", rows.Err())
}

// BooksByAuthor returns the books referencing authorID.
func (d *Database) BooksByAuthor(authorID int) ([]*Book, error) {
	rows, err := d.db.Query(`SELECT id,title,authorID,qty FROM book WHERE authorID=? ORDER BY id`, authorID)
	if err != nil {
		return nil, storeErr("books by author", err)
	}
	defer rows.Close()

	var books []*Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Title, &b.AuthorID, &b.Quantity); err != nil {
			return nil, storeErr("books by author", err)
		}
		books = append(books, &b)
	}
	return books, storeErr("books by author", rows.Err())
}

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

func isPrimaryKeyViolation(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

func (d *Database) InsertBook(b *Book) error {
	if _, err := d.addBookStmt.Exec(b.ID, b.Title, b.AuthorID, b.Quantity); err != nil {
		if isPrimaryKeyViolation(err) {
			return fmt.Errorf("insert book %d: %w", b.ID, ErrDuplicateID)
		}
		return storeErr("insert book", err)
	}
	return nil
}

func (d *Database) InsertAuthor(a *Author) error {
	if _, err := d.addAuthorStmt.Exec(a.ID, a.Name, a.Country); err != nil {
		if isPrimaryKeyViolation(err) {
			return fmt.Errorf("insert author %d: %w", a.ID, ErrDuplicateID)
		}
		return storeErr("insert author", err)
	}
	return nil
}

// execOne runs a statement that must touch exactly one row.
func (d *Database) execOne(op string, id int, query string, args ...any) error {
	res, err := d.db.Exec(query, args...)
	if err != nil {
		return storeErr(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr(op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", op, id, ErrNotFound)
	}
	return nil
}

func (d *Database) UpdateBookQuantity(id, qty int) error {
	return d.execOne("update book quantity", id, `UPDATE book SET qty=? WHERE id=?`, qty, id)
}

func (d *Database) UpdateBookTitle(id int, title string) error {
	return d.execOne("update book title", id, `UPDATE book SET title=? WHERE id=?`, title, id)
}

func (d *Database) UpdateBookAuthor(id, authorID int) error {
	return d.execOne("update book author", id, `UPDATE book SET authorID=? WHERE id=?`, authorID, id)
}

func (d *Database) UpdateAuthorName(id int, name string) error {
	return d.execOne("update author name", id, `UPDATE author SET name=? WHERE id=?`, name, id)
}

func (d *Database) UpdateAuthorCountry(id int, country string) error {
	return d.execOne("update author country", id, `UPDATE author SET country=? WHERE id=?`, country, id)
}

func (d *Database) DeleteBook(id int) error {
	return d.execOne("delete book", id, `DELETE FROM book WHERE id=?`, id)
}

// DeleteAuthor removes an author row. The foreign key on book.authorID makes
// this fail while any book still references the author.
func (d *Database) DeleteAuthor(id int) error {
	return d.execOne("delete author", id, `DELETE FROM author WHERE id=?`, id)
}
