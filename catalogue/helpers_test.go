package catalogue

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func tempDB(t *testing.T) *Database {
	t.Helper()
	dir := t.TempDir()
	db, err := NewDatabase(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("new db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// seededDB returns a database holding the given authors and books.
func seededDB(t *testing.T, authors []Author, books []Book) *Database {
	t.Helper()
	db := tempDB(t)
	_, err := Seed(db, &SeedData{Authors: authors, Books: books})
	require.NoError(t, err)
	return db
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// requireNoOrphans fails the test when any author has no books.
func requireNoOrphans(t *testing.T, s Store) {
	t.Helper()
	authors, err := s.ListAuthors()
	require.NoError(t, err)
	for _, a := range authors {
		books, err := s.BooksByAuthor(a.ID)
		require.NoError(t, err)
		require.NotEmpty(t, books, "author %d (%s) has no books", a.ID, a.Name)
	}
}

// scriptUI answers UI calls from a fixed script, in order.
type scriptUI struct {
	t       *testing.T
	answers []any
	shown   []string
}

func newScript(t *testing.T, answers ...any) *scriptUI {
	return &scriptUI{t: t, answers: answers}
}

func (u *scriptUI) next(method string) any {
	u.t.Helper()
	if len(u.answers) == 0 {
		u.t.Fatalf("unexpected %s call: script exhausted", method)
	}
	a := u.answers[0]
	u.answers = u.answers[1:]
	return a
}

func (u *scriptUI) nextInt(method string) (int, error) {
	u.t.Helper()
	switch v := u.next(method).(type) {
	case int:
		return v, nil
	case error:
		return 0, v
	default:
		u.t.Fatalf("%s: scripted answer %v (%T) is not an int", method, v, v)
	}
	return 0, nil
}

func (u *scriptUI) Choice(valid []int) (int, error) {
	n, err := u.nextInt("Choice")
	if err == nil {
		require.Contains(u.t, valid, n)
	}
	return n, err
}

func (u *scriptUI) YesNo(prompt string) (bool, error) {
	switch v := u.next("YesNo " + prompt).(type) {
	case bool:
		return v, nil
	case error:
		return false, v
	default:
		u.t.Fatalf("YesNo %q: scripted answer %v (%T) is not a bool", prompt, v, v)
	}
	return false, nil
}

func (u *scriptUI) NonEmptyString(prompt string) (string, error) {
	switch v := u.next("NonEmptyString " + prompt).(type) {
	case string:
		return v, nil
	case error:
		return "", v
	default:
		u.t.Fatalf("NonEmptyString %q: scripted answer %v (%T) is not a string", prompt, v, v)
	}
	return "", nil
}

func (u *scriptUI) Integer(prompt string) (int, error) { return u.nextInt("Integer " + prompt) }

func (u *scriptUI) NewID(kind TableKind) (int, error) { return u.nextInt("NewID " + kind.String()) }

func (u *scriptUI) ExistingID(kind TableKind) (int, error) {
	return u.nextInt("ExistingID " + kind.String())
}

func (u *scriptUI) Display(lines ...string) { u.shown = append(u.shown, lines...) }

func (u *scriptUI) output() string { return strings.Join(u.shown, "\n") }

// requireDone fails when scripted answers were left unused.
func (u *scriptUI) requireDone() {
	u.t.Helper()
	require.Empty(u.t, u.answers, "unused scripted answers")
}

// recordingStore wraps a Store, logs every mutation and can fail chosen ones.
type recordingStore struct {
	Store
	mutations []string
	fail      map[string]error
}

func newRecordingStore(s Store) *recordingStore {
	return &recordingStore{Store: s, fail: map[string]error{}}
}

func (r *recordingStore) record(op string, id int) error {
	r.mutations = append(r.mutations, fmt.Sprintf("%s %d", op, id))
	return r.fail[op]
}

func (r *recordingStore) InsertBook(b *Book) error {
	if err := r.record("InsertBook", b.ID); err != nil {
		return err
	}
	return r.Store.InsertBook(b)
}

func (r *recordingStore) InsertAuthor(a *Author) error {
	if err := r.record("InsertAuthor", a.ID); err != nil {
		return err
	}
	return r.Store.InsertAuthor(a)
}

func (r *recordingStore) UpdateBookAuthor(id, authorID int) error {
	if err := r.record("UpdateBookAuthor", id); err != nil {
		return err
	}
	return r.Store.UpdateBookAuthor(id, authorID)
}

func (r *recordingStore) DeleteBook(id int) error {
	if err := r.record("DeleteBook", id); err != nil {
		return err
	}
	return r.Store.DeleteBook(id)
}

func (r *recordingStore) DeleteAuthor(id int) error {
	if err := r.record("DeleteAuthor", id); err != nil {
		return err
	}
	return r.Store.DeleteAuthor(id)
}
