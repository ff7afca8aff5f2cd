package catalogue

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWouldOrphan(t *testing.T) {
	db := seededDB(t,
		[]Author{
			{ID: 1001, Name: "Frank Herbert", Country: "USA"},
			{ID: 1002, Name: "Ursula K. Le Guin", Country: "USA"},
			{ID: 1003, Name: "Nobody", Country: "Nowhere"},
		},
		[]Book{
			{ID: 3001, Title: "Dune", AuthorID: 1001, Quantity: 4},
			{ID: 3002, Title: "A Wizard of Earthsea", AuthorID: 1002, Quantity: 2},
			{ID: 3003, Title: "The Left Hand of Darkness", AuthorID: 1002, Quantity: 1},
		})
	g := NewGuard(db, newScript(t), quietLogger())

	orphan, err := g.WouldOrphan(1001)
	require.NoError(t, err)
	assert.True(t, orphan)

	orphan, err = g.WouldOrphan(1002)
	require.NoError(t, err)
	assert.False(t, orphan)

	_, err = g.WouldOrphan(1003)
	assert.ErrorIs(t, err, ErrNoReferences)
}

func TestAffectedBooks(t *testing.T) {
	db := seededDB(t,
		[]Author{{ID: 1002, Name: "Ursula K. Le Guin", Country: "USA"}},
		[]Book{
			{ID: 3002, Title: "A Wizard of Earthsea", AuthorID: 1002, Quantity: 2},
			{ID: 3003, Title: "The Left Hand of Darkness", AuthorID: 1002, Quantity: 1},
		})
	g := NewGuard(db, newScript(t), quietLogger())

	books, err := g.AffectedBooks(1002)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, 3002, books[0].ID)
	assert.Equal(t, 3003, books[1].ID)
}

func singleBookDB(t *testing.T) *Database {
	return seededDB(t,
		[]Author{{ID: 1290, Name: "N", Country: "C"}},
		[]Book{{ID: 3001, Title: "T", AuthorID: 1290, Quantity: 5}})
}

func TestCascadeNoOrphanSkipsConfirmation(t *testing.T) {
	db := seededDB(t,
		[]Author{{ID: 1290, Name: "N", Country: "C"}},
		[]Book{
			{ID: 3001, Title: "T", AuthorID: 1290, Quantity: 5},
			{ID: 3002, Title: "U", AuthorID: 1290, Quantity: 1},
		})
	rs := newRecordingStore(db)
	ui := newScript(t)
	g := NewGuard(rs, ui, quietLogger())

	author, err := db.GetAuthor(1290)
	require.NoError(t, err)
	outcome, err := g.Cascade(*author, func() error { return rs.DeleteBook(3001) })
	require.NoError(t, err)
	assert.Equal(t, Completed, outcome)
	assert.Equal(t, []string{"DeleteBook 3001"}, rs.mutations)
	ui.requireDone()
	requireNoOrphans(t, db)
}

func TestCascadeDeclinedRunsNothing(t *testing.T) {
	db := singleBookDB(t)
	rs := newRecordingStore(db)
	ui := newScript(t, false)
	g := NewGuard(rs, ui, quietLogger())

	called := false
	outcome, err := g.Cascade(Author{ID: 1290, Name: "N", Country: "C"}, func() error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, Cancelled, outcome)
	assert.False(t, called)
	assert.Empty(t, rs.mutations)
	assert.Contains(t, ui.output(), "This change will also remove author N from C (ID: 1290)")
}

func TestCascadeMutationFailureKeepsAuthor(t *testing.T) {
	db := singleBookDB(t)
	rs := newRecordingStore(db)
	boom := errors.New("boom")
	rs.fail["DeleteBook"] = boom
	g := NewGuard(rs, newScript(t, true), quietLogger())

	_, err := g.Cascade(Author{ID: 1290, Name: "N", Country: "C"}, func() error { return rs.DeleteBook(3001) })
	assert.ErrorIs(t, err, boom)
	assert.False(t, IsConsistencyWarning(err))
	assert.Equal(t, []string{"DeleteBook 3001"}, rs.mutations)

	exists, err := db.IDExists(KindAuthor, 1290)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCascadeAuthorDeleteFailure(t *testing.T) {
	db := singleBookDB(t)
	rs := newRecordingStore(db)
	locked := errors.New("database is locked")
	rs.fail["DeleteAuthor"] = locked
	g := NewGuard(rs, newScript(t, true), quietLogger())

	outcome, err := g.Cascade(Author{ID: 1290, Name: "N", Country: "C"}, func() error { return rs.DeleteBook(3001) })
	assert.Equal(t, Completed, outcome)
	require.Error(t, err)

	var w *ConsistencyWarning
	require.ErrorAs(t, err, &w)
	assert.Equal(t, 1290, w.Author.ID)
	assert.ErrorIs(t, err, locked)

	// The book delete is not rolled back.
	exists, err := db.IDExists(KindBook, 3001)
	require.NoError(t, err)
	assert.False(t, exists)
	exists, err = db.IDExists(KindAuthor, 1290)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCascadeUnreferencedAuthor(t *testing.T) {
	db := seededDB(t, []Author{{ID: 1290, Name: "N", Country: "C"}}, nil)
	g := NewGuard(db, newScript(t), quietLogger())

	_, err := g.Cascade(Author{ID: 1290}, func() error {
		t.Fatal("mutation must not run")
		return nil
	})
	assert.ErrorIs(t, err, ErrNoReferences)
}
