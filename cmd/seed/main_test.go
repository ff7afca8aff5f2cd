package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore-inventory/catalogue"
)

func TestRunRebuildsDatabase(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "shop.db")

	var out bytes.Buffer
	require.NoError(t, run(&out, dbPath, ""))
	assert.Contains(t, out.String(), "Seeded 5 authors and 5 books")

	// A second run starts from scratch instead of failing on duplicates.
	out.Reset()
	require.NoError(t, run(&out, dbPath, ""))

	db, err := catalogue.NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()
	books, err := db.ListBookDetails()
	require.NoError(t, err)
	assert.Len(t, books, 5)
}

func TestRunFromFile(t *testing.T) {
	dir := t.TempDir()
	seed := filepath.Join(dir, "seed.yaml")
	contents := "authors:\n  - {id: 1001, name: Frank Herbert, country: USA}\n" +
		"books:\n  - {id: 3001, title: Dune, author_id: 1001, qty: 4}\n"
	require.NoError(t, os.WriteFile(seed, []byte(contents), 0o600))

	var out bytes.Buffer
	require.NoError(t, run(&out, filepath.Join(dir, "shop.db"), seed))
	assert.Contains(t, out.String(), "Seeded 1 authors and 1 books")
	assert.Contains(t, out.String(), "Dune")
}

func TestRunRejectsInvalidSeed(t *testing.T) {
	dir := t.TempDir()
	seed := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(seed, []byte("authors:\n  - {id: 1001, name: A, country: B}\n"), 0o600))

	dbPath := filepath.Join(dir, "shop.db")
	err := run(&bytes.Buffer{}, dbPath, seed)
	assert.ErrorIs(t, err, catalogue.ErrNoReferences)

	// A rejected seed creates no database.
	_, statErr := os.Stat(dbPath)
	assert.True(t, os.IsNotExist(statErr))
}
