package prompt

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore-inventory/catalogue"
)

type fakeIDs struct {
	books   map[int]bool
	authors map[int]bool
	err     error
}

func (f *fakeIDs) IDExists(kind catalogue.TableKind, id int) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if kind == catalogue.KindBook {
		return f.books[id], nil
	}
	return f.authors[id], nil
}

func newConsole(input ...string) (*Console, *bytes.Buffer) {
	var out bytes.Buffer
	ids := &fakeIDs{
		books:   map[int]bool{3001: true},
		authors: map[int]bool{1290: true},
	}
	c := New(strings.NewReader(strings.Join(input, "\n")+"\n"), &out, ids)
	return c, &out
}

func TestChoiceRepromptsUntilValid(t *testing.T) {
	c, out := newConsole("x", "9", "2")

	got, err := c.Choice([]int{0, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, 2, got)
	assert.Equal(t, 2, strings.Count(out.String(), "Invalid selection, please try again"))
}

func TestYesNo(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  bool
	}{
		{"empty means yes", []string{""}, true},
		{"y", []string{"y"}, true},
		{"upper Y", []string{"Y"}, true},
		{"n", []string{"n"}, false},
		{"retry then no", []string{"maybe", "no"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newConsole(tt.input...)
			got, err := c.YesNo("Continue?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNonEmptyString(t *testing.T) {
	c, out := newConsole("", "   ", "Dune")

	got, err := c.NonEmptyString("Title: ")
	require.NoError(t, err)
	assert.Equal(t, "Dune", got)
	assert.Equal(t, 2, strings.Count(out.String(), "Input must contain characters"))
}

func TestInteger(t *testing.T) {
	c, _ := newConsole("ten", "-4")

	got, err := c.Integer("Qty: ")
	require.NoError(t, err)
	assert.Equal(t, -4, got)
}

func TestNewID(t *testing.T) {
	c, out := newConsole("12", "abcd", "3001", "3002")

	got, err := c.NewID(catalogue.KindBook)
	require.NoError(t, err)
	assert.Equal(t, 3002, got)
	assert.Contains(t, out.String(), "Please input a unique 4 digit book id number")
	assert.Contains(t, out.String(), "id number already exists")
	assert.Equal(t, 2, strings.Count(out.String(), "please input a four digit number"))
}

func TestExistingID(t *testing.T) {
	c, out := newConsole("1291", "1290")

	got, err := c.ExistingID(catalogue.KindAuthor)
	require.NoError(t, err)
	assert.Equal(t, 1290, got)
	assert.Contains(t, out.String(), "ID does not match any existing author IDs")
}

func TestIDLookupErrorStopsLoop(t *testing.T) {
	var out bytes.Buffer
	boom := errors.New("disk gone")
	c := New(strings.NewReader("3001\n"), &out, &fakeIDs{err: boom})

	_, err := c.ExistingID(catalogue.KindBook)
	assert.ErrorIs(t, err, boom)
}

func TestInputClosed(t *testing.T) {
	c, _ := newConsole("x")

	_, err := c.Choice([]int{1})
	assert.ErrorIs(t, err, ErrInputClosed)
}

func TestMaxAttempts(t *testing.T) {
	c, _ := newConsole("a", "b", "c", "1")
	c.MaxAttempts = 3

	_, err := c.Choice([]int{1})
	assert.ErrorIs(t, err, ErrTooManyAttempts)
}

func TestEchoAndDisplay(t *testing.T) {
	c, out := newConsole("Dune")
	c.Echo = true

	_, err := c.NonEmptyString("Title: ")
	require.NoError(t, err)
	c.Display("one", "two")
	assert.Equal(t, "Title: Dune\none\ntwo\n", out.String())
}
