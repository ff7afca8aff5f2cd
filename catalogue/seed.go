package catalogue

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

//go:embed demo_seed.yaml
var demoSeed []byte

// SeedData is a batch of authors and books loaded into an empty catalogue.
type SeedData struct {
	Authors []Author `yaml:"authors"`
	Books   []Book   `yaml:"books"`
}

// DemoSeed returns the bundled demo catalogue.
func DemoSeed() (*SeedData, error) {
	return LoadSeed(bytes.NewReader(demoSeed))
}

// LoadSeed decodes YAML seed data and checks it against the catalogue
// rules: valid unique ids, non-empty fields, every book pointing at a
// listed author and every author having a book.
func LoadSeed(r io.Reader) (*SeedData, error) {
	var data SeedData
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	if err := data.validate(); err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}
	return &data, nil
}

func (s *SeedData) validate() error {
	authors := make(map[int]int, len(s.Authors))
	for _, a := range s.Authors {
		if !ValidID(a.ID) {
			return fmt.Errorf("author id %d is not a 4 digit number", a.ID)
		}
		if _, dup := authors[a.ID]; dup {
			return fmt.Errorf("author id %d: %w", a.ID, ErrDuplicateID)
		}
		if a.Name == "" || a.Country == "" {
			return fmt.Errorf("author %d needs a name and a country", a.ID)
		}
		authors[a.ID] = 0
	}

	books := make(map[int]struct{}, len(s.Books))
	for _, b := range s.Books {
		if !ValidID(b.ID) {
			return fmt.Errorf("book id %d is not a 4 digit number", b.ID)
		}
		if _, dup := books[b.ID]; dup {
			return fmt.Errorf("book id %d: %w", b.ID, ErrDuplicateID)
		}
		if b.Title == "" {
			return fmt.Errorf("book %d needs a title", b.ID)
		}
		if _, ok := authors[b.AuthorID]; !ok {
			return fmt.Errorf("book %d references unknown author %d", b.ID, b.AuthorID)
		}
		books[b.ID] = struct{}{}
		authors[b.AuthorID]++
	}

	for id, n := range authors {
		if n == 0 {
			return fmt.Errorf("author %d: %w", id, ErrNoReferences)
		}
	}
	return nil
}

// Seed inserts the data into store, authors first so every book insert
// finds its author. It returns the number of books written.
func Seed(store Store, data *SeedData) (int, error) {
	for i := range data.Authors {
		if err := store.InsertAuthor(&data.Authors[i]); err != nil {
			return 0, err
		}
	}
	for i := range data.Books {
		if err := store.InsertBook(&data.Books[i]); err != nil {
			return i, err
		}
	}
	return len(data.Books), nil
}
