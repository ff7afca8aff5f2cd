package catalogue

import (
	"bookstore-inventory/similarity"
)

// Default duplicate thresholds, on the 0-100 similarity scale.
const (
	DefaultTitleThreshold  = 90
	DefaultAuthorThreshold = 75
	DefaultMatchLimit      = 5
)

// Detector finds existing records that look like near duplicates of a new
// title or author name.
type Detector struct {
	store Store

	TitleThreshold  int
	AuthorThreshold int
	// MatchLimit caps how many distinct candidates are considered per query.
	MatchLimit int
}

// NewDetector returns a Detector with the default thresholds.
func NewDetector(store Store) *Detector {
	return &Detector{
		store:           store,
		TitleThreshold:  DefaultTitleThreshold,
		AuthorThreshold: DefaultAuthorThreshold,
		MatchLimit:      DefaultMatchLimit,
	}
}

// SimilarTitles returns the joined rows of books whose title scores at least
// TitleThreshold against query, best match first. Books titled exactly
// exclude are left out; pass "" to compare against every book.
func (d *Detector) SimilarTitles(query, exclude string) ([]*BookDetail, error) {
	books, err := d.store.ListBookDetails()
	if err != nil {
		return nil, err
	}

	byTitle := make(map[string][]*BookDetail)
	var titles []string
	for _, b := range books {
		if exclude != "" && b.Title == exclude {
			continue
		}
		if _, seen := byTitle[b.Title]; !seen {
			titles = append(titles, b.Title)
		}
		byTitle[b.Title] = append(byTitle[b.Title], b)
	}

	var similar []*BookDetail
	for _, m := range similarity.Rank(query, titles, d.MatchLimit) {
		if m.Score < d.TitleThreshold {
			break
		}
		similar = append(similar, byTitle[m.Value]...)
	}
	return similar, nil
}

// SimilarAuthors returns authors whose name scores at least AuthorThreshold
// against name, best match first.
func (d *Detector) SimilarAuthors(name string) ([]*Author, error) {
	authors, err := d.store.ListAuthors()
	if err != nil {
		return nil, err
	}

	byName := make(map[string][]*Author)
	var names []string
	for _, a := range authors {
		if _, seen := byName[a.Name]; !seen {
			names = append(names, a.Name)
		}
		byName[a.Name] = append(byName[a.Name], a)
	}

	var similar []*Author
	for _, m := range similarity.Rank(name, names, d.MatchLimit) {
		if m.Score < d.AuthorThreshold {
			break
		}
		similar = append(similar, byName[m.Value]...)
	}
	return similar, nil
}
