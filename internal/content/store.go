// Package content holds the immutable catalog of notes, videos and categories.
package content

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mathnotes-io/mathnotes/internal/tier"
)

var ErrDuplicateID = errors.New("duplicate id")

// Store is a read-only view over the catalog. It is safe for concurrent use;
// every accessor returns copies so callers cannot alter the catalog.
type Store struct {
	categories []Category
	notes      []Note
	videos     []Video

	categoryIndex map[string]int
	noteIndex     map[string]int
	videoIndex    map[string]int
}

// New builds a Store. Insertion order of each slice is the catalog order.
func New(categories []Category, notes []Note, videos []Video) (*Store, error) {
	s := &Store{
		categoryIndex: make(map[string]int, len(categories)),
		noteIndex:     make(map[string]int, len(notes)),
		videoIndex:    make(map[string]int, len(videos)),
	}

	for _, c := range categories {
		if _, dup := s.categoryIndex[c.ID]; dup {
			return nil, fmt.Errorf("%w: category %q", ErrDuplicateID, c.ID)
		}
		s.categoryIndex[c.ID] = len(s.categories)
		s.categories = append(s.categories, c)
	}

	for _, n := range notes {
		if _, dup := s.noteIndex[n.ID]; dup {
			return nil, fmt.Errorf("%w: note %q", ErrDuplicateID, n.ID)
		}
		if !n.Tier.Valid() {
			return nil, fmt.Errorf("note %q: %w", n.ID, tier.ErrUnknownTier)
		}
		n = n.clone()
		if n.Tier == tier.Free || n.PreviewParagraphLimit < 0 {
			n.PreviewParagraphLimit = 0
		}
		s.noteIndex[n.ID] = len(s.notes)
		s.notes = append(s.notes, n)
	}

	for _, v := range videos {
		if _, dup := s.videoIndex[v.ID]; dup {
			return nil, fmt.Errorf("%w: video %q", ErrDuplicateID, v.ID)
		}
		s.videoIndex[v.ID] = len(s.videos)
		s.videos = append(s.videos, v)
	}

	return s, nil
}

func (s *Store) Categories() []Category {
	return append([]Category(nil), s.categories...)
}

func (s *Store) Category(id string) (Category, bool) {
	i, ok := s.categoryIndex[id]
	if !ok {
		return Category{}, false
	}
	return s.categories[i], true
}

// CategoryName returns the display name for id, or id itself when unknown.
func (s *Store) CategoryName(id string) string {
	if c, ok := s.Category(id); ok {
		return c.Name
	}
	return id
}

func (s *Store) NoteCount(categoryID string) int {
	n := 0
	for _, note := range s.notes {
		if note.Category == categoryID {
			n++
		}
	}
	return n
}

func (s *Store) Notes() []Note {
	return s.filterNotes(func(Note) bool { return true })
}

// Recent returns the first n notes in catalog order.
func (s *Store) Recent(n int) []Note {
	notes := s.Notes()
	if n >= 0 && n < len(notes) {
		notes = notes[:n]
	}
	return notes
}

func (s *Store) GetByID(id string) (Note, bool) {
	i, ok := s.noteIndex[id]
	if !ok {
		return Note{}, false
	}
	return s.notes[i].clone(), true
}

// ListByCategory returns the notes filed under categoryID. Unknown ids yield an empty slice.
func (s *Store) ListByCategory(categoryID string) []Note {
	return s.filterNotes(func(n Note) bool { return n.Category == categoryID })
}

// Search matches query case-insensitively as a substring of the title, excerpt or
// any tag. An empty query returns the whole catalog.
func (s *Store) Search(query string) []Note {
	if query == "" {
		return s.Notes()
	}
	q := strings.ToLower(query)
	return s.filterNotes(func(n Note) bool { return noteMatches(n, q) })
}

// FilterNotes applies the optional category filter and then the optional search.
func (s *Store) FilterNotes(categoryID, query string) []Note {
	q := strings.ToLower(query)
	return s.filterNotes(func(n Note) bool {
		if categoryID != "" && n.Category != categoryID {
			return false
		}
		return query == "" || noteMatches(n, q)
	})
}

func noteMatches(n Note, lowerQuery string) bool {
	if strings.Contains(strings.ToLower(n.Title), lowerQuery) ||
		strings.Contains(strings.ToLower(n.Excerpt), lowerQuery) {
		return true
	}
	for _, tag := range n.Tags {
		if strings.Contains(strings.ToLower(tag), lowerQuery) {
			return true
		}
	}
	return false
}

func (s *Store) filterNotes(keep func(Note) bool) []Note {
	out := []Note{}
	for _, n := range s.notes {
		if keep(n) {
			out = append(out, n.clone())
		}
	}
	return out
}

func (s *Store) Videos() []Video {
	return append([]Video{}, s.videos...)
}

func (s *Store) VideoByID(id string) (Video, bool) {
	i, ok := s.videoIndex[id]
	if !ok {
		return Video{}, false
	}
	return s.videos[i], true
}

func (s *Store) VideosByCategory(categoryID string) []Video {
	return s.FilterVideos(categoryID, "")
}

// SearchVideos matches query against video titles and descriptions.
func (s *Store) SearchVideos(query string) []Video {
	return s.FilterVideos("", query)
}

func (s *Store) FilterVideos(categoryID, query string) []Video {
	q := strings.ToLower(query)
	out := []Video{}
	for _, v := range s.videos {
		if categoryID != "" && v.Category != categoryID {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(v.Title), q) &&
			!strings.Contains(strings.ToLower(v.Description), q) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// RelatedVideos returns up to limit other videos from the same category.
func (s *Store) RelatedVideos(id string, limit int) []Video {
	v, ok := s.VideoByID(id)
	if !ok {
		return []Video{}
	}
	out := []Video{}
	for _, other := range s.videos {
		if len(out) == limit {
			break
		}
		if other.Category == v.Category && other.ID != v.ID {
			out = append(out, other)
		}
	}
	return out
}
