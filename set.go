package newswatch

import "strings"

// Set is a set of Identifiers. The zero value is not usable; create one with
// NewSet.
type Set struct {
	items map[string]struct{}
}

// NewSet returns a set holding the given identifiers.
func NewSet(ids ...string) *Set {
	s := &Set{items: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id with surrounding whitespace trimmed. Empty identifiers are
// ignored.
func (s *Set) Add(id string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return
	}
	s.items[id] = struct{}{}
}

// Has reports whether id is in the set.
func (s *Set) Has(id string) bool {
	_, ok := s.items[strings.TrimSpace(id)]
	return ok
}

// Len returns the number of identifiers in the set.
func (s *Set) Len() int {
	return len(s.items)
}

// Equal reports whether both sets hold exactly the same identifiers.
func (s *Set) Equal(other *Set) bool {
	if s.Len() != other.Len() {
		return false
	}
	for id := range s.items {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

// Union returns a new set with the members of s and other.
func (s *Set) Union(other *Set) *Set {
	out := NewSet()
	for id := range s.items {
		out.Add(id)
	}
	for id := range other.items {
		out.Add(id)
	}
	return out
}

// Difference returns a new set with the members of s that are not in other.
func (s *Set) Difference(other *Set) *Set {
	out := NewSet()
	for id := range s.items {
		if !other.Has(id) {
			out.Add(id)
		}
	}
	return out
}

// Sorted returns the members ordered with SortNewestFirst.
func (s *Set) Sorted() []string {
	ids := make([]string, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	SortNewestFirst(ids)
	return ids
}
