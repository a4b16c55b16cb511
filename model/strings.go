package model

import (
	"iter"
	"slices"
)

// Strings holds the document's user strings: key/value text pairs kept in
// insertion order.
type Strings struct {
	keys   []string
	values map[string]string
}

// NewStrings returns an empty set.
func NewStrings() *Strings {
	return &Strings{values: make(map[string]string)}
}

// Count returns the number of keys.
func (s *Strings) Count() int {
	return len(s.keys)
}

// Get returns the value stored under key.
func (s *Strings) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Set stores value under key. Setting an existing key keeps its position.
func (s *Strings) Set(key, value string) {
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

// Delete removes key and reports whether it was present.
func (s *Strings) Delete(key string) bool {
	if _, ok := s.values[key]; !ok {
		return false
	}
	delete(s.values, key)
	s.keys = slices.DeleteFunc(s.keys, func(k string) bool { return k == key })

	return true
}

// Keys returns the keys in insertion order.
func (s *Strings) Keys() []string {
	return slices.Clone(s.keys)
}

// All iterates over the pairs in insertion order.
func (s *Strings) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, k := range s.Keys() {
			if v, ok := s.values[k]; ok && !yield(k, v) {
				return
			}
		}
	}
}
