package collection

import (
	"strings"
	"time"
)

// A filter is a named pure predicate. A filter with no value is inactive
// and matches everything; it never means "match nothing". Active filters
// combine by logical AND.
type predicate[T any] interface {
	active() bool
	match(item T) bool
	reset() bool // returns true if the filter was active
}

// FilterSet is a mapping of named filters applied to a collection.
// The zero number of filters is the identity: every item passes.
type FilterSet[T any] struct {
	order   []string
	filters map[string]predicate[T]
}

// NewFilterSet creates an empty filter set.
func NewFilterSet[T any]() *FilterSet[T] {
	return &FilterSet[T]{filters: make(map[string]predicate[T])}
}

// AddEquality registers an exact-match filter over key.
// Active iff its value is a non-empty string.
func (s *FilterSet[T]) AddEquality(name string, key func(T) string) *FilterSet[T] {
	s.add(name, &equalityFilter[T]{key: key})
	return s
}

// AddSubstring registers a case-insensitive substring filter over one or
// more text fields. An item matches if ANY field contains the query.
// Active iff the trimmed value is non-empty.
func (s *FilterSet[T]) AddSubstring(name string, fields func(T) []string) *FilterSet[T] {
	s.add(name, &substringFilter[T]{fields: fields})
	return s
}

// AddDateRange registers an inclusive date-range filter over the item's
// reference date. Active iff both endpoints are set. The lower bound is
// normalized to start of day and the upper bound to end of day, so a date
// exactly on the upper-bound day still matches. Items with a zero
// reference date never match an active range.
func (s *FilterSet[T]) AddDateRange(name string, ref func(T) time.Time) *FilterSet[T] {
	s.add(name, &dateRangeFilter[T]{ref: ref})
	return s
}

func (s *FilterSet[T]) add(name string, p predicate[T]) {
	if _, dup := s.filters[name]; !dup {
		s.order = append(s.order, name)
	}
	s.filters[name] = p
}

// SetValue updates a string-valued filter (equality or substring).
// Reports whether the effective value changed. Unknown names are ignored.
func (s *FilterSet[T]) SetValue(name, value string) bool {
	switch f := s.filters[name].(type) {
	case *equalityFilter[T]:
		if f.value == value {
			return false
		}
		f.value = value
		return true
	case *substringFilter[T]:
		if f.value == value {
			return false
		}
		f.value = value
		return true
	}
	return false
}

// Value returns the current string value of a filter, "" if unset or unknown.
func (s *FilterSet[T]) Value(name string) string {
	switch f := s.filters[name].(type) {
	case *equalityFilter[T]:
		return f.value
	case *substringFilter[T]:
		return f.value
	}
	return ""
}

// SetRange updates a date-range filter. Zero times clear an endpoint.
// Reports whether the range changed.
func (s *FilterSet[T]) SetRange(name string, from, to time.Time) bool {
	f, ok := s.filters[name].(*dateRangeFilter[T])
	if !ok {
		return false
	}
	if f.from.Equal(from) && f.to.Equal(to) {
		return false
	}
	f.from, f.to = from, to
	return true
}

// Range returns the current endpoints of a date-range filter.
func (s *FilterSet[T]) Range(name string) (from, to time.Time) {
	if f, ok := s.filters[name].(*dateRangeFilter[T]); ok {
		return f.from, f.to
	}
	return time.Time{}, time.Time{}
}

// ClearAll resets every filter. Reports whether any filter was active.
func (s *FilterSet[T]) ClearAll() bool {
	changed := false
	for _, name := range s.order {
		if s.filters[name].reset() {
			changed = true
		}
	}
	return changed
}

// AnyActive reports whether at least one filter participates in matching.
func (s *FilterSet[T]) AnyActive() bool {
	for _, name := range s.order {
		if s.filters[name].active() {
			return true
		}
	}
	return false
}

// Match applies all active filters to item, combined by AND.
// With zero active filters every item passes.
func (s *FilterSet[T]) Match(item T) bool {
	for _, name := range s.order {
		f := s.filters[name]
		if f.active() && !f.match(item) {
			return false
		}
	}
	return true
}

// Apply returns the items that pass Match, preserving order.
// The input slice is never modified.
func (s *FilterSet[T]) Apply(items []T) []T {
	result := make([]T, 0, len(items))
	for _, item := range items {
		if s.Match(item) {
			result = append(result, item)
		}
	}
	return result
}

type equalityFilter[T any] struct {
	value string
	key   func(T) string
}

func (f *equalityFilter[T]) active() bool      { return f.value != "" }
func (f *equalityFilter[T]) match(item T) bool { return f.key(item) == f.value }
func (f *equalityFilter[T]) reset() bool {
	was := f.active()
	f.value = ""
	return was
}

type substringFilter[T any] struct {
	value  string
	fields func(T) []string
}

func (f *substringFilter[T]) active() bool {
	return strings.TrimSpace(f.value) != ""
}

func (f *substringFilter[T]) match(item T) bool {
	q := strings.ToLower(strings.TrimSpace(f.value))
	for _, field := range f.fields(item) {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func (f *substringFilter[T]) reset() bool {
	was := f.active()
	f.value = ""
	return was
}

type dateRangeFilter[T any] struct {
	from, to time.Time
	ref      func(T) time.Time
}

func (f *dateRangeFilter[T]) active() bool {
	return !f.from.IsZero() && !f.to.IsZero()
}

func (f *dateRangeFilter[T]) match(item T) bool {
	d := f.ref(item)
	if d.IsZero() {
		return false
	}
	lo := startOfDay(f.from)
	hi := endOfDay(f.to)
	return !d.Before(lo) && !d.After(hi)
}

func (f *dateRangeFilter[T]) reset() bool {
	was := f.active()
	f.from, f.to = time.Time{}, time.Time{}
	return was
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999999999, t.Location())
}
