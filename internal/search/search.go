// Package search filters rendered sections by a free-text query.
package search

import (
	"strings"
	"unicode"

	"studyapp/internal/render"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// Normalize folds case and strips diacritics so "Você" and "voce" compare
// equal.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return strings.TrimSpace(folder.String(stripped))
}

// Query is a normalised search term.
type Query struct {
	raw  string
	term string
}

// NewQuery prepares q for matching.
func NewQuery(q string) Query {
	return Query{raw: q, term: Normalize(q)}
}

// String returns the query as typed.
func (q Query) String() string { return q.raw }

// Empty reports whether the query matches everything.
func (q Query) Empty() bool { return q.term == "" }

// Matches reports whether key contains the query.
func (q Query) Matches(key string) bool {
	if q.Empty() {
		return true
	}
	return strings.Contains(Normalize(key), q.term)
}

// Filter returns a copy of s keeping only the items whose search key
// matches q. Groups left empty are dropped. Placeholder sections are
// returned unchanged.
func Filter(s render.Section, q Query) render.Section {
	if q.Empty() || s.Message != "" {
		return s
	}

	out := s
	out.Groups = nil
	for _, g := range s.Groups {
		var items []render.Item
		for _, it := range g.Items {
			if q.Matches(it.SearchKey) {
				items = append(items, it)
			}
		}
		if len(items) > 0 {
			g.Items = items
			out.Groups = append(out.Groups, g)
		}
	}
	return out
}

// Result is the outcome of filtering one section.
type Result struct {
	Section render.Section `json:"section"`
	Matches int            `json:"matches"`
}

// All filters every section, keeping sections with at least one match.
// With an empty query every section is returned.
func All(sections []render.Section, q Query) []Result {
	out := make([]Result, 0, len(sections))
	for _, s := range sections {
		f := Filter(s, q)
		n := f.ItemCount()
		if q.Empty() || n > 0 {
			out = append(out, Result{Section: f, Matches: n})
		}
	}
	return out
}
