// Package catalog derives the visible product subset from the full catalog
// and the shopper's filter selections.
package catalog

import (
	"net/url"
	"strings"

	"chocostore/internal/domain"
)

// All is the wildcard value for both the main category and the sub-category selector.
const All = "all"

// FilterState is the combination of selections driving catalog visibility.
type FilterState struct {
	Main     string `json:"main"`
	Category string `json:"category"`
	Query    string `json:"query"`
}

// DefaultFilterState is the reset state: everything visible.
func DefaultFilterState() FilterState {
	return FilterState{Main: All, Category: All}
}

// IsDefault reports whether st filters nothing out.
func (st FilterState) IsDefault() bool {
	return isAll(st.Main) && isAll(st.Category) && st.Query == ""
}

// FilterStateFromQuery seeds a FilterState from URL parameters: main, cat and q.
// Missing parameters keep their defaults.
func FilterStateFromQuery(values url.Values) FilterState {
	st := DefaultFilterState()
	if v := strings.TrimSpace(values.Get("main")); v != "" {
		st.Main = normalizeMain(v)
	}
	if v := strings.TrimSpace(values.Get("cat")); v != "" {
		st.Category = v
	}
	st.Query = values.Get("q")
	return st
}

// Filter returns the products matching st, in input order. The input slice is not modified.
func Filter(products []domain.Product, st FilterState) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	query := strings.ToLower(st.Query)
	for _, p := range products {
		if matches(p, st, query) {
			out = append(out, p)
		}
	}
	return out
}

// Matches reports whether p satisfies every predicate of st.
func Matches(p domain.Product, st FilterState) bool {
	return matches(p, st, strings.ToLower(st.Query))
}

func matches(p domain.Product, st FilterState, lowerQuery string) bool {
	if !isAll(st.Main) && string(p.MainCategory) != st.Main {
		return false
	}
	if !isAll(st.Category) && p.Category != st.Category {
		return false
	}
	if lowerQuery != "" {
		name := strings.ToLower(p.Name)
		cat := strings.ToLower(p.Category)
		if !strings.Contains(name, lowerQuery) && !strings.Contains(cat, lowerQuery) {
			return false
		}
	}
	return true
}

func isAll(v string) bool {
	return v == "" || v == All
}

// normalizeMain maps the storefront's "Tous" tab label onto the wildcard.
func normalizeMain(v string) string {
	if strings.EqualFold(v, All) || strings.EqualFold(v, "tous") {
		return All
	}
	return v
}
