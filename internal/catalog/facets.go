package catalog

import "chocostore/internal/domain"

// Facet is one sub-category entry of the catalog sidebar.
type Facet struct {
	Main     domain.MainCategory `json:"main"`
	Category string              `json:"category"`
	Count    int                 `json:"count"`
}

type facetKey struct {
	main     domain.MainCategory
	category string
}

// Facets lists the sub-categories present under main (or under every main
// category when main is All) with their product counts, in first-seen order.
// A sub-category name used under two main categories yields one facet per main.
func Facets(products []domain.Product, main string) []Facet {
	main = normalizeMain(main)
	index := make(map[facetKey]int)
	out := make([]Facet, 0)
	for _, p := range products {
		if !isAll(main) && string(p.MainCategory) != main {
			continue
		}
		if p.Category == "" {
			continue
		}
		key := facetKey{main: p.MainCategory, category: p.Category}
		if i, ok := index[key]; ok {
			out[i].Count++
			continue
		}
		index[key] = len(out)
		out = append(out, Facet{Main: p.MainCategory, Category: p.Category, Count: 1})
	}
	return out
}
