package catalog

import (
	"net/url"
	"reflect"
	"testing"

	"chocostore/internal/domain"
)

func sampleProducts() []domain.Product {
	return []domain.Product{
		{ID: "nutella-3kg", Name: "Nutella 3kg", MainCategory: domain.MainFood, Category: "pates-a-tartiner", Price: 25000},
		{ID: "dubai-200", Name: "Chocolat Dubai 200g", MainCategory: domain.MainFood, Category: "chocolats", Price: 9000},
		{ID: "mug", Name: "Mug Abou", MainCategory: domain.MainOther, Category: "accessoires", Price: 3500},
		{ID: "kinder-bueno", Name: "Kinder Bueno x10", MainCategory: domain.MainFood, Category: "chocolats", Price: 6000},
		{ID: "coffret", Name: "Coffret cadeau", MainCategory: domain.MainOther, Category: "cadeaux", Price: 15000},
	}
}

func ids(products []domain.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestFilter_DefaultReturnsEverythingInOrder(t *testing.T) {
	products := sampleProducts()
	got := Filter(products, DefaultFilterState())
	if !reflect.DeepEqual(ids(got), ids(products)) {
		t.Fatalf("expected full catalog, got %v", ids(got))
	}
}

func TestFilter_BySubCategoryKeepsRelativeOrder(t *testing.T) {
	got := Filter(sampleProducts(), FilterState{Main: All, Category: "chocolats"})
	want := []string{"dubai-200", "kinder-bueno"}
	if !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("expected %v, got %v", want, ids(got))
	}
}

func TestFilter_MainCategoryIsCaseSensitive(t *testing.T) {
	got := Filter(sampleProducts(), FilterState{Main: "divers", Category: All})
	if len(got) != 0 {
		t.Fatalf("expected no match for lower-cased main category, got %v", ids(got))
	}
	got = Filter(sampleProducts(), FilterState{Main: string(domain.MainOther), Category: All})
	if !reflect.DeepEqual(ids(got), []string{"mug", "coffret"}) {
		t.Fatalf("unexpected result %v", ids(got))
	}
}

func TestFilter_QueryIsCaseInsensitiveSubstring(t *testing.T) {
	products := sampleProducts()
	for _, q := range []string{"dubai", "DUBAI", "Dubai"} {
		got := Filter(products, FilterState{Main: All, Category: All, Query: q})
		if !reflect.DeepEqual(ids(got), []string{"dubai-200"}) {
			t.Fatalf("query %q: unexpected result %v", q, ids(got))
		}
	}
}

func TestFilter_QueryMatchesSubCategoryTag(t *testing.T) {
	got := Filter(sampleProducts(), FilterState{Main: All, Category: All, Query: "CHOCO"})
	want := []string{"dubai-200", "kinder-bueno"}
	if !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("expected %v, got %v", want, ids(got))
	}
}

func TestFilter_NoMatchIsEmptyNotNil(t *testing.T) {
	got := Filter(sampleProducts(), FilterState{Main: All, Category: All, Query: "pistache"})
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	products := sampleProducts()
	before := ids(products)
	_ = Filter(products, FilterState{Main: string(domain.MainFood), Category: "chocolats", Query: "kinder"})
	if !reflect.DeepEqual(ids(products), before) {
		t.Fatalf("input mutated: %v", ids(products))
	}
}

func TestFilter_SequentialEqualsConjunction(t *testing.T) {
	products := sampleProducts()
	states := []FilterState{
		{Main: string(domain.MainFood), Category: "chocolats", Query: "bueno"},
		{Main: string(domain.MainOther), Category: All, Query: "o"},
		{Main: All, Category: "cadeaux", Query: ""},
		{Main: string(domain.MainFood), Category: "accessoires", Query: ""},
	}
	for _, st := range states {
		step := Filter(products, FilterState{Main: st.Main, Category: All})
		step = Filter(step, FilterState{Main: All, Category: st.Category})
		step = Filter(step, FilterState{Main: All, Category: All, Query: st.Query})

		var conj []domain.Product
		for _, p := range products {
			if Matches(p, st) {
				conj = append(conj, p)
			}
		}
		if !reflect.DeepEqual(ids(step), ids(conj)) || !reflect.DeepEqual(ids(Filter(products, st)), ids(conj)) {
			t.Fatalf("state %+v: sequential %v, conjunction %v", st, ids(step), ids(conj))
		}
	}
}

func TestFilterStateFromQuery(t *testing.T) {
	st := FilterStateFromQuery(url.Values{"main": {"Alimentaire"}, "cat": {"chocolats"}, "q": {"dub"}})
	want := FilterState{Main: "Alimentaire", Category: "chocolats", Query: "dub"}
	if st != want {
		t.Fatalf("expected %+v, got %+v", want, st)
	}

	st = FilterStateFromQuery(url.Values{"main": {"Tous"}})
	if st != DefaultFilterState() || !st.IsDefault() {
		t.Fatalf("expected Tous to map to default state, got %+v", st)
	}

	st = FilterStateFromQuery(url.Values{})
	if !st.IsDefault() {
		t.Fatalf("expected default state, got %+v", st)
	}
}
