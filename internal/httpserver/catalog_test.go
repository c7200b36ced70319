package httpserver

import (
	"net/http"
	"testing"

	"chocostore/internal/catalog"
)

func TestListProducts_Filters(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		path string
		want []string
	}{
		{"/api/products", []string{"nutella-3kg", "bueno", "sac-isotherme"}},
		{"/api/products?main=Tous", []string{"nutella-3kg", "bueno", "sac-isotherme"}},
		{"/api/products?main=Alimentaire", []string{"nutella-3kg", "bueno"}},
		{"/api/products?main=Alimentaire&cat=biscuits", []string{"bueno"}},
		{"/api/products?q=NUTELLA", []string{"nutella-3kg"}},
		{"/api/products?q=accessoires", []string{"sac-isotherme"}},
		{"/api/products?featured=true", []string{"nutella-3kg"}},
		{"/api/products?main=Divers&q=nutella", []string{}},
	}
	for _, tc := range cases {
		rec := env.do(t, request{method: http.MethodGet, path: tc.path})
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", tc.path, rec.Code)
		}
		var resp productListResponse
		decode(t, rec, &resp)
		if resp.Total != len(tc.want) || len(resp.Results) != len(tc.want) {
			t.Fatalf("%s: expected %v, got %+v", tc.path, tc.want, resp.Results)
		}
		for i, id := range tc.want {
			if resp.Results[i].ID != id {
				t.Fatalf("%s: expected %v in order, got %+v", tc.path, tc.want, resp.Results)
			}
		}
	}
}

func TestListProducts_EchoesFilter(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, request{method: http.MethodGet, path: "/api/products?main=Divers&cat=accessoires"})
	var resp productListResponse
	decode(t, rec, &resp)
	want := catalog.FilterState{Main: "Divers", Category: "accessoires"}
	if resp.Filter != want {
		t.Fatalf("expected filter %+v, got %+v", want, resp.Filter)
	}
}

func TestListProducts_BadFeatured(t *testing.T) {
	env := newTestEnv(t)
	if rec := env.do(t, request{method: http.MethodGet, path: "/api/products?featured=maybe"}); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetProduct(t *testing.T) {
	env := newTestEnv(t)
	if rec := env.do(t, request{method: http.MethodGet, path: "/api/products/bueno"}); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := env.do(t, request{method: http.MethodGet, path: "/api/products/ghost"}); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestListCategories(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, request{method: http.MethodGet, path: "/api/categories?main=Alimentaire"})
	var resp struct {
		MainCategories []string        `json:"mainCategories"`
		Facets         []catalog.Facet `json:"facets"`
	}
	decode(t, rec, &resp)
	if len(resp.MainCategories) != 2 {
		t.Fatalf("expected two main categories, got %v", resp.MainCategories)
	}
	if len(resp.Facets) != 2 || resp.Facets[0].Category != "chocolats" || resp.Facets[1].Category != "biscuits" {
		t.Fatalf("unexpected facets %+v", resp.Facets)
	}
}
