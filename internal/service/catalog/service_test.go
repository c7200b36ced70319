package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"chocostore/internal/catalog"
	"chocostore/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	products []domain.Product
	err      error
	calls    atomic.Int32
	gate     chan struct{}
}

func (s *stubSource) List(context.Context) ([]domain.Product, error) {
	s.calls.Add(1)
	if s.gate != nil {
		<-s.gate
	}
	return s.products, s.err
}

var sample = []domain.Product{
	{ID: "p1", Name: "Truffes noires", MainCategory: domain.MainFood, Category: "chocolats", Price: 4500},
	{ID: "p2", Name: "Sac isotherme", MainCategory: domain.MainOther, Category: "accessoires", Price: 3000},
	{ID: "p3", Name: "Pralines", MainCategory: domain.MainFood, Category: "chocolats", Price: 5000},
}

func TestReloadLoadsPrimary(t *testing.T) {
	svc := New(&stubSource{products: sample}, nil, nil)

	n, err := svc.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	p, ok := svc.Get("p2")
	require.True(t, ok)
	assert.Equal(t, "Sac isotherme", p.Name)

	_, ok = svc.Get("missing")
	assert.False(t, ok)
}

func TestEmptyBeforeLoad(t *testing.T) {
	svc := New(&stubSource{products: sample}, nil, nil)
	assert.NotNil(t, svc.Products())
	assert.Empty(t, svc.Products())
	assert.Empty(t, svc.Search(catalog.DefaultFilterState()))
}

func TestReloadFallsBack(t *testing.T) {
	fallback := &stubSource{products: sample[:1]}
	svc := New(&stubSource{err: errors.New("db down")}, fallback, nil)

	n, err := svc.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, int32(1), fallback.calls.Load())
}

func TestReloadFailureKeepsCurrentCatalog(t *testing.T) {
	src := &stubSource{products: sample}
	svc := New(src, nil, nil)
	_, err := svc.Reload(context.Background())
	require.NoError(t, err)

	src.err = errors.New("boom")
	_, err = svc.Reload(context.Background())
	require.Error(t, err)
	assert.Len(t, svc.Products(), 3)
}

func TestReloadDropsDuplicateIDs(t *testing.T) {
	dup := append([]domain.Product{}, sample...)
	dup = append(dup, domain.Product{ID: "p1", Name: "Doublon"})
	svc := New(&stubSource{products: dup}, nil, nil)

	n, err := svc.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	p, _ := svc.Get("p1")
	assert.Equal(t, "Truffes noires", p.Name)
}

func TestConcurrentReloadsShareOneLoad(t *testing.T) {
	src := &stubSource{products: sample, gate: make(chan struct{})}
	svc := New(src, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Reload(context.Background())
		}()
	}
	require.Eventually(t, func() bool { return src.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(src.gate)
	wg.Wait()

	assert.LessOrEqual(t, src.calls.Load(), int32(5))
	assert.Len(t, svc.Products(), 3)
}

func TestSearchAndFacets(t *testing.T) {
	svc := New(&stubSource{products: sample}, nil, nil)
	_, err := svc.Reload(context.Background())
	require.NoError(t, err)

	got := svc.Search(catalog.FilterState{Main: string(domain.MainFood), Category: catalog.All, Query: "pra"})
	require.Len(t, got, 1)
	assert.Equal(t, "p3", got[0].ID)

	facets := svc.Facets(string(domain.MainFood))
	require.Len(t, facets, 1)
	assert.Equal(t, "chocolats", facets[0].Category)
	assert.Equal(t, 2, facets[0].Count)
}

func TestProductsReturnsCopy(t *testing.T) {
	svc := New(&stubSource{products: sample}, nil, nil)
	_, err := svc.Reload(context.Background())
	require.NoError(t, err)

	list := svc.Products()
	list[0].Name = "mutated"
	p, _ := svc.Get("p1")
	assert.Equal(t, "Truffes noires", p.Name)
}
