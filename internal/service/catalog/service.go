// Package catalog keeps the storefront's in-memory product list and answers
// filter and lookup queries against it.
package catalog

import (
	"context"
	"fmt"
	"sync"

	"chocostore/internal/catalog"
	"chocostore/internal/domain"
	"chocostore/internal/logging"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Source loads the full product list.
type Source interface {
	List(ctx context.Context) ([]domain.Product, error)
}

type Service struct {
	primary  Source
	fallback Source
	logger   logrus.FieldLogger

	mu       sync.RWMutex
	products []domain.Product
	byID     map[string]int

	sfg singleflight.Group
}

// New builds a service with an empty catalog. fallback may be nil; when set
// it is consulted whenever primary fails.
func New(primary, fallback Source, logger logrus.FieldLogger) *Service {
	return &Service{
		primary:  primary,
		fallback: fallback,
		logger:   logging.OrDiscard(logger),
		products: []domain.Product{},
		byID:     map[string]int{},
	}
}

// Reload replaces the catalog with a fresh copy from the source. Concurrent
// calls share one load. On failure the current catalog is kept.
func (s *Service) Reload(ctx context.Context) (int, error) {
	v, err, _ := s.sfg.Do("reload", func() (interface{}, error) {
		products, err := s.load(context.WithoutCancel(ctx))
		if err != nil {
			return 0, err
		}
		s.replace(products)
		return len(products), nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

func (s *Service) load(ctx context.Context) ([]domain.Product, error) {
	products, err := s.primary.List(ctx)
	if err == nil {
		return products, nil
	}
	s.logger.WithError(err).Warn("catalog: primary source failed")
	if s.fallback == nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	products, fbErr := s.fallback.List(ctx)
	if fbErr != nil {
		return nil, fmt.Errorf("load catalog: %w (fallback: %v)", err, fbErr)
	}
	s.logger.WithField("count", len(products)).Info("catalog: serving fallback catalog")
	return products, nil
}

func (s *Service) replace(products []domain.Product) {
	list := make([]domain.Product, 0, len(products))
	index := make(map[string]int, len(products))
	for _, p := range products {
		if _, dup := index[p.ID]; dup || p.ID == "" {
			continue
		}
		index[p.ID] = len(list)
		list = append(list, p)
	}

	s.mu.Lock()
	s.products = list
	s.byID = index
	s.mu.Unlock()
}

// Products returns a copy of the whole catalog in source order.
func (s *Service) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Get resolves a product by id.
func (s *Service) Get(id string) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return s.products[i], true
}

func (s *Service) Search(st catalog.FilterState) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return catalog.Filter(s.products, st)
}

func (s *Service) Facets(main string) []catalog.Facet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return catalog.Facets(s.products, main)
}
