package cart

import (
	"context"
	"strings"

	"chocostore/internal/cart"
	"chocostore/internal/domain"
	"chocostore/internal/kv"
	"chocostore/internal/logging"
	"github.com/sirupsen/logrus"
)

const keyPrefix = "cart:"

// Service opens per-visitor cart stores over a shared key-value port.
type Service struct {
	port     kv.Port
	products productResolver
	locks    *keyLocks
	logger   logrus.FieldLogger
}

type productResolver interface {
	Get(id string) (domain.Product, bool)
}

func New(port kv.Port, products productResolver, logger logrus.FieldLogger) *Service {
	return &Service{port: port, products: products, locks: newKeyLocks(), logger: logging.OrDiscard(logger)}
}

// Key is the storage slot holding visitorID's cart.
func Key(visitorID string) string {
	return keyPrefix + strings.TrimSpace(visitorID)
}

// Open loads visitorID's cart. It never fails: unreadable state yields an
// empty cart.
func (s *Service) Open(ctx context.Context, visitorID string) *cart.Store {
	return cart.Open(ctx, s.port, Key(visitorID), s.products, s.logger.WithField("visitor_id", visitorID))
}

// Lookup resolves a product for adding to a cart.
func (s *Service) Lookup(productID string) (domain.Product, error) {
	p, ok := s.products.Get(strings.TrimSpace(productID))
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	return p, nil
}

// Add resolves productID and adds quantity units to visitorID's cart.
func (s *Service) Add(ctx context.Context, visitorID, productID string, quantity int) (domain.CartSnapshot, error) {
	if quantity <= 0 {
		return domain.CartSnapshot{}, domain.ErrInvalidInput
	}
	p, err := s.Lookup(productID)
	if err != nil {
		return domain.CartSnapshot{}, err
	}
	defer s.locks.lock(Key(visitorID))()
	store := s.Open(ctx, visitorID)
	store.AddItem(ctx, p, quantity)
	return store.Snapshot(), nil
}

// SetQuantity changes a line's quantity; zero or less removes it.
func (s *Service) SetQuantity(ctx context.Context, visitorID, productID string, quantity int) domain.CartSnapshot {
	defer s.locks.lock(Key(visitorID))()
	store := s.Open(ctx, visitorID)
	store.UpdateQuantity(ctx, productID, quantity)
	return store.Snapshot()
}

func (s *Service) Remove(ctx context.Context, visitorID, productID string) domain.CartSnapshot {
	defer s.locks.lock(Key(visitorID))()
	store := s.Open(ctx, visitorID)
	store.RemoveItem(ctx, productID)
	return store.Snapshot()
}

func (s *Service) Clear(ctx context.Context, visitorID string) domain.CartSnapshot {
	defer s.locks.lock(Key(visitorID))()
	store := s.Open(ctx, visitorID)
	store.Clear(ctx)
	return store.Snapshot()
}
