// Package cart holds a visitor's shopping cart: line items merged by product,
// derived totals, and persistence of identifiers and quantities through a kv.Port.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"chocostore/internal/domain"
	"chocostore/internal/kv"
	"chocostore/internal/logging"
	"github.com/sirupsen/logrus"
)

// ProductResolver looks products up by identifier. The catalog service satisfies it.
type ProductResolver interface {
	Get(id string) (domain.Product, bool)
}

// Line is one product-quantity pairing. Quantity is always >= 1.
type Line struct {
	Product  domain.Product
	Quantity int
}

// Total is the line price, quantity times unit price.
func (l Line) Total() int64 {
	return int64(l.Quantity) * l.Product.Price
}

// Store is the authoritative representation of one cart. Every mutation is
// written through to the port; write failures are logged, never returned.
type Store struct {
	mu     sync.Mutex
	port   kv.Port
	key    string
	logger logrus.FieldLogger
	lines  []Line
}

// Open loads the cart stored under key. A missing, unreadable or corrupt
// payload yields an empty cart. Stored products the resolver no longer knows
// are dropped.
func Open(ctx context.Context, port kv.Port, key string, resolver ProductResolver, logger logrus.FieldLogger) *Store {
	s := &Store{
		port:   port,
		key:    key,
		logger: logging.OrDiscard(logger).WithField("cart_key", key),
	}
	s.lines = s.load(ctx, resolver)
	return s
}

func (s *Store) load(ctx context.Context, resolver ProductResolver) []Line {
	raw, err := s.port.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.logger.WithError(err).Warn("cart: read failed, starting empty")
		}
		return nil
	}

	var items []domain.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		s.logger.WithError(err).Warn("cart: stored payload corrupt, starting empty")
		return nil
	}

	var lines []Line
	for _, item := range items {
		if item.Quantity <= 0 || item.ProductID == "" {
			continue
		}
		if i := indexOf(lines, item.ProductID); i >= 0 {
			lines[i].Quantity += item.Quantity
			continue
		}
		product, ok := resolver.Get(item.ProductID)
		if !ok {
			s.logger.WithField("product_id", item.ProductID).Info("cart: dropping product missing from catalog")
			continue
		}
		lines = append(lines, Line{Product: product, Quantity: item.Quantity})
	}
	return lines
}

// AddItem adds qty units of p, merging into an existing line for the same
// product. Non-positive quantities are ignored. Stock is not checked.
func (s *Store) AddItem(ctx context.Context, p domain.Product, qty int) {
	if qty <= 0 || p.ID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := indexOf(s.lines, p.ID); i >= 0 {
		s.lines[i].Quantity += qty
	} else {
		s.lines = append(s.lines, Line{Product: p, Quantity: qty})
	}
	s.persist(ctx)
}

// AddOne adds a single unit of p.
func (s *Store) AddOne(ctx context.Context, p domain.Product) {
	s.AddItem(ctx, p, 1)
}

// RemoveItem drops the line for productID. Absent products are a no-op.
func (s *Store) RemoveItem(ctx context.Context, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.lines, productID)
	if i < 0 {
		return
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	s.persist(ctx)
}

// UpdateQuantity sets the quantity of productID's line. A quantity of zero or
// less removes the line. Absent products are a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.lines, productID)
	if i < 0 {
		return
	}
	if qty <= 0 {
		s.lines = append(s.lines[:i], s.lines[i+1:]...)
	} else {
		s.lines[i].Quantity = qty
	}
	s.persist(ctx)
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	s.persist(ctx)
}

// Lines returns a copy of the current lines in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// TotalItems is the sum of all line quantities.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, l := range s.lines {
		total += l.Quantity
	}
	return total
}

// TotalPrice is the sum of quantity times unit price over all lines.
func (s *Store) TotalPrice() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int64
	for _, l := range s.lines {
		total += l.Total()
	}
	return total
}

// Snapshot returns a read-only copy of the cart with resolved product details.
func (s *Store) Snapshot() domain.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := domain.CartSnapshot{Lines: make([]domain.CartSnapshotLine, 0, len(s.lines))}
	for _, l := range s.lines {
		lineTotal := l.Total()
		snap.Lines = append(snap.Lines, domain.CartSnapshotLine{
			ProductID: l.Product.ID,
			Name:      l.Product.Name,
			Image:     l.Product.Image,
			UnitPrice: l.Product.Price,
			Quantity:  l.Quantity,
			LineTotal: lineTotal,
			InStock:   l.Product.InStock,
		})
		snap.TotalItems += l.Quantity
		snap.TotalPrice += lineTotal
	}
	return snap
}

// persist must be called with s.mu held.
func (s *Store) persist(ctx context.Context) {
	items := make([]domain.CartItem, 0, len(s.lines))
	for _, l := range s.lines {
		items = append(items, domain.CartItem{ProductID: l.Product.ID, Quantity: l.Quantity})
	}
	data, err := json.Marshal(items)
	if err != nil {
		s.logger.WithError(err).Error("cart: encode failed")
		return
	}
	if err := s.port.Set(ctx, s.key, data); err != nil {
		s.logger.WithError(err).Warn("cart: write failed")
	}
}

func indexOf(lines []Line, productID string) int {
	for i, l := range lines {
		if l.Product.ID == productID {
			return i
		}
	}
	return -1
}
