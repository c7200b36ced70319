package admin

import (
	"context"
	"fmt"
	"strings"

	"chocostore/internal/domain"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func (s *Service) ListOrders(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	if s.orders == nil {
		return nil, ErrUnavailable
	}
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}
	return s.orders.List(ctx, status)
}

// CreateOrder records an order taken outside the storefront, e.g. by phone.
// Line and order totals are recomputed from unit prices.
func (s *Service) CreateOrder(ctx context.Context, o domain.Order) (*domain.Order, error) {
	if s.orders == nil {
		return nil, ErrUnavailable
	}
	o.CustomerName = strings.TrimSpace(o.CustomerName)
	o.CustomerPhone = strings.Join(strings.Fields(o.CustomerPhone), "")
	if o.CustomerName == "" || o.CustomerPhone == "" {
		return nil, fmt.Errorf("%w: customer name and phone required", domain.ErrInvalidInput)
	}
	if len(o.Items) == 0 {
		return nil, fmt.Errorf("%w: order has no items", domain.ErrInvalidInput)
	}
	if o.Status == "" {
		o.Status = domain.OrderPending
	}
	if !o.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, o.Status)
	}

	o.TotalPrice = 0
	for i := range o.Items {
		it := &o.Items[i]
		if it.Quantity <= 0 || it.UnitPrice < 0 {
			return nil, fmt.Errorf("%w: item %d has invalid quantity or price", domain.ErrInvalidInput, i+1)
		}
		it.LineTotal = int64(it.Quantity) * it.UnitPrice
		o.TotalPrice += it.LineTotal
	}
	if o.Reference == "" {
		o.Reference = uuid.NewString()
	}

	created, err := s.orders.Create(ctx, o)
	if err != nil {
		return nil, err
	}
	s.logger.WithField("order_id", created.ID).Info("admin: order created")
	return created, nil
}

func (s *Service) UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	if s.orders == nil {
		return nil, ErrUnavailable
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}
	o, err := s.orders.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"order_id": id, "status": status}).Info("admin: order status changed")
	return o, nil
}
