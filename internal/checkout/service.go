// Package checkout turns a cart snapshot into a WhatsApp order message and
// keeps a pending order record for the shop staff.
package checkout

import (
	"context"
	"errors"

	"chocostore/internal/domain"
	"chocostore/internal/logging"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrEmptyCart is returned when checking out a cart without lines.
var ErrEmptyCart = errors.New("cart is empty")

type orderCreator interface {
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
}

type Config struct {
	ShopName       string
	WhatsAppNumber string
}

type Service struct {
	cfg    Config
	orders orderCreator
	logger logrus.FieldLogger
}

// Result is what the visitor needs to complete the order.
type Result struct {
	Order       *domain.Order `json:"order,omitempty"`
	Message     string        `json:"message"`
	WhatsAppURL string        `json:"whatsappUrl"`
}

// New builds a checkout service. orders may be nil when no database is
// configured; checkout then only produces the message.
func New(cfg Config, orders orderCreator, logger logrus.FieldLogger) *Service {
	return &Service{cfg: cfg, orders: orders, logger: logging.OrDiscard(logger)}
}

// Checkout validates the customer, renders the order message and records a
// pending order. Failing to record the order does not block the visitor.
// The cart itself is left untouched.
func (s *Service) Checkout(ctx context.Context, snap domain.CartSnapshot, customer CustomerInfo) (*Result, error) {
	if err := customer.Validate(); err != nil {
		return nil, err
	}
	if snap.Empty() {
		return nil, ErrEmptyCart
	}

	msg := Message(s.cfg.ShopName, snap, customer)
	res := &Result{
		Message:     msg,
		WhatsAppURL: WhatsAppLink(s.cfg.WhatsAppNumber, msg),
	}

	if s.orders == nil {
		return res, nil
	}
	order, err := s.orders.Create(ctx, orderFromSnapshot(snap, customer))
	if err != nil {
		s.logger.WithError(err).Error("checkout: failed to record order")
		return res, nil
	}
	s.logger.WithFields(logrus.Fields{"order_id": order.ID, "reference": order.Reference}).Info("checkout: order recorded")
	res.Order = order
	return res, nil
}

func orderFromSnapshot(snap domain.CartSnapshot, c CustomerInfo) domain.Order {
	items := make([]domain.OrderItem, 0, len(snap.Lines))
	for _, l := range snap.Lines {
		items = append(items, domain.OrderItem{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			LineTotal: l.LineTotal,
		})
	}
	return domain.Order{
		Reference:     uuid.NewString(),
		CustomerName:  c.Name,
		CustomerPhone: c.NormalizedPhone(),
		Address:       c.Address,
		Items:         items,
		TotalPrice:    snap.TotalPrice,
		Status:        domain.OrderPending,
		Notes:         c.Notes,
	}
}
