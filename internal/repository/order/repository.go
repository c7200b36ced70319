package order

import (
	"context"

	"chocostore/internal/domain"
)

type Repository interface {
	List(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error)
	CountByStatus(ctx context.Context, status domain.OrderStatus) (int, error)
}
