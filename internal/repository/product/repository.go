package product

import (
	"context"

	"chocostore/internal/domain"
)

// Stats holds catalog counters for the admin dashboard.
type Stats struct {
	Total    int
	Featured int
}

type Repository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	InsertIfMissing(ctx context.Context, p domain.Product) (bool, error)
	Stats(ctx context.Context) (Stats, error)
}
