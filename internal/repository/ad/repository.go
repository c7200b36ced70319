package ad

import (
	"context"

	"chocostore/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Ad, error)
	Create(ctx context.Context, a domain.Ad) (*domain.Ad, error)
	Update(ctx context.Context, a domain.Ad) (*domain.Ad, error)
	Delete(ctx context.Context, id int64) error
}
