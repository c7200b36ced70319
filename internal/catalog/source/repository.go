package source

import (
	"context"

	"chocostore/internal/domain"
)

type productLister interface {
	List(ctx context.Context) ([]domain.Product, error)
}

// Repository loads the catalog from the products table.
type Repository struct {
	repo productLister
}

func NewRepository(repo productLister) *Repository {
	return &Repository{repo: repo}
}

func (r *Repository) List(ctx context.Context) ([]domain.Product, error) {
	products, err := r.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.Images == nil {
			p.Images = []string{}
		}
		out = append(out, p)
	}
	return out, nil
}
