package seed

import (
	"context"
	"fmt"

	"chocostore/internal/catalog/source"
	"chocostore/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// Apply loads the bundled demo catalog into the products table. It is
// idempotent via ON CONFLICT and refreshes rows that already exist.
func Apply(ctx context.Context, pool *pgxpool.Pool, logger logrus.FieldLogger) (int, error) {
	products, err := source.Static{}.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("load demo catalog: %w", err)
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return 0, fmt.Errorf("upsert product %s: %w", p.ID, err)
		}
		if logger != nil {
			logger.WithField("product_id", p.ID).Debug("seed: product upserted")
		}
	}
	return len(products), nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p domain.Product) error {
	const q = `
INSERT INTO products (id, name, main_category, category, price, description, image, images, in_stock, featured)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, $9, $10)
ON CONFLICT (id) DO UPDATE
SET name = EXCLUDED.name,
    main_category = EXCLUDED.main_category,
    category = EXCLUDED.category,
    price = EXCLUDED.price,
    description = EXCLUDED.description,
    image = EXCLUDED.image,
    images = EXCLUDED.images,
    in_stock = EXCLUDED.in_stock,
    featured = EXCLUDED.featured,
    updated_at = NOW()
`
	images := p.Images
	if images == nil {
		images = []string{}
	}
	_, err := pool.Exec(ctx, q, p.ID, p.Name, string(p.MainCategory), p.Category, p.Price,
		p.Description, p.Image, images, p.InStock, p.Featured)
	return err
}
