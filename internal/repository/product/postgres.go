package product

import (
	"context"
	"errors"

	"chocostore/internal/domain"
	"chocostore/internal/logging"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

const selectColumns = `
SELECT id, name, main_category, category, price, COALESCE(description, ''), COALESCE(image, ''),
       COALESCE(images, ARRAY[]::TEXT[]), in_stock, featured, created_at, updated_at
FROM products
`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger logrus.FieldLogger
}

func NewPostgres(pool *pgxpool.Pool, logger logrus.FieldLogger) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrDiscard(logger)}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, selectColumns+`ORDER BY featured DESC, created_at DESC`)
	if err != nil {
		r.logger.WithError(err).Error("product repo: list")
		return nil, err
	}
	defer rows.Close()

	result := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.WithError(err).Error("product repo: list rows")
		return nil, err
	}
	r.logger.WithField("count", len(result)).Debug("product repo: list")
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, selectColumns+`WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.WithError(err).WithField("id", id).Error("product repo: get")
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (id, name, main_category, category, price, description, image, images, in_stock, featured)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, $9, $10)
RETURNING created_at, updated_at
`
	out := p
	out.Images = nonNilImages(p.Images)
	err := r.pool.QueryRow(ctx, q,
		p.ID, p.Name, string(p.MainCategory), p.Category, p.Price,
		p.Description, p.Image, out.Images, p.InStock, p.Featured,
	).Scan(&out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.WithError(err).WithField("id", p.ID).Error("product repo: create")
		return nil, err
	}
	r.logger.WithField("id", out.ID).Info("product repo: created")
	return &out, nil
}

func (r *postgresRepo) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
UPDATE products
SET name = $2,
    main_category = $3,
    category = $4,
    price = $5,
    description = NULLIF($6, ''),
    image = NULLIF($7, ''),
    images = $8,
    in_stock = $9,
    featured = $10,
    updated_at = NOW()
WHERE id = $1
RETURNING created_at, updated_at
`
	out := p
	out.Images = nonNilImages(p.Images)
	err := r.pool.QueryRow(ctx, q,
		p.ID, p.Name, string(p.MainCategory), p.Category, p.Price,
		p.Description, p.Image, out.Images, p.InStock, p.Featured,
	).Scan(&out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.WithError(err).WithField("id", p.ID).Error("product repo: update")
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.WithError(err).WithField("id", id).Error("product repo: delete")
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) InsertIfMissing(ctx context.Context, p domain.Product) (bool, error) {
	const q = `
INSERT INTO products (id, name, main_category, category, price, description, image, images, in_stock, featured)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, $9, $10)
ON CONFLICT (id) DO NOTHING
`
	cmd, err := r.pool.Exec(ctx, q,
		p.ID, p.Name, string(p.MainCategory), p.Category, p.Price,
		p.Description, p.Image, nonNilImages(p.Images), p.InStock, p.Featured,
	)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *postgresRepo) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*), COUNT(*) FILTER (WHERE featured) FROM products`).Scan(&s.Total, &s.Featured)
	return s, err
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	var main string
	if err := row.Scan(&p.ID, &p.Name, &main, &p.Category, &p.Price, &p.Description, &p.Image,
		&p.Images, &p.InStock, &p.Featured, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.MainCategory = domain.MainCategory(main)
	p.Images = nonNilImages(p.Images)
	return &p, nil
}

func nonNilImages(images []string) []string {
	if images == nil {
		return []string{}
	}
	return images
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
