package order

import (
	"context"
	"errors"

	"chocostore/internal/domain"
	"chocostore/internal/logging"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

const returningColumns = `
RETURNING id, reference::text, customer_name, customer_phone, COALESCE(address, ''), items, total_price,
          status, COALESCE(notes, ''), created_at, updated_at
`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger logrus.FieldLogger
}

func NewPostgres(pool *pgxpool.Pool, logger logrus.FieldLogger) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrDiscard(logger)}
}

// List returns orders newest first. An empty status returns every order.
func (r *postgresRepo) List(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	const q = `
SELECT id, reference::text, customer_name, customer_phone, COALESCE(address, ''), items, total_price,
       status, COALESCE(notes, ''), created_at, updated_at
FROM orders
WHERE $1::text = '' OR status = $1::text
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, string(status))
	if err != nil {
		r.logger.WithError(err).Error("order repo: list")
		return nil, err
	}
	defer rows.Close()

	result := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	const q = `
INSERT INTO orders (reference, customer_name, customer_phone, address, items, total_price, status, notes)
VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, NULLIF($8, ''))
` + returningColumns
	if o.Status == "" {
		o.Status = domain.OrderPending
	}
	items := o.Items
	if items == nil {
		items = []domain.OrderItem{}
	}
	out, err := scanOrder(r.pool.QueryRow(ctx, q,
		o.Reference, o.CustomerName, o.CustomerPhone, o.Address, items, o.TotalPrice, string(o.Status), o.Notes,
	))
	if err != nil {
		r.logger.WithError(err).WithField("reference", o.Reference).Error("order repo: create")
		return nil, err
	}
	r.logger.WithFields(logrus.Fields{"id": out.ID, "reference": out.Reference, "total": out.TotalPrice}).Info("order repo: created")
	return out, nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	const q = `
UPDATE orders
SET status = $2, updated_at = NOW()
WHERE id = $1
` + returningColumns
	out, err := scanOrder(r.pool.QueryRow(ctx, q, id, string(status)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) CountByStatus(ctx context.Context, status domain.OrderStatus) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE status = $1`, string(status)).Scan(&n)
	return n, err
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var status string
	if err := row.Scan(&o.ID, &o.Reference, &o.CustomerName, &o.CustomerPhone, &o.Address, &o.Items,
		&o.TotalPrice, &status, &o.Notes, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	return &o, nil
}
