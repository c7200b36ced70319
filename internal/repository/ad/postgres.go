package ad

import (
	"context"
	"errors"

	"chocostore/internal/domain"
	"chocostore/internal/logging"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

const columns = `id, title, description, image, link, active, position, created_at, updated_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger logrus.FieldLogger
}

func NewPostgres(pool *pgxpool.Pool, logger logrus.FieldLogger) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrDiscard(logger)}
}

// List returns every ad, newest first.
func (r *postgresRepo) List(ctx context.Context) ([]domain.Ad, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM ads ORDER BY created_at DESC, id DESC`)
	if err != nil {
		r.logger.WithError(err).Error("ad repo: list")
		return nil, err
	}
	defer rows.Close()

	result := []domain.Ad{}
	for rows.Next() {
		a, err := scanAd(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) Create(ctx context.Context, a domain.Ad) (*domain.Ad, error) {
	const q = `
INSERT INTO ads (title, description, image, link, active, position)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + columns
	out, err := scanAd(r.pool.QueryRow(ctx, q, a.Title, a.Description, a.Image, a.Link, a.Active, a.Position))
	if err != nil {
		r.logger.WithError(err).WithField("title", a.Title).Error("ad repo: create")
		return nil, err
	}
	r.logger.WithFields(logrus.Fields{"id": out.ID, "position": out.Position}).Info("ad repo: created")
	return out, nil
}

func (r *postgresRepo) Update(ctx context.Context, a domain.Ad) (*domain.Ad, error) {
	const q = `
UPDATE ads
SET title = $2, description = $3, image = $4, link = $5, active = $6, position = $7, updated_at = NOW()
WHERE id = $1
RETURNING ` + columns
	out, err := scanAd(r.pool.QueryRow(ctx, q, a.ID, a.Title, a.Description, a.Image, a.Link, a.Active, a.Position))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.WithError(err).WithField("id", a.ID).Error("ad repo: update")
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM ads WHERE id = $1`, id)
	if err != nil {
		r.logger.WithError(err).WithField("id", id).Error("ad repo: delete")
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanAd(row pgx.Row) (*domain.Ad, error) {
	var a domain.Ad
	if err := row.Scan(&a.ID, &a.Title, &a.Description, &a.Image, &a.Link, &a.Active, &a.Position,
		&a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}
