package content

import (
	"context"

	"chocostore/internal/domain"
	"chocostore/internal/logging"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

const columns = `id, page, section, key, content, type, created_at, updated_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger logrus.FieldLogger
}

func NewPostgres(pool *pgxpool.Pool, logger logrus.FieldLogger) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrDiscard(logger)}
}

func (r *postgresRepo) List(ctx context.Context, page, section string) ([]domain.SiteContent, error) {
	const q = `
SELECT ` + columns + `
FROM site_content
WHERE ($1::text = '' OR page = $1::text)
  AND ($2::text = '' OR section = $2::text)
ORDER BY page, section, key
`
	rows, err := r.pool.Query(ctx, q, page, section)
	if err != nil {
		r.logger.WithError(err).WithFields(logrus.Fields{"page": page, "section": section}).Error("content repo: list")
		return nil, err
	}
	defer rows.Close()

	result := []domain.SiteContent{}
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, c domain.SiteContent) (*domain.SiteContent, error) {
	const q = `
INSERT INTO site_content (page, section, key, content, type)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (page, section, key) DO UPDATE SET
    content = EXCLUDED.content,
    type = EXCLUDED.type,
    updated_at = NOW()
RETURNING ` + columns
	out, err := scanContent(r.pool.QueryRow(ctx, q, c.Page, c.Section, c.Key, c.Content, string(c.Type)))
	if err != nil {
		r.logger.WithError(err).WithFields(logrus.Fields{"page": c.Page, "section": c.Section, "key": c.Key}).
			Error("content repo: upsert")
		return nil, err
	}
	return out, nil
}

func scanContent(row pgx.Row) (*domain.SiteContent, error) {
	var c domain.SiteContent
	var typ string
	if err := row.Scan(&c.ID, &c.Page, &c.Section, &c.Key, &c.Content, &typ, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Type = domain.ContentType(typ)
	return &c, nil
}
