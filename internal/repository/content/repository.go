package content

import (
	"context"

	"chocostore/internal/domain"
)

type Repository interface {
	// List returns blocks ordered by page, section and key. Empty page or
	// section match every value.
	List(ctx context.Context, page, section string) ([]domain.SiteContent, error)
	// Upsert stores c, replacing content and type of an existing
	// (page, section, key) block.
	Upsert(ctx context.Context, c domain.SiteContent) (*domain.SiteContent, error)
}
