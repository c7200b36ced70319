package ad

import (
	"context"
	"errors"
	"os"
	"testing"

	"chocostore/internal/domain"
	"chocostore/internal/migrate"
	"github.com/jackc/pgx/v5/pgxpool"
)

func TestPostgres_AdLifecycle(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE ads RESTART IDENTITY`); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	repo := NewPostgres(pool, nil)
	first, err := repo.Create(ctx, domain.Ad{Title: "Promo Nutella", Image: "/ads/nutella.jpg", Active: true, Position: domain.DefaultAdPosition})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.ID == 0 || !first.Active || first.Position != "homepage" {
		t.Fatalf("unexpected ad %+v", first)
	}
	second, err := repo.Create(ctx, domain.Ad{Title: "Coffrets Tabaski", Position: "sidebar"})
	if err != nil {
		t.Fatalf("Create second: %v", err)
	}

	all, err := repo.List(ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("List: %d %v", len(all), err)
	}
	if all[0].ID != second.ID {
		t.Fatalf("expected newest first, got %+v", all)
	}

	first.Active = false
	first.Link = "/catalogue?cat=pates-a-tartiner"
	updated, err := repo.Update(ctx, *first)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Active || updated.Link != first.Link {
		t.Fatalf("update not applied: %+v", updated)
	}
	if _, err := repo.Update(ctx, domain.Ad{ID: 9999, Title: "x", Position: "homepage"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}

	if err := repo.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, first.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}
