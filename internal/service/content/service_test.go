package content

import (
	"context"
	"errors"
	"testing"

	"chocostore/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	blocks []domain.SiteContent
	err    error
}

func (s *stubStore) List(_ context.Context, page, section string) ([]domain.SiteContent, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []domain.SiteContent
	for _, b := range s.blocks {
		if b.Page == page && (section == "" || b.Section == section) {
			out = append(out, b)
		}
	}
	return out, nil
}

var homeBlocks = []domain.SiteContent{
	{Page: "home", Section: "hero", Key: "title", Content: "Bienvenue", Type: domain.ContentText},
	{Page: "home", Section: "hero", Key: "badges", Content: `["Livraison Dakar","Paiement à la livraison"]`, Type: domain.ContentJSON},
	{Page: "home", Section: "about", Key: "body", Content: "<p>Depuis 2015</p>", Type: domain.ContentHTML},
	{Page: "contact", Section: "main", Key: "phone", Content: "+221 78 013 26 28", Type: domain.ContentText},
}

func TestPageGroupsBySection(t *testing.T) {
	svc := New(&stubStore{blocks: homeBlocks}, nil)

	got, err := svc.Page(context.Background(), "home", "")
	require.NoError(t, err)
	require.Len(t, got, 2)

	hero, ok := got["hero"].(map[string]any)
	require.True(t, ok, "hero should be a nested map, got %T", got["hero"])
	assert.Equal(t, "Bienvenue", hero["title"])
	assert.Equal(t, []any{"Livraison Dakar", "Paiement à la livraison"}, hero["badges"])

	about := got["about"].(map[string]any)
	assert.Equal(t, "<p>Depuis 2015</p>", about["body"])
}

func TestPageSingleSectionIsFlat(t *testing.T) {
	svc := New(&stubStore{blocks: homeBlocks}, nil)

	got, err := svc.Page(context.Background(), "home", "hero")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"title":  "Bienvenue",
		"badges": []any{"Livraison Dakar", "Paiement à la livraison"},
	}, got)
}

func TestPageRequiresPage(t *testing.T) {
	_, err := New(&stubStore{}, nil).Page(context.Background(), "  ", "hero")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPageWithoutStorageIsEmpty(t *testing.T) {
	got, err := New(nil, nil).Page(context.Background(), "home", "")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = New(&stubStore{err: errors.New("connection refused")}, nil).Page(context.Background(), "home", "")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestPageInvalidJSONFallsBackToText(t *testing.T) {
	store := &stubStore{blocks: []domain.SiteContent{
		{Page: "home", Section: "hero", Key: "badges", Content: `["oops"`, Type: domain.ContentJSON},
	}}
	got, err := New(store, nil).Page(context.Background(), "home", "hero")
	require.NoError(t, err)
	assert.Equal(t, `["oops"`, got["badges"])
}
