package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"chocostore/internal/domain"
	"github.com/sirupsen/logrus"
)

// WithEditorial attaches the ad and site content stores. Either may be nil,
// in which case the matching operations report ErrUnavailable.
func (s *Service) WithEditorial(ads adStore, content contentStore) *Service {
	s.ads = ads
	s.content = content
	return s
}

func (s *Service) ListAds(ctx context.Context) ([]domain.Ad, error) {
	if s.ads == nil {
		return nil, ErrUnavailable
	}
	return s.ads.List(ctx)
}

func (s *Service) CreateAd(ctx context.Context, a domain.Ad) (*domain.Ad, error) {
	if s.ads == nil {
		return nil, ErrUnavailable
	}
	a, err := normalizeAd(a)
	if err != nil {
		return nil, err
	}
	created, err := s.ads.Create(ctx, a)
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"ad_id": created.ID, "position": created.Position}).Info("admin: ad created")
	return created, nil
}

func (s *Service) UpdateAd(ctx context.Context, id int64, a domain.Ad) (*domain.Ad, error) {
	if s.ads == nil {
		return nil, ErrUnavailable
	}
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid ad id", domain.ErrInvalidInput)
	}
	a, err := normalizeAd(a)
	if err != nil {
		return nil, err
	}
	a.ID = id
	return s.ads.Update(ctx, a)
}

func (s *Service) DeleteAd(ctx context.Context, id int64) error {
	if s.ads == nil {
		return ErrUnavailable
	}
	if err := s.ads.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.WithField("ad_id", id).Info("admin: ad deleted")
	return nil
}

func normalizeAd(a domain.Ad) (domain.Ad, error) {
	a.Title = strings.TrimSpace(a.Title)
	if a.Title == "" {
		return a, fmt.Errorf("%w: ad title required", domain.ErrInvalidInput)
	}
	a.Description = strings.TrimSpace(a.Description)
	a.Image = strings.TrimSpace(a.Image)
	a.Link = strings.TrimSpace(a.Link)
	a.Position = strings.TrimSpace(a.Position)
	if a.Position == "" {
		a.Position = domain.DefaultAdPosition
	}
	return a, nil
}

// ListContent returns the editable blocks of page and section; empty values
// list everything.
func (s *Service) ListContent(ctx context.Context, page, section string) ([]domain.SiteContent, error) {
	if s.content == nil {
		return nil, ErrUnavailable
	}
	return s.content.List(ctx, strings.TrimSpace(page), strings.TrimSpace(section))
}

// SaveContent creates or replaces the block at (page, section, key).
// JSON blocks must hold a valid document.
func (s *Service) SaveContent(ctx context.Context, c domain.SiteContent) (*domain.SiteContent, error) {
	if s.content == nil {
		return nil, ErrUnavailable
	}
	c.Page = strings.TrimSpace(c.Page)
	c.Section = strings.TrimSpace(c.Section)
	c.Key = strings.TrimSpace(c.Key)
	if c.Page == "" || c.Section == "" || c.Key == "" {
		return nil, fmt.Errorf("%w: page, section and key required", domain.ErrInvalidInput)
	}
	if c.Type == "" {
		c.Type = domain.ContentText
	}
	if !c.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown content type %q", domain.ErrInvalidInput, c.Type)
	}
	if c.Type == domain.ContentJSON && !json.Valid([]byte(c.Content)) {
		return nil, fmt.Errorf("%w: content is not valid JSON", domain.ErrInvalidInput)
	}
	saved, err := s.content.Upsert(ctx, c)
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"page": saved.Page, "section": saved.Section, "key": saved.Key}).Info("admin: content saved")
	return saved, nil
}
