package admin

import (
	"context"
	"fmt"
	"strings"

	"chocostore/internal/domain"
	"github.com/sirupsen/logrus"
)

// NormalizeProduct trims text fields, fills Image from Images and checks the
// fields every product needs.
func NormalizeProduct(p domain.Product) (domain.Product, error) {
	p.ID = strings.TrimSpace(p.ID)
	p.Name = strings.TrimSpace(p.Name)
	p.Category = strings.TrimSpace(p.Category)
	p.MainCategory = domain.MainCategory(strings.TrimSpace(string(p.MainCategory)))
	p.Image = strings.TrimSpace(p.Image)

	images := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		if img = strings.TrimSpace(img); img != "" {
			images = append(images, img)
		}
	}
	p.Images = images
	if p.Image == "" && len(p.Images) > 0 {
		p.Image = p.Images[0]
	}
	if p.Image != "" && len(p.Images) == 0 {
		p.Images = []string{p.Image}
	}

	switch {
	case p.ID == "":
		return p, fmt.Errorf("%w: id required", domain.ErrInvalidInput)
	case strings.ContainsAny(p.ID, " /?#"):
		return p, fmt.Errorf("%w: id must be a slug", domain.ErrInvalidInput)
	case p.Name == "":
		return p, fmt.Errorf("%w: name required", domain.ErrInvalidInput)
	case !p.MainCategory.Valid():
		return p, fmt.Errorf("%w: unknown main category %q", domain.ErrInvalidInput, p.MainCategory)
	case p.Category == "":
		return p, fmt.Errorf("%w: category required", domain.ErrInvalidInput)
	case p.Price < 0:
		return p, fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
	}
	return p, nil
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if s.products == nil {
		return nil, ErrUnavailable
	}
	return s.products.List(ctx)
}

func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if s.products == nil {
		return nil, ErrUnavailable
	}
	return s.products.GetByID(ctx, strings.TrimSpace(id))
}

func (s *Service) CreateProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if s.products == nil {
		return nil, ErrUnavailable
	}
	p, err := NormalizeProduct(p)
	if err != nil {
		return nil, err
	}
	created, err := s.products.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	s.logger.WithField("product_id", created.ID).Info("admin: product created")
	s.refreshCatalog(ctx)
	return created, nil
}

// UpdateProduct replaces the product stored under id. The id in the body is
// ignored.
func (s *Service) UpdateProduct(ctx context.Context, id string, p domain.Product) (*domain.Product, error) {
	if s.products == nil {
		return nil, ErrUnavailable
	}
	p.ID = id
	p, err := NormalizeProduct(p)
	if err != nil {
		return nil, err
	}
	updated, err := s.products.Update(ctx, p)
	if err != nil {
		return nil, err
	}
	s.logger.WithField("product_id", updated.ID).Info("admin: product updated")
	s.refreshCatalog(ctx)
	return updated, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if s.products == nil {
		return ErrUnavailable
	}
	if err := s.products.Delete(ctx, strings.TrimSpace(id)); err != nil {
		return err
	}
	s.logger.WithField("product_id", id).Info("admin: product deleted")
	s.refreshCatalog(ctx)
	return nil
}

// ImportProducts inserts every product whose id is not yet stored. Existing
// products are left untouched and counted as skipped. Invalid entries are
// reported and do not stop the run.
func (s *Service) ImportProducts(ctx context.Context, products []domain.Product) (ImportReport, error) {
	report := ImportReport{Total: len(products)}
	if s.products == nil {
		return report, ErrUnavailable
	}
	for i, raw := range products {
		p, err := NormalizeProduct(raw)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("#%d %s: %v", i+1, raw.ID, err))
			continue
		}
		inserted, err := s.products.InsertIfMissing(ctx, p)
		if err != nil {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", p.ID, err))
			continue
		}
		if inserted {
			report.Imported++
		} else {
			report.Skipped++
		}
	}
	s.logger.WithFields(logrus.Fields{
		"imported": report.Imported,
		"skipped":  report.Skipped,
		"errors":   len(report.Errors),
	}).Info("admin: import finished")
	if report.Imported > 0 {
		s.refreshCatalog(ctx)
	}
	return report, nil
}
