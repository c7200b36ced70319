// Package content serves editorial text blocks to the storefront.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"chocostore/internal/domain"
	"chocostore/internal/logging"
	"github.com/sirupsen/logrus"
)

type contentLister interface {
	List(ctx context.Context, page, section string) ([]domain.SiteContent, error)
}

type Service struct {
	store  contentLister
	logger logrus.FieldLogger
}

// New builds a Service. store may be nil when no database is configured;
// pages then render with their built-in defaults.
func New(store contentLister, logger logrus.FieldLogger) *Service {
	return &Service{store: store, logger: logging.OrDiscard(logger)}
}

// Page returns the blocks of page as a section -> key -> value map, or as a
// key -> value map when section is set. JSON blocks are returned decoded.
// Storage failures yield an empty map.
func (s *Service) Page(ctx context.Context, page, section string) (map[string]any, error) {
	page, section = strings.TrimSpace(page), strings.TrimSpace(section)
	if page == "" {
		return nil, fmt.Errorf("%w: page parameter required", domain.ErrInvalidInput)
	}
	out := map[string]any{}
	if s.store == nil {
		return out, nil
	}
	blocks, err := s.store.List(ctx, page, section)
	if err != nil {
		s.logger.WithError(err).WithField("page", page).Warn("content: load failed, serving empty page")
		return out, nil
	}

	for _, b := range blocks {
		v := s.value(b)
		if section != "" {
			out[b.Key] = v
			continue
		}
		sec, ok := out[b.Section].(map[string]any)
		if !ok {
			sec = map[string]any{}
			out[b.Section] = sec
		}
		sec[b.Key] = v
	}
	return out, nil
}

func (s *Service) value(b domain.SiteContent) any {
	if b.Type != domain.ContentJSON {
		return b.Content
	}
	var v any
	if err := json.Unmarshal([]byte(b.Content), &v); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{"page": b.Page, "section": b.Section, "key": b.Key}).
			Warn("content: invalid JSON block, serving raw text")
		return b.Content
	}
	return v
}
