// Package admin backs the shop staff dashboard: login, product management,
// order follow-up and catalog imports.
package admin

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"chocostore/internal/domain"
	"chocostore/internal/logging"
	productrepo "chocostore/internal/repository/product"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	// ErrLoginDisabled is returned when no admin password is configured.
	ErrLoginDisabled = errors.New("admin login disabled")
	// ErrUnavailable is returned by operations needing the database when
	// the service runs without one.
	ErrUnavailable = errors.New("storage unavailable")
)

type productStore interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	InsertIfMissing(ctx context.Context, p domain.Product) (bool, error)
	Stats(ctx context.Context) (productrepo.Stats, error)
}

type orderStore interface {
	List(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error)
	CountByStatus(ctx context.Context, status domain.OrderStatus) (int, error)
}

type adStore interface {
	List(ctx context.Context) ([]domain.Ad, error)
	Create(ctx context.Context, a domain.Ad) (*domain.Ad, error)
	Update(ctx context.Context, a domain.Ad) (*domain.Ad, error)
	Delete(ctx context.Context, id int64) error
}

type contentStore interface {
	List(ctx context.Context, page, section string) ([]domain.SiteContent, error)
	Upsert(ctx context.Context, c domain.SiteContent) (*domain.SiteContent, error)
}

type catalogReloader interface {
	Reload(ctx context.Context) (int, error)
}

type Config struct {
	Username string
	Password string
	TokenTTL time.Duration
}

type Service struct {
	username     string
	passwordHash []byte
	tokenTTL     time.Duration
	tokens       *tokenManager

	products productStore
	orders   orderStore
	catalog  catalogReloader
	ads      adStore
	content  contentStore
	logger   logrus.FieldLogger
}

// Stats feeds the dashboard counters.
type Stats struct {
	TotalProducts    int `json:"totalProducts"`
	PendingOrders    int `json:"pendingOrders"`
	FeaturedProducts int `json:"featuredProducts"`
}

// ImportReport summarises an ImportProducts run.
type ImportReport struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Total    int      `json:"total"`
	Errors   []string `json:"errors,omitempty"`
}

// New hashes the configured password once. products, orders and catalog
// may be nil when the corresponding backend is not available.
func New(cfg Config, products productStore, orders orderStore, catalog catalogReloader, logger logrus.FieldLogger) (*Service, error) {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 12 * time.Hour
	}
	s := &Service{
		username: strings.TrimSpace(cfg.Username),
		tokenTTL: cfg.TokenTTL,
		tokens:   newTokenManager(),
		products: products,
		orders:   orders,
		catalog:  catalog,
		logger:   logging.OrDiscard(logger),
	}
	if cfg.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		s.passwordHash = hash
	}
	return s, nil
}

// Login checks the staff credentials and opens a session.
func (s *Service) Login(username, password string) (string, time.Time, error) {
	if len(s.passwordHash) == 0 {
		return "", time.Time{}, ErrLoginDisabled
	}
	userOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(username)), []byte(s.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		s.logger.WithField("username", username).Warn("admin: rejected login")
		return "", time.Time{}, ErrInvalidCredentials
	}
	token, expires, err := s.tokens.Issue(s.username, s.tokenTTL)
	if err != nil {
		return "", time.Time{}, err
	}
	s.logger.WithField("username", s.username).Info("admin: login")
	return token, expires, nil
}

// Validate returns the username owning token.
func (s *Service) Validate(token string) (string, error) {
	sess, ok := s.tokens.Validate(strings.TrimSpace(token))
	if !ok {
		return "", ErrInvalidToken
	}
	return sess.Username, nil
}

func (s *Service) Logout(token string) {
	s.tokens.Revoke(strings.TrimSpace(token))
}

func (s *Service) Stats(ctx context.Context) Stats {
	var out Stats
	if s.products != nil {
		st, err := s.products.Stats(ctx)
		if err != nil {
			s.logger.WithError(err).Warn("admin: product stats unavailable")
		} else {
			out.TotalProducts = st.Total
			out.FeaturedProducts = st.Featured
		}
	}
	if s.orders != nil {
		n, err := s.orders.CountByStatus(ctx, domain.OrderPending)
		if err != nil {
			s.logger.WithError(err).Warn("admin: order stats unavailable")
		} else {
			out.PendingOrders = n
		}
	}
	return out
}

// ReloadCatalog refreshes the storefront catalog after product changes.
func (s *Service) ReloadCatalog(ctx context.Context) (int, error) {
	if s.catalog == nil {
		return 0, ErrUnavailable
	}
	return s.catalog.Reload(ctx)
}

func (s *Service) refreshCatalog(ctx context.Context) {
	if s.catalog == nil {
		return
	}
	if _, err := s.catalog.Reload(ctx); err != nil {
		s.logger.WithError(err).Warn("admin: catalog refresh failed")
	}
}
