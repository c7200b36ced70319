// Package source provides the places a product catalog can be loaded from.
package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chocostore/internal/catalog"
	"chocostore/internal/domain"
	"chocostore/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// ErrUnavailable is returned while the remote breaker is open.
var ErrUnavailable = errors.New("catalog source unavailable")

// RemoteConfig configures a Remote source.
type RemoteConfig struct {
	URL                  string
	MaxRequestsPerSecond int
	Timeout              time.Duration
	// FailureThreshold consecutive failures open the breaker for OpenFor.
	FailureThreshold uint32
	OpenFor          time.Duration
}

// Remote fetches the catalog as a JSON array from an HTTP endpoint.
type Remote struct {
	url    string
	client *resty.Client
	rl     ratelimit.Limiter
	cb     *gobreaker.CircuitBreaker[[]byte]
	logger logrus.FieldLogger
}

func NewRemote(cfg RemoteConfig, logger logrus.FieldLogger) *Remote {
	if cfg.MaxRequestsPerSecond <= 0 {
		cfg.MaxRequestsPerSecond = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.OpenFor <= 0 {
		cfg.OpenFor = 30 * time.Second
	}
	logger = logging.OrDiscard(logger)

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(2).
		SetRetryWaitTime(200*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		SetHeader("Accept", "application/json")

	threshold := cfg.FailureThreshold
	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "catalog-remote",
		Timeout: cfg.OpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// A caller giving up is not a failure of the endpoint.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{"breaker": name, "from": from.String(), "to": to.String()}).
				Warn("catalog: breaker state changed")
		},
	})

	return &Remote{
		url:    cfg.URL,
		client: client,
		rl:     ratelimit.New(cfg.MaxRequestsPerSecond),
		cb:     cb,
		logger: logger,
	}
}

// List fetches and decodes the catalog. A body that is not a JSON array
// decodes to an empty catalog; transport and HTTP errors are returned.
func (r *Remote) List(ctx context.Context) ([]domain.Product, error) {
	body, err := r.cb.Execute(func() ([]byte, error) {
		return r.fetch(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil, err
	}
	return catalog.DecodeProducts(body), nil
}

// Close releases idle connections held by the HTTP client.
func (r *Remote) Close() error {
	return r.client.Close()
}

func (r *Remote) fetch(ctx context.Context) ([]byte, error) {
	r.rl.Take()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("request cancelled: %w", err)
	}

	resp, err := r.client.R().
		SetContext(ctx).
		Get(r.url)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch catalog: HTTP %d", resp.StatusCode())
	}
	r.logger.WithField("url", r.url).Debug("catalog: fetched remote catalog")
	return []byte(resp.String()), nil
}
