package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRemote(t *testing.T, url string) *Remote {
	t.Helper()
	r := NewRemote(RemoteConfig{
		URL:                  url,
		MaxRequestsPerSecond: 1000,
		Timeout:              2 * time.Second,
		FailureThreshold:     2,
		OpenFor:              time.Minute,
	}, nil)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestRemoteListDecodesArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"p1","name":"Truffes","mainCategory":"Alimentaire","category":"chocolats","price":4500,"inStock":true}]`))
	}))
	defer srv.Close()

	products, err := newTestRemote(t, srv.URL).List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "p1", products[0].ID)
	assert.Equal(t, int64(4500), products[0].Price)
	assert.NotNil(t, products[0].Images)
}

func TestRemoteListNonArrayIsEmptyCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":"maintenance"}`))
	}))
	defer srv.Close()

	products, err := newTestRemote(t, srv.URL).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestRemoteBreakerOpensAfterFailures(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	r := newTestRemote(t, srv.URL)
	for i := 0; i < 2; i++ {
		_, err := r.List(context.Background())
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrUnavailable))
	}
	before := hits.Load()

	_, err := r.List(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, before, hits.Load(), "open breaker must not reach the server")
}

func TestRemoteListCancelledContextSkipsRequest(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	r := newTestRemote(t, srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 3; i++ {
		_, err := r.List(ctx)
		require.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, int32(0), hits.Load())

	_, err := r.List(context.Background())
	require.NoError(t, err, "cancelled calls must not open the breaker")
	assert.Equal(t, int32(1), hits.Load())
}
