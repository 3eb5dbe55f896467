package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFetcher(t *testing.T) *Fetcher {
	f, err := New(Config{
		Timeout:            2 * time.Second,
		UserAgent:          "test-agent",
		MaxDNSCacheEntries: 16,
		BlockPrivateAddr:   false,
	})
	require.NoError(t, err)
	return f
}

func TestFetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Write([]byte("hello"))
	}))
	defer srv.Close()

	f := newTestFetcher(t)
	u, _ := url.Parse(srv.URL)
	res, err := f.Fetch(context.Background(), u, false)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(res.Body))
	assert.Equal(t, 200, res.Status)
}

func TestFetch_HTTPErrorOn4xxAnd5xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := newTestFetcher(t)
	u, _ := url.Parse(srv.URL)
	_, err := f.Fetch(context.Background(), u, false)

	var fe *Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, HTTPError, fe.Kind)
	assert.Equal(t, 404, fe.StatusCode)
}

func TestFetch_NetworkErrorOnBadHost(t *testing.T) {
	f := newTestFetcher(t)
	u, _ := url.Parse("http://127.0.0.1:1") // nothing listening
	_, err := f.Fetch(context.Background(), u, false)

	var fe *Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, NetworkError, fe.Kind)
}

func TestFetch_TimeoutError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.Write([]byte("slow"))
	}))
	defer srv.Close()

	f := newTestFetcher(t)
	u, _ := url.Parse(srv.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := f.Fetch(ctx, u, false)
	var fe *Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, TimeoutError, fe.Kind)
}

func TestFetch_RendererErrorWhenNoneConfigured(t *testing.T) {
	f := newTestFetcher(t)
	u, _ := url.Parse("http://example.invalid")
	_, err := f.Fetch(context.Background(), u, true)

	var fe *Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, RendererError, fe.Kind)
}
