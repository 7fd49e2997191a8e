package rainforest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comparely/backend/internal/domain"
)

func TestNewClient(t *testing.T) {
	client := NewClient("test-api-key", "https://api.example.com")

	assert.NotNil(t, client)
	assert.Equal(t, "test-api-key", client.apiKey)
	assert.Equal(t, "https://api.example.com", client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.rateLimiter)
	assert.False(t, client.debug)
}

func TestSetDebug(t *testing.T) {
	client := NewClient("test-api-key", "https://api.example.com")

	assert.False(t, client.debug)
	client.SetDebug(true)
	assert.True(t, client.debug)
}

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 500 * time.Millisecond},
		{2, 1000 * time.Millisecond},
		{3, 2000 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			assert.Equal(t, tt.expected, exponentialBackoff(tt.attempt))
		})
	}
}

func TestFetchProduct_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/request", r.URL.Path)
		assert.Equal(t, "test-api-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "product", r.URL.Query().Get("type"))
		assert.Equal(t, "amazon.co.uk", r.URL.Query().Get("amazon_domain"))
		assert.Equal(t, "B0ABCDEFGH", r.URL.Query().Get("asin"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"product": {"title": "Kettle", "price": {"value": 24.99}}}`))
	}))
	defer server.Close()

	client := NewClient("test-api-key", server.URL)

	raw, err := client.FetchProduct(context.Background(), "B0ABCDEFGH", "amazon.co.uk")

	require.NoError(t, err)
	title, ok := raw.String("product", "title")
	require.True(t, ok)
	assert.Equal(t, "Kettle", title)
}

func TestFetchProduct_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient("test-api-key", server.URL)

	raw, err := client.FetchProduct(context.Background(), "B0MISSING0", "amazon.com")

	assert.Nil(t, raw)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestFetchProduct_ServerErrorRetriesThenFails(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient("test-api-key", server.URL)

	raw, err := client.FetchProduct(context.Background(), "B0ABCDEFGH", "amazon.com")

	assert.Nil(t, raw)
	assert.ErrorIs(t, err, domain.ErrRainforestAPIFailure)
	assert.Equal(t, int32(3), requests.Load())
}

func TestFetchProduct_RecoversAfterTransientError(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"product": {"title": "Kettle"}}`))
	}))
	defer server.Close()

	client := NewClient("test-api-key", server.URL)

	raw, err := client.FetchProduct(context.Background(), "B0ABCDEFGH", "amazon.com")

	require.NoError(t, err)
	assert.NotNil(t, raw)
	assert.Equal(t, int32(2), requests.Load())
}

func TestFetchProduct_BadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer server.Close()

	client := NewClient("test-api-key", server.URL)

	raw, err := client.FetchProduct(context.Background(), "B0ABCDEFGH", "amazon.com")

	assert.Nil(t, raw)
	assert.Error(t, err)
}

func TestFetchProduct_ContextCancelled(t *testing.T) {
	client := NewClient("test-api-key", "https://api.example.com")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchProduct(ctx, "B0ABCDEFGH", "amazon.com")
	assert.Error(t, err)
}
