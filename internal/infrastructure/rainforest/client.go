package rainforest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/comparely/backend/internal/domain"
)

// Client handles communication with the Rainforest product data API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new Rainforest API client
func NewClient(apiKey, baseURL string) *Client {
	// Rainforest meters requests as credits; keep a conservative ceiling
	// of 1 req/sec with a small burst so an import spree doesn't burn the
	// monthly allowance.
	limiter := rate.NewLimiter(rate.Limit(1), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		rateLimiter: limiter,
	}
}

// SetDebug toggles request/response logging
func (c *Client) SetDebug(enabled bool) {
	c.debug = enabled
}

// exponentialBackoff returns the sleep before the next retry attempt
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<(attempt-1)) * 500 * time.Millisecond
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Comparely/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRainforestAPIFailure, err)
	}

	return resp, nil
}

// FetchProduct retrieves the raw product record for an ASIN on the given
// Amazon storefront. The response is returned as decoded but otherwise
// untouched JSON; normalization happens in the usecase layer.
func (c *Client) FetchProduct(ctx context.Context, asin, amazonDomain string) (domain.RawRecord, error) {
	endpoint := fmt.Sprintf("%s/request", c.baseURL)
	params := url.Values{}
	params.Add("api_key", c.apiKey)
	params.Add("type", "product")
	params.Add("amazon_domain", amazonDomain)
	params.Add("asin", asin)

	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	// Retry up to 3 times for transient failures
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			if c.debug {
				log.Printf("[Rainforest] request error (attempt %d) for asin=%s: %v", attempt, asin, err)
			}
			lastErr = err
			time.Sleep(exponentialBackoff(attempt))
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, domain.ErrProductNotFound
		}
		if resp.StatusCode != http.StatusOK {
			if c.debug {
				log.Printf("[Rainforest] API error (attempt %d) - status: %d, body: %s", attempt, resp.StatusCode, string(body))
			}
			lastErr = fmt.Errorf("%w: status %d", domain.ErrRainforestAPIFailure, resp.StatusCode)
			time.Sleep(exponentialBackoff(attempt))
			continue
		}

		var raw domain.RawRecord
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}

		if c.debug {
			log.Printf("[Rainforest] fetched asin=%s domain=%s (%d bytes)", asin, amazonDomain, len(body))
		}
		return raw, nil
	}

	return nil, lastErr
}
