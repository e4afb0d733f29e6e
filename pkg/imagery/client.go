// Package imagery fetches satellite imagery for a coordinate from the
// Mapbox Static Images API.
package imagery

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/RandomVariable1470/suryaverify/internal/cost"
	"github.com/RandomVariable1470/suryaverify/internal/resilience"
)

// Client defines the imagery operations used by the verifier.
type Client interface {
	// Fetch returns an overhead image centered on lat/lon at the client's
	// configured zoom and size.
	Fetch(ctx context.Context, lat, lon float64) (*Image, error)
}

// Image is a fetched satellite tile. PixelWidth and PixelHeight are the
// dimensions of the returned image as decoded, which with high-DPI requests
// are double the nominal request size. Footprint math must use these, not
// the requested size.
type Image struct {
	Data        []byte
	PixelWidth  int
	PixelHeight int
	Zoom        int
	Source      string
}

// Options configures the imagery client.
type Options struct {
	BaseURL    string
	Style      string
	Zoom       int
	Size       int
	HighDPI    bool
	RatePerSec int
	Timeout    time.Duration
	MaxRetries int
	// Tracker, when set, counts fetches toward the run's spend.
	Tracker *cost.Tracker
}

// Option overrides a client setting, mostly for tests.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.opts.BaseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	token   string
	opts    Options
	http    *http.Client
	limiter *rate.Limiter
	breaker *resilience.CircuitBreaker
	retry   resilience.RetryConfig
}

// NewClient creates a Mapbox Static Images client. The token is required at
// fetch time; a missing token is reported as a configuration error, not
// retried.
func NewClient(token string, opts Options, extra ...Option) Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.mapbox.com"
	}
	if opts.Style == "" {
		opts.Style = "mapbox/satellite-v9"
	}
	if opts.Zoom == 0 {
		opts.Zoom = 19
	}
	if opts.Size == 0 {
		opts.Size = 1280
	}
	if opts.RatePerSec == 0 {
		opts.RatePerSec = 5
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}

	retry := resilience.DefaultRetryConfig()
	retry.MaxAttempts = opts.MaxRetries
	retry.OnRetry = resilience.RetryLogger("mapbox", "fetch")

	c := &httpClient{
		token:   token,
		opts:    opts,
		limiter: rate.NewLimiter(rate.Limit(opts.RatePerSec), opts.RatePerSec),
		breaker: resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{}),
		retry:   retry,
		http: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range extra {
		opt(c)
	}
	return c
}

func (c *httpClient) Fetch(ctx context.Context, lat, lon float64) (*Image, error) {
	if c.token == "" {
		return nil, eris.New("imagery: access token is not configured")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "imagery: rate limiter")
	}

	density := ""
	if c.opts.HighDPI {
		density = "@2x"
	}
	reqURL := fmt.Sprintf("%s/styles/v1/%s/static/%f,%f,%d,0/%dx%d%s?access_token=%s",
		c.opts.BaseURL, c.opts.Style, lon, lat, c.opts.Zoom,
		c.opts.Size, c.opts.Size, density, c.token)

	body, err := resilience.ExecuteVal(ctx, c.breaker, func(ctx context.Context) ([]byte, error) {
		return resilience.DoVal(ctx, c.retry, func(ctx context.Context) ([]byte, error) {
			return c.doFetch(ctx, reqURL)
		})
	})
	if err != nil {
		return nil, eris.Wrap(err, "imagery: request failed")
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "imagery: decode returned image")
	}
	if c.opts.Tracker != nil {
		c.opts.Tracker.AddImagery()
	}

	return &Image{
		Data:        body,
		PixelWidth:  cfg.Width,
		PixelHeight: cfg.Height,
		Zoom:        c.opts.Zoom,
		Source:      "Mapbox Satellite",
	}, nil
}

// doFetch performs one GET. Transient statuses come back wrapped so the
// retry layer and circuit breaker know they are safe to retry.
func (c *httpClient) doFetch(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "imagery: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	body, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, eris.Wrap(readErr, "imagery: read response body")
	}

	if resp.StatusCode != http.StatusOK {
		statusErr := eris.Errorf("imagery: status %d: %s", resp.StatusCode, truncate(string(body), 200))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(statusErr, resp.StatusCode)
		}
		return nil, statusErr
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
