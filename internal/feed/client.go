// Package feed fetches and validates the upstream precious-metal price feed.
// One JSON endpoint exists per metal; a fetch either yields the complete
// validated dataset or a typed error, never a partially repaired one.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"

	"github.com/auradash/aura-metals-backend/internal/httputil"
	"github.com/auradash/aura-metals-backend/internal/models"
)

const (
	defaultGoldURL   = "https://webwatch.tech/aura_gold_prices.json"
	defaultSilverURL = "https://webwatch.tech/aura_silver_prices.json"

	userAgent = "Mozilla/5.0 (compatible; Aura-Gold-Dashboard/1.0)"

	// maxPayloadBytes bounds how much of a response body is read.
	maxPayloadBytes = 16 << 20
)

type Options struct {
	GoldURL   string
	SilverURL string
	Timeout   time.Duration
	Retry     httputil.RetryConfig
}

type Client struct {
	urls       map[models.Metal]string
	httpClient *http.Client
	retry      httputil.RetryConfig
	validate   *validator.Validate
}

func NewClient(opts Options) *Client {
	if opts.GoldURL == "" {
		opts.GoldURL = defaultGoldURL
	}
	if opts.SilverURL == "" {
		opts.SilverURL = defaultSilverURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Retry.MaxAttempts <= 0 {
		opts.Retry = httputil.RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   2 * time.Second,
			MaxDelay:    10 * time.Second,
		}
	}

	return &Client{
		urls: map[models.Metal]string{
			models.Gold:   opts.GoldURL,
			models.Silver: opts.SilverURL,
		},
		httpClient: &http.Client{Timeout: opts.Timeout},
		retry:      opts.Retry,
		validate:   validator.New(),
	}
}

// SourceURL reports the endpoint serving a metal, for response envelopes.
func (c *Client) SourceURL(metal models.Metal) string {
	return c.urls[metal]
}

// Fetch retrieves the full dataset for a metal. The entire payload must pass
// the five-field shape check or the fetch fails with ErrBadPayload; an empty
// array is a valid, empty dataset.
func (c *Client) Fetch(ctx context.Context, metal models.Metal) ([]models.PriceRecord, error) {
	endpoint, ok := c.urls[metal]
	if !ok {
		return nil, fmt.Errorf("no feed endpoint for metal %q", metal)
	}

	resp, err := httputil.Do(ctx, c.httpClient, c.retry, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", userAgent)
		return req, nil
	})
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &BadStatusError{Status: resp.StatusCode}
	}

	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		return nil, fmt.Errorf("%w: %q", ErrBadContentType, ct)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnreachable, err)
	}

	var records []models.PriceRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	// All-or-nothing shape check: one bad element invalidates the payload.
	for i, r := range records {
		if err := c.validate.Struct(r); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrBadShape, i, err)
		}
	}

	if records == nil {
		records = []models.PriceRecord{}
	}
	return records, nil
}

// classifyTransportError separates network failures from 5xx responses that
// exhausted their retries inside httputil.Do.
func classifyTransportError(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	return &BadStatusError{Status: 0}
}
