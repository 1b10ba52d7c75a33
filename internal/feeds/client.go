// Package feeds fetches soccerdata feed documents from the stats API.
// Requests are rate limited, retried with exponential backoff on
// transient failures, and unwrapped from their JSONP envelope.
package feeds

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"pitchpulse/internal/config"
	"pitchpulse/internal/infrastructure"
)

// userAgent mirrors the mobile browser profile the stats portal serves
// its widget API to.
const userAgent = "Mozilla/5.0 (Linux; Android 6.0; Nexus 5 Build/MRA58N) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/135.0.0.0 Mobile Safari/537.36"

// defaultCallbackID is the JSONP callback parameter the widget API expects.
const defaultCallbackID = "W3e14cbc3e4b2577e854bf210e5a3c7028c7409678"

// Client is a rate-limited HTTP client for the soccerdata feeds.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	cfg        config.FeedsConfig
	logger     *slog.Logger
	metrics    *infrastructure.BusinessMetrics

	outletKey  string
	callbackID string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMetrics attaches business metrics to feed requests.
func WithMetrics(m *infrastructure.BusinessMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithOutletKey overrides the configured outlet key, used after catalog
// discovery resolves the key from the portal page.
func WithOutletKey(key string) Option {
	return func(c *Client) { c.outletKey = key }
}

// NewClient builds a feed client from configuration.
func NewClient(cfg config.FeedsConfig, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), 1),
		cfg:        cfg,
		logger:     logger.With(slog.String("component", "feeds")),
		outletKey:  cfg.OutletKey,
		callbackID: defaultCallbackID,
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetOutletKey replaces the outlet key at runtime.
func (c *Client) SetOutletKey(key string) {
	c.outletKey = key
}

// OutletKey returns the key requests are currently signed with.
func (c *Client) OutletKey() string {
	return c.outletKey
}

// feedURL builds the feed endpoint URL. pathSuffix is appended after the
// outlet key (used by per-match feeds that address a single document).
func (c *Client) feedURL(feed, pathSuffix string, params url.Values) string {
	base := fmt.Sprintf("%s/soccerdata/%s/%s/", strings.TrimRight(c.cfg.BaseURL, "/"), feed, c.outletKey)
	if pathSuffix != "" {
		base += pathSuffix
	}

	q := url.Values{}
	q.Set("_rt", "c")
	q.Set("_lcl", "en")
	q.Set("_fmt", "jsonp")
	q.Set("sps", "widgets")
	q.Set("_clbk", c.callbackID)
	for k, vs := range params {
		for _, v := range vs {
			q.Set(k, v)
		}
	}
	return base + "?" + q.Encode()
}

// referer builds the portal page URL a feed request claims to come from.
func (c *Client) referer(competitionSlug, tournamentID string) string {
	if competitionSlug == "" || tournamentID == "" {
		return strings.TrimRight(c.cfg.PortalURL, "/") + "/en_GB/soccer/"
	}
	return fmt.Sprintf("%s/en_GB/soccer/%s/%s/fixtures",
		strings.TrimRight(c.cfg.PortalURL, "/"), url.PathEscape(competitionSlug), tournamentID)
}

// retryableStatus reports whether the response status warrants a retry.
func retryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// get fetches a feed URL with rate limiting and retries, returning the
// raw JSONP body.
func (c *Client) get(ctx context.Context, feed, rawURL, referer string) ([]byte, error) {
	if c.outletKey == "" {
		return nil, errors.New("feed outlet key is not configured")
	}

	var lastErr error
	start := time.Now()
	status := 0
	retries := 0

	defer func() {
		infrastructure.RecordFeedRequest(ctx, c.metrics, feed, status, retries, time.Since(start))
	}()

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			retries++
			backoff := c.cfg.RetryBackoff * time.Duration(1<<(attempt-1))
			c.logger.WarnContext(ctx, "retrying feed request",
				slog.String("feed", feed),
				slog.Int("attempt", attempt),
				slog.Duration("backoff", backoff),
				slog.String("error", lastErr.Error()))

			timer := time.NewTimer(backoff)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build feed request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", userAgent)
		if referer != "" {
			req.Header.Set("Referer", referer)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("feed request: %w", err)
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		status = resp.StatusCode

		if retryableStatus(resp.StatusCode) {
			lastErr = fmt.Errorf("feed %s returned status %d", feed, resp.StatusCode)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("feed %s returned status %d", feed, resp.StatusCode)
		}

		if readErr != nil {
			lastErr = fmt.Errorf("read feed response: %w", readErr)
			continue
		}

		return body, nil
	}

	return nil, fmt.Errorf("feed %s failed after %d retries: %w", feed, retries, lastErr)
}

// unwrapJSONP strips the callback envelope and returns the JSON payload.
// Plain JSON passes through untouched, even when its string values
// happen to contain parentheses.
func unwrapJSONP(body []byte) ([]byte, error) {
	if json.Valid(body) {
		return body, nil
	}

	s := string(body)
	open := strings.Index(s, "(")
	closeIdx := strings.LastIndex(s, ")")
	if open < 0 || closeIdx <= open {
		return nil, errors.New("response is neither JSONP nor JSON")
	}

	payload := []byte(s[open+1 : closeIdx])
	if !json.Valid(payload) {
		return nil, errors.New("JSONP payload is not valid JSON")
	}
	return payload, nil
}

// getJSON fetches a feed document and decodes it into out.
func (c *Client) getJSON(ctx context.Context, feed, rawURL, referer string, out interface{}) error {
	body, err := c.get(ctx, feed, rawURL, referer)
	if err != nil {
		return err
	}

	payload, err := unwrapJSONP(body)
	if err != nil {
		return fmt.Errorf("feed %s: %w", feed, err)
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode feed %s: %w", feed, err)
	}
	return nil
}
