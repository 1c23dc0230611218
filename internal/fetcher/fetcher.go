// Package fetcher performs HTTP retrieval with bounded timeouts, a
// centralized retry policy, and per-domain throttled admission. Every
// network call in the pipeline goes through this package.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/jonesrussell/newsradar/internal/links"
	"github.com/jonesrussell/newsradar/internal/logger"
	"github.com/jonesrussell/newsradar/internal/throttle"
)

const (
	defaultTimeout        = 10 * time.Second
	defaultMaxAttempts    = 4
	defaultBackoffBase    = time.Second
	defaultRateLimitDelay = 5 * time.Second
	validateTimeout       = 5 * time.Second

	// maxResponseBodyBytes limits the size of fetched page bodies.
	maxResponseBodyBytes = 10 * 1024 * 1024
)

// defaultUserAgents are rotated across requests to avoid trivially
// fingerprintable traffic.
var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.0 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/88.0.4324.96 Safari/537.36",
}

// ErrPermanent marks failures that must not be retried: 403 and other
// client errors, malformed URLs, unsupported schemes.
var ErrPermanent = errors.New("permanent fetch failure")

// Config controls the fetch and retry policy.
type Config struct {
	// Timeout bounds a single request attempt.
	Timeout time.Duration `mapstructure:"timeout"`
	// MaxAttempts bounds the total number of attempts per URL.
	MaxAttempts int `mapstructure:"max_attempts"`
	// BackoffBase is the initial interval of the exponential backoff.
	BackoffBase time.Duration `mapstructure:"backoff_base"`
	// RateLimitDelay is the pause observed after a 429 before retrying.
	RateLimitDelay time.Duration `mapstructure:"rate_limit_delay"`
	// UserAgents override the built-in rotation list.
	UserAgents []string `mapstructure:"user_agents"`
}

// Result is the outcome of a successful fetch.
type Result struct {
	URL        string
	StatusCode int
	Body       []byte
}

// Fetcher wraps an HTTP client with the retry policy and throttle.
type Fetcher struct {
	client     *http.Client
	throttle   *throttle.Throttle
	log        logger.Interface
	userAgents []string
	cfg        Config
}

// New creates a fetcher. Zero config values fall back to defaults.
func New(cfg Config, th *throttle.Throttle, log logger.Interface) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = defaultBackoffBase
	}
	if cfg.RateLimitDelay <= 0 {
		cfg.RateLimitDelay = defaultRateLimitDelay
	}

	userAgents := cfg.UserAgents
	if len(userAgents) == 0 {
		userAgents = defaultUserAgents
	}

	return &Fetcher{
		client:     &http.Client{Timeout: cfg.Timeout},
		throttle:   th,
		log:        log,
		userAgents: userAgents,
		cfg:        cfg,
	}
}

// Get retrieves the page body at the given URL. It acquires a throttle
// permit for the URL's domain, then attempts the request under the retry
// policy: 5xx, 429, and network errors are retried with backoff up to the
// attempt budget; 403 and other 4xx fail immediately. The call never
// blocks beyond its timeout and retry budget.
func (f *Fetcher) Get(ctx context.Context, rawURL string) (*Result, error) {
	host, err := links.Host(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPermanent, err)
	}

	release, err := f.throttle.Acquire(ctx, host)
	if err != nil {
		return nil, err
	}
	defer release()

	var result *Result

	attempt := func() error {
		res, attemptErr := f.doGet(ctx, rawURL)
		if attemptErr != nil {
			return attemptErr
		}
		result = res
		return nil
	}

	if retryErr := backoff.Retry(attempt, f.newBackOff(ctx)); retryErr != nil {
		return nil, retryErr
	}

	return result, nil
}

// Validate performs a HEAD request and reports whether the URL answers
// with a 2xx status. Used for optional link validation before article
// processing; failures are never retried.
func (f *Fetcher) Validate(ctx context.Context, rawURL string) bool {
	host, err := links.Host(rawURL)
	if err != nil {
		return false
	}

	release, err := f.throttle.Acquire(ctx, host)
	if err != nil {
		return false
	}
	defer release()

	reqCtx, cancel := context.WithTimeout(ctx, validateTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodHead, rawURL, http.NoBody)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", f.userAgent())

	resp, err := f.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices
}

// doGet performs one request attempt and classifies the outcome for the
// retry policy.
func (f *Fetcher) doGet(ctx context.Context, rawURL string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("%w: create request: %w", ErrPermanent, err))
	}
	req.Header.Set("User-Agent", f.userAgent())

	resp, err := f.client.Do(req)
	if err != nil {
		// Network errors and timeouts are retryable.
		return nil, fmt.Errorf("http get %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices:
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
		if readErr != nil {
			return nil, fmt.Errorf("read body %s: %w", rawURL, readErr)
		}
		return &Result{URL: rawURL, StatusCode: resp.StatusCode, Body: body}, nil

	case resp.StatusCode == http.StatusTooManyRequests:
		// Honor the rate-limit signal before the next attempt; the attempt
		// budget still applies.
		f.log.Warn("rate limited, backing off", "url", rawURL, "delay", f.cfg.RateLimitDelay)
		if sleepErr := sleepCtx(ctx, f.cfg.RateLimitDelay); sleepErr != nil {
			return nil, backoff.Permanent(sleepErr)
		}
		return nil, fmt.Errorf("http status %d for %s", resp.StatusCode, rawURL)

	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("http status %d for %s", resp.StatusCode, rawURL)

	default:
		// 403 and the remaining 4xx range: skip, never retry.
		return nil, backoff.Permanent(fmt.Errorf("%w: http status %d for %s", ErrPermanent, resp.StatusCode, rawURL))
	}
}

func (f *Fetcher) newBackOff(ctx context.Context) backoff.BackOffContext {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = f.cfg.BackoffBase
	bo.MaxElapsedTime = 0

	return backoff.WithContext(backoff.WithMaxRetries(bo, uint64(f.cfg.MaxAttempts-1)), ctx)
}

func (f *Fetcher) userAgent() string {
	return f.userAgents[rand.Intn(len(f.userAgents))]
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
