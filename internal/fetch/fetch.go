// Package fetch performs outbound HTTP GETs with timeout and
// exponential-backoff retry.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 2 << 20

// Error reports that every attempt for one URL failed. It wraps the error
// from the final attempt.
type Error struct {
	URL      string
	Attempts int
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("fetch %s failed after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Config holds the construction-time knobs for a Client.
type Config struct {
	Timeout     time.Duration // per attempt
	Attempts    int
	BackoffBase time.Duration
	BackoffMax  time.Duration
	UserAgent   string
}

// Client fetches listing pages. It holds no per-call state and is safe for
// concurrent use.
type Client struct {
	hc          *http.Client
	attempts    int
	backoffBase time.Duration
	backoffMax  time.Duration
	userAgent   string
}

// NewClient creates a fetch client. Zero config fields get conservative
// defaults.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = 3
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = 500 * time.Millisecond
	}
	if cfg.BackoffMax <= 0 {
		cfg.BackoffMax = 8 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	}
	return &Client{
		hc:          &http.Client{Timeout: cfg.Timeout},
		attempts:    cfg.Attempts,
		backoffBase: cfg.BackoffBase,
		backoffMax:  cfg.BackoffMax,
		userAgent:   cfg.UserAgent,
	}
}

// Fetch GETs rawURL and returns the response body. Transport failures and
// non-2xx statuses are retried with exponential backoff until the attempt
// budget runs out, then reported as a *Error.
func (c *Client) Fetch(ctx context.Context, rawURL string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < c.attempts; attempt++ {
		if attempt > 0 {
			delay := c.backoffBase << (attempt - 1)
			if delay > c.backoffMax {
				delay = c.backoffMax
			}
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", &Error{URL: rawURL, Attempts: attempt, Err: ctx.Err()}
			}
		}

		body, err := c.attempt(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
		log.Debug().Str("url", rawURL).Int("attempt", attempt+1).Err(err).Msg("fetch attempt failed")
	}
	return "", &Error{URL: rawURL, Attempts: c.attempts, Err: lastErr}
}

func (c *Client) attempt(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}
	return string(body), nil
}
