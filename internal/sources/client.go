package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

const userAgent = "sathi-api/1.0 (travel discovery; contact@sathi.app)"

// maxResponseBytes guards against a misbehaving provider streaming an
// unbounded body. Overpass responses for a dense city fit well under this.
const maxResponseBytes = 8 << 20

// httpStatusError marks a non-2xx response so the retry policy can decide
// whether another attempt is worth it.
type httpStatusError struct {
	status int
	body   string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.status, e.body)
}

// caller is the shared HTTP plumbing for provider clients: one rate limiter,
// one circuit breaker, and one retry policy per provider.
type caller struct {
	name    string
	client  *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]byte]
	logger  *slog.Logger
	retries uint
}

func newCaller(name string, rps float64, burst int, timeout time.Duration, logger *slog.Logger) *caller {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("provider circuit breaker state change",
				slog.String("provider", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}
	return &caller{
		name:    name,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
		logger:  logger,
		retries: 3,
	}
}

// getJSON performs a rate-limited, retried GET and decodes the body into out.
func (c *caller) getJSON(ctx context.Context, rawURL string, headers map[string]string, out any) error {
	return c.doJSON(ctx, http.MethodGet, rawURL, headers, nil, out)
}

// postJSON performs a rate-limited, retried POST with a JSON body.
func (c *caller) postJSON(ctx context.Context, rawURL string, headers map[string]string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: marshal request body: %w", c.name, err)
	}
	return c.doJSON(ctx, http.MethodPost, rawURL, headers, payload, out)
}

// postForm performs a rate-limited, retried form POST (Overpass wants its
// query URL-encoded rather than as JSON).
func (c *caller) postForm(ctx context.Context, rawURL string, form url.Values, out any) error {
	headers := map[string]string{"Content-Type": "application/x-www-form-urlencoded"}
	return c.doJSON(ctx, http.MethodPost, rawURL, headers, []byte(form.Encode()), out)
}

func (c *caller) doJSON(ctx context.Context, method, rawURL string, headers map[string]string, body []byte, out any) error {
	operation := func() ([]byte, error) {
		// Every attempt takes a token, so retry bursts stay within the
		// provider's declared rate.
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, backoff.Permanent(fmt.Errorf("rate limiter: %w", err))
		}
		data, err := c.breaker.Execute(func() ([]byte, error) {
			return c.once(ctx, method, rawURL, headers, body)
		})
		if err == nil {
			return data, nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, backoff.Permanent(err)
		}
		var statusErr *httpStatusError
		if errors.As(err, &statusErr) && !retryableStatus(statusErr.status) {
			return nil, backoff.Permanent(err)
		}
		if ctx.Err() != nil {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	data, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(c.retries))
	if err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", c.name, err)
	}
	return nil
}

func (c *caller) once(ctx context.Context, method, rawURL string, headers map[string]string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &httpStatusError{status: resp.StatusCode, body: truncate(string(data), 200)}
	}
	return data, nil
}

func retryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
