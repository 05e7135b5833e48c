// Package httpclient provides the HTTP client used to reach the UI
// development server.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/newtonium-installer/internal/infrastructure/resilience"
)

// ErrUnavailable is returned while the upstream is considered down.
var ErrUnavailable = errors.New("upstream unavailable")

// Options configures a Client.
type Options struct {
	BaseURL  string
	Timeout  time.Duration
	RetryMax int
	// RPS limits outgoing requests. Zero means unlimited.
	RPS float64
}

// Response is a fully read upstream response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Client fetches paths below a base URL with retries, rate limiting and a
// circuit breaker.
type Client struct {
	resty   *resty.Client
	limiter *rate.Limiter
	breaker *resilience.Breaker
	logger  *zap.Logger
}

// New creates a client for opts.BaseURL.
func New(opts Options, logger *zap.Logger) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.RetryMax == 0 {
		opts.RetryMax = 2
	}

	retry := retryablehttp.NewClient()
	retry.RetryMax = opts.RetryMax
	retry.RetryWaitMin = 100 * time.Millisecond
	retry.RetryWaitMax = time.Second
	retry.Logger = leveledLogger{logger.Sugar()}
	retry.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := resty.NewWithClient(retry.StandardClient()).
		SetBaseURL(strings.TrimSuffix(opts.BaseURL, "/")).
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", "newtonium-installer")

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RPS), int(opts.RPS)+1)
	}

	breaker := resilience.New("dev-server", resilience.Settings{
		Threshold: 3,
		Cooldown:  5 * time.Second,
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
		},
	})

	return &Client{
		resty:   client,
		limiter: limiter,
		breaker: breaker,
		logger:  logger,
	}
}

// Get fetches path with the raw query string from the upstream. Non-2xx
// responses are returned as-is without an error; transport failures and 5xx
// responses count against the breaker.
func (c *Client) Get(ctx context.Context, path, rawQuery string, header http.Header) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit error: %w", err)
	}

	resp, err := resilience.Do(c.breaker, func() (*resty.Response, error) {
		req := c.resty.R().SetContext(ctx)
		for _, key := range []string{"Accept", "Accept-Language", "If-None-Match"} {
			if v := header.Get(key); v != "" {
				req.SetHeader(key, v)
			}
		}
		if rawQuery != "" {
			req.SetQueryString(rawQuery)
		}
		resp, err := req.Get("/" + strings.TrimPrefix(path, "/"))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode() >= http.StatusInternalServerError {
			return resp, fmt.Errorf("upstream returned %s", resp.Status())
		}
		return resp, nil
	})

	if errors.Is(err, resilience.ErrOpen) {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", path, err)
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}, nil
}

// BreakerState reports the upstream circuit breaker state.
func (c *Client) BreakerState() resilience.State {
	return c.breaker.State()
}

// leveledLogger adapts zap to retryablehttp's logger interface.
type leveledLogger struct {
	s *zap.SugaredLogger
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.s.Debugw(msg, kv...) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.s.Warnw(msg, kv...) }
