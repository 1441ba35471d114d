package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/PuerkitoBio/goquery"
	"github.com/dom/riot-collector/internal/config"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// FetchError is returned for upstream replies outside the 2xx range.
type FetchError struct {
	URL        string
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// IsNotFound reports whether err is a 404 from upstream.
func IsNotFound(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.StatusCode == http.StatusNotFound
}

// Client fetches upstream pages and feeds. Every request waits on a shared
// rate limiter and is retried on transport errors and retryable statuses.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
	seq    atomic.Uint64
}

func NewClient(cfg config.HTTPConfig, logger *zap.Logger) *Client {
	c := &Client{logger: logger.Named("http")}

	httpClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(cfg.RetryMaxWait).
		SetHeader("User-Agent", cfg.UserAgent).
		SetLogger(c.logger.Sugar())

	httpClient.AddRetryCondition(func(res *resty.Response, err error) bool {
		if err != nil {
			return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
		}
		return isRetryableStatus(res.StatusCode())
	})

	limiter := rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return limiter.Wait(req.Context())
	})

	c.instrument(httpClient)
	c.http = httpClient
	return c
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

type requestIDKey struct{}

func (c *Client) instrument(httpClient *resty.Client) {
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if _, ok := req.Context().Value(requestIDKey{}).(uint64); !ok {
			req.SetContext(context.WithValue(req.Context(), requestIDKey{}, c.seq.Add(1)))
		}
		return nil
	})
	httpClient.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		id, _ := res.Request.Context().Value(requestIDKey{}).(uint64)
		c.logger.Debug("upstream response",
			zap.Uint64("request_id", id),
			zap.String("url", res.Request.URL),
			zap.Int("status", res.StatusCode()),
			zap.Duration("duration", res.Time()),
			zap.Int("attempt", res.Request.Attempt),
		)
		return nil
	})
	httpClient.OnError(func(req *resty.Request, err error) {
		id, _ := req.Context().Value(requestIDKey{}).(uint64)
		c.logger.Error("upstream request failed",
			zap.Uint64("request_id", id),
			zap.String("url", req.URL),
			zap.Int("attempt", req.Attempt),
			zap.Error(err),
		)
	})
}

// Get returns the body of url. Non-2xx replies yield a *FetchError.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	res, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	if res.IsError() {
		return nil, &FetchError{URL: url, StatusCode: res.StatusCode()}
	}
	return res.Body(), nil
}

// GetDocument fetches and parses an HTML page.
func (c *Client) GetDocument(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return doc, nil
}

// GetJSON fetches url and decodes its JSON body into out.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	body, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
