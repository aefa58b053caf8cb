// Package backend talks to the CRUD REST backend that owns menus, features
// and columns.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Client provides access to the backend's JSON resources. Get returns the
// decoded body with numbers kept as json.Number.
type Client interface {
	Get(ctx context.Context, path string) (any, error)
	Put(ctx context.Context, path string, body any) error

	// Ping checks whether the backend is reachable.
	Ping(ctx context.Context) error
}

// httpClient implements Client over HTTP with retries and a GET cache.
type httpClient struct {
	cfg      Config
	http     *http.Client
	observer Observer
	cache    *expirable.LRU[string, []byte]
}

// NewHTTPClient creates a Client for the backend at cfg.BaseURL.
func NewHTTPClient(cfg Config, observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	c := &httpClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
	if cfg.CacheSize > 0 {
		c.cache = expirable.NewLRU[string, []byte](cfg.CacheSize, nil, time.Duration(cfg.CacheTTLSeconds)*time.Second)
	}
	return c
}

func (c *httpClient) Get(ctx context.Context, path string) (any, error) {
	if c.cache != nil {
		if body, ok := c.cache.Get(path); ok {
			c.observer.OnCallComplete(CallEvent{Method: http.MethodGet, Path: path, Status: http.StatusOK, Cached: true, Success: true})
			return Decode(body)
		}
	}

	body, err := c.call(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	v, err := Decode(body)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		c.cache.Add(path, body)
	}
	return v, nil
}

func (c *httpClient) Put(ctx context.Context, path string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}
	if c.cache != nil {
		defer c.cache.Purge()
	}
	_, err = c.call(ctx, http.MethodPut, path, data)
	return err
}

func (c *httpClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+c.cfg.HealthPath, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	resp.Body.Close()
	if resp.StatusCode >= 300 {
		return &StatusError{Method: http.MethodGet, Path: c.cfg.HealthPath, Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	return nil
}

// call runs one logical request, retrying transport failures and 5xx
// answers. Attempts are 1 + MaxRetries.
func (c *httpClient) call(ctx context.Context, method, path string, data []byte) ([]byte, error) {
	start := time.Now()
	if c.cfg.TimeoutMs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutMs)*time.Millisecond)
		defer cancel()
	}

	var (
		lastErr  error
		body     []byte
		status   int
		attempts int
	)
	maxAttempts := 1 + c.cfg.MaxRetries
	for attempts < maxAttempts {
		if attempts > 0 && !c.backoff(ctx, attempts) {
			break
		}
		attempts++
		body, status, lastErr = c.doRequest(ctx, method, path, data)
		if lastErr == nil || !retryable(lastErr) || ctx.Err() != nil {
			break
		}
	}

	event := CallEvent{
		Method:    method,
		Path:      path,
		Status:    status,
		Attempts:  attempts,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   lastErr == nil,
	}
	if lastErr == nil {
		c.observer.OnCallComplete(event)
		return body, nil
	}

	err := classify(ctx, lastErr, attempts > 1)
	event.ErrorCode = errorCode(err)
	c.observer.OnCallComplete(event)
	return nil, err
}

func (c *httpClient) backoff(ctx context.Context, attempt int) bool {
	d := time.Duration(c.cfg.RetryBackoffMs*attempt) * time.Millisecond
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *httpClient) doRequest(ctx context.Context, method, path string, data []byte) ([]byte, int, error) {
	var reqBody io.Reader
	if data != nil {
		reqBody = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, &StatusError{
			Method:  method,
			Path:    path,
			Status:  resp.StatusCode,
			Message: errorMessage(respBody, resp.StatusCode),
		}
	}
	return respBody, resp.StatusCode, nil
}

// Decode parses a JSON body keeping numbers as json.Number. An empty body
// decodes to nil.
func Decode(body []byte) (any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return v, nil
}

// errorMessage reads {"message": ...} or {"error": ...} from an error body,
// falling back to the raw text and then to the status text.
func errorMessage(body []byte, status int) string {
	var obj map[string]any
	if json.Unmarshal(body, &obj) == nil {
		for _, k := range []string{"message", "error"} {
			switch v := obj[k].(type) {
			case string:
				if v != "" {
					return v
				}
			case map[string]any:
				if m, ok := v["message"].(string); ok && m != "" {
					return m
				}
			}
		}
	}
	if s := strings.TrimSpace(string(body)); s != "" {
		if len(s) > 200 {
			s = s[:200]
		}
		return s
	}
	return http.StatusText(status)
}

func retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	return !errors.Is(err, context.Canceled)
}

// classify maps the last attempt's error onto the package sentinels.
// Client errors (4xx) are returned as is.
func classify(ctx context.Context, err error, retried bool) error {
	var se *StatusError
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	case errors.Is(err, context.Canceled):
		return err
	case errors.As(err, &se):
		if se.Temporary() && retried {
			return fmt.Errorf("%w: %w", ErrRetryExhausted, err)
		}
		return err
	case isConnectionError(err):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	case retried:
		return fmt.Errorf("%w: %v", ErrRetryExhausted, err)
	}
	return err
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	var se *StatusError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrRetryExhausted):
		return "RETRY_EXHAUSTED"
	case errors.Is(err, ErrInvalidResponse):
		return "INVALID_RESPONSE"
	case errors.As(err, &se):
		return fmt.Sprintf("HTTP_%d", se.Status)
	default:
		return "UNKNOWN"
	}
}
