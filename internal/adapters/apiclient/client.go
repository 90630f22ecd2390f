// Package apiclient talks to the upstream society REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/config"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/domain"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/ports"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/logging"
)

const (
	maxErrorBody    = 4 << 10
	maxResponseBody = 32 << 20
)

var ErrResponseTooLarge = errors.New("upstream response too large")

// Client implements ports.APIClient over net/http. Every call goes through a
// circuit breaker; 4xx answers are the caller's fault and do not trip it.
// Neither do calls the caller cancelled or let expire.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	tokens  *TokenSource
	cb      *gobreaker.CircuitBreaker
	metrics ports.Metrics
	log     *logrus.Entry
	maxBody int64
}

var _ ports.APIClient = (*Client)(nil)

func New(baseURL string, timeout time.Duration, tokens *TokenSource, metrics ports.Metrics) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse upstream base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("upstream base url %q must be absolute", baseURL)
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}

	return &Client{
		baseURL: u,
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		cb:      config.NewCircuitBreaker("Society-API", config.WithSuccessCheck(countsAsSuccess)),
		metrics: metrics,
		log:     logging.For("apiclient"),
		maxBody: maxResponseBody,
	}, nil
}

// callerError wraps a failure caused by the caller's own context.
type callerError struct {
	err error
}

func (e *callerError) Error() string { return e.err.Error() }
func (e *callerError) Unwrap() error { return e.err }

// countsAsSuccess keeps client errors from opening the breaker.
func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}
	var ce *callerError
	if errors.As(err, &ce) {
		return true
	}
	var apiErr *domain.APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError
}

func callerGaveUp(ctx context.Context, err error) bool {
	if errors.Is(err, context.Canceled) {
		return true
	}
	return ctx.Err() != nil && errors.Is(err, context.DeadlineExceeded)
}

func (c *Client) BreakerState() gobreaker.State {
	return c.cb.State()
}

func (c *Client) Do(ctx context.Context, req ports.Request) (json.RawMessage, error) {
	if req.BestEffort {
		return c.doUncounted(ctx, req)
	}

	result, err := c.cb.Execute(func() (interface{}, error) {
		raw, err := c.do(ctx, req)
		if err != nil && callerGaveUp(ctx, err) {
			return nil, &callerError{err: err}
		}
		return raw, err
	})
	if err != nil {
		var ce *callerError
		if errors.As(err, &ce) {
			return nil, ce.err
		}
		return nil, err
	}
	return result.(json.RawMessage), nil
}

// doUncounted runs a best-effort call outside the breaker's counts. It is
// still refused while the breaker is not closed.
func (c *Client) doUncounted(ctx context.Context, req ports.Request) (json.RawMessage, error) {
	switch c.cb.State() {
	case gobreaker.StateOpen:
		return nil, gobreaker.ErrOpenState
	case gobreaker.StateHalfOpen:
		return nil, gobreaker.ErrTooManyRequests
	}
	return c.do(ctx, req)
}

func (c *Client) do(ctx context.Context, req ports.Request) (json.RawMessage, error) {
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	route := req.Route
	if route == "" {
		route = req.Path
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.metrics.ObserveUpstream(req.Method, route, 0, time.Since(start))
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	defer resp.Body.Close()
	c.metrics.ObserveUpstream(req.Method, route, resp.StatusCode, time.Since(start))

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", req.Method, req.Path, err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("%s %s: %w: over %d bytes", req.Method, req.Path, ErrResponseTooLarge, c.maxBody)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &domain.APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body),
			Body:       truncate(body, maxErrorBody),
		}
		c.log.WithFields(logrus.Fields{
			"method": req.Method,
			"route":  route,
			"status": resp.StatusCode,
		}).Warn("upstream request failed")
		return nil, apiErr
	}

	return json.RawMessage(body), nil
}

func (c *Client) newRequest(ctx context.Context, req ports.Request) (*http.Request, error) {
	u, err := c.baseURL.Parse(strings.TrimLeft(req.Path, "/"))
	if err != nil {
		return nil, fmt.Errorf("build url for %s: %w", req.Path, err)
	}
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case req.Form != nil:
		buf, ct, err := encodeMultipart(req.Form)
		if err != nil {
			return nil, err
		}
		body, contentType = buf, ct
	case req.Body != nil:
		buf, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode body for %s: %w", req.Path, err)
		}
		body, contentType = bytes.NewReader(buf), "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolve upstream token: %w", err)
		}
		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return httpReq, nil
}

func encodeMultipart(form *ports.MultipartForm) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for name, value := range form.Fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("write form field %s: %w", name, err)
		}
	}
	for _, f := range form.Files {
		part, err := w.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("create form file %s: %w", f.Filename, err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, "", fmt.Errorf("copy form file %s: %w", f.Filename, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

// errorMessage pulls a human-readable message out of an error body.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		return payload.Error
	}
	return ""
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
