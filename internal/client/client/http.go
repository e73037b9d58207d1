package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/plasticoslc/console/internal/client/models"
	"github.com/plasticoslc/console/internal/common"
	"github.com/plasticoslc/console/internal/logging"
)

// DefaultTimeout bounds a single API request when no timeout is configured.
const DefaultTimeout = 15 * time.Second

// maxErrorBody caps how much of a failed response is kept for logging.
const maxErrorBody = 512

// newRequestID is replaced in tests.
var newRequestID = func() string { return uuid.NewString() }

// HTTPClient talks to the API over HTTP/JSON.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	log     logging.Logger
}

// Option customizes an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) { h.http = c }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l logging.Logger) Option {
	return func(h *HTTPClient) { h.log = l }
}

// NewHTTPClient returns a client for the API rooted at baseURL. A non-positive
// timeout falls back to DefaultTimeout.
func NewHTTPClient(baseURL string, timeout time.Duration, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q", baseURL)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     logging.Nop{},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *HTTPClient) endpoint(path string) string {
	return c.baseURL + path
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path, token string, body any) (*http.Request, context.Context, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, ctx, fmt.Errorf("encode request: %w", err)
		}
		r = bytes.NewReader(b)
	}

	id := newRequestID()
	ctx = logging.ContextWithRequestID(ctx, id)

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), r)
	if err != nil {
		return nil, ctx, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set(common.RequestIDHeaderName, id)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}
	return req, ctx, nil
}

// do sends req and returns the response when its status is 2xx. Any other
// status is drained, closed and mapped to a sentinel error.
func (c *HTTPClient) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn(ctx, "request failed", "method", req.Method, "path", req.URL.Path, "error", err)
		return nil, mapTransportError(err)
	}

	c.log.Debug(ctx, "request done",
		"method", req.Method, "path", req.URL.Path,
		"status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	defer resp.Body.Close()
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	c.log.Debug(ctx, "non-2xx response", "status", resp.StatusCode, "body", string(snippet))
	return nil, mapStatus(resp.StatusCode)
}

func mapStatus(code int) error {
	switch {
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return ErrUnauthorized
	case code == http.StatusNotFound:
		return common.ErrorNotFound
	case code == http.StatusBadGateway, code == http.StatusServiceUnavailable, code == http.StatusGatewayTimeout:
		return ErrUnavailable
	default:
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, code)
	}
}

func mapTransportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

func decodeJSON(r io.Reader, v any) error {
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// Login posts credentials to /auth/login. No Authorization header is sent.
// The response must carry a token and a user with id and email.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	req, ctx, err := c.newRequest(ctx, http.MethodPost, "/auth/login", "", models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out models.LoginResponse
	if err := decodeJSON(resp.Body, &out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return &out, nil
}

// Ping checks that the API host answers at all. Any HTTP response, whatever
// its status, counts as reachable.
func (c *HTTPClient) Ping(ctx context.Context) error {
	req, ctx, err := c.newRequest(ctx, http.MethodGet, "/", "", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug(ctx, "ping failed", "error", err)
		return ErrUnavailable
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return nil
}

// List fetches every record of resource.
func (c *HTTPClient) List(ctx context.Context, token string, resource models.Resource) ([]models.Record, error) {
	req, ctx, err := c.newRequest(ctx, http.MethodGet, "/"+url.PathEscape(string(resource)), token, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out []models.Record
	if err := decodeJSON(resp.Body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DownloadReport fetches a generated report. It returns the raw bytes and
// the file name suggested by Content-Disposition, if any.
func (c *HTTPClient) DownloadReport(ctx context.Context, token, reportID string) ([]byte, string, error) {
	if strings.TrimSpace(reportID) == "" {
		return nil, "", fmt.Errorf("empty report id")
	}

	path := "/reports/" + url.PathEscape(reportID) + "/download"
	req, ctx, err := c.newRequest(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Accept", "*/*")

	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", mapTransportError(err)
	}
	return data, fileNameFromDisposition(resp.Header.Get("Content-Disposition")), nil
}

func fileNameFromDisposition(h string) string {
	if h == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(h)
	if err != nil {
		return ""
	}
	return params["filename"]
}
