// Package directory is the HTTP client for the remote user directory.
//
// The directory exposes a plain REST resource at /users. The client never
// interprets failures beyond "the call did not succeed": transport errors,
// non-2xx statuses, and undecodable bodies all surface as errors for the
// roster controller to report.
package directory

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	platformotel "github.com/louisbranch/roster/internal/platform/otel"
	"github.com/louisbranch/roster/internal/platform/requestctx"
	"github.com/louisbranch/roster/internal/platform/timeouts"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultBaseURL is the public placeholder directory the roster talks to
	// when none is configured.
	DefaultBaseURL = "https://jsonplaceholder.typicode.com"

	usersPath  = "/users"
	tracerName = "github.com/louisbranch/roster/internal/services/roster/directory"

	// maxResponseBytes caps how much of a directory response is read.
	maxResponseBytes = 4 << 20
)

// Directory is the set of user operations the roster depends on.
type Directory interface {
	ListUsers(ctx context.Context) ([]User, error)
	CreateUser(ctx context.Context, input UserInput) (User, error)
	UpdateUser(ctx context.Context, id UserID, input UserInput) error
	DeleteUser(ctx context.Context, id UserID) error
}

// StatusError reports a non-2xx directory response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("directory %s %s: status %d", e.Method, e.Path, e.StatusCode)
}

// Config defines the inputs for a directory client.
type Config struct {
	BaseURL        string
	RequestTimeout time.Duration
	HTTPClient     *http.Client
}

// Client calls the user directory over HTTP.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	tracer     trace.Tracer
}

var _ Directory = (*Client)(nil)

// NewClient builds a directory client.
func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse directory url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("directory url %q must be http or https", baseURL)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("directory url %q has no host", baseURL)
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = timeouts.DirectoryRequest
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		httpClient: httpClient,
		tracer:     platformotel.Tracer(tracerName),
	}, nil
}

// ListUsers fetches the full user collection in directory order.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.do(ctx, "ListUsers", http.MethodGet, usersPath, nil, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []User{}
	}
	return users, nil
}

// CreateUser posts a new user. The returned record carries whatever
// identifier the directory assigned; it is empty when the response had none.
func (c *Client) CreateUser(ctx context.Context, input UserInput) (User, error) {
	var created User
	if err := c.do(ctx, "CreateUser", http.MethodPost, usersPath, input, &created); err != nil {
		return User{}, err
	}
	result := input.User(created.ID)
	return result, nil
}

// UpdateUser replaces the editable fields of a user.
func (c *Client) UpdateUser(ctx context.Context, id UserID, input UserInput) error {
	return c.do(ctx, "UpdateUser", http.MethodPut, userPath(id), input, nil)
}

// DeleteUser removes a user.
func (c *Client) DeleteUser(ctx context.Context, id UserID) error {
	return c.do(ctx, "DeleteUser", http.MethodDelete, userPath(id), nil, nil)
}

func userPath(id UserID) string {
	return usersPath + "/" + url.PathEscape(id.String())
}

func (c *Client) do(ctx context.Context, operation, method, path string, body any, out any) (err error) {
	if c == nil {
		return errors.New("directory client is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, span := c.tracer.Start(ctx, "directory."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		),
	)
	if sessionID := requestctx.SessionIDFromContext(ctx); sessionID != "" {
		span.SetAttributes(attribute.String("roster.session_id", sessionID))
	}
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", operation, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", operation, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read %s response: %w", operation, err)
	}
	if out == nil {
		return nil
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		if method == http.MethodGet {
			return fmt.Errorf("decode %s response: empty body", operation)
		}
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	return nil
}
