package statestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/CameronXie/order-gateway/internal/domain"
)

const (
	OperationGet  = "get state"
	OperationSave = "save state"

	contentTypeHeader = "Content-Type"
	jsonContentType   = "application/json"
)

// Client is the subset of the state store API used by the gateway.
type Client interface {
	Get(ctx context.Context, key string) (*State, error)
	Save(ctx context.Context, entries []domain.StateEntry) error
}

// Doer sends an HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// State is a value read from the state store, relayed as received.
type State struct {
	Body        []byte
	ContentType string
}

// RequestHook is applied to every outbound request before it is sent.
type RequestHook func(ctx context.Context, req *http.Request)

type httpClient struct {
	baseURL string
	doer    Doer
	timeout time.Duration
	hooks   []RequestHook
}

// Option configures the HTTP client.
type Option func(*httpClient)

// WithTimeout bounds every outbound call. Zero disables the bound.
func WithTimeout(timeout time.Duration) Option {
	return func(c *httpClient) {
		c.timeout = timeout
	}
}

// WithRequestHook registers a hook run on every outbound request.
func WithRequestHook(hook RequestHook) Option {
	return func(c *httpClient) {
		c.hooks = append(c.hooks, hook)
	}
}

// Get reads the raw value stored under key. Any 2xx answer is a success.
func (c *httpClient) Get(ctx context.Context, key string) (*State, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+url.PathEscape(key), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build request: %w", OperationGet, err)
	}

	resp, err := c.do(ctx, OperationGet, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UnreachableError{Operation: OperationGet, Err: err}
	}

	return &State{
		Body:        body,
		ContentType: resp.Header.Get(contentTypeHeader),
	}, nil
}

// Save persists entries with a single POST to the store base URL.
func (c *httpClient) Save(ctx context.Context, entries []domain.StateEntry) error {
	payload, err := encodeEntries(entries)
	if err != nil {
		return fmt.Errorf("%s: failed to encode entries: %w", OperationSave, err)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%s: failed to build request: %w", OperationSave, err)
	}
	req.Header.Set(contentTypeHeader, jsonContentType)

	resp, err := c.do(ctx, OperationSave, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// do sends req and maps transport failures and non-2xx answers to typed errors.
// On success the caller owns the response body.
func (c *httpClient) do(ctx context.Context, operation string, req *http.Request) (*http.Response, error) {
	for _, hook := range c.hooks {
		hook(ctx, req)
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, &UnreachableError{Operation: operation, Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		return nil, &StatusError{Operation: operation, StatusCode: resp.StatusCode}
	}

	return resp, nil
}

// encodeEntries leaves <, > and & unescaped so stored values keep the bytes they were submitted with.
func encodeEntries(entries []domain.StateEntry) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(entries); err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func (c *httpClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, c.timeout)
}

// NewClient returns a Client for the state store rooted at baseURL,
// e.g. http://localhost:3500/v1.0/state/statestore.
func NewClient(baseURL string, doer Doer, opts ...Option) Client {
	c := &httpClient{
		baseURL: baseURL,
		doer:    doer,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}
