package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "http://localhost:8000/api/v1"
	defaultTimeout = 15 * time.Second
)

// ErrRequestFailed is the single failure kind of the client: network errors and
// non-2xx statuses both wrap it.
var ErrRequestFailed = errors.New("request failed")

// StatusError carries the status code of a non-2xx response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrRequestFailed
}

// RequestOptions customises a single call. Headers are merged over the JSON
// content-type default.
type RequestOptions struct {
	Method  string
	Headers map[string]string
	Body    any
}

type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

type Option func(*Options)

func WithBaseURL(url string) Option {
	return func(o *Options) {
		o.BaseURL = url
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(o *Options) {
		o.HTTPClient = c
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// Client talks to the sanitation REST API under a fixed base path.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(opts ...Option) *Client {
	options := &Options{
		BaseURL:    DefaultBaseURL,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(options)
	}

	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL: strings.TrimRight(options.BaseURL, "/"),
		http:    options.HTTPClient,
		logger:  logger.Named("api-client"),
	}
}

// BaseURL returns the base path every endpoint is appended to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do issues the request and returns the raw body of a 2xx response.
func (c *Client) Do(ctx context.Context, endpoint string, reqOpts *RequestOptions) ([]byte, error) {
	body, err := c.do(ctx, endpoint, reqOpts)
	if err != nil {
		c.logger.Error("api request failed",
			zap.String("endpoint", endpoint),
			zap.Error(err))
		return nil, err
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, endpoint string, reqOpts *RequestOptions) ([]byte, error) {
	if reqOpts == nil {
		reqOpts = &RequestOptions{}
	}
	method := reqOpts.Method
	if method == "" {
		method = http.MethodGet
	}

	var reader io.Reader
	if reqOpts.Body != nil {
		payload, err := json.Marshal(reqOpts.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: encode body: %v", ErrRequestFailed, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range reqOpts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrRequestFailed, err)
	}
	return data, nil
}

// GetJSON fetches endpoint and decodes the body into dest, validating it when
// dest implements Validator.
func (c *Client) GetJSON(ctx context.Context, endpoint string, dest any) error {
	return c.FetchJSON(ctx, endpoint, nil, dest)
}

// FetchJSON is GetJSON with request options.
func (c *Client) FetchJSON(ctx context.Context, endpoint string, reqOpts *RequestOptions, dest any) error {
	body, err := c.Do(ctx, endpoint, reqOpts)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, dest); err != nil {
		err = fmt.Errorf("%w: decode %s: %v", ErrInvalidPayload, endpoint, err)
		c.logger.Error("api request failed", zap.String("endpoint", endpoint), zap.Error(err))
		return err
	}

	if v, ok := dest.(Validator); ok {
		if err := v.Validate(); err != nil {
			c.logger.Error("api request failed", zap.String("endpoint", endpoint), zap.Error(err))
			return err
		}
	}
	return nil
}

// Ping checks that the API root answers with a 2xx status.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, "", nil)
	return err
}
