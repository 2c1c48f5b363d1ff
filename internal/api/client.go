package api

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/rs/zerolog"

	apierrors "github.com/diogo/ragchat/internal/errors"
	"github.com/diogo/ragchat/internal/models"
)

// RAGClientInterface is the set of server operations the rest of the program depends on
type RAGClientInterface interface {
	Ask(ctx context.Context, question string) (*models.Answer, error)
	Upload(ctx context.Context, doc *models.Document) (*models.UploadResult, error)
	Index(ctx context.Context) error
	Health(ctx context.Context) error
	History(ctx context.Context) ([]models.QAHistoryItem, error)
	BaseURL() string
	Close()
}

// Client talks to the RAG server over HTTP
type Client struct {
	httpClient     tls_client.HttpClient
	baseURL        string
	timeoutSeconds int
	logger         zerolog.Logger
	mu             sync.RWMutex
	closed         bool
}

var _ RAGClientInterface = (*Client)(nil)

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying transport
func WithHTTPClient(httpClient tls_client.HttpClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeoutSeconds sets a per-request deadline. Zero means no deadline.
func WithTimeoutSeconds(seconds int) ClientOption {
	return func(c *Client) {
		c.timeoutSeconds = seconds
	}
}

// WithLogger sets the logger used for request diagnostics
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for the server at baseURL
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = models.DefaultServerURL
	}

	client := &Client{
		baseURL: baseURL,
		logger:  zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(client.timeoutSeconds),
			tls_client.WithClientProfile(profiles.Chrome_120),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// BaseURL returns the server root every endpoint is resolved against
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Close releases idle connections. Further calls fail.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.httpClient.CloseIdleConnections()
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

func (c *Client) url(endpoint string) string {
	return c.baseURL + endpoint
}

// newRequest builds a request carrying the default headers
func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*fhttp.Request, error) {
	if c.IsClosed() {
		return nil, fmt.Errorf("client is closed")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	req, err := fhttp.NewRequestWithContext(ctx, method, c.url(endpoint), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}
	return req, nil
}

// do executes req and returns the response body of a 2xx reply.
// Transport failures become NetworkError, other statuses APIError.
func (c *Client) do(req *fhttp.Request, operation, endpoint string) ([]byte, error) {
	c.logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Msg("sending request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apierrors.NewNetworkError(operation, endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierrors.NewNetworkError(operation, endpoint, fmt.Errorf("failed to read response: %w", err))
	}

	c.logger.Debug().
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Str("endpoint", endpoint).
		Msg("received response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apierrors.NewAPIErrorWithBody(
			resp.StatusCode,
			endpoint,
			fmt.Sprintf("%s failed", operation),
			string(body),
		)
	}

	return body, nil
}
