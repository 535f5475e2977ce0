package lametric

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"
)

// Client talks to the LaMetric Time device API. It holds no mutable state
// and is safe for concurrent use.
type Client struct {
	baseURL   string
	transport Transport
}

// Option customises a Client.
type Option func(*clientOptions)

type clientOptions struct {
	trace      io.Writer
	httpClient *http.Client
	transport  Transport
	userAgent  string
}

// WithVerbose writes the method, URL and body of every request to w before
// it is sent.
func WithVerbose(w io.Writer) Option {
	return func(o *clientOptions) { o.trace = w }
}

// WithHTTPClient replaces the default http.Client, whose timeout is 5s.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = c }
}

// WithTransport replaces the HTTP transport entirely.
func WithTransport(t Transport) Option {
	return func(o *clientOptions) { o.transport = t }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *clientOptions) { o.userAgent = ua }
}

// New builds a Client for the device behind conn, authenticating with
// apiKey.
func New(apiKey string, conn Connection, opts ...Option) (*Client, error) {
	auth, err := basicAuth(apiKey)
	if err != nil {
		return nil, err
	}
	if err := conn.Validate(); err != nil {
		return nil, err
	}

	var o clientOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	base := conn.BaseURL()
	transport := o.transport
	if transport == nil {
		transport = newHTTPTransport(base, auth, o.httpClient, o.userAgent, o.trace)
	}
	return &Client{baseURL: base, transport: transport}, nil
}

// basicAuth returns base64("dev:" + apiKey).
func basicAuth(apiKey string) (string, error) {
	if apiKey == "" {
		return "", fmt.Errorf("%w: key is empty", ErrInvalidAPIKey)
	}
	if !utf8.ValidString(apiKey) {
		return "", fmt.Errorf("%w: key is not valid UTF-8", ErrInvalidAPIKey)
	}
	return base64.StdEncoding.EncodeToString([]byte("dev:" + apiKey)), nil
}

// BaseURL returns the API root the client sends requests to.
func (c *Client) BaseURL() string { return c.baseURL }

// Device groups device state operations.
func (c *Client) Device() DeviceService { return DeviceService{transport: c.transport} }

// Display groups display operations.
func (c *Client) Display() DisplayService { return DisplayService{transport: c.transport} }

// Apps groups app and widget operations.
func (c *Client) Apps() AppsService { return AppsService{transport: c.transport} }

// Notifications groups notification queue operations.
func (c *Client) Notifications() NotificationsService {
	return NotificationsService{transport: c.transport}
}

// ListEndpoints returns the API version and the endpoints the device serves.
func (c *Client) ListEndpoints(ctx context.Context) (Response[ListEndpointsResponse], error) {
	return execute[ListEndpointsResponse](ctx, c.transport, listEndpoint{})
}

func execute[T any](ctx context.Context, t Transport, e Endpoint) (Response[T], error) {
	if t == nil {
		return Response[T]{}, fmt.Errorf("client is nil")
	}
	raw, err := t.Execute(ctx, e)
	if err != nil {
		return Response[T]{}, err
	}
	return NewResponse[T](raw), nil
}
