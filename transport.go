package lametric

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const (
	requestTimeout   = 5 * time.Second
	defaultUserAgent = "lametric-go/0.1"
)

// Transport executes one endpoint and returns the raw result.
type Transport interface {
	Execute(ctx context.Context, endpoint Endpoint) (RawResponse, error)
}

// Ensure HTTPTransport implements Transport at compile time.
var _ Transport = (*HTTPTransport)(nil)

// HTTPTransport executes endpoints with net/http.
type HTTPTransport struct {
	baseURL   string
	auth      string
	http      *http.Client
	userAgent string

	traceMu sync.Mutex
	trace   io.Writer
}

func newHTTPTransport(baseURL, auth string, client *http.Client, userAgent string, trace io.Writer) *HTTPTransport {
	if client == nil {
		client = &http.Client{Timeout: requestTimeout}
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &HTTPTransport{
		baseURL:   baseURL,
		auth:      auth,
		http:      client,
		userAgent: userAgent,
		trace:     trace,
	}
}

// Execute implements Transport.
func (t *HTTPTransport) Execute(ctx context.Context, endpoint Endpoint) (RawResponse, error) {
	reqURL := endpointURL(t.baseURL, endpoint)

	var payload []byte
	if body := endpoint.Body(); body != nil {
		encoded, err := wire.Marshal(body)
		if err != nil {
			return RawResponse{}, fmt.Errorf("encode request body: %w", err)
		}
		payload = encoded
	}

	t.traceRequest(endpoint.Method(), reqURL, payload)

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, endpoint.Method(), reqURL, reader)
	if err != nil {
		return RawResponse{}, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Basic "+t.auth)
	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return RawResponse{}, fmt.Errorf("%s %s: %w", endpoint.Method(), reqURL, ErrTimeout)
		}
		return RawResponse{}, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return RawResponse{}, fmt.Errorf("%s %s: %w", endpoint.Method(), reqURL, ErrTimeout)
		}
		return RawResponse{}, fmt.Errorf("%w: read body: %v", ErrInvalidResponse, err)
	}
	return RawResponse{Body: data, StatusCode: resp.StatusCode}, nil
}

func (t *HTTPTransport) traceRequest(method, reqURL string, payload []byte) {
	if t.trace == nil {
		return
	}
	var b bytes.Buffer
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(method))
	b.WriteString(" ")
	b.WriteString(reqURL)
	b.WriteString("\n")
	if len(payload) > 0 {
		if pretty, err := wire.Indent(payload); err == nil {
			b.WriteString(pretty)
		} else {
			b.Write(payload)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	t.traceMu.Lock()
	defer t.traceMu.Unlock()
	_, _ = t.trace.Write(b.Bytes())
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
