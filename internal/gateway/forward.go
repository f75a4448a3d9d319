// Package gateway forwards authenticated requests to backend agent services
// resolved by logical service name.
package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sort"
	"time"
)

// Sentinel errors for upstream forwarding failures.
var (
	ErrUnknownService      = errors.New("unknown service")
	ErrUpstreamTimeout     = errors.New("upstream timeout")
	ErrUpstreamUnreachable = errors.New("upstream unreachable")
)

// maxForwardBody caps upstream response bodies read into memory.
const maxForwardBody = 10 << 20

// ForwardRequest describes a request to route to an agent service.
type ForwardRequest struct {
	Service string
	Path    string
	Method  string
	Body    []byte
	Header  http.Header
}

// UpstreamResponse is the agent's response, relayed verbatim to the client.
type UpstreamResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Router resolves logical service names to base URLs and forwards requests.
type Router struct {
	services map[string]string
	client   *http.Client
}

// NewRouter creates a Router over a static service registry. Keys are logical
// service names, values are base URLs.
func NewRouter(services map[string]string, timeout time.Duration) *Router {
	return &Router{
		services: services,
		client:   &http.Client{Timeout: timeout},
	}
}

// Services returns the registered logical service names, sorted.
func (r *Router) Services() []string {
	names := make([]string, 0, len(r.services))
	for name := range r.services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the base URL for a logical service name.
func (r *Router) Resolve(service string) (string, error) {
	base, ok := r.services[service]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownService, service)
	}
	return base, nil
}

// Forward sends the request to the resolved agent and returns its response.
// Upstream errors are classified into the package sentinels; any upstream
// HTTP status is relayed as-is, not treated as an error.
func (r *Router) Forward(ctx context.Context, req ForwardRequest) (*UpstreamResponse, error) {
	base, err := r.Resolve(req.Service)
	if err != nil {
		return nil, err
	}

	u := base + req.Path

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	copyForwardHeaders(httpReq.Header, req.Header)

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, classifyError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxForwardBody))
	if err != nil {
		return nil, classifyError(err)
	}

	return &UpstreamResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       respBody,
	}, nil
}

// hopHeaders are connection-scoped headers never forwarded upstream.
var hopHeaders = map[string]struct{}{
	"Connection":        {},
	"Keep-Alive":        {},
	"Transfer-Encoding": {},
	"Upgrade":           {},
	"Authorization":     {},
}

func copyForwardHeaders(dst, src http.Header) {
	for name, values := range src {
		if _, skip := hopHeaders[http.CanonicalHeaderKey(name)]; skip {
			continue
		}
		for _, v := range values {
			dst.Add(name, v)
		}
	}
}

func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
		}
		return fmt.Errorf("%w: %v", ErrUpstreamUnreachable, err)
	}

	return fmt.Errorf("%w: %v", ErrUpstreamUnreachable, err)
}
