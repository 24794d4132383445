package optimizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/platform/obs"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const DefaultTimeout = 30 * time.Second

// Client calls a remote route optimization service. Each request is sent
// exactly once; the pipeline owns supersede and timeout policy.
type Client struct {
	session *http.Client
	baseURL string
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("optimizer base URL is empty")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		session: &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}, nil
}

// OptimizeRoute posts req to /optimize-route.
//
// An "error" field in the body is reported as domain.ErrApplication whatever
// the status code. Transport failures and unparseable bodies are reported as
// domain.ErrRemote. Routes are decoded per vehicle: a malformed entry is
// logged and left out, so it never spoils the routes of other vehicles.
func (c *Client) OptimizeRoute(
	ctx context.Context,
	req domain.RouteRequest,
) (_ domain.OptimizedRoutes, err error) {
	defer obs.Time(ctx, "optimizer.client.OptimizeRoute")(&err)

	payload, err := json.Marshal(NewRequest(req))
	if err != nil {
		return nil, fmt.Errorf("optimize route: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/optimize-route", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("optimize route: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if id := obs.RequestID(ctx); id != "" {
		httpReq.Header.Set("X-Request-ID", id)
	}

	resp, err := c.session.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("optimize route: %w: %w", domain.ErrRemote, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("optimize route: %w: read body: %w", domain.ErrRemote, err)
	}

	var decoded struct {
		Error           string                     `json:"error"`
		OptimizedRoutes map[string]json.RawMessage `json:"optimized_routes"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("optimize route: %w: status %d: decode body: %w", domain.ErrRemote, resp.StatusCode, err)
	}

	if decoded.Error != "" {
		return nil, fmt.Errorf("optimize route: %w: %s", domain.ErrApplication, decoded.Error)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("optimize route: %w: unexpected status %d", domain.ErrRemote, resp.StatusCode)
	}

	out := make(domain.OptimizedRoutes, len(decoded.OptimizedRoutes))
	for name, raw := range decoded.OptimizedRoutes {
		route, err := decodeRoute(raw)
		if err != nil {
			log.Printf("optimizer: skip malformed route vehicle=%q err=%v", name, err)
			continue
		}
		out[name] = route
	}

	return out, nil
}

func decodeRoute(raw json.RawMessage) (domain.OptimizedRoute, error) {
	var r RouteJSON
	if err := json.Unmarshal(raw, &r); err != nil {
		return domain.OptimizedRoute{}, err
	}
	return r.OptimizedRoute()
}
