package optimize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ronaldsalkes/cvmaster/internal/draft"
)

// DefaultTimeout bounds a collaborator round trip. Rewrites can take a
// while; the wizard stays responsive because the call runs off the UI path.
const DefaultTimeout = 120 * time.Second

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

// optimizeRequest is the wire request: the whole draft under "record".
type optimizeRequest struct {
	Record draft.Draft `json:"record"`
}

// HTTPClient calls a remote optimization collaborator over HTTP.
type HTTPClient struct {
	endpoint string
	token    string
	client   *http.Client
}

// NewHTTPClient creates a collaborator client for the given endpoint URL.
// token, when non-empty, is sent as a bearer token.
func NewHTTPClient(endpoint, token string) (*HTTPClient, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("collaborator endpoint is empty")
	}
	return &HTTPClient{
		endpoint: endpoint,
		token:    token,
		client:   &http.Client{Timeout: DefaultTimeout},
	}, nil
}

// Optimize posts the draft and decodes the partial rewrite. Non-2xx status
// codes and malformed bodies are failures; the caller keeps its draft
// unchanged in that case.
func (c *HTTPClient) Optimize(ctx context.Context, d draft.Draft) (Rewrite, error) {
	body, err := json.Marshal(optimizeRequest{Record: d})
	if err != nil {
		return Rewrite{}, &CallError{Message: "failed to encode request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Rewrite{}, &CallError{Message: "failed to build request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Rewrite{}, &CallError{Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Rewrite{}, &CallError{Message: "failed to read response", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Rewrite{}, &CallError{
			Message:    "collaborator returned an error",
			StatusCode: resp.StatusCode,
		}
	}

	var rewrite Rewrite
	if err := json.Unmarshal(data, &rewrite); err != nil {
		return Rewrite{}, &CallError{Message: "malformed response body", Cause: err}
	}
	return rewrite, nil
}
