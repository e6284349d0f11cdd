package classifier

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/JaimeStill/taxon/pkg/formatting"
)

const maxResponseBytes = 32 << 20

type httpRequest struct {
	Items []Request `json:"items"`
}

type httpResponse struct {
	Verdicts []Verdict `json:"verdicts"`
}

// HTTP posts batches to a remote classification service as JSON.
type HTTP struct {
	client   *http.Client
	endpoint string
	token    string
}

// NewHTTP creates an HTTP classifier. A nil client uses http.DefaultClient;
// deadlines come from the caller's context.
func NewHTTP(client *http.Client, endpoint, token string) *HTTP {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTP{client: client, endpoint: endpoint, token: token}
}

func (c *HTTP) Classify(ctx context.Context, reqs []Request) ([]Verdict, error) {
	body, err := json.Marshal(httpRequest{Items: reqs})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: status %d: %s", ErrInvalidResponse, resp.StatusCode, truncate(data))
	}

	parsed, err := formatting.Parse[httpResponse](string(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return parsed.Verdicts, nil
}

func truncate(b []byte) string {
	const limit = 256
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}
