package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

const subscriptionKeyHeader = "Ocp-Apim-Subscription-Key"

type Client interface {
	// Submit starts a batch job and returns the service-assigned job id.
	Submit(ctx context.Context, req BatchRequest) (string, error)
	// GetStatus fetches the current status document for a job.
	GetStatus(ctx context.Context, jobID string) (*JobStatus, error)
}

// UpstreamError carries a non-2xx response from the translator so handlers
// can propagate the upstream status and body as detail.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("translator http %d: %s", e.StatusCode, e.Body)
}

type HTTPClient struct {
	endpoint string // e.g. https://<region>.api.cognitive.microsofttranslator.com/translator/text/batch/v1.0
	key      string
	client   *http.Client
	cb       *gobreaker.CircuitBreaker
}

func NewHTTPClient(endpoint, key string) *HTTPClient {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "translator",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &HTTPClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		key:      key,
		client:   &http.Client{Timeout: 30 * time.Second},
		cb:       cb,
	}
}

func (c *HTTPClient) Submit(ctx context.Context, batch BatchRequest) (string, error) {
	res, err := c.cb.Execute(func() (interface{}, error) {
		return c.submit(ctx, batch)
	})
	if err != nil {
		return "", err
	}
	return res.(string), nil
}

func (c *HTTPClient) GetStatus(ctx context.Context, jobID string) (*JobStatus, error) {
	res, err := c.cb.Execute(func() (interface{}, error) {
		return c.getStatus(ctx, jobID)
	})
	if err != nil {
		return nil, err
	}
	return res.(*JobStatus), nil
}

func (c *HTTPClient) submit(ctx context.Context, batch BatchRequest) (string, error) {
	body, err := json.Marshal(batch)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/batches", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set(subscriptionKeyHeader, c.key)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusAccepted {
		detail, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return "", &UpstreamError{StatusCode: res.StatusCode, Body: string(detail)}
	}

	// Operation-Location: .../batches/{job_id}
	opLoc := res.Header.Get("Operation-Location")
	if opLoc == "" {
		return "", fmt.Errorf("translator response missing Operation-Location header")
	}
	parts := strings.Split(strings.TrimRight(opLoc, "/"), "/")
	jobID := parts[len(parts)-1]
	if jobID == "" {
		return "", fmt.Errorf("translator Operation-Location has no job id: %s", opLoc)
	}
	return jobID, nil
}

func (c *HTTPClient) getStatus(ctx context.Context, jobID string) (*JobStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/batches/"+jobID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(subscriptionKeyHeader, c.key)

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, &UpstreamError{StatusCode: res.StatusCode, Body: string(detail)}
	}

	var raw map[string]any
	if err := json.NewDecoder(res.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("translator status decode: %w", err)
	}

	status, _ := raw["status"].(string)
	return &JobStatus{Status: status, Raw: raw}, nil
}
