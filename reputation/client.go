package reputation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const defaultLookupTimeout = 2 * time.Second

// Lookup resolves a reporter's historical reputation rating. Implementations
// must be best-effort: a nil rating with nil error means "unknown".
type Lookup interface {
	Rating(ctx context.Context, reporterID string) (*float64, error)
}

// Client fetches reporter ratings from the reputation service over HTTP.
// The zero value is a no-op client that always reports unknown.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a reputation client for the given base URL. An empty
// base URL disables lookups entirely.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultLookupTimeout,
		},
	}
}

type ratingResponse struct {
	ReporterID string  `json:"reporterId"`
	Rating     float64 `json:"rating"`
}

// Rating returns the reporter's rating on a 0-5 scale, or nil when the
// service is unreachable, slow, or has never seen the reporter. Scoring
// falls back to its neutral default on nil.
func (c *Client) Rating(ctx context.Context, reporterID string) (*float64, error) {
	if c == nil || c.baseURL == "" || reporterID == "" {
		return nil, nil
	}

	endpoint := fmt.Sprintf("%s/reporters/%s/rating", c.baseURL, url.PathEscape(reporterID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating reputation request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		zap.S().Warnw("reputation lookup failed", "reporterID", reporterID, "error", err)
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		zap.S().Warnw("reputation lookup unexpected status", "reporterID", reporterID, "status", resp.StatusCode)
		return nil, nil
	}

	var body ratingResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		zap.S().Warnw("reputation lookup decode failed", "reporterID", reporterID, "error", err)
		return nil, nil
	}
	return &body.Rating, nil
}
