package loadtest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/okian/matchup/internal/domain/model"
)

// httpClient wraps http.Client with timeout.
type httpClient struct {
	client  *http.Client
	baseURL string
}

func newHTTPClient(baseURL string, timeout time.Duration) *httpClient {
	return &httpClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

func (c *httpClient) get(ctx context.Context, path string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read body: %w", err)
	}
	return resp.StatusCode, body, nil
}

// predictionPath builds the request path for m.
func predictionPath(m model.Matchup) string {
	return "/api/predictions/" + url.PathEscape(m.HomeTeam) + "/" + strconv.Itoa(m.HomeSeason) +
		"/" + url.PathEscape(m.AwayTeam) + "/" + strconv.Itoa(m.AwaySeason)
}

func (c *httpClient) predict(ctx context.Context, m model.Matchup) (int, prediction, error) {
	status, body, err := c.get(ctx, predictionPath(m))
	if err != nil || status != http.StatusOK {
		return status, prediction{}, err
	}
	var p prediction
	if err := json.Unmarshal(body, &p); err != nil {
		return status, prediction{}, fmt.Errorf("decode prediction: %w", err)
	}
	return status, p, nil
}
