package riot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Idumii/ArenaGaming/internal/ratelimit"
)

// Client is a Riot Games API client. Every request passes through the
// shared rate limiter before going out.
type Client struct {
	apiKey     string
	httpClient *http.Client
	limiter    *ratelimit.Limiter

	regionalHost   string
	platformHost   string
	platformPrefix string
}

// NewClient creates a new Riot API client
func NewClient(apiKey string, limiter *ratelimit.Limiter, regionalHost, platformHost, platformPrefix string) *Client {
	return &Client{
		apiKey:  apiKey,
		limiter: limiter,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		regionalHost:   regionalHost,
		platformHost:   platformHost,
		platformPrefix: platformPrefix,
	}
}

// MatchID builds a match-v5 style match ID from a live game ID
func (c *Client) MatchID(gameID string) string {
	return c.platformPrefix + "_" + gameID
}

// get performs a GET request and decodes the JSON response.
//
// The returned bool classifies a 404 as an expected "not there" outcome
// (account unknown, player not in game, match not propagated yet) so callers
// can drive control flow without inspecting errors. Any other non-200 status
// or a malformed payload is an error.
func (c *Client) get(ctx context.Context, url string, result interface{}) (bool, error) {
	if err := c.limiter.Acquire(ctx); err != nil {
		return false, fmt.Errorf("rate limiter wait aborted: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Riot-Token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return false, fmt.Errorf("failed to decode response: %w", err)
		}
		return true, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return false, fmt.Errorf("API rate limit exceeded (429), retry-after %s", resp.Header.Get("Retry-After"))
	default:
		body, _ := io.ReadAll(resp.Body)
		return false, fmt.Errorf("API error: status %d, body: %s", resp.StatusCode, string(body))
	}
}
