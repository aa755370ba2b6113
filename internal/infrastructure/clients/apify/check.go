package apify

import (
	"context"
	"fmt"
	"net/http"
)

// CheckAPIKey verifies the configured key against the Apify account endpoint.
// Returns nil when the key is accepted.
func (c *Client) CheckAPIKey(ctx context.Context) error {
	if c.apiKey == "" {
		return fmt.Errorf("APIFY_API_KEY not set")
	}

	url := fmt.Sprintf("%s/users/me?token=%s", apiBase, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("apify rejected api key: status %d", resp.StatusCode)
	}
	return nil
}
