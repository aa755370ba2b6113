package apify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/stagesen/senior-living-colorado-sub000/pkg/config"
)

const (
	apiBase     = "https://api.apify.com/v2"
	pollTimeout = 15 * time.Minute
	pollDelay   = 10 * time.Second
)

// Client runs the places/reviews actor and fetches its dataset. One actor run
// per location search term; items come back as raw JSON for the ingestion
// boundary to parse.
type Client struct {
	apiKey     string
	actorID    string
	httpClient *http.Client
}

// NewClient creates a new Apify client.
func NewClient(cfg *config.ApifyConfig) *Client {
	return &Client{
		apiKey:     cfg.APIKey,
		actorID:    cfg.ActorID,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Configured reports whether the API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// ScrapePlaces starts an actor run for the location term, waits for it to
// finish and returns the dataset items.
func (c *Client) ScrapePlaces(ctx context.Context, location string) ([]json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("APIFY_API_KEY not set")
	}

	runID, err := c.startRun(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to start apify run: %w", err)
	}
	log.Info().Str("run_id", runID).Str("actor", c.actorID).Str("location", location).
		Msg("apify run started")

	datasetID, err := c.waitForRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("apify run failed: %w", err)
	}

	items, err := c.fetchDataset(ctx, datasetID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dataset: %w", err)
	}
	log.Info().Str("dataset_id", datasetID).Int("items", len(items)).Msg("apify run complete")

	return items, nil
}

func (c *Client) startRun(ctx context.Context, location string) (string, error) {
	input := map[string]interface{}{
		"searchStringsArray": []string{"senior living " + location, "elder care " + location},
		"maxCrawledPlacesPerSearch": 100,
		"language":                  "en",
		"scrapeReviewsCount":        10,
	}
	body, _ := json.Marshal(input)

	url := fmt.Sprintf("%s/acts/%s/runs?token=%s", apiBase, c.actorID, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("apify start run failed %d: %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	return result.Data.ID, nil
}

func (c *Client) waitForRun(ctx context.Context, runID string) (string, error) {
	url := fmt.Sprintf("%s/actor-runs/%s?token=%s", apiBase, runID, c.apiKey)
	deadline := time.Now().Add(pollTimeout)

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return "", err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			time.Sleep(pollDelay)
			continue
		}

		var result struct {
			Data struct {
				Status           string `json:"status"`
				DefaultDatasetID string `json:"defaultDatasetId"`
			} `json:"data"`
		}
		json.NewDecoder(resp.Body).Decode(&result)
		resp.Body.Close()

		switch result.Data.Status {
		case "SUCCEEDED":
			return result.Data.DefaultDatasetID, nil
		case "FAILED", "ABORTED", "TIMED-OUT":
			return "", fmt.Errorf("run %s: %s", runID, result.Data.Status)
		}

		log.Debug().Str("run_id", runID).Str("status", result.Data.Status).Msg("apify run polling")
		time.Sleep(pollDelay)
	}

	return "", fmt.Errorf("timeout waiting for run %s", runID)
}

func (c *Client) fetchDataset(ctx context.Context, datasetID string) ([]json.RawMessage, error) {
	url := fmt.Sprintf("%s/datasets/%s/items?token=%s&format=json", apiBase, datasetID, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("dataset fetch failed %d: %s", resp.StatusCode, string(respBody))
	}

	var items []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, err
	}
	return items, nil
}
