package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/providers"
	"github.com/stagesen/senior-living-colorado-sub000/pkg/config"
	"github.com/stagesen/senior-living-colorado-sub000/pkg/retry"
)

// Client implements the web-content extraction provider. Each call is gated
// by a sliding-window limiter and tried across prompt variants with backoff;
// when every variant fails the call reports no data instead of an error.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *slidingWindow
}

// NewClient creates a new extraction client.
func NewClient(cfg *config.ExtractConfig) (*Client, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("extraction api key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.firecrawl.dev/v1"
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
		},
		limiter: newSlidingWindow(cfg.WindowLimit, cfg.WindowLength),
	}, nil
}

type extractPayload struct {
	Blurb    string   `json:"blurb"`
	Services []string `json:"services"`
	Pricing  []string `json:"pricing"`
}

// Extract derives a blurb, service list and pricing lines from the facility
// website. A (nil, nil) return means every prompt variant came back empty.
func (c *Client) Extract(ctx context.Context, websiteURL string) (*providers.Extraction, error) {
	if websiteURL == "" {
		return nil, nil
	}

	for i, prompt := range promptVariants {
		var payload *extractPayload
		err := retry.Do(ctx, retry.CollaboratorConfig(), "extract", func() error {
			var callErr error
			payload, callErr = c.call(ctx, websiteURL, prompt)
			return callErr
		}, func(attempt int, err error, nextDelay time.Duration) {
			log.Warn().Err(err).Int("attempt", attempt).Int("variant", i).
				Dur("next_delay", nextDelay).Str("url", websiteURL).
				Msg("extraction attempt failed")
		})
		if err != nil {
			continue
		}
		if payload != nil && (payload.Blurb != "" || len(payload.Services) > 0) {
			return &providers.Extraction{
				Blurb:    payload.Blurb,
				Services: payload.Services,
				Pricing:  payload.Pricing,
			}, nil
		}
	}

	log.Info().Str("url", websiteURL).Msg("extraction yielded no data")
	return nil, nil
}

func (c *Client) call(ctx context.Context, websiteURL, prompt string) (*extractPayload, error) {
	// Every outgoing request takes its own window slot, retries included.
	waitStart := time.Now()
	if err := c.limiter.Acquire(ctx); err != nil {
		recordExtractMetric(ctx, 0, 0, err)
		return nil, err
	}
	recordExtractWait(ctx, time.Since(waitStart))

	reqBody := map[string]interface{}{
		"urls": []string{websiteURL},
		"prompt": prompt,
		"schema": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"blurb":    map[string]string{"type": "string"},
				"services": map[string]interface{}{"type": "array", "items": map[string]string{"type": "string"}},
				"pricing":  map[string]interface{}{"type": "array", "items": map[string]string{"type": "string"}},
			},
			"required": []string{"blurb", "services"},
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/extract", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		recordExtractMetric(ctx, 0, time.Since(start), err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		callErr := fmt.Errorf("extraction request failed with status %d", resp.StatusCode)
		recordExtractMetric(ctx, resp.StatusCode, time.Since(start), callErr)
		return nil, callErr
	}

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		recordExtractMetric(ctx, resp.StatusCode, time.Since(start), err)
		return nil, err
	}
	if !envelope.Success || len(envelope.Data) == 0 {
		err := errors.New("extraction response missing data")
		recordExtractMetric(ctx, resp.StatusCode, time.Since(start), err)
		return nil, err
	}

	var payload extractPayload
	if err := json.Unmarshal(envelope.Data, &payload); err != nil {
		recordExtractMetric(ctx, resp.StatusCode, time.Since(start), err)
		return nil, fmt.Errorf("failed to parse extraction response: %w", err)
	}

	recordExtractMetric(ctx, resp.StatusCode, time.Since(start), nil)
	return &payload, nil
}

type extractMetrics struct {
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
	requestErrors   metric.Int64Counter
	rateLimitWait   metric.Float64Histogram
}

var extractMetricsInit = false
var extractMetricsSet extractMetrics

func ensureExtractMetrics() {
	if extractMetricsInit {
		return
	}
	meter := otel.Meter("github.com/stagesen/senior-living-colorado-sub000/extract")

	requestCount, err := meter.Int64Counter(
		"extract.request.count",
		metric.WithDescription("Number of extraction requests"),
	)
	if err != nil {
		return
	}
	requestDuration, err := meter.Float64Histogram(
		"extract.request.duration",
		metric.WithDescription("Extraction request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return
	}
	requestErrors, err := meter.Int64Counter(
		"extract.request.errors",
		metric.WithDescription("Number of extraction request errors"),
	)
	if err != nil {
		return
	}
	rateLimitWait, err := meter.Float64Histogram(
		"extract.rate_limit.wait",
		metric.WithDescription("Time spent waiting on the extraction window limiter in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return
	}

	extractMetricsSet = extractMetrics{
		requestCount:    requestCount,
		requestDuration: requestDuration,
		requestErrors:   requestErrors,
		rateLimitWait:   rateLimitWait,
	}
	extractMetricsInit = true
}

func recordExtractMetric(ctx context.Context, statusCode int, duration time.Duration, err error) {
	ensureExtractMetrics()
	if !extractMetricsInit {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("extract.provider", "firecrawl"),
	}
	if statusCode > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", statusCode))
	}

	extractMetricsSet.requestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	extractMetricsSet.requestDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	if err != nil {
		extractMetricsSet.requestErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

func recordExtractWait(ctx context.Context, wait time.Duration) {
	ensureExtractMetrics()
	if !extractMetricsInit {
		return
	}
	extractMetricsSet.rateLimitWait.Record(ctx, float64(wait.Milliseconds()),
		metric.WithAttributes(attribute.String("extract.provider", "firecrawl")))
}
