package wikidata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const (
	// DefaultEndpoint is the public Wikidata SPARQL endpoint.
	DefaultEndpoint = "https://query.wikidata.org/sparql"

	// defaultUserAgent identifies this service to the endpoint, per the
	// Wikimedia user-agent policy for automated clients.
	defaultUserAgent = "wichat-question-service/1.0 (https://github.com/Arquisoft/wichat-es1a-sub000)"

	requestTimeout = 30 * time.Second
)

// Client sends SPARQL queries to a Wikidata-compatible endpoint.
type Client struct {
	endpoint   string
	userAgent  string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a client for the given endpoint. An empty endpoint
// selects the public Wikidata one.
func NewClient(endpoint string, logger *slog.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint:   endpoint,
		userAgent:  defaultUserAgent,
		httpClient: &http.Client{Timeout: requestTimeout},
		log:        logger,
	}
}

// selectResponse mirrors the SPARQL JSON results format.
type selectResponse struct {
	Results struct {
		Bindings []Binding `json:"bindings"`
	} `json:"results"`
}

// Select runs a query and returns the raw result rows. Remote and transport
// errors are returned unchanged; retry policy belongs to the caller.
func (c *Client) Select(ctx context.Context, query string) ([]Binding, error) {
	reqURL := c.endpoint + "?" + url.Values{
		"query":  {query},
		"format": {"json"},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create query request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/sparql-results+json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sparql request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("sparql endpoint returned status %d: %s", resp.StatusCode, body)
	}

	var parsed selectResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode sparql response: %w", err)
	}

	c.log.Debug("sparql query completed",
		slog.Int("rows", len(parsed.Results.Bindings)),
		slog.Duration("took", time.Since(start)))

	return parsed.Results.Bindings, nil
}
