package soccerdata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/Vodeneev/matchbot/internal/pkg/metrics"
)

const (
	defaultBaseURL = "https://api.soccerdataapi.com/"
	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 8 << 20

	endpointUpcoming = "match-previews-upcoming/"
	endpointMatch    = "match/"
	endpointPreview  = "match-preview/"
	endpointStanding = "standing/"
	endpointH2H      = "head-to-head/"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// errNotFound is returned by doJSON on HTTP 404 or a "not found" detail.
var errNotFound = errors.New("not found")

// ClientConfig configures a Client. LeagueIDs is the allow-list applied to upcoming matches.
type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	LeagueIDs  []int
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
}

// Client is a thin typed client over the soccerdataapi.com REST API.
// It keeps no state between calls: no cache, no retries.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	leagues    map[int]struct{}
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// NewClient creates a client from cfg.
func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	// Ensure baseURL ends with /
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/") + "/"

	leagues := make(map[int]struct{}, len(cfg.LeagueIDs))
	for _, id := range cfg.LeagueIDs {
		leagues[id] = struct{}{}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		leagues:    leagues,
		logger:     logger,
		metrics:    cfg.Metrics,
	}
}

// Allowed reports whether leagueID is in the allow-list.
func (c *Client) Allowed(leagueID int) bool {
	_, ok := c.leagues[leagueID]
	return ok
}

// doJSON performs a GET on endpoint and decodes the body into target.
func (c *Client) doJSON(ctx context.Context, endpoint string, params url.Values, target any) (err error) {
	start := time.Now()
	defer func() {
		result := metrics.ResultOK
		switch {
		case errors.Is(err, errNotFound):
			result = metrics.ResultNotFound
		case err != nil:
			result = metrics.ResultError
		}
		c.metrics.ObserveUpstream(strings.TrimSuffix(endpoint, "/"), result, time.Since(start))
	}()

	if c.apiKey == "" {
		return &UpstreamError{Endpoint: endpoint, Detail: "API key is not configured"}
	}

	query := url.Values{}
	for k, vs := range params {
		query[k] = vs
	}
	query.Set("auth_token", c.apiKey)

	u := c.baseURL + endpoint + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &UpstreamError{Endpoint: endpoint, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &UpstreamError{Endpoint: endpoint, Err: redactKey(err, c.apiKey)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &UpstreamError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := errorDetail(body)
		if isNotFound(resp.StatusCode, detail) {
			return fmt.Errorf("%s: %w", endpoint, errNotFound)
		}
		return &UpstreamError{Endpoint: endpoint, StatusCode: resp.StatusCode, Detail: detail}
	}

	if err := json.Unmarshal(body, target); err != nil {
		return &UpstreamError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// errorDetail pulls the "detail" field out of an error body, falling back to the raw text.
func errorDetail(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		text = text[:200] + "..."
	}
	return text
}

// isNotFound reports whether a failed answer means the requested entity does
// not exist. Besides 404, some plans answer 400 with a "not found" detail. Auth,
// rate-limit and server errors are never a missing match, whatever their text.
func isNotFound(status int, detail string) bool {
	switch {
	case status == http.StatusNotFound:
		return true
	case status < 400 || status >= 500:
		return false
	case status == http.StatusUnauthorized, status == http.StatusForbidden, status == http.StatusTooManyRequests:
		return false
	}
	return strings.Contains(strings.ToLower(detail), "not found")
}

// redactKey strips the API key from transport errors, which quote the full URL.
func redactKey(err error, key string) error {
	if key == "" || !strings.Contains(err.Error(), key) {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), key, "***"))
}

// asUpstream folds a not-found answer into UpstreamError for endpoints where
// "not found" is not a meaningful answer.
func asUpstream(endpoint string, err error) error {
	if errors.Is(err, errNotFound) {
		return &UpstreamError{Endpoint: endpoint, StatusCode: http.StatusNotFound, Err: err}
	}
	return err
}
