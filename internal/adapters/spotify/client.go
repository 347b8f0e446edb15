// Package spotify implements the catalog provider port against the
// Spotify Web API using the client-credentials flow.
package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/ewilliams-labs/woodshed/internal/core/domain"
	"github.com/ewilliams-labs/woodshed/internal/core/ports"
)

const (
	defaultBaseURL       = "https://api.spotify.com/v1"
	defaultTimeout       = 8 * time.Second
	defaultRatePerSecond = 10
	searchLimit          = 20
	trackCacheTTL        = 5 * time.Minute
)

// Config holds catalog client settings.
type Config struct {
	ClientID     string
	ClientSecret string
	BaseURL      string // defaults to the public Spotify API
	TokenURL     string // defaults to the Spotify accounts service
	Timeout      time.Duration
	RatePerSec   float64
}

// Client is the HTTP client for the Spotify catalog.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	tokens      *tokenSource
	limiter     *rate.Limiter
	cache       *trackCache
	log         *logrus.Logger
	maxRetries  int
	baseBackoff time.Duration
}

// compile-time interface assertion
var _ ports.CatalogProvider = (*Client)(nil)

// NewClient constructs a Spotify client. Every outbound call is bounded by
// cfg.Timeout and throttled by cfg.RatePerSec.
func NewClient(cfg Config, log *logrus.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = defaultRatePerSecond
	}
	if log == nil {
		log = logrus.New()
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}

	return &Client{
		httpClient: httpClient,
		baseURL:    cfg.BaseURL,
		tokens:     newTokenSource(cfg.ClientID, cfg.ClientSecret, cfg.TokenURL, httpClient),
		limiter:    rate.NewLimiter(rate.Limit(cfg.RatePerSec), int(cfg.RatePerSec)),
		cache:      newTrackCache(trackCacheTTL),
		log:        log,
	}
}

// SearchTracks issues an authenticated text search and returns the
// provider's results verbatim, in provider relevance order.
func (c *Client) SearchTracks(ctx context.Context, query string) ([]domain.Track, error) {
	searchURL, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: invalid search url: %w", err)
	}

	q := searchURL.Query()
	q.Set("q", query)
	q.Set("type", "track")
	q.Set("limit", strconv.Itoa(searchLimit))
	searchURL.RawQuery = q.Encode()

	var body searchResponse
	if err := c.getJSON(ctx, searchURL.String(), &body); err != nil {
		return nil, err
	}

	tracks := make([]domain.Track, 0, len(body.Tracks.Items))
	for _, item := range body.Tracks.Items {
		tracks = append(tracks, mapTrackToDomain(item))
	}
	return tracks, nil
}

// GetTrack fetches one track's current metadata, including artwork URLs.
// Results are cached briefly; enrichment re-reads the same ids constantly.
func (c *Client) GetTrack(ctx context.Context, externalID string) (domain.Track, error) {
	if externalID == "" {
		return domain.Track{}, fmt.Errorf("spotify adapter: empty track id")
	}

	if cached, ok := c.cache.get(externalID); ok {
		return cached, nil
	}

	var st spotifyTrack
	trackURL := fmt.Sprintf("%s/tracks/%s", c.baseURL, url.PathEscape(externalID))
	if err := c.getJSON(ctx, trackURL, &st); err != nil {
		return domain.Track{}, err
	}

	track := mapTrackToDomain(st)
	c.cache.set(externalID, track)
	return track, nil
}

// getJSON performs a throttled, authenticated GET and decodes the body.
// Token acquisition failure is fatal to the calling operation.
func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("spotify adapter: rate limit wait: %w", err)
	}

	token, err := c.tokens.bearer(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("spotify adapter: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return fmt.Errorf("spotify adapter: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("spotify adapter: %s: status %d", req.URL.Path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("spotify adapter: decode response: %w", err)
	}
	return nil
}
