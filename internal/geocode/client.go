// Package geocode offers place name suggestions from an OpenStreetMap
// Nominatim compatible search endpoint.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"io.winapps.traveljournal/internal/config"
	"io.winapps.traveljournal/internal/metrics"
	journal "io.winapps.traveljournal/internal/models/journal"
)

const (
	// MaxSuggestions is the result limit sent to and enforced on the endpoint.
	MaxSuggestions = 5
	// MinQueryLength is the longest query that is answered without a lookup.
	MinQueryLength = 2
)

type place struct {
	PlaceID     json.Number `json:"place_id"`
	Name        string      `json:"name"`
	DisplayName string      `json:"display_name"`
	Lat         string      `json:"lat"`
	Lon         string      `json:"lon"`
}

// Client looks up location suggestions.
type Client struct {
	endpoint   string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *cache.Cache
	logger     *zap.SugaredLogger
	metrics    *metrics.Metrics
}

// NewClient builds a client from cfg. An RPS of zero disables rate limiting
// and a zero CacheTTL disables caching.
func NewClient(cfg config.GeocoderConfig, logger *zap.SugaredLogger, m *metrics.Metrics) *Client {
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}

	c := &Client{
		endpoint:   cfg.Endpoint,
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
		metrics:    m,
	}
	if cfg.CacheTTL > 0 {
		c.cache = cache.New(cfg.CacheTTL, cfg.CacheTTL*2)
	}
	return c
}

// Suggest returns up to MaxSuggestions candidates for text. Short queries
// and failed lookups yield an empty slice; failures are only logged.
func (c *Client) Suggest(ctx context.Context, text string) []journal.Location {
	locations, err := c.Lookup(ctx, text)
	if err != nil {
		c.logger.Warnw("Location suggestions unavailable", "query", text, "error", err)
		return []journal.Location{}
	}
	return locations
}

// Lookup is Suggest with the failure reported as ErrSuggestionUnavailable.
func (c *Client) Lookup(ctx context.Context, text string) ([]journal.Location, error) {
	if utf8.RuneCountInString(text) <= MinQueryLength {
		c.metrics.RecordGeocodeLookup("skipped")
		return []journal.Location{}, nil
	}

	cacheKey := strings.ToLower(text)
	if c.cache != nil {
		if cached, found := c.cache.Get(cacheKey); found {
			if locations, ok := cached.([]journal.Location); ok {
				c.metrics.RecordGeocodeLookup("hit")
				return append([]journal.Location(nil), locations...), nil
			}
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		c.metrics.RecordGeocodeLookup("error")
		return nil, fmt.Errorf("%w: %w", journal.ErrSuggestionUnavailable, err)
	}

	start := time.Now()
	locations, err := c.search(ctx, text)
	c.metrics.RecordGeocodeDuration(time.Since(start))
	if err != nil {
		c.metrics.RecordGeocodeLookup("error")
		return nil, fmt.Errorf("%w: %w", journal.ErrSuggestionUnavailable, err)
	}

	c.metrics.RecordGeocodeLookup("miss")
	if c.cache != nil {
		c.cache.Set(cacheKey, locations, cache.DefaultExpiration)
	}
	return append([]journal.Location(nil), locations...), nil
}

func (c *Client) search(ctx context.Context, text string) ([]journal.Location, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", text)
	params.Set("limit", strconv.Itoa(MaxSuggestions))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(places) > MaxSuggestions {
		places = places[:MaxSuggestions]
	}

	locations := make([]journal.Location, 0, len(places))
	for _, p := range places {
		lat, _ := strconv.ParseFloat(p.Lat, 64)
		lon, _ := strconv.ParseFloat(p.Lon, 64)
		locations = append(locations, journal.Location{
			ID:          p.PlaceID.String(),
			Name:        p.Name,
			DisplayName: p.DisplayName,
			Latitude:    lat,
			Longitude:   lon,
		})
	}
	return locations, nil
}
