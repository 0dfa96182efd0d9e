// Package places looks up quiet places near a coordinate via the Google Places API.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"time"

	"quietspace/internal/middleware"
	"quietspace/internal/models"
	"quietspace/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// quietTypes are the Google place types searched for quiet spaces.
var quietTypes = []string{"library", "park", "cafe", "museum", "art_gallery", "spa"}

// Place is a nearby quiet place candidate.
type Place struct {
	PlaceID          string  `json:"place_id"`
	Name             string  `json:"name"`
	Address          string  `json:"address"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	Rating           float32 `json:"rating"`
	UserRatingsTotal int     `json:"user_ratings_total"`
	PlaceType        string  `json:"place_type"`
	QuietScore       float32 `json:"quiet_score"`
	OpenNow          bool    `json:"open_now"`
}

type nearbyResponse struct {
	Status  string `json:"status"`
	Results []struct {
		PlaceID  string `json:"place_id"`
		Name     string `json:"name"`
		Vicinity string `json:"vicinity"`
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		Rating           float32  `json:"rating"`
		UserRatingsTotal int      `json:"user_ratings_total"`
		Types            []string `json:"types"`
		OpeningHours     *struct {
			OpenNow bool `json:"open_now"`
		} `json:"opening_hours"`
	} `json:"results"`
}

// Client calls the nearby-search endpoint of a Places-compatible API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient returns a Client for the given base URL and API key.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// NearbySearch queries every quiet place type around (lat, lng) within radius
// meters and returns the merged, deduplicated results sorted by quiet score.
// Individual type lookups that fail are logged and skipped; the call fails only
// when no type could be fetched.
func (c *Client) NearbySearch(ctx context.Context, lat, lng float64, radius int) ([]Place, error) {
	span, ctx := observability.NewSpan(ctx, "places.NearbySearch",
		trace.WithSpanKind(trace.SpanKindClient),
	)
	span.AddAttributes(
		attribute.Float64("places.lat", lat),
		attribute.Float64("places.lng", lng),
		attribute.Int("places.radius", radius),
	)
	defer span.End()

	seen := make(map[string]bool)
	var places []Place
	var lastErr error
	failures := 0

	for _, placeType := range quietTypes {
		results, err := c.searchByType(ctx, lat, lng, radius, placeType)
		if err != nil {
			middleware.Logger.Warn("places lookup failed for type",
				slog.String("type", placeType),
				slog.String("error", err.Error()),
			)
			failures++
			lastErr = err
			continue
		}
		for _, p := range results {
			if seen[p.PlaceID] {
				continue
			}
			seen[p.PlaceID] = true
			places = append(places, p)
		}
	}

	if failures == len(quietTypes) {
		observability.PlacesLookups.WithLabelValues("error").Inc()
		err := models.NewRemoteUnavailableError(lastErr)
		span.SetError(err)
		return nil, err
	}
	observability.PlacesLookups.WithLabelValues("ok").Inc()

	sort.Slice(places, func(i, j int) bool {
		return places[i].QuietScore > places[j].QuietScore
	})
	return places, nil
}

func (c *Client) searchByType(ctx context.Context, lat, lng float64, radius int, placeType string) ([]Place, error) {
	q := url.Values{}
	q.Set("location", fmt.Sprintf("%f,%f", lat, lng))
	q.Set("radius", fmt.Sprintf("%d", radius))
	q.Set("type", placeType)
	q.Set("key", c.apiKey)
	endpoint := fmt.Sprintf("%s/nearbysearch/json?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("places API returned HTTP %d", resp.StatusCode)
	}

	var parsed nearbyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode places response: %w", err)
	}
	// ZERO_RESULTS is a valid empty answer, not an error.
	if parsed.Status != "OK" && parsed.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("places API status %s", parsed.Status)
	}

	places := make([]Place, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		spaceType := QuietSpaceType(r.Types)
		openNow := true
		if r.OpeningHours != nil {
			openNow = r.OpeningHours.OpenNow
		}
		places = append(places, Place{
			PlaceID:          r.PlaceID,
			Name:             r.Name,
			Address:          r.Vicinity,
			Latitude:         r.Geometry.Location.Lat,
			Longitude:        r.Geometry.Location.Lng,
			Rating:           r.Rating,
			UserRatingsTotal: r.UserRatingsTotal,
			PlaceType:        spaceType,
			QuietScore:       QuietScore(spaceType, r.Rating),
			OpenNow:          openNow,
		})
	}
	return places, nil
}
