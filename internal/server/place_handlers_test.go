package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"quietspace/internal/places"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetNearbyPlaces_ParamValidation(t *testing.T) {
	t.Parallel()

	s, _, _ := newTestServer(t)
	app := fiber.New()
	app.Get("/api/places/nearby", s.GetNearbyPlaces)

	for _, query := range []string{
		"",
		"?lat=51.5",
		"?lat=abc&lng=0.1",
		"?lat=91&lng=0.1",
		"?lat=51.5&lng=181",
	} {
		resp := doJSON(t, app, http.MethodGet, "/api/places/nearby"+query, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "query %q", query)
		resp.Body.Close()
	}
}

func TestGetNearbyPlaces(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("type") != "library" {
			fmt.Fprint(w, `{"status":"ZERO_RESULTS","results":[]}`)
			return
		}
		fmt.Fprint(w, `{
			"status": "OK",
			"results": [{
				"place_id": "lib-1",
				"name": "Stillwater Library",
				"vicinity": "12 Moss Street",
				"geometry": {"location": {"lat": 51.5, "lng": -0.1}},
				"rating": 4.6,
				"user_ratings_total": 120,
				"types": ["library", "point_of_interest"]
			}]
		}`)
	}))
	defer ts.Close()

	s, _, _ := newTestServer(t)
	s.placesClient = places.NewClient(ts.URL, "test-key")

	app := fiber.New()
	app.Get("/api/places/nearby", s.GetNearbyPlaces)

	resp := doJSON(t, app, http.MethodGet, "/api/places/nearby?lat=51.5&lng=-0.1&radius=1200", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Places []places.Place `json:"places"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Places, 1)
	assert.Equal(t, "lib-1", body.Places[0].PlaceID)
	assert.Equal(t, "Library", body.Places[0].PlaceType)
	assert.Greater(t, body.Places[0].QuietScore, float32(4.0))
}

func TestGetNearbyPlaces_Unavailable(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	s, _, _ := newTestServer(t)
	s.placesClient = places.NewClient(ts.URL, "test-key")

	app := fiber.New()
	app.Get("/api/places/nearby", s.GetNearbyPlaces)

	resp := doJSON(t, app, http.MethodGet, "/api/places/nearby?lat=51.5&lng=-0.1", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	resp.Body.Close()
}
