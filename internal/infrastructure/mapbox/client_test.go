package mapbox

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Hari1275/sdp-sub003/internal/config"
	"github.com/Hari1275/sdp-sub003/internal/domain"
	"github.com/Hari1275/sdp-sub003/internal/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(baseURL string) *config.MapboxConfig {
	return &config.MapboxConfig{
		AccessToken:    "test_token",
		BaseURL:        baseURL,
		MaxWaypoints:   25,
		RequestTimeout: 5,
	}
}

func TestClient_SnapToRoute(t *testing.T) {
	logger := zap.NewNop()

	waypoints := []domain.Coordinate{
		{Lat: 28.6139, Lon: 77.2090},
		{Lat: 28.6129, Lon: 77.2295},
	}

	t.Run("successful request", func(t *testing.T) {
		encoded := geo.EncodePolyline(waypoints)

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.URL.Path, "directions/v5/mapbox/driving")

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]interface{}{
				"code": "Ok",
				"routes": []map[string]interface{}{
					{"distance": 2450.0, "duration": 420.0, "geometry": encoded},
				},
			})
		}))
		defer server.Close()

		client := NewMapboxClient(testConfig(server.URL), logger)

		route, err := client.SnapToRoute(context.Background(), waypoints, domain.ModeDriving)
		require.NoError(t, err)
		require.NotNil(t, route)
		assert.InDelta(t, 2.45, route.DistanceKm, 1e-9)
		assert.InDelta(t, 7.0, route.DurationMin, 1e-9)
		require.Len(t, route.Geometry, 2)
		assert.InDelta(t, 28.6139, route.Geometry[0].Lat, 1e-5)
		assert.InDelta(t, 77.2090, route.Geometry[0].Lon, 1e-5)
	})

	t.Run("walking profile", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.URL.Path, "mapbox/walking")
			json.NewEncoder(w).Encode(map[string]interface{}{
				"code": "Ok",
				"routes": []map[string]interface{}{
					{"distance": 100.0, "duration": 80.0, "geometry": geo.EncodePolyline(waypoints)},
				},
			})
		}))
		defer server.Close()

		client := NewMapboxClient(testConfig(server.URL), logger)

		_, err := client.SnapToRoute(context.Background(), waypoints, domain.ModeWalking)
		require.NoError(t, err)
	})

	t.Run("too few waypoints", func(t *testing.T) {
		client := NewMapboxClient(testConfig("https://api.mapbox.com"), logger)

		route, err := client.SnapToRoute(context.Background(), waypoints[:1], domain.ModeDriving)
		assert.Error(t, err)
		assert.Nil(t, route)
		assert.Contains(t, err.Error(), "at least 2 waypoints")
	})

	t.Run("exceeds waypoint limit", func(t *testing.T) {
		client := NewMapboxClient(testConfig("https://api.mapbox.com"), logger)

		many := make([]domain.Coordinate, 26)
		for i := range many {
			many[i] = domain.Coordinate{Lat: 28.61, Lon: 77.20}
		}

		route, err := client.SnapToRoute(context.Background(), many, domain.ModeDriving)
		assert.Error(t, err)
		assert.Nil(t, route)
		assert.Contains(t, err.Error(), "exceeds Mapbox limit")
	})

	t.Run("api error response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"code":"InvalidToken","message":"invalid token"}`))
		}))
		defer server.Close()

		client := NewMapboxClient(testConfig(server.URL), logger)

		route, err := client.SnapToRoute(context.Background(), waypoints, domain.ModeDriving)
		assert.Error(t, err)
		assert.Nil(t, route)
		assert.Contains(t, err.Error(), "mapbox API error")
	})

	t.Run("non-ok code in body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{"code": "NoRoute", "routes": []interface{}{}})
		}))
		defer server.Close()

		client := NewMapboxClient(testConfig(server.URL), logger)

		route, err := client.SnapToRoute(context.Background(), waypoints, domain.ModeDriving)
		assert.Error(t, err)
		assert.Nil(t, route)
		assert.Contains(t, err.Error(), "NoRoute")
	})

	t.Run("malformed payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"code": "Ok", "routes": `))
		}))
		defer server.Close()

		client := NewMapboxClient(testConfig(server.URL), logger)

		route, err := client.SnapToRoute(context.Background(), waypoints, domain.ModeDriving)
		assert.Error(t, err)
		assert.Nil(t, route)
	})
}
