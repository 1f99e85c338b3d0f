package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Hari1275/sdp-sub003/internal/config"
	"github.com/Hari1275/sdp-sub003/internal/domain"
	"github.com/Hari1275/sdp-sub003/internal/domain/repository"
	"github.com/Hari1275/sdp-sub003/internal/pkg/geo"
	"go.uber.org/zap"
)

type client struct {
	httpClient   *http.Client
	baseURL      string
	accessToken  string
	maxWaypoints int
	logger       *zap.Logger
}

// directionsResponse - сырой ответ Mapbox Directions API.
// Поля провайдера не выходят за пределы этого пакета.
type directionsResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"` // метры
		Duration float64 `json:"duration"` // секунды
		Geometry string  `json:"geometry"` // polyline
	} `json:"routes"`
}

// NewMapboxClient создает новый клиент для Mapbox Directions API
func NewMapboxClient(cfg *config.MapboxConfig, logger *zap.Logger) repository.RouteProviderRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
		},
		baseURL:      cfg.BaseURL,
		accessToken:  cfg.AccessToken,
		maxWaypoints: cfg.MaxWaypoints,
		logger:       logger,
	}
}

// MaxWaypoints возвращает лимит точек на один вызов Directions API
func (c *client) MaxWaypoints() int {
	return c.maxWaypoints
}

// SnapToRoute привязывает waypoints к дорожной сети через Directions API
func (c *client) SnapToRoute(
	ctx context.Context,
	waypoints []domain.Coordinate,
	mode domain.TravelMode,
) (*domain.ProviderRoute, error) {
	if len(waypoints) < 2 {
		return nil, fmt.Errorf("at least 2 waypoints are required")
	}

	// Проверка лимита Mapbox (25 точек максимум на вызов)
	if len(waypoints) > c.maxWaypoints {
		return nil, fmt.Errorf("waypoint count %d exceeds Mapbox limit of %d points",
			len(waypoints), c.maxWaypoints)
	}

	coordinates := make([]string, len(waypoints))
	for i, wp := range waypoints {
		coordinates[i] = fmt.Sprintf("%f,%f", wp.Lon, wp.Lat)
	}

	reqURL := fmt.Sprintf("%s/directions/v5/%s/%s?geometries=polyline&overview=full&access_token=%s",
		c.baseURL,
		profileFor(mode),
		strings.Join(coordinates, ";"),
		c.accessToken,
	)

	c.logger.Debug("Calling Mapbox Directions API",
		zap.String("profile", profileFor(mode)),
		zap.Int("waypoint_count", len(waypoints)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err))
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute request", zap.Error(err))
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("Mapbox API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, fmt.Errorf("mapbox API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var dirResp directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dirResp); err != nil {
		c.logger.Error("Failed to decode response", zap.Error(err))
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if dirResp.Code != "Ok" {
		c.logger.Error("Mapbox API returned non-OK code",
			zap.String("code", dirResp.Code))
		return nil, fmt.Errorf("mapbox API returned code: %s", dirResp.Code)
	}

	if len(dirResp.Routes) == 0 {
		return nil, fmt.Errorf("mapbox API returned no routes")
	}

	route := dirResp.Routes[0]
	geometry := geo.DecodePolyline(route.Geometry)

	c.logger.Debug("Mapbox Directions API call successful",
		zap.Float64("distance_m", route.Distance),
		zap.Float64("duration_s", route.Duration),
		zap.Int("geometry_points", len(geometry)))

	return &domain.ProviderRoute{
		Geometry:    geometry,
		DistanceKm:  route.Distance / 1000.0,
		DurationMin: route.Duration / 60.0,
	}, nil
}

func profileFor(mode domain.TravelMode) string {
	switch mode {
	case domain.ModeWalking:
		return "mapbox/walking"
	case domain.ModeCycling:
		return "mapbox/cycling"
	default:
		return "mapbox/driving"
	}
}
