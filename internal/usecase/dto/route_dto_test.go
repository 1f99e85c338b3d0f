package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hari1275/sdp-sub003/internal/domain"
	"github.com/Hari1275/sdp-sub003/internal/pkg/validator"
)

func TestResolveRouteRequest_Validation(t *testing.T) {
	t.Run("equator point is valid", func(t *testing.T) {
		req := ResolveRouteRequest{
			Coordinates: []CoordinateRequest{{Lat: 0, Lng: 77.209}},
		}
		assert.NoError(t, validator.Validate(req))
	})

	t.Run("null island is valid", func(t *testing.T) {
		req := ResolveRouteRequest{
			Coordinates: []CoordinateRequest{{Lat: 0, Lng: 0}},
		}
		assert.NoError(t, validator.Validate(req))
	})

	t.Run("latitude out of range rejected", func(t *testing.T) {
		req := ResolveRouteRequest{
			Coordinates: []CoordinateRequest{{Lat: 91, Lng: 77.209}},
		}
		assert.Error(t, validator.Validate(req))
	})

	t.Run("longitude out of range rejected", func(t *testing.T) {
		req := ResolveRouteRequest{
			Coordinates: []CoordinateRequest{{Lat: 28.6, Lng: -180.5}},
		}
		assert.Error(t, validator.Validate(req))
	})

	t.Run("empty coordinates rejected", func(t *testing.T) {
		req := ResolveRouteRequest{Coordinates: []CoordinateRequest{}}
		assert.Error(t, validator.Validate(req))
	})

	t.Run("unknown mode rejected", func(t *testing.T) {
		req := ResolveRouteRequest{
			Coordinates: []CoordinateRequest{{Lat: 28.6, Lng: 77.2}},
			Mode:        "teleport",
		}
		assert.Error(t, validator.Validate(req))
	})
}

func TestResolveRouteRequest_ToTrail(t *testing.T) {
	ts := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	speed := 12.5

	req := ResolveRouteRequest{
		Coordinates: []CoordinateRequest{
			{Lat: 28.6139, Lng: 77.2090, Timestamp: &ts, Speed: &speed},
			{Lat: 28.6200, Lng: 77.2150},
		},
	}

	trail := req.ToTrail()
	require.Len(t, trail, 2)
	assert.Equal(t, 28.6139, trail[0].Lat)
	assert.Equal(t, 77.2090, trail[0].Lon)
	assert.Equal(t, ts, trail[0].Timestamp)
	require.NotNil(t, trail[0].Speed)
	assert.Equal(t, 12.5, *trail[0].Speed)
	assert.True(t, trail[1].Timestamp.IsZero())
}

func TestResolveRouteRequest_TravelMode(t *testing.T) {
	assert.Equal(t, domain.ModeDriving, ResolveRouteRequest{}.TravelMode())
	assert.Equal(t, domain.ModeWalking, ResolveRouteRequest{Mode: "walking"}.TravelMode())
}
