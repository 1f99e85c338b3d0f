package geo

import (
	"testing"

	"github.com/Hari1275/sdp-sub003/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestHaversine(t *testing.T) {
	t.Run("identity", func(t *testing.T) {
		assert.Equal(t, 0.0, Haversine(28.6139, 77.2090, 28.6139, 77.2090))
	})

	t.Run("symmetry", func(t *testing.T) {
		pairs := [][4]float64{
			{28.6139, 77.2090, 28.5535, 77.2588},
			{41.3851, 2.1734, 41.4036, 2.1744},
			{-33.8688, 151.2093, 51.5074, -0.1278},
			{0, 0, 0, 180},
		}
		for _, p := range pairs {
			ab := Haversine(p[0], p[1], p[2], p[3])
			ba := Haversine(p[2], p[3], p[0], p[1])
			assert.InDelta(t, ab, ba, 1e-9)
		}
	})

	t.Run("known distance", func(t *testing.T) {
		// Barcelona Pl. Catalunya -> Sagrada Familia, ~2 km
		d := Haversine(41.3870, 2.1701, 41.4036, 2.1744)
		assert.InDelta(t, 1.88, d, 0.1)
	})
}

func TestPathLengthKm(t *testing.T) {
	t.Run("short trails are zero", func(t *testing.T) {
		assert.Equal(t, 0.0, PathLengthKm(nil))
		assert.Equal(t, 0.0, PathLengthKm([]domain.Coordinate{{Lat: 1, Lon: 1}}))
	})

	t.Run("segment sum", func(t *testing.T) {
		trail := []domain.Coordinate{
			{Lat: 28.6139, Lon: 77.2090},
			{Lat: 28.6129, Lon: 77.2295},
			{Lat: 28.5535, Lon: 77.2588},
		}
		total := PathLengthKm(trail)
		sum := Distance(trail[0], trail[1]) + Distance(trail[1], trail[2])
		assert.InDelta(t, sum, total, 1e-9)
		assert.Greater(t, total, 8.5)
		assert.Less(t, total, 10.0)
	})
}

func TestSpreadKm(t *testing.T) {
	t.Run("clustered points have small spread", func(t *testing.T) {
		trail := []domain.Coordinate{
			{Lat: 28.61390, Lon: 77.20900},
			{Lat: 28.61393, Lon: 77.20903},
			{Lat: 28.61388, Lon: 77.20898},
		}
		assert.Less(t, SpreadKm(trail), 0.02)
	})

	t.Run("spread grows with displacement", func(t *testing.T) {
		trail := []domain.Coordinate{
			{Lat: 28.6139, Lon: 77.2090},
			{Lat: 28.6239, Lon: 77.2190},
		}
		assert.Greater(t, SpreadKm(trail), 1.0)
	})
}

func TestBearingDeg(t *testing.T) {
	north := BearingDeg(domain.Coordinate{Lat: 0, Lon: 0}, domain.Coordinate{Lat: 1, Lon: 0})
	east := BearingDeg(domain.Coordinate{Lat: 0, Lon: 0}, domain.Coordinate{Lat: 0, Lon: 1})

	assert.InDelta(t, 0.0, north, 0.01)
	assert.InDelta(t, 90.0, east, 0.01)
}

func TestValidateCoordinates(t *testing.T) {
	assert.True(t, ValidateCoordinates(28.6139, 77.2090))
	assert.True(t, ValidateCoordinates(-90, 180))
	assert.False(t, ValidateCoordinates(90.1, 0))
	assert.False(t, ValidateCoordinates(0, -180.5))
}
