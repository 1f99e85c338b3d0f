package geo

import (
	"math"
	"strings"

	"github.com/Hari1275/sdp-sub003/internal/domain"
)

// Полилинии в формате Google Encoded Polyline Algorithm:
// знаковые дельты, 5-битные чанки со смещением 63, масштаб координат 1e5.
// Decode обязан быть точной инверсией кодирования провайдера.

const polylineScale = 1e5

// EncodePolyline кодирует последовательность координат в полилинию
func EncodePolyline(coords []domain.Coordinate) string {
	var b strings.Builder
	var prevLat, prevLon int64

	for _, c := range coords {
		lat := int64(math.Round(c.Lat * polylineScale))
		lon := int64(math.Round(c.Lon * polylineScale))
		encodeSigned(&b, lat-prevLat)
		encodeSigned(&b, lon-prevLon)
		prevLat, prevLon = lat, lon
	}
	return b.String()
}

// DecodePolyline декодирует полилинию в упорядоченный набор координат.
// Обрезанный хвост (неполный чанк) отбрасывается.
func DecodePolyline(encoded string) []domain.Coordinate {
	coords := make([]domain.Coordinate, 0, len(encoded)/4)
	var lat, lon int64

	i := 0
	for i < len(encoded) {
		dLat, next, ok := decodeSigned(encoded, i)
		if !ok {
			break
		}
		dLon, after, ok := decodeSigned(encoded, next)
		if !ok {
			break
		}
		lat += dLat
		lon += dLon
		coords = append(coords, domain.Coordinate{
			Lat: float64(lat) / polylineScale,
			Lon: float64(lon) / polylineScale,
		})
		i = after
	}
	return coords
}

func encodeSigned(b *strings.Builder, v int64) {
	u := v << 1
	if v < 0 {
		u = ^u
	}
	for u >= 0x20 {
		b.WriteByte(byte(0x20|(u&0x1f)) + 63)
		u >>= 5
	}
	b.WriteByte(byte(u) + 63)
}

func decodeSigned(s string, i int) (int64, int, bool) {
	var result int64
	var shift uint

	for {
		if i >= len(s) {
			return 0, i, false
		}
		c := int64(s[i]) - 63
		if c < 0 {
			return 0, i, false
		}
		i++
		result |= (c & 0x1f) << shift
		if c < 0x20 {
			break
		}
		shift += 5
	}

	if result&1 != 0 {
		return ^(result >> 1), i, true
	}
	return result >> 1, i, true
}
