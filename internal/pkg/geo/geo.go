package geo

import (
	"math"

	"github.com/Hari1275/sdp-sub003/internal/domain"
)

// IUGG mean Earth radius
const earthRadiusKm = 6371.0088

// Haversine вычисляет расстояние по большому кругу между двумя точками в километрах
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180.0
	dLon := (lon2 - lon1) * math.Pi / 180.0

	lat1Rad := lat1 * math.Pi / 180.0
	lat2Rad := lat2 * math.Pi / 180.0

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// Distance - расстояние между двумя координатами в километрах
func Distance(a, b domain.Coordinate) float64 {
	return Haversine(a.Lat, a.Lon, b.Lat, b.Lon)
}

// PathLengthKm - сумма расстояний по последовательным парам трека.
// Для треков короче двух точек возвращает 0.
func PathLengthKm(trail []domain.Coordinate) float64 {
	if len(trail) < 2 {
		return 0
	}
	var total float64
	for i := 1; i < len(trail); i++ {
		total += Distance(trail[i-1], trail[i])
	}
	return total
}

// SpreadKm - диагональ bounding box трека в километрах.
// Используется как оценка пространственного разброса точек.
func SpreadKm(trail []domain.Coordinate) float64 {
	if len(trail) < 2 {
		return 0
	}
	minLat, maxLat := trail[0].Lat, trail[0].Lat
	minLon, maxLon := trail[0].Lon, trail[0].Lon
	for _, c := range trail[1:] {
		minLat = math.Min(minLat, c.Lat)
		maxLat = math.Max(maxLat, c.Lat)
		minLon = math.Min(minLon, c.Lon)
		maxLon = math.Max(maxLon, c.Lon)
	}
	return Haversine(minLat, minLon, maxLat, maxLon)
}

// BearingDeg - азимут из точки a в точку b в градусах [0, 360)
func BearingDeg(a, b domain.Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180.0
	lat2 := b.Lat * math.Pi / 180.0
	dLon := (b.Lon - a.Lon) * math.Pi / 180.0

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	deg := math.Atan2(y, x) * 180.0 / math.Pi
	return math.Mod(deg+360.0, 360.0)
}

// ValidateCoordinates проверяет валидность координат
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
