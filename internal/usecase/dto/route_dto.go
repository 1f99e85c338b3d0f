package dto

import (
	"time"

	"github.com/Hari1275/sdp-sub003/internal/domain"
)

// CoordinateRequest - одна GPS-точка во входном запросе
type CoordinateRequest struct {
	Lat       float64    `json:"lat" validate:"min=-90,max=90"`
	Lng       float64    `json:"lng" validate:"min=-180,max=180"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Speed     *float64   `json:"speed,omitempty"`
	Accuracy  *float64   `json:"accuracy,omitempty"`
}

// ResolveRouteRequest - запрос на резолв маршрута по треку
type ResolveRouteRequest struct {
	Coordinates []CoordinateRequest `json:"coordinates" validate:"required,min=1,max=5000,dive"`
	Mode        string              `json:"mode" validate:"omitempty,oneof=driving walking cycling"`
}

// ToTrail преобразует запрос во внутренний трек, сохраняя порядок
func (r ResolveRouteRequest) ToTrail() domain.Trail {
	trail := make(domain.Trail, 0, len(r.Coordinates))
	for _, c := range r.Coordinates {
		coord := domain.Coordinate{
			Lat:      c.Lat,
			Lon:      c.Lng,
			Speed:    c.Speed,
			Accuracy: c.Accuracy,
		}
		if c.Timestamp != nil {
			coord.Timestamp = *c.Timestamp
		}
		trail = append(trail, coord)
	}
	return trail
}

// TravelMode возвращает режим передвижения с дефолтом driving
func (r ResolveRouteRequest) TravelMode() domain.TravelMode {
	if r.Mode == "" {
		return domain.ModeDriving
	}
	return domain.TravelMode(r.Mode)
}

// ClassifyRequest - запрос на отладочную классификацию трека
type ClassifyRequest struct {
	Coordinates []CoordinateRequest `json:"coordinates" validate:"required,min=1,max=5000,dive"`
}

// ToTrail преобразует запрос во внутренний трек
func (r ClassifyRequest) ToTrail() domain.Trail {
	return ResolveRouteRequest{Coordinates: r.Coordinates}.ToTrail()
}
