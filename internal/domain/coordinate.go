package domain

import (
	"math"
	"time"
)

// TravelMode - режим передвижения полевого сотрудника
type TravelMode string

const (
	ModeDriving TravelMode = "driving"
	ModeWalking TravelMode = "walking"
	ModeCycling TravelMode = "cycling"
)

// IsValid проверяет, что режим поддерживается провайдером
func (m TravelMode) IsValid() bool {
	switch m {
	case ModeDriving, ModeWalking, ModeCycling:
		return true
	}
	return false
}

// Coordinate - одна GPS-точка мобильной сессии.
// Порядок по Timestamp значим везде, где обрабатывается трек.
type Coordinate struct {
	Lat       float64   `json:"lat" db:"lat"`
	Lon       float64   `json:"lng" db:"lon"`
	Timestamp time.Time `json:"timestamp,omitempty" db:"timestamp"`
	Speed     *float64  `json:"speed,omitempty" db:"speed"`
	Accuracy  *float64  `json:"accuracy,omitempty" db:"accuracy"`
}

// IsValid проверяет диапазон и конечность координат
func (c Coordinate) IsValid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lon, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Trail - упорядоченный по времени трек одной сессии
type Trail []Coordinate

// Filter возвращает только валидные координаты, сохраняя порядок
func (t Trail) Filter() Trail {
	out := make(Trail, 0, len(t))
	for _, c := range t {
		if c.IsValid() {
			out = append(out, c)
		}
	}
	return out
}

// TimeSpan возвращает время между первой и последней точкой.
// Для точек без меток времени возвращает 0.
func (t Trail) TimeSpan() time.Duration {
	if len(t) < 2 {
		return 0
	}
	first, last := t[0].Timestamp, t[len(t)-1].Timestamp
	if first.IsZero() || last.IsZero() || last.Before(first) {
		return 0
	}
	return last.Sub(first)
}
