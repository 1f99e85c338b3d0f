package domain

import (
	"time"

	"github.com/google/uuid"
)

// SessionRecord - запись полевой сессии (check-in / check-out).
// Создаётся внешней платформой при check-in; дистанция и точность
// проставляются один раз при финализации маршрута.
type SessionRecord struct {
	ID            uuid.UUID     `json:"session_id" db:"id"`
	UserID        uuid.UUID     `json:"user_id" db:"user_id"`
	CheckIn       time.Time     `json:"check_in" db:"check_in"`
	CheckOut      *time.Time    `json:"check_out,omitempty" db:"check_out"`
	TotalKm       float64       `json:"total_km" db:"total_km"`
	GPSLogCount   int           `json:"gps_log_count" db:"gps_log_count"`
	RouteAccuracy RouteAccuracy `json:"route_accuracy,omitempty" db:"route_accuracy"`
}

// ActiveHours возвращает длительность сессии в часах.
// Незакрытая сессия считается нулевой - она ещё не финализирована.
func (s SessionRecord) ActiveHours() float64 {
	if s.CheckOut == nil || s.CheckOut.Before(s.CheckIn) {
		return 0
	}
	return s.CheckOut.Sub(s.CheckIn).Hours()
}
