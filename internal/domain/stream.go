package domain

import "github.com/google/uuid"

// Stream names (должны совпадать с основной платформой)
const (
	StreamSessionCheckout = "stream:session:checkout"
	StreamSessionDone     = "stream:session:done"
)

// SessionCheckoutEvent - событие check-out сессии: трек готов к резолву
type SessionCheckoutEvent struct {
	SessionID uuid.UUID    `json:"session_id"`
	UserID    uuid.UUID    `json:"user_id"`
	Mode      TravelMode   `json:"mode,omitempty"`
	Trail     []Coordinate `json:"trail"`
}

// SessionDoneEvent - результат финализации маршрута сессии
type SessionDoneEvent struct {
	SessionID  uuid.UUID     `json:"session_id"`
	UserID     uuid.UUID     `json:"user_id"`
	DistanceKm float64       `json:"distance_km"`
	Method     RouteMethod   `json:"method"`
	Accuracy   RouteAccuracy `json:"accuracy"`
	Error      string        `json:"error,omitempty"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
