package repository

import (
	"context"
	"time"

	"github.com/Hari1275/sdp-sub003/internal/domain"
	"github.com/google/uuid"
)

// SessionRepository - хранилище полевых сессий. Записи создаёт внешняя
// платформа; сервис читает их для аналитики и один раз финализирует
// дистанцию после резолва маршрута.
type SessionRepository interface {
	// CreateSession сохраняет новую запись сессии
	CreateSession(ctx context.Context, session *domain.SessionRecord) error

	// GetByID возвращает сессию по идентификатору
	GetByID(ctx context.Context, id uuid.UUID) (*domain.SessionRecord, error)

	// ListByUserAndRange возвращает сессии пользователя с check-in
	// в полуинтервале [from, to), отсортированные по check-in
	ListByUserAndRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domain.SessionRecord, error)

	// ListByUsersAndRange - то же для набора пользователей (batch-аналитика)
	ListByUsersAndRange(ctx context.Context, userIDs []uuid.UUID, from, to time.Time) ([]domain.SessionRecord, error)

	// FinalizeRoute проставляет дистанцию и точность маршрута сессии
	FinalizeRoute(ctx context.Context, id uuid.UUID, distanceKm float64, accuracy domain.RouteAccuracy) error
}
