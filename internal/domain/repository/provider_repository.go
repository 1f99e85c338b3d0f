package repository

import (
	"context"

	"github.com/Hari1275/sdp-sub003/internal/domain"
)

// RouteProviderRepository определяет контракт внешнего провайдера
// дорожного снэппинга. Клиент обязан соблюдать лимит точек на вызов;
// движок нарезает трек на чанки соответственно.
type RouteProviderRepository interface {
	// SnapToRoute привязывает упорядоченные waypoints к дорожной сети
	// и возвращает геометрию, дистанцию и длительность
	SnapToRoute(
		ctx context.Context,
		waypoints []domain.Coordinate,
		mode domain.TravelMode,
	) (*domain.ProviderRoute, error)

	// MaxWaypoints возвращает лимит точек на один вызов провайдера
	MaxWaypoints() int
}
