package repository

import (
	"context"

	"github.com/Hari1275/sdp-sub003/internal/domain"
)

// RouteCacheRepository - кеш резолвленных маршрутов по fingerprint.
// Инвариант: два fingerprint-равных запроса внутри TTL-окна никогда
// не порождают второй внешний вызов (request coalescing).
type RouteCacheRepository interface {
	// GetRoute возвращает закешированный результат или (nil, false)
	GetRoute(ctx context.Context, fingerprint string) (*domain.RouteResult, bool)

	// GetOrCompute возвращает закешированный результат либо вычисляет его.
	// Конкурентные вызовы с одним fingerprint ждут один общий compute.
	GetOrCompute(
		ctx context.Context,
		fingerprint string,
		compute func(ctx context.Context) *domain.RouteResult,
	) (*domain.RouteResult, bool)
}
