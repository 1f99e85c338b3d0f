package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Hari1275/sdp-sub003/internal/domain"
	"github.com/Hari1275/sdp-sub003/internal/domain/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const routeKeyPrefix = "route:v1:"

// routeCache хранит резолвленные маршруты поверх CacheRepository и
// схлопывает конкурентные вычисления одного fingerprint через singleflight:
// проигравшие ждут результат победителя вместо повторного вызова провайдера.
type routeCache struct {
	store  repository.CacheRepository
	group  singleflight.Group
	ttl    time.Duration
	logger *zap.Logger
}

// NewRouteCache создает кеш маршрутов с TTL поверх заданного хранилища
func NewRouteCache(
	store repository.CacheRepository,
	ttl time.Duration,
	logger *zap.Logger,
) repository.RouteCacheRepository {
	return &routeCache{
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

// GetRoute возвращает закешированный маршрут по fingerprint
func (c *routeCache) GetRoute(ctx context.Context, fingerprint string) (*domain.RouteResult, bool) {
	data, err := c.store.Get(ctx, routeKeyPrefix+fingerprint)
	if err != nil || data == nil {
		return nil, false
	}

	var result domain.RouteResult
	if err := json.Unmarshal(data, &result); err != nil {
		// Повреждённая запись - выбрасываем и считаем промахом
		c.logger.Warn("Failed to unmarshal cached route, dropping entry",
			zap.String("fingerprint", fingerprint),
			zap.Error(err))
		_ = c.store.Delete(ctx, routeKeyPrefix+fingerprint)
		return nil, false
	}

	return &result, true
}

// GetOrCompute возвращает закешированный маршрут либо вычисляет его,
// гарантируя не более одного одновременного compute на fingerprint.
// Второй результат - true, если вызов не запускал собственный compute.
func (c *routeCache) GetOrCompute(
	ctx context.Context,
	fingerprint string,
	compute func(ctx context.Context) *domain.RouteResult,
) (*domain.RouteResult, bool) {
	if result, ok := c.GetRoute(ctx, fingerprint); ok {
		return result, true
	}

	v, _, shared := c.group.Do(fingerprint, func() (interface{}, error) {
		// Пока ждали очередь, победитель мог уже записать результат
		if result, ok := c.GetRoute(ctx, fingerprint); ok {
			return result, nil
		}

		result := compute(ctx)
		c.put(ctx, fingerprint, result)
		return result, nil
	})

	return v.(*domain.RouteResult), shared
}

// put сохраняет результат best-effort: сбой кеша не фатален для резолва
func (c *routeCache) put(ctx context.Context, fingerprint string, result *domain.RouteResult) {
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Warn("Failed to marshal route for cache", zap.Error(err))
		return
	}

	if err := c.store.Set(ctx, routeKeyPrefix+fingerprint, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache route",
			zap.String("fingerprint", fingerprint),
			zap.Error(err))
	}
}
