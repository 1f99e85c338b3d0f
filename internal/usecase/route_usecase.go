package usecase

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"github.com/Hari1275/sdp-sub003/internal/config"
	"github.com/Hari1275/sdp-sub003/internal/domain"
	"github.com/Hari1275/sdp-sub003/internal/domain/repository"
	"github.com/Hari1275/sdp-sub003/internal/pkg/geo"
	"go.uber.org/zap"
)

// downsampleChunkFactor ограничивает число чанков на один резолв:
// треки длиннее maxWaypoints*factor прореживаются перед вызовом провайдера
const downsampleChunkFactor = 3

// headingKeepThresholdDeg - изменение курса, при котором точка значима
// для геометрии и переживает прореживание
const headingKeepThresholdDeg = 15.0

// RouteUseCase - движок резолва маршрутов. Публичный контракт:
// ResolveRoute всегда возвращает результат и никогда - ошибку.
// Все сбои деградируют в алгоритмический расчёт.
type RouteUseCase struct {
	provider   repository.RouteProviderRepository
	routeCache repository.RouteCacheRepository
	classifier *MovementClassifier
	cfg        config.RoutingConfig
	logger     *zap.Logger
}

// NewRouteUseCase создает новый движок резолва маршрутов.
// provider == nil - валидное состояние: постоянный algorithmic-режим.
func NewRouteUseCase(
	provider repository.RouteProviderRepository,
	routeCache repository.RouteCacheRepository,
	classifier *MovementClassifier,
	cfg config.RoutingConfig,
	logger *zap.Logger,
) *RouteUseCase {
	if provider == nil {
		// Логируем один раз при конструировании, не на каждый вызов
		logger.Info("Route provider not configured, engine runs in permanent algorithmic mode")
	}

	return &RouteUseCase{
		provider:   provider,
		routeCache: routeCache,
		classifier: classifier,
		cfg:        cfg,
		logger:     logger,
	}
}

// ResolveRoute резолвит трек в маршрут с дистанцией и длительностью
func (uc *RouteUseCase) ResolveRoute(
	ctx context.Context,
	trail domain.Trail,
	mode domain.TravelMode,
) *domain.RouteResult {
	start := time.Now()

	if !mode.IsValid() {
		mode = domain.ModeDriving
	}

	originalCount := len(trail)
	valid := trail.Filter()

	// Терминальное состояние, не ошибка: после фильтрации считать нечего
	if len(valid) < 2 {
		return &domain.RouteResult{
			Geometry:    valid,
			DistanceKm:  0,
			DurationMin: 0,
			Method:      domain.MethodInsufficientData,
			Accuracy:    domain.AccuracyEstimated,
			Success:     true,
			Diagnostics: domain.RouteDiagnostics{
				OriginalPointCount:  originalCount,
				ProcessedPointCount: len(valid),
				CalculationTimeMs:   msSince(start),
			},
		}
	}

	fingerprint := uc.fingerprint(valid, mode)

	if cached, ok := uc.routeCache.GetRoute(ctx, fingerprint); ok {
		result := *cached
		result.Method = domain.MethodCacheHit
		result.Diagnostics.CacheHit = true
		result.Diagnostics.CalculationTimeMs = msSince(start)

		uc.logger.Debug("Route resolved from cache",
			zap.String("fingerprint", fingerprint))
		return &result
	}

	result, _ := uc.routeCache.GetOrCompute(ctx, fingerprint,
		func(ctx context.Context) *domain.RouteResult {
			return uc.computeRoute(ctx, valid, mode, originalCount, start)
		})

	return result
}

// computeRoute выполняет полный цикл: классификация, провайдер, fallback
func (uc *RouteUseCase) computeRoute(
	ctx context.Context,
	trail domain.Trail,
	mode domain.TravelMode,
	originalCount int,
	start time.Time,
) *domain.RouteResult {
	decision := uc.classifier.Classify(trail)

	var result *domain.RouteResult
	var failureReason string
	apiCalls := 0
	processed := len(trail)

	if decision.UseExternalAPI && uc.provider != nil {
		waypoints := uc.optimizeWaypoints(trail)
		processed = len(waypoints)

		var err error
		result, apiCalls, err = uc.resolveViaProvider(ctx, waypoints, mode)
		if err != nil {
			// Fallback считается по ИСХОДНОМУ треку, не по частичному
			failureReason = err.Error()
			result = nil

			uc.logger.Warn("Provider call failed, falling back to algorithmic calculation",
				zap.Int("api_calls_made", apiCalls),
				zap.Error(err))
		}
	}

	if result == nil {
		result = uc.algorithmicRoute(trail)
		processed = len(trail)
	}

	result.Diagnostics.APICallsMade = apiCalls
	result.Diagnostics.OriginalPointCount = originalCount
	result.Diagnostics.ProcessedPointCount = processed
	result.Diagnostics.CalculationTimeMs = msSince(start)
	result.Diagnostics.FailureReason = failureReason

	uc.logger.Debug("Route resolved",
		zap.String("method", string(result.Method)),
		zap.Float64("distance_km", result.DistanceKm),
		zap.Int("api_calls", apiCalls))

	return result
}

// resolveViaProvider вызывает провайдер по чанкам строго в порядке трека.
// Любой сбой полностью отменяет внешний результат.
func (uc *RouteUseCase) resolveViaProvider(
	ctx context.Context,
	waypoints []domain.Coordinate,
	mode domain.TravelMode,
) (*domain.RouteResult, int, error) {
	chunks := chunkWaypoints(waypoints, uc.provider.MaxWaypoints())

	result := &domain.RouteResult{
		Geometry: make([]domain.Coordinate, 0, len(waypoints)),
		Method:   domain.MethodExternalAPI,
		Accuracy: domain.AccuracyPrecise,
		Success:  true,
	}

	calls := 0
	for _, chunk := range chunks {
		route, err := uc.provider.SnapToRoute(ctx, chunk, mode)
		calls++
		if err != nil {
			return nil, calls, fmt.Errorf("chunk %d/%d: %w", calls, len(chunks), err)
		}

		geometry := route.Geometry
		// Чанки перекрываются на одну точку - не дублируем стык
		if len(result.Geometry) > 0 && len(geometry) > 0 {
			geometry = geometry[1:]
		}
		result.Geometry = append(result.Geometry, geometry...)
		result.DistanceKm += route.DistanceKm
		result.DurationMin += route.DurationMin
	}

	return result, calls, nil
}

// algorithmicRoute - замкнутая форма: сумма сегментов + эвристика скорости
func (uc *RouteUseCase) algorithmicRoute(trail domain.Trail) *domain.RouteResult {
	distanceKm := geo.PathLengthKm(trail)

	return &domain.RouteResult{
		Geometry:    trail,
		DistanceKm:  distanceKm,
		DurationMin: distanceKm * uc.cfg.FallbackMinPerKm,
		Method:      domain.MethodAlgorithmic,
		Accuracy:    domain.AccuracyEstimated,
		Success:     true,
	}
}

// optimizeWaypoints прореживает слишком длинные треки перед провайдером:
// сознательный размен точности на стоимость, фиксируется в diagnostics
func (uc *RouteUseCase) optimizeWaypoints(trail domain.Trail) []domain.Coordinate {
	budget := uc.provider.MaxWaypoints() * downsampleChunkFactor
	if len(trail) <= budget {
		return trail
	}

	kept := make([]domain.Coordinate, 0, budget)
	kept = append(kept, trail[0])

	// Минимальный шаг, гарантирующий вписывание в бюджет
	stride := (len(trail) + budget - 1) / budget

	lastKept := 0
	for i := 1; i < len(trail)-1; i++ {
		significant := math.Abs(headingDelta(trail, i)) >= headingKeepThresholdDeg
		if significant || i-lastKept >= stride {
			if len(kept) < budget-1 {
				kept = append(kept, trail[i])
				lastKept = i
			}
		}
	}

	kept = append(kept, trail[len(trail)-1])

	uc.logger.Debug("Trail downsampled before provider call",
		zap.Int("original_points", len(trail)),
		zap.Int("processed_points", len(kept)))

	return kept
}

// headingDelta - изменение курса в точке i относительно предыдущего сегмента
func headingDelta(trail domain.Trail, i int) float64 {
	if i < 1 || i >= len(trail)-1 {
		return 0
	}
	before := geo.BearingDeg(trail[i-1], trail[i])
	after := geo.BearingDeg(trail[i], trail[i+1])
	delta := math.Abs(after - before)
	if delta > 180 {
		delta = 360 - delta
	}
	return delta
}

// fingerprint - детерминированный ключ кеша: округлённые waypoints + режим.
// Округление до полуметровой точности схлопывает почти идентичные запросы.
func (uc *RouteUseCase) fingerprint(trail domain.Trail, mode domain.TravelMode) string {
	h := sha1.New()
	for _, c := range trail {
		fmt.Fprintf(h, "%.*f,%.*f;",
			uc.cfg.FingerprintDecimals, c.Lat,
			uc.cfg.FingerprintDecimals, c.Lon)
	}
	fmt.Fprintf(h, "|%s", mode)
	return hex.EncodeToString(h.Sum(nil))
}

// chunkWaypoints нарезает waypoints на чанки размера не более size
// с перекрытием в одну точку для непрерывности маршрута
func chunkWaypoints(waypoints []domain.Coordinate, size int) [][]domain.Coordinate {
	if size < 2 {
		size = 2
	}
	if len(waypoints) <= size {
		return [][]domain.Coordinate{waypoints}
	}

	var chunks [][]domain.Coordinate
	for start := 0; start < len(waypoints)-1; start += size - 1 {
		end := start + size
		if end > len(waypoints) {
			end = len(waypoints)
		}
		chunks = append(chunks, waypoints[start:end])
		if end == len(waypoints) {
			break
		}
	}
	return chunks
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
