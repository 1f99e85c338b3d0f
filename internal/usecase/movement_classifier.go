package usecase

import (
	"fmt"
	"math"

	"github.com/Hari1275/sdp-sub003/internal/config"
	"github.com/Hari1275/sdp-sub003/internal/domain"
	"github.com/Hari1275/sdp-sub003/internal/pkg/geo"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

// Пороги комплексности трека. Подобраны эмпирически, см. DESIGN.md.
const (
	windingModerate = 1.25
	windingComplex  = 1.6

	headingStdModerate = 30.0
	headingStdComplex  = 60.0

	pointsModerate = 20
	pointsComplex  = 50
)

// MovementClassifier решает, оправдана ли стоимость внешнего API
// для данного трека. Никогда не возвращает ошибку.
type MovementClassifier struct {
	staticThresholdKm float64
	minPointsForAPI   int
	logger            *zap.Logger
}

// NewMovementClassifier создает новый классификатор движения
func NewMovementClassifier(cfg *config.RoutingConfig, logger *zap.Logger) *MovementClassifier {
	return &MovementClassifier{
		staticThresholdKm: cfg.StaticThresholdKm,
		minPointsForAPI:   cfg.MinPointsForAPI,
		logger:            logger,
	}
}

// Classify анализирует трек и возвращает решение о маршрутизации
func (c *MovementClassifier) Classify(trail domain.Trail) domain.RoutingDecision {
	if len(trail) < 2 {
		return domain.RoutingDecision{
			UseExternalAPI:   false,
			IsStaticLocation: false,
			Complexity:       domain.ComplexitySimple,
			Confidence:       100,
			Reasons:          []string{"insufficient data: fewer than 2 points"},
		}
	}

	decision := domain.RoutingDecision{Reasons: make([]string, 0, 3)}

	// Статичная локация: сотрудник не двигался - платить за API незачем
	spreadKm := geo.SpreadKm(trail)
	if spreadKm < c.staticThresholdKm {
		decision.IsStaticLocation = true
		decision.UseExternalAPI = false
		decision.Complexity = domain.ComplexitySimple
		decision.Confidence = staticConfidence(spreadKm, c.staticThresholdKm)
		decision.Reasons = append(decision.Reasons,
			fmt.Sprintf("static location: %.0f m displacement", spreadKm*1000))

		c.logger.Debug("Trail classified as static location",
			zap.Float64("spread_km", spreadKm),
			zap.Int("point_count", len(trail)))
		return decision
	}

	pathKm := geo.PathLengthKm(trail)
	directKm := geo.Distance(trail[0], trail[len(trail)-1])
	winding := 1.0
	if directKm > 1e-6 {
		winding = pathKm / directKm
	}
	headingStd := headingChangeStdDev(trail)

	score := complexityScore(len(trail), winding, headingStd)
	decision.Complexity = bucketComplexity(score)

	switch decision.Complexity {
	case domain.ComplexitySimple:
		decision.Reasons = append(decision.Reasons,
			fmt.Sprintf("simple trail: winding ratio %.2f, heading stddev %.0f", winding, headingStd))
	default:
		decision.Reasons = append(decision.Reasons,
			fmt.Sprintf("%s route: winding ratio %.2f, heading stddev %.0f",
				decision.Complexity, winding, headingStd))
	}

	decision.UseExternalAPI = decision.Complexity != domain.ComplexitySimple ||
		len(trail) > c.minPointsForAPI

	if decision.UseExternalAPI {
		if len(trail) > c.minPointsForAPI {
			decision.Reasons = append(decision.Reasons,
				fmt.Sprintf("point count %d exceeds direct-calculation threshold %d",
					len(trail), c.minPointsForAPI))
		}
		decision.Reasons = append(decision.Reasons, "route complexity warrants API usage")
	} else {
		decision.Reasons = append(decision.Reasons, "algorithmic calculation is sufficient")
	}

	decision.Confidence = movementConfidence(score, len(trail), c.minPointsForAPI, decision.UseExternalAPI)

	c.logger.Debug("Trail classified",
		zap.String("complexity", string(decision.Complexity)),
		zap.Bool("use_external_api", decision.UseExternalAPI),
		zap.Int("confidence", decision.Confidence),
		zap.Float64("winding_ratio", winding))

	return decision
}

// headingChangeStdDev - стандартное отклонение изменений азимута между
// последовательными сегментами. Менее 4 точек - оценить нельзя, 0.
func headingChangeStdDev(trail domain.Trail) float64 {
	if len(trail) < 4 {
		return 0
	}

	changes := make([]float64, 0, len(trail)-2)
	prev := geo.BearingDeg(trail[0], trail[1])
	for i := 2; i < len(trail); i++ {
		cur := geo.BearingDeg(trail[i-1], trail[i])
		delta := math.Abs(cur - prev)
		if delta > 180 {
			delta = 360 - delta
		}
		changes = append(changes, delta)
		prev = cur
	}

	return stat.StdDev(changes, nil)
}

func complexityScore(points int, winding, headingStd float64) int {
	score := 0

	switch {
	case points >= pointsComplex:
		score += 2
	case points >= pointsModerate:
		score++
	}

	switch {
	case winding >= windingComplex:
		score += 2
	case winding >= windingModerate:
		score++
	}

	switch {
	case headingStd >= headingStdComplex:
		score += 2
	case headingStd >= headingStdModerate:
		score++
	}

	return score
}

func bucketComplexity(score int) domain.RouteComplexity {
	switch {
	case score >= 4:
		return domain.ComplexityComplex
	case score >= 2:
		return domain.ComplexityModerate
	default:
		return domain.ComplexitySimple
	}
}

func staticConfidence(spreadKm, thresholdKm float64) int {
	// Чем глубже под порогом, тем увереннее вывод
	if spreadKm < thresholdKm/2 {
		return 95
	}
	return 80
}

func movementConfidence(score, points, minPoints int, useExternal bool) int {
	confidence := 60 + score*6
	if useExternal && points > minPoints {
		confidence += 5
	}
	if !useExternal && score == 0 {
		// Все сигналы единодушно указывают на простой трек
		confidence += 15
	}
	if confidence > 95 {
		confidence = 95
	}
	return confidence
}
