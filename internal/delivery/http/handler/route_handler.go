package handler

import (
	"github.com/Hari1275/sdp-sub003/internal/pkg/errors"
	"github.com/Hari1275/sdp-sub003/internal/pkg/utils"
	"github.com/Hari1275/sdp-sub003/internal/pkg/validator"
	"github.com/Hari1275/sdp-sub003/internal/usecase"
	"github.com/Hari1275/sdp-sub003/internal/usecase/dto"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RouteHandler - обработчик запросов резолва маршрутов
type RouteHandler struct {
	routeUC    *usecase.RouteUseCase
	classifier *usecase.MovementClassifier
	logger     *zap.Logger
}

// NewRouteHandler создает новый экземпляр RouteHandler
func NewRouteHandler(
	routeUC *usecase.RouteUseCase,
	classifier *usecase.MovementClassifier,
	logger *zap.Logger,
) *RouteHandler {
	return &RouteHandler{
		routeUC:    routeUC,
		classifier: classifier,
		logger:     logger,
	}
}

// ResolveRoute godoc
// @Summary Резолв маршрута по GPS-треку
// @Description Преобразует сырой GPS-трек в маршрут с дистанцией, длительностью и геометрией. Запрос всегда завершается результатом: при недоступности внешнего провайдера движок деградирует в алгоритмический расчёт.
// @Tags Routes
// @Accept json
// @Produce json
// @Param request body dto.ResolveRouteRequest true "GPS-трек и режим передвижения"
// @Success 200 {object} utils.SuccessResponse{data=domain.RouteResult}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/routes/resolve [post]
func (h *RouteHandler) ResolveRoute(c *fiber.Ctx) error {
	var req dto.ResolveRouteRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"validation": err.Error(),
		}))
	}

	result := h.routeUC.ResolveRoute(c.Context(), req.ToTrail(), req.TravelMode())

	return utils.SendSuccess(c, result, &utils.Meta{
		TimeMSec: result.Diagnostics.CalculationTimeMs,
	})
}

// ClassifyMovement godoc
// @Summary Классификация GPS-трека
// @Description Отладочный эндпоинт: возвращает решение классификатора движения (static/route, сложность, уверенность) без вызова провайдера
// @Tags Routes
// @Accept json
// @Produce json
// @Param request body dto.ClassifyRequest true "GPS-трек"
// @Success 200 {object} utils.SuccessResponse{data=domain.RoutingDecision}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/routes/classify [post]
func (h *RouteHandler) ClassifyMovement(c *fiber.Ctx) error {
	var req dto.ClassifyRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"validation": err.Error(),
		}))
	}

	decision := h.classifier.Classify(req.ToTrail().Filter())

	return utils.SendSuccess(c, decision, nil)
}
