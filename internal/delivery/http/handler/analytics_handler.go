package handler

import (
	"time"

	"github.com/Hari1275/sdp-sub003/internal/pkg/errors"
	"github.com/Hari1275/sdp-sub003/internal/pkg/utils"
	"github.com/Hari1275/sdp-sub003/internal/pkg/validator"
	"github.com/Hari1275/sdp-sub003/internal/usecase"
	"github.com/Hari1275/sdp-sub003/internal/usecase/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// AnalyticsHandler - обработчик запросов сессионной аналитики
type AnalyticsHandler struct {
	analyticsUC *usecase.AnalyticsUseCase
	logger      *zap.Logger
}

// NewAnalyticsHandler создает новый экземпляр AnalyticsHandler
func NewAnalyticsHandler(analyticsUC *usecase.AnalyticsUseCase, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsUC: analyticsUC,
		logger:      logger,
	}
}

// DailyStats godoc
// @Summary Суточная сводка пользователя
// @Description Возвращает агрегированную статистику сессий пользователя за указанную дату
// @Tags Analytics
// @Accept json
// @Produce json
// @Param user_id query string true "UUID пользователя"
// @Param date query string true "Дата в формате YYYY-MM-DD"
// @Success 200 {object} utils.SuccessResponse{data=domain.DailyStats}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/analytics/daily [get]
func (h *AnalyticsHandler) DailyStats(c *fiber.Ctx) error {
	req := dto.DailyStatsRequest{
		UserID: c.Query("user_id"),
		Date:   c.Query("date"),
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"validation": err.Error(),
		}))
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidUserID)
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidPeriod)
	}

	stats, err := h.analyticsUC.DailyStats(c.Context(), userID, date)
	if err != nil {
		h.logger.Error("Failed to compute daily stats", zap.Error(err))
		return utils.SendError(c, errors.ErrDatabaseError)
	}

	return utils.SendSuccess(c, stats, nil)
}

// WeeklyStats godoc
// @Summary Недельная сводка пользователя
// @Description Возвращает агрегированную статистику сессий за неделю. Неделя нормализуется к понедельнику переданной даты.
// @Tags Analytics
// @Accept json
// @Produce json
// @Param user_id query string true "UUID пользователя"
// @Param week_start query string true "Любая дата недели в формате YYYY-MM-DD"
// @Success 200 {object} utils.SuccessResponse{data=domain.WeeklyStats}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/analytics/weekly [get]
func (h *AnalyticsHandler) WeeklyStats(c *fiber.Ctx) error {
	req := dto.WeeklyStatsRequest{
		UserID:    c.Query("user_id"),
		WeekStart: c.Query("week_start"),
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"validation": err.Error(),
		}))
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidUserID)
	}
	weekStart, err := time.Parse(dateLayout, req.WeekStart)
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidPeriod)
	}

	stats, err := h.analyticsUC.WeeklyStats(c.Context(), userID, weekStart)
	if err != nil {
		h.logger.Error("Failed to compute weekly stats", zap.Error(err))
		return utils.SendError(c, errors.ErrDatabaseError)
	}

	return utils.SendSuccess(c, stats, nil)
}

// MonthlyStats godoc
// @Summary Месячная сводка пользователя
// @Description Возвращает агрегированную статистику сессий за месяц с дельтами к предыдущему месяцу
// @Tags Analytics
// @Accept json
// @Produce json
// @Param user_id query string true "UUID пользователя"
// @Param month query int true "Месяц (1-12)"
// @Param year query int true "Год"
// @Success 200 {object} utils.SuccessResponse{data=domain.MonthlyStats}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/analytics/monthly [get]
func (h *AnalyticsHandler) MonthlyStats(c *fiber.Ctx) error {
	req := dto.MonthlyStatsRequest{
		UserID: c.Query("user_id"),
		Month:  c.QueryInt("month"),
		Year:   c.QueryInt("year"),
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"validation": err.Error(),
		}))
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidUserID)
	}

	stats, err := h.analyticsUC.MonthlyStats(c.Context(), userID, time.Month(req.Month), req.Year)
	if err != nil {
		h.logger.Error("Failed to compute monthly stats", zap.Error(err))
		return utils.SendError(c, errors.ErrDatabaseError)
	}

	return utils.SendSuccess(c, stats, nil)
}
