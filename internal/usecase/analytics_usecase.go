package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Hari1275/sdp-sub003/internal/config"
	"github.com/Hari1275/sdp-sub003/internal/domain"
	"github.com/Hari1275/sdp-sub003/internal/domain/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

// Веса точности маршрута в quality score
const (
	accuracyWeightPrecise   = 1.0
	accuracyWeightStandard  = 0.75
	accuracyWeightEstimated = 0.5
)

// singleDayConsistency - фиксированный балл для ровно одного активного дня:
// вариативность по одной выборке оценить нельзя, это явная политика
const singleDayConsistency = 50.0

// AnalyticsUseCase агрегирует финализированные сессии в периодные сводки.
// Вычисления - чистые функции от входа; сводки не персистятся, источником
// истины остаются записи сессий.
type AnalyticsUseCase struct {
	sessionRepo repository.SessionRepository
	cfg         config.AnalyticsConfig
	logger      *zap.Logger
}

// NewAnalyticsUseCase создает новый экземпляр AnalyticsUseCase
func NewAnalyticsUseCase(
	sessionRepo repository.SessionRepository,
	cfg config.AnalyticsConfig,
	logger *zap.Logger,
) *AnalyticsUseCase {
	return &AnalyticsUseCase{
		sessionRepo: sessionRepo,
		cfg:         cfg,
		logger:      logger,
	}
}

// DailyStats возвращает суточную сводку пользователя за дату
func (uc *AnalyticsUseCase) DailyStats(
	ctx context.Context,
	userID uuid.UUID,
	date time.Time,
) (*domain.DailyStats, error) {
	day := startOfDay(date)

	sessions, err := uc.sessionRepo.ListByUserAndRange(ctx, userID, day, day.AddDate(0, 0, 1))
	if err != nil {
		uc.logger.Error("Failed to load sessions for daily stats", zap.Error(err))
		return nil, fmt.Errorf("daily stats: %w", err)
	}

	stats := uc.ComputeDaily(sessions, day)
	return &stats, nil
}

// WeeklyStats возвращает недельную сводку, неделя нормализуется к понедельнику
func (uc *AnalyticsUseCase) WeeklyStats(
	ctx context.Context,
	userID uuid.UUID,
	weekStart time.Time,
) (*domain.WeeklyStats, error) {
	monday := mondayOf(weekStart)

	sessions, err := uc.sessionRepo.ListByUserAndRange(ctx, userID, monday, monday.AddDate(0, 0, 7))
	if err != nil {
		uc.logger.Error("Failed to load sessions for weekly stats", zap.Error(err))
		return nil, fmt.Errorf("weekly stats: %w", err)
	}

	stats := uc.ComputeWeekly(sessions, monday)
	return &stats, nil
}

// MonthlyStats возвращает месячную сводку с дельтами к предыдущему месяцу
func (uc *AnalyticsUseCase) MonthlyStats(
	ctx context.Context,
	userID uuid.UUID,
	month time.Month,
	year int,
) (*domain.MonthlyStats, error) {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	prevStart := monthStart.AddDate(0, -1, 0)

	current, err := uc.sessionRepo.ListByUserAndRange(ctx, userID, monthStart, monthStart.AddDate(0, 1, 0))
	if err != nil {
		uc.logger.Error("Failed to load sessions for monthly stats", zap.Error(err))
		return nil, fmt.Errorf("monthly stats: %w", err)
	}

	previous, err := uc.sessionRepo.ListByUserAndRange(ctx, userID, prevStart, monthStart)
	if err != nil {
		uc.logger.Error("Failed to load previous month sessions", zap.Error(err))
		return nil, fmt.Errorf("monthly stats: %w", err)
	}

	stats := uc.ComputeMonthly(current, previous, month, year)
	return &stats, nil
}

// ComputeDaily - чистая суточная агрегация по сессиям с check-in в указанный день
func (uc *AnalyticsUseCase) ComputeDaily(sessions []domain.SessionRecord, date time.Time) domain.DailyStats {
	day := startOfDay(date)
	stats := domain.DailyStats{Date: day}

	daySessions := sessionsInRange(sessions, day, day.AddDate(0, 0, 1))
	for _, s := range daySessions {
		stats.TotalKm += s.TotalKm
		stats.TotalActiveHours += s.ActiveHours()
		stats.SessionCount++
	}
	stats.QualityScore = uc.qualityScore(daySessions)

	return stats
}

// ComputeWeekly - чистая недельная агрегация: 7 суточных корзин,
// лучший/худший день и consistency score по активным дням
func (uc *AnalyticsUseCase) ComputeWeekly(sessions []domain.SessionRecord, weekStart time.Time) domain.WeeklyStats {
	monday := mondayOf(weekStart)

	stats := domain.WeeklyStats{
		WeekStart: monday,
		WeekEnd:   monday.AddDate(0, 0, 7),
		Days:      make([]domain.DailyStats, 0, 7),
	}

	var activeDistances []float64
	for i := 0; i < 7; i++ {
		day := uc.ComputeDaily(sessions, monday.AddDate(0, 0, i))
		stats.Days = append(stats.Days, day)

		stats.TotalKm += day.TotalKm
		stats.TotalActiveHours += day.TotalActiveHours
		stats.SessionCount += day.SessionCount

		if day.SessionCount > 0 {
			stats.ActiveDays++
			activeDistances = append(activeDistances, day.TotalKm)

			d := day
			if stats.BestDay == nil || d.TotalKm > stats.BestDay.TotalKm {
				stats.BestDay = &d
			}
			if stats.WorstDay == nil || d.TotalKm < stats.WorstDay.TotalKm {
				stats.WorstDay = &d
			}
		}
	}

	stats.ConsistencyScore = consistencyScore(activeDistances)
	stats.QualityScore = uc.qualityScore(sessionsInRange(sessions, monday, stats.WeekEnd))

	return stats
}

// ComputeMonthly - чистая месячная агрегация с дельтами к previous.
// Нулевой предыдущий период даёт дельту 0, не NaN/Inf.
func (uc *AnalyticsUseCase) ComputeMonthly(
	current, previous []domain.SessionRecord,
	month time.Month,
	year int,
) domain.MonthlyStats {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	stats := domain.MonthlyStats{
		Month: month,
		Year:  year,
	}

	monthSessions := sessionsInRange(current, monthStart, monthEnd)

	// Недельные корзины: от понедельника первой недели месяца
	for weekStart := mondayOf(monthStart); weekStart.Before(monthEnd); weekStart = weekStart.AddDate(0, 0, 7) {
		stats.Weeks = append(stats.Weeks, uc.ComputeWeekly(monthSessions, weekStart))
	}

	// Итоги считаем по сессиям напрямую: граничные недели месяца
	// пересекаются и суммировать их нельзя
	var activeDistances []float64
	byDay := make(map[string]float64)
	for _, s := range monthSessions {
		stats.TotalKm += s.TotalKm
		stats.TotalActiveHours += s.ActiveHours()
		stats.SessionCount++
		byDay[startOfDay(s.CheckIn).Format("2006-01-02")] += s.TotalKm
	}
	for _, km := range byDay {
		activeDistances = append(activeDistances, km)
	}

	stats.ConsistencyScore = consistencyScore(activeDistances)
	stats.QualityScore = uc.qualityScore(monthSessions)

	var prevKm, prevHours float64
	for _, s := range previous {
		prevKm += s.TotalKm
		prevHours += s.ActiveHours()
	}
	stats.DistanceChangePct = percentChange(stats.TotalKm, prevKm)
	stats.ActiveHoursChangePct = percentChange(stats.TotalActiveHours, prevHours)

	return stats
}

// qualityScore - эвристика [0,1]: распределение точности маршрутов
// и плотность GPS-логов на час активности
func (uc *AnalyticsUseCase) qualityScore(sessions []domain.SessionRecord) float64 {
	if len(sessions) == 0 {
		return 0
	}

	var accuracySum float64
	var totalLogs, totalHours float64
	for _, s := range sessions {
		accuracySum += accuracyWeight(s.RouteAccuracy)
		totalLogs += float64(s.GPSLogCount)
		totalHours += s.ActiveHours()
	}
	accuracyScore := accuracySum / float64(len(sessions))

	densityScore := 0.0
	if totalHours > 0 && uc.cfg.DenseLogsPerHour > 0 {
		densityScore = math.Min(1.0, (totalLogs/totalHours)/uc.cfg.DenseLogsPerHour)
	}

	score := 0.7*accuracyScore + 0.3*densityScore
	return math.Round(score*100) / 100
}

func accuracyWeight(a domain.RouteAccuracy) float64 {
	switch a {
	case domain.AccuracyPrecise:
		return accuracyWeightPrecise
	case domain.AccuracyStandard:
		return accuracyWeightStandard
	default:
		return accuracyWeightEstimated
	}
}

// consistencyScore - max(0, 100 - CV*100) по дистанциям активных дней,
// округление до 1 знака. 0 активных дней - 0, один день - 50.
func consistencyScore(activeDistances []float64) float64 {
	switch len(activeDistances) {
	case 0:
		return 0
	case 1:
		return singleDayConsistency
	}

	mean := stat.Mean(activeDistances, nil)
	if mean <= 0 {
		return 0
	}

	cv := stat.StdDev(activeDistances, nil) / mean
	score := math.Max(0, 100-cv*100)
	return math.Round(score*10) / 10
}

// percentChange с защитой от деления на ноль: нулевая база даёт 0
func percentChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return math.Round((current-previous)/previous*1000) / 10
}

func sessionsInRange(sessions []domain.SessionRecord, from, to time.Time) []domain.SessionRecord {
	out := make([]domain.SessionRecord, 0, len(sessions))
	for _, s := range sessions {
		if !s.CheckIn.Before(from) && s.CheckIn.Before(to) {
			out = append(out, s)
		}
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// mondayOf нормализует момент к понедельнику 00:00:00 UTC его недели
func mondayOf(t time.Time) time.Time {
	day := startOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
