package domain

import "time"

// DailyStats - суточная сводка по сессиям одного пользователя
type DailyStats struct {
	Date             time.Time `json:"date"`
	TotalKm          float64   `json:"total_km"`
	TotalActiveHours float64   `json:"total_active_hours"`
	SessionCount     int       `json:"session_count"`
	QualityScore     float64   `json:"quality_score"`
}

// WeeklyStats - недельная сводка: 7 суточных корзин плюс
// consistency score (0-100) по коэффициенту вариации дневных дистанций
type WeeklyStats struct {
	WeekStart        time.Time    `json:"week_start"`
	WeekEnd          time.Time    `json:"week_end"`
	Days             []DailyStats `json:"days"`
	TotalKm          float64      `json:"total_km"`
	TotalActiveHours float64      `json:"total_active_hours"`
	SessionCount     int          `json:"session_count"`
	ActiveDays       int          `json:"active_days"`
	BestDay          *DailyStats  `json:"best_day,omitempty"`
	WorstDay         *DailyStats  `json:"worst_day,omitempty"`
	ConsistencyScore float64      `json:"consistency_score"`
	QualityScore     float64      `json:"quality_score"`
}

// MonthlyStats - месячная сводка с дельтами к предыдущему месяцу.
// Дельты при нулевом предыдущем периоде фиксируются в 0, не в NaN/Inf.
type MonthlyStats struct {
	Month              time.Month   `json:"month"`
	Year               int          `json:"year"`
	Weeks              []WeeklyStats `json:"weeks"`
	TotalKm            float64      `json:"total_km"`
	TotalActiveHours   float64      `json:"total_active_hours"`
	SessionCount       int          `json:"session_count"`
	ConsistencyScore   float64      `json:"consistency_score"`
	QualityScore       float64      `json:"quality_score"`
	DistanceChangePct  float64      `json:"distance_change_pct"`
	ActiveHoursChangePct float64    `json:"active_hours_change_pct"`
}
