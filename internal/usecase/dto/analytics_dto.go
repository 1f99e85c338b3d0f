package dto

// DailyStatsRequest - параметры суточной сводки
type DailyStatsRequest struct {
	UserID string `query:"user_id" validate:"required,uuid"`
	Date   string `query:"date" validate:"required,datetime=2006-01-02"`
}

// WeeklyStatsRequest - параметры недельной сводки.
// WeekStart нормализуется к понедельнику на стороне usecase.
type WeeklyStatsRequest struct {
	UserID    string `query:"user_id" validate:"required,uuid"`
	WeekStart string `query:"week_start" validate:"required,datetime=2006-01-02"`
}

// MonthlyStatsRequest - параметры месячной сводки
type MonthlyStatsRequest struct {
	UserID string `query:"user_id" validate:"required,uuid"`
	Month  int    `query:"month" validate:"required,min=1,max=12"`
	Year   int    `query:"year" validate:"required,min=2000,max=2100"`
}
