package domain

// RouteMethod - способ, которым была получена дистанция
type RouteMethod string

const (
	MethodExternalAPI      RouteMethod = "external_api"
	MethodAlgorithmic      RouteMethod = "algorithmic"
	MethodCacheHit         RouteMethod = "cache_hit"
	MethodInsufficientData RouteMethod = "insufficient_data"
)

// RouteAccuracy - уровень доверия к полученной дистанции
type RouteAccuracy string

const (
	AccuracyPrecise   RouteAccuracy = "precise"
	AccuracyStandard  RouteAccuracy = "standard"
	AccuracyEstimated RouteAccuracy = "estimated"
)

// RouteComplexity - сложность трека по оценке классификатора
type RouteComplexity string

const (
	ComplexitySimple   RouteComplexity = "simple"
	ComplexityModerate RouteComplexity = "moderate"
	ComplexityComplex  RouteComplexity = "complex"
)

// RoutingDecision - решение классификатора: стоит ли платить за внешний API.
// Создаётся на каждую попытку резолва и не персистится.
type RoutingDecision struct {
	UseExternalAPI   bool            `json:"use_external_api"`
	IsStaticLocation bool            `json:"is_static_location"`
	Complexity       RouteComplexity `json:"complexity"`
	Confidence       int             `json:"confidence"`
	Reasons          []string        `json:"reasons"`
}

// RouteDiagnostics - служебная информация о том, как считался маршрут
type RouteDiagnostics struct {
	APICallsMade        int     `json:"api_calls_made"`
	CacheHit            bool    `json:"cache_hit"`
	OriginalPointCount  int     `json:"original_point_count"`
	ProcessedPointCount int     `json:"processed_point_count"`
	CalculationTimeMs   float64 `json:"calculation_time_ms"`
	FailureReason       string  `json:"failure_reason,omitempty"`
}

// RouteResult - итог резолва маршрута. По контракту Success всегда true:
// все сбои деградируют в algorithmic-результат, а не в ошибку.
type RouteResult struct {
	Geometry    []Coordinate     `json:"geometry"`
	DistanceKm  float64          `json:"distance_km"`
	DurationMin float64          `json:"duration_min"`
	Method      RouteMethod      `json:"method"`
	Accuracy    RouteAccuracy    `json:"accuracy"`
	Success     bool             `json:"success"`
	Diagnostics RouteDiagnostics `json:"diagnostics"`
}

// ProviderRoute - нормализованный ответ внешнего провайдера.
// Провайдер-специфичные поля не выходят за пределы клиента.
type ProviderRoute struct {
	Geometry    []Coordinate
	DistanceKm  float64
	DurationMin float64
}
