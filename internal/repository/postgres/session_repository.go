package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Hari1275/sdp-sub003/internal/domain"
	"github.com/Hari1275/sdp-sub003/internal/domain/repository"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type sessionRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewSessionRepository создает новый экземпляр session repository.
// Таблицей field_sessions владеет основная платформа; сервис читает
// её и один раз финализирует дистанцию маршрута.
func NewSessionRepository(db *DB, logger *zap.Logger) repository.SessionRepository {
	return &sessionRepository{
		db:     db,
		logger: logger,
	}
}

const sessionColumns = `
	id, user_id, check_in, check_out, total_km, gps_log_count, COALESCE(route_accuracy, '') AS route_accuracy
`

// CreateSession сохраняет новую запись сессии
func (r *sessionRepository) CreateSession(ctx context.Context, session *domain.SessionRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO field_sessions (id, user_id, check_in, check_out, total_km, gps_log_count, route_accuracy)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))`,
		session.ID, session.UserID, session.CheckIn, session.CheckOut,
		session.TotalKm, session.GPSLogCount, string(session.RouteAccuracy))
	if err != nil {
		r.logger.Error("Failed to create session",
			zap.String("session_id", session.ID.String()),
			zap.Error(err))
		return fmt.Errorf("create session: %w", err)
	}

	r.logger.Debug("Session created", zap.String("session_id", session.ID.String()))
	return nil
}

// GetByID возвращает сессию по идентификатору
func (r *sessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SessionRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM field_sessions WHERE id = $1`, sessionColumns)

	var session domain.SessionRecord
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Failed to get session",
			zap.String("session_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("get session: %w", err)
	}

	return &session, nil
}

// ListByUserAndRange возвращает сессии пользователя с check-in в [from, to)
func (r *sessionRepository) ListByUserAndRange(
	ctx context.Context,
	userID uuid.UUID,
	from, to time.Time,
) ([]domain.SessionRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM field_sessions
		WHERE user_id = $1 AND check_in >= $2 AND check_in < $3
		ORDER BY check_in`, sessionColumns)

	var sessions []domain.SessionRecord
	if err := r.db.SelectContext(ctx, &sessions, query, userID, from, to); err != nil {
		r.logger.Error("Failed to list sessions",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	return sessions, nil
}

// ListByUsersAndRange - batch-вариант для аналитики по команде
func (r *sessionRepository) ListByUsersAndRange(
	ctx context.Context,
	userIDs []uuid.UUID,
	from, to time.Time,
) ([]domain.SessionRecord, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	ids := make([]string, len(userIDs))
	for i, id := range userIDs {
		ids[i] = id.String()
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM field_sessions
		WHERE user_id = ANY($1) AND check_in >= $2 AND check_in < $3
		ORDER BY user_id, check_in`, sessionColumns)

	var sessions []domain.SessionRecord
	if err := r.db.SelectContext(ctx, &sessions, query, pq.Array(ids), from, to); err != nil {
		r.logger.Error("Failed to list sessions for users",
			zap.Int("user_count", len(userIDs)),
			zap.Error(err))
		return nil, fmt.Errorf("list sessions for users: %w", err)
	}

	return sessions, nil
}

// FinalizeRoute проставляет дистанцию и точность финализированной сессии
func (r *sessionRepository) FinalizeRoute(
	ctx context.Context,
	id uuid.UUID,
	distanceKm float64,
	accuracy domain.RouteAccuracy,
) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE field_sessions
		SET total_km = $2, route_accuracy = $3
		WHERE id = $1`,
		id, distanceKm, string(accuracy))
	if err != nil {
		r.logger.Error("Failed to finalize session route",
			zap.String("session_id", id.String()),
			zap.Error(err))
		return fmt.Errorf("finalize session route: %w", err)
	}

	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return fmt.Errorf("session %s not found", id)
	}

	r.logger.Debug("Session route finalized",
		zap.String("session_id", id.String()),
		zap.Float64("distance_km", distanceKm),
		zap.String("accuracy", string(accuracy)))
	return nil
}
