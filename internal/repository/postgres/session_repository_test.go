package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/Hari1275/sdp-sub003/internal/domain"
	"github.com/Hari1275/sdp-sub003/internal/domain/repository"
	"github.com/Hari1275/sdp-sub003/internal/repository/postgres"
)

const sessionSchema = `
CREATE TABLE IF NOT EXISTS field_sessions (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL,
	check_in TIMESTAMPTZ NOT NULL,
	check_out TIMESTAMPTZ,
	total_km DOUBLE PRECISION NOT NULL DEFAULT 0,
	gps_log_count INTEGER NOT NULL DEFAULT 0,
	route_accuracy TEXT
)`

// SessionRepositorySuite tests the session repository with real database
type SessionRepositorySuite struct {
	suite.Suite
	db   *sqlx.DB
	repo repository.SessionRepository
	ctx  context.Context
}

func (s *SessionRepositorySuite) SetupSuite() {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5432 user=postgres password=postgres dbname=postgres sslmode=disable"
	}

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		s.T().Skipf("PostgreSQL not available for integration tests: %v", err)
	}
	s.db = db

	_, err = db.Exec(sessionSchema)
	s.Require().NoError(err)

	logger := zap.NewNop()
	s.repo = postgres.NewSessionRepository(postgres.NewDBForTest(db, logger), logger)
}

func (s *SessionRepositorySuite) TearDownSuite() {
	if s.db != nil {
		_, _ = s.db.Exec(`DROP TABLE IF EXISTS field_sessions`)
		s.db.Close()
	}
}

func (s *SessionRepositorySuite) SetupTest() {
	s.ctx = context.Background()
	_, err := s.db.Exec(`TRUNCATE field_sessions`)
	s.Require().NoError(err)
}

func (s *SessionRepositorySuite) insertSession(userID uuid.UUID, checkIn time.Time, hours, km float64) uuid.UUID {
	id := uuid.New()
	checkOut := checkIn.Add(time.Duration(hours * float64(time.Hour)))
	err := s.repo.CreateSession(s.ctx, &domain.SessionRecord{
		ID:            id,
		UserID:        userID,
		CheckIn:       checkIn,
		CheckOut:      &checkOut,
		TotalKm:       km,
		GPSLogCount:   100,
		RouteAccuracy: domain.AccuracyPrecise,
	})
	s.Require().NoError(err)
	return id
}

func (s *SessionRepositorySuite) TestGetByID() {
	userID := uuid.New()
	checkIn := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	id := s.insertSession(userID, checkIn, 4, 12.5)

	session, err := s.repo.GetByID(s.ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(session)

	s.Equal(id, session.ID)
	s.Equal(userID, session.UserID)
	s.InDelta(12.5, session.TotalKm, 1e-9)
	s.Equal(domain.AccuracyPrecise, session.RouteAccuracy)
	s.Require().NotNil(session.CheckOut)
	s.InDelta(4.0, session.ActiveHours(), 1e-6)
}

func (s *SessionRepositorySuite) TestGetByID_NotFound() {
	session, err := s.repo.GetByID(s.ctx, uuid.New())
	s.NoError(err)
	s.Nil(session)
}

func (s *SessionRepositorySuite) TestListByUserAndRange() {
	userID := uuid.New()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	s.insertSession(userID, day.Add(9*time.Hour), 4, 10)
	s.insertSession(userID, day.Add(14*time.Hour), 3, 8)
	// Вне диапазона и чужой пользователь
	s.insertSession(userID, day.AddDate(0, 0, 1), 4, 99)
	s.insertSession(uuid.New(), day.Add(10*time.Hour), 4, 99)

	sessions, err := s.repo.ListByUserAndRange(s.ctx, userID, day, day.AddDate(0, 0, 1))
	s.Require().NoError(err)
	s.Require().Len(sessions, 2)

	// Отсортированы по check_in
	s.True(sessions[0].CheckIn.Before(sessions[1].CheckIn))
	s.InDelta(10.0, sessions[0].TotalKm, 1e-9)
}

func (s *SessionRepositorySuite) TestListByUsersAndRange() {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	userA := uuid.New()
	userB := uuid.New()

	s.insertSession(userA, day.Add(9*time.Hour), 4, 10)
	s.insertSession(userB, day.Add(10*time.Hour), 2, 5)
	s.insertSession(uuid.New(), day.Add(11*time.Hour), 2, 99)

	sessions, err := s.repo.ListByUsersAndRange(s.ctx, []uuid.UUID{userA, userB}, day, day.AddDate(0, 0, 1))
	s.Require().NoError(err)
	s.Len(sessions, 2)
}

func (s *SessionRepositorySuite) TestFinalizeRoute() {
	userID := uuid.New()
	checkIn := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	id := s.insertSession(userID, checkIn, 4, 0)

	err := s.repo.FinalizeRoute(s.ctx, id, 14.2, domain.AccuracyStandard)
	s.Require().NoError(err)

	session, err := s.repo.GetByID(s.ctx, id)
	s.Require().NoError(err)
	s.InDelta(14.2, session.TotalKm, 1e-9)
	s.Equal(domain.AccuracyStandard, session.RouteAccuracy)
}

func (s *SessionRepositorySuite) TestFinalizeRoute_NotFound() {
	err := s.repo.FinalizeRoute(s.ctx, uuid.New(), 14.2, domain.AccuracyStandard)
	s.Error(err)
}

func TestSessionRepositorySuite(t *testing.T) {
	suite.Run(t, new(SessionRepositorySuite))
}
