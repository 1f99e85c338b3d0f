package session_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Hari1275/sdp-sub003/internal/config"
	"github.com/Hari1275/sdp-sub003/internal/domain"
	"github.com/Hari1275/sdp-sub003/internal/repository/cache"
	"github.com/Hari1275/sdp-sub003/internal/usecase"
	"github.com/Hari1275/sdp-sub003/internal/worker/session"
)

// MockStreamRepository is a mock of StreamRepository
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *MockStreamRepository) ConsumeBatch(ctx context.Context, stream, group, consumer string, limit int) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	args := m.Called(ctx, stream, group, messageID)
	return args.Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args := m.Called(ctx, stream, data)
	return args.Error(0)
}

// MockSessionRepository is a mock of SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) CreateSession(ctx context.Context, session *domain.SessionRecord) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SessionRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SessionRecord), args.Error(1)
}

func (m *MockSessionRepository) ListByUserAndRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domain.SessionRecord, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SessionRecord), args.Error(1)
}

func (m *MockSessionRepository) ListByUsersAndRange(ctx context.Context, userIDs []uuid.UUID, from, to time.Time) ([]domain.SessionRecord, error) {
	args := m.Called(ctx, userIDs, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SessionRecord), args.Error(1)
}

func (m *MockSessionRepository) FinalizeRoute(ctx context.Context, id uuid.UUID, distanceKm float64, accuracy domain.RouteAccuracy) error {
	args := m.Called(ctx, id, distanceKm, accuracy)
	return args.Error(0)
}

func newRouteUseCase() *usecase.RouteUseCase {
	cfg := config.RoutingConfig{
		StaticThresholdKm:   0.03,
		MinPointsForAPI:     10,
		FallbackMinPerKm:    2.0,
		FingerprintDecimals: 5,
		CacheTTL:            time.Hour,
	}
	logger := zap.NewNop()
	routeCache := cache.NewRouteCache(cache.NewMemoryCache(10), cfg.CacheTTL, logger)
	classifier := usecase.NewMovementClassifier(&cfg, logger)
	return usecase.NewRouteUseCase(nil, routeCache, classifier, cfg, logger)
}

func checkoutMessage(t *testing.T, event domain.SessionCheckoutEvent) domain.StreamMessage {
	t.Helper()
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	return domain.StreamMessage{ID: "1-0", Data: string(payload)}
}

func TestCheckoutWorker_Name(t *testing.T) {
	worker := session.NewCheckoutWorker(
		&MockStreamRepository{}, &MockSessionRepository{}, newRouteUseCase(),
		"test-group", zap.NewNop())

	assert.Equal(t, "session-checkout", worker.Name())
}

func TestCheckoutWorker_Stop(t *testing.T) {
	worker := session.NewCheckoutWorker(
		&MockStreamRepository{}, &MockSessionRepository{}, newRouteUseCase(),
		"test-group", zap.NewNop())

	// Stop should not error even if not started
	assert.NoError(t, worker.Stop())

	// Calling stop multiple times should be safe
	assert.NoError(t, worker.Stop())
}

func TestCheckoutWorker_ProcessesCheckoutEvent(t *testing.T) {
	mockStream := &MockStreamRepository{}
	mockSessions := &MockSessionRepository{}
	logger := zap.NewNop()

	sessionID := uuid.New()
	userID := uuid.New()
	event := domain.SessionCheckoutEvent{
		SessionID: sessionID,
		UserID:    userID,
		Mode:      domain.ModeDriving,
		Trail: []domain.Coordinate{
			{Lat: 28.6139, Lon: 77.2090},
			{Lat: 28.6129, Lon: 77.2295},
			{Lat: 28.5535, Lon: 77.2588},
		},
	}
	msg := checkoutMessage(t, event)

	mockStream.On("CreateConsumerGroup", mock.Anything, domain.StreamSessionCheckout, "test-group").
		Return(nil)
	mockStream.On("ConsumeBatch", mock.Anything, domain.StreamSessionCheckout, "test-group", mock.Anything, mock.Anything).
		Return([]domain.StreamMessage{msg}, nil).Once()
	mockStream.On("ConsumeBatch", mock.Anything, domain.StreamSessionCheckout, "test-group", mock.Anything, mock.Anything).
		Return([]domain.StreamMessage{}, nil)
	mockStream.On("AckMessage", mock.Anything, domain.StreamSessionCheckout, "test-group", msg.ID).
		Return(nil)
	mockStream.On("PublishToStream", mock.Anything, domain.StreamSessionDone, mock.MatchedBy(func(data interface{}) bool {
		done, ok := data.(*domain.SessionDoneEvent)
		return ok && done.SessionID == sessionID && done.DistanceKm > 0 && done.Error == ""
	})).Return(nil)

	mockSessions.On("FinalizeRoute", mock.Anything, sessionID, mock.Anything, domain.AccuracyEstimated).
		Return(nil)

	worker := session.NewCheckoutWorker(mockStream, mockSessions, newRouteUseCase(), "test-group", logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Start(ctx) }()

	// Даём воркеру обработать batch, затем останавливаем
	time.Sleep(300 * time.Millisecond)
	require.NoError(t, worker.Stop())
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop in time")
	}

	mockSessions.AssertCalled(t, "FinalizeRoute", mock.Anything, sessionID, mock.Anything, domain.AccuracyEstimated)
	mockStream.AssertCalled(t, "PublishToStream", mock.Anything, domain.StreamSessionDone, mock.Anything)
	mockStream.AssertCalled(t, "AckMessage", mock.Anything, domain.StreamSessionCheckout, "test-group", msg.ID)
}

func TestCheckoutWorker_MalformedMessageAcked(t *testing.T) {
	mockStream := &MockStreamRepository{}
	mockSessions := &MockSessionRepository{}

	broken := domain.StreamMessage{ID: "2-0", Data: "{not json"}

	mockStream.On("CreateConsumerGroup", mock.Anything, domain.StreamSessionCheckout, "test-group").
		Return(nil)
	mockStream.On("ConsumeBatch", mock.Anything, domain.StreamSessionCheckout, "test-group", mock.Anything, mock.Anything).
		Return([]domain.StreamMessage{broken}, nil).Once()
	mockStream.On("ConsumeBatch", mock.Anything, domain.StreamSessionCheckout, "test-group", mock.Anything, mock.Anything).
		Return([]domain.StreamMessage{}, nil)
	mockStream.On("AckMessage", mock.Anything, domain.StreamSessionCheckout, "test-group", broken.ID).
		Return(nil)

	worker := session.NewCheckoutWorker(mockStream, mockSessions, newRouteUseCase(), "test-group", zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Start(ctx) }()

	time.Sleep(300 * time.Millisecond)
	require.NoError(t, worker.Stop())
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop in time")
	}

	// Битое сообщение подтверждено, финализация не вызывалась
	mockStream.AssertCalled(t, "AckMessage", mock.Anything, domain.StreamSessionCheckout, "test-group", broken.ID)
	mockSessions.AssertNotCalled(t, "FinalizeRoute", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckoutWorker_FinalizeFailurePublishedAsError(t *testing.T) {
	mockStream := &MockStreamRepository{}
	mockSessions := &MockSessionRepository{}

	sessionID := uuid.New()
	event := domain.SessionCheckoutEvent{
		SessionID: sessionID,
		UserID:    uuid.New(),
		Trail: []domain.Coordinate{
			{Lat: 28.6139, Lon: 77.2090},
			{Lat: 28.6229, Lon: 77.2190},
		},
	}
	msg := checkoutMessage(t, event)

	mockStream.On("CreateConsumerGroup", mock.Anything, domain.StreamSessionCheckout, "test-group").
		Return(nil)
	mockStream.On("ConsumeBatch", mock.Anything, domain.StreamSessionCheckout, "test-group", mock.Anything, mock.Anything).
		Return([]domain.StreamMessage{msg}, nil).Once()
	mockStream.On("ConsumeBatch", mock.Anything, domain.StreamSessionCheckout, "test-group", mock.Anything, mock.Anything).
		Return([]domain.StreamMessage{}, nil)
	mockStream.On("AckMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil)
	mockStream.On("PublishToStream", mock.Anything, domain.StreamSessionDone, mock.MatchedBy(func(data interface{}) bool {
		done, ok := data.(*domain.SessionDoneEvent)
		return ok && done.SessionID == sessionID && done.Error != ""
	})).Return(nil)

	mockSessions.On("FinalizeRoute", mock.Anything, sessionID, mock.Anything, mock.Anything).
		Return(assert.AnError)

	worker := session.NewCheckoutWorker(mockStream, mockSessions, newRouteUseCase(), "test-group", zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Start(ctx) }()

	time.Sleep(300 * time.Millisecond)
	require.NoError(t, worker.Stop())
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop in time")
	}

	mockStream.AssertCalled(t, "PublishToStream", mock.Anything, domain.StreamSessionDone, mock.Anything)
}
