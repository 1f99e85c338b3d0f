package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/Hari1275/sdp-sub003/internal/domain"
	"github.com/Hari1275/sdp-sub003/internal/domain/repository"
	"github.com/Hari1275/sdp-sub003/internal/usecase"
	"github.com/Hari1275/sdp-sub003/internal/worker"
	"go.uber.org/zap"
)

const (
	maxBatchSize    = 20                     // максимум сообщений за раз
	emptyQueueSleep = 100 * time.Millisecond // пауза если очередь пуста
)

// CheckoutWorker обрабатывает события check-out сессий: резолвит маршрут
// по треку и финализирует дистанцию сессии в хранилище
type CheckoutWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	sessionRepo  repository.SessionRepository
	routeUC      *usecase.RouteUseCase
	consumerName string
}

// NewCheckoutWorker создает новый CheckoutWorker
func NewCheckoutWorker(
	streamRepo repository.StreamRepository,
	sessionRepo repository.SessionRepository,
	routeUC *usecase.RouteUseCase,
	consumerGroup string,
	logger *zap.Logger,
) *CheckoutWorker {
	hostname, _ := os.Hostname()
	consumerName := fmt.Sprintf("%s-%d", hostname, os.Getpid())

	return &CheckoutWorker{
		BaseWorker:   worker.NewBaseWorker("session-checkout", consumerGroup, logger),
		streamRepo:   streamRepo,
		sessionRepo:  sessionRepo,
		routeUC:      routeUC,
		consumerName: consumerName,
	}
}

// Start запускает воркер
func (w *CheckoutWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting CheckoutWorker (batch mode)",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName),
		zap.Int("max_batch_size", maxBatchSize))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamSessionCheckout, w.ConsumerGroup()); err != nil {
		logger.Error("Failed to create consumer group", zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		default:
			processed, err := w.processBatch(ctx)
			if err != nil {
				logger.Error("Failed to process batch", zap.Error(err))
				time.Sleep(time.Second) // пауза при ошибке
				continue
			}

			if processed == 0 {
				time.Sleep(emptyQueueSleep)
			}
		}
	}
}

// processBatch читает и обрабатывает batch сообщений.
// Возвращает количество прочитанных сообщений.
func (w *CheckoutWorker) processBatch(ctx context.Context) (int, error) {
	logger := w.Logger()

	messages, err := w.streamRepo.ConsumeBatch(
		ctx,
		domain.StreamSessionCheckout,
		w.ConsumerGroup(),
		w.consumerName,
		maxBatchSize,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}

	if len(messages) == 0 {
		return 0, nil // очередь пуста
	}

	logger.Info("Processing batch", zap.Int("message_count", len(messages)))

	for _, msg := range messages {
		event, err := w.parseMessage(msg)
		if err != nil {
			logger.Warn("Failed to parse message, skipping",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			// ACK битое сообщение чтобы не застревало
			_ = w.streamRepo.AckMessage(ctx, domain.StreamSessionCheckout, w.ConsumerGroup(), msg.ID)
			continue
		}

		w.handleCheckout(ctx, event)

		if err := w.streamRepo.AckMessage(ctx, domain.StreamSessionCheckout, w.ConsumerGroup(), msg.ID); err != nil {
			// Не критично - сообщение будет переобработано, финализация идемпотентна
			logger.Error("Failed to ack message",
				zap.String("message_id", msg.ID),
				zap.Error(err))
		}
	}

	return len(messages), nil
}

// handleCheckout резолвит маршрут и финализирует сессию.
// Резолв не возвращает ошибок; сбой возможен только на стороне хранилища.
func (w *CheckoutWorker) handleCheckout(ctx context.Context, event *domain.SessionCheckoutEvent) {
	logger := w.Logger()

	result := w.routeUC.ResolveRoute(ctx, event.Trail, event.Mode)

	doneEvent := &domain.SessionDoneEvent{
		SessionID:  event.SessionID,
		UserID:     event.UserID,
		DistanceKm: result.DistanceKm,
		Method:     result.Method,
		Accuracy:   result.Accuracy,
	}

	if err := w.sessionRepo.FinalizeRoute(ctx, event.SessionID, result.DistanceKm, result.Accuracy); err != nil {
		logger.Error("Failed to finalize session route",
			zap.String("session_id", event.SessionID.String()),
			zap.Error(err))
		doneEvent.Error = err.Error()
	}

	if err := w.streamRepo.PublishToStream(ctx, domain.StreamSessionDone, doneEvent); err != nil {
		logger.Error("Failed to publish done event",
			zap.String("session_id", event.SessionID.String()),
			zap.Error(err))
		return
	}

	logger.Debug("Session checkout processed",
		zap.String("session_id", event.SessionID.String()),
		zap.Float64("distance_km", result.DistanceKm),
		zap.String("method", string(result.Method)))
}

// parseMessage парсит сообщение из стрима в SessionCheckoutEvent
func (w *CheckoutWorker) parseMessage(msg domain.StreamMessage) (*domain.SessionCheckoutEvent, error) {
	var event domain.SessionCheckoutEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	return &event, nil
}
