package kafka

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/find-this-fit/go-backend/internal/usecase"
	"github.com/find-this-fit/go-backend/pkg/e"
	"github.com/find-this-fit/go-backend/pkg/logger"
	"github.com/jackc/pgx/v5"
)

const (
	outboxChannel    = "outbox_pending"
	outboxBatchSize  = 10
	notifyWaitPeriod = 30 * time.Second
)

// OutboxWorker переносит события из таблицы outbox_events в Kafka.
// Просыпается по NOTIFY из транзакции записи объявления, а при старте
// выгребает события, оставшиеся с прошлого запуска.
type OutboxWorker struct {
	repo     usecase.OutboxRepository
	logger   logger.Logger
	producer usecase.MessageProducer
	stop     chan struct{}
	wg       sync.WaitGroup
	dsn      string
}

func NewOutboxWorker(
	repo usecase.OutboxRepository,
	logger logger.Logger,
	producer usecase.MessageProducer,
	dsn string,
) *OutboxWorker {
	return &OutboxWorker{
		repo:     repo,
		logger:   logger,
		producer: producer,
		stop:     make(chan struct{}),
		dsn:      dsn,
	}
}

func (w *OutboxWorker) Start(ctx context.Context) {
	w.wg.Add(2)

	go func() {
		defer w.wg.Done()
		w.drainOnStartup(ctx)
	}()

	go func() {
		defer w.wg.Done()
		w.listenForPending(ctx)
	}()
}

func (w *OutboxWorker) Stop() {
	close(w.stop)
	w.wg.Wait()
}

// drainOnStartup обрабатывает события, накопившиеся пока сервис был
// остановлен: NOTIFY о них уже никто не пришлёт.
func (w *OutboxWorker) drainOnStartup(ctx context.Context) {
	w.logger.Infof("draining pending outbox events on startup")
	w.drain(ctx)

	<-ctx.Done()
	w.logger.Infof("outbox worker stopped")
}

// listenForPending держит выделенное LISTEN-соединение (pgxpool для LISTEN
// не подходит) и выгребает outbox при каждом уведомлении. При потере
// соединения переподключается с паузой.
func (w *OutboxWorker) listenForPending(ctx context.Context) {
	var conn *pgx.Conn

	connect := func() error {
		var err error
		conn, err = pgx.Connect(ctx, w.dsn)
		if err != nil {
			return e.Wrap("outbox listener connect", err)
		}

		if _, err := conn.Exec(ctx, "LISTEN "+outboxChannel); err != nil {
			conn.Close(ctx)
			return e.Wrap("outbox listener LISTEN", err)
		}

		w.logger.Infof("subscribed to %q channel", outboxChannel)
		return nil
	}

	if err := connect(); err != nil {
		w.logger.Warnf("outbox listener initial connect failed: %v", err)
		return
	}
	defer conn.Close(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		default:
		}

		waitCtx, cancel := context.WithTimeout(ctx, notifyWaitPeriod)
		notif, err := conn.WaitForNotification(waitCtx)
		cancel()

		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				continue
			}

			w.logger.Warnf("outbox listener connection lost: %v, reconnecting", err)
			conn.Close(ctx)

			time.Sleep(2 * time.Second)
			if err := connect(); err != nil {
				w.logger.Warnf("outbox listener reconnect failed: %v", err)
				time.Sleep(5 * time.Second)
			}
			continue
		}

		if notif != nil && notif.Channel == outboxChannel {
			w.logger.Debugf("outbox notification received, draining")
			w.drain(ctx)
		}
	}
}

// drain выгребает события батчами, пока таблица не опустеет.
func (w *OutboxWorker) drain(ctx context.Context) {
	for {
		events, err := w.repo.GetAndMarkAsProcessing(ctx, outboxBatchSize)
		if err != nil {
			w.logger.Warnf("outbox batch fetch failed: %v", err)
			return
		}
		if len(events) == 0 {
			return
		}

		for _, event := range events {
			if err := w.publish(ctx, event); err != nil {
				// Событие остаётся в статусе processing и будет
				// переотправлено следующим прогоном.
				w.logger.Warnf("outbox event %s publish failed: %v", event.EventID, err)
				continue
			}
			if err := w.repo.MarkAsProcessed(ctx, event.ID); err != nil {
				w.logger.Warnf("outbox event %s mark processed failed: %v", event.EventID, err)
			}
		}
	}
}

func (w *OutboxWorker) publish(ctx context.Context, event *usecase.OutboxEvent) error {
	err := w.producer.WriteRawMessage(ctx, usecase.NewWriteRawMessageReq(event.ItemID, event.Payload))
	if err != nil {
		if isRetryableError(err) {
			return e.Wrap("temporary Kafka failure", err)
		}
		return e.Wrap("permanent Kafka failure", err)
	}

	return nil
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, phrase := range []string{
		"connection refused",
		"i/o timeout",
		"network is unreachable",
		"broker not available",
		"connection reset",
		"broken pipe",
		"no such host",
	} {
		if strings.Contains(msg, phrase) {
			return true
		}
	}

	return false
}
