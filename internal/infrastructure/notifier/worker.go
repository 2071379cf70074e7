package notifier

import (
	"context"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-deposit-service/internal/domain"
	"github.com/LavaJover/shvark-deposit-service/internal/infrastructure/metrics"
)

// Sender is satisfied by TelegramNotifier and by test fakes.
type Sender interface {
	SendDepositConfirmation(ctx context.Context, n domain.DepositNotification) error
}

// Worker drains the queue and delivers notifications. Delivery failures are
// logged and counted, never retried: the credit is already durable and the
// user can see it in their balance.
type Worker struct {
	queue   *Queue
	sender  Sender
	metrics *metrics.DepositMetrics
	timeout time.Duration
}

func NewWorker(queue *Queue, sender Sender, m *metrics.DepositMetrics) *Worker {
	return &Worker{
		queue:   queue,
		sender:  sender,
		metrics: m,
		timeout: 10 * time.Second,
	}
}

func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-w.queue.Notifications():
			if !ok {
				return
			}
			sendCtx, cancel := context.WithTimeout(ctx, w.timeout)
			err := w.sender.SendDepositConfirmation(sendCtx, n)
			cancel()
			if err != nil {
				w.metrics.RecordNotificationFailure()
				slog.Error("failed to notify user",
					"telegram_id", n.TelegramID,
					"amount", n.Amount,
					"currency", n.Currency,
					"error", err.Error(),
				)
			}
		}
	}
}
