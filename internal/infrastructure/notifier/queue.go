package notifier

import (
	"log/slog"

	"github.com/LavaJover/shvark-deposit-service/internal/domain"
)

// Queue is the in-process handoff between the credit engine and the
// notification worker. It is deliberately lossy: when the buffer is full the
// notification is dropped and logged rather than stalling a webhook response.
type Queue struct {
	ch chan domain.DepositNotification
}

func NewQueue(size int) *Queue {
	if size <= 0 {
		size = 64
	}
	return &Queue{ch: make(chan domain.DepositNotification, size)}
}

func (q *Queue) Enqueue(n domain.DepositNotification) {
	select {
	case q.ch <- n:
	default:
		slog.Warn("notification queue full, dropping",
			"telegram_id", n.TelegramID,
			"amount", n.Amount,
			"currency", n.Currency,
		)
	}
}

func (q *Queue) Notifications() <-chan domain.DepositNotification {
	return q.ch
}

func (q *Queue) Close() {
	close(q.ch)
}
