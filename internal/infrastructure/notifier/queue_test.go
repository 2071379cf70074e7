package notifier

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/shvark-deposit-service/internal/domain"
	"github.com/LavaJover/shvark-deposit-service/internal/infrastructure/metrics"
)

// promauto registers into the default registry, so the package shares one
// metrics instance across tests.
var testMetrics = metrics.NewDepositMetrics()

type fakeSender struct {
	mu   sync.Mutex
	sent []domain.DepositNotification
	err  error
	done chan struct{}
}

func (s *fakeSender) SendDepositConfirmation(ctx context.Context, n domain.DepositNotification) error {
	s.mu.Lock()
	s.sent = append(s.sent, n)
	s.mu.Unlock()
	if s.done != nil {
		s.done <- struct{}{}
	}
	return s.err
}

func TestQueueEnqueueNeverBlocks(t *testing.T) {
	q := NewQueue(2)

	// third enqueue overflows the buffer and must drop, not stall
	done := make(chan struct{})
	go func() {
		for i := 0; i < 3; i++ {
			q.Enqueue(domain.DepositNotification{TelegramID: int64(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}

	if got := len(q.Notifications()); got != 2 {
		t.Errorf("buffered = %d, want 2", got)
	}
}

func TestWorkerDeliversNotifications(t *testing.T) {
	q := NewQueue(8)
	sender := &fakeSender{done: make(chan struct{}, 8)}
	worker := NewWorker(q, sender, testMetrics)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Run(ctx)

	want := domain.DepositNotification{
		TelegramID: 123456789,
		Amount:     0.0002,
		Currency:   "BTC",
		AmountUSD:  10,
	}
	q.Enqueue(want)

	select {
	case <-sender.done:
	case <-time.After(time.Second):
		t.Fatal("notification was not delivered")
	}

	sender.mu.Lock()
	defer sender.mu.Unlock()
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d notifications, want 1", len(sender.sent))
	}
	if sender.sent[0] != want {
		t.Errorf("sent = %+v, want %+v", sender.sent[0], want)
	}
}

func TestWorkerSurvivesSendFailure(t *testing.T) {
	q := NewQueue(8)
	sender := &fakeSender{err: errors.New("telegram unavailable"), done: make(chan struct{}, 8)}
	worker := NewWorker(q, sender, testMetrics)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Run(ctx)

	q.Enqueue(domain.DepositNotification{TelegramID: 1})
	q.Enqueue(domain.DepositNotification{TelegramID: 2})

	for i := 0; i < 2; i++ {
		select {
		case <-sender.done:
		case <-time.After(time.Second):
			t.Fatal("worker stopped after a send failure")
		}
	}

	sender.mu.Lock()
	defer sender.mu.Unlock()
	if len(sender.sent) != 2 {
		t.Errorf("sent %d notifications, want 2", len(sender.sent))
	}
}

func TestWorkerStopsOnClose(t *testing.T) {
	q := NewQueue(8)
	sender := &fakeSender{}
	worker := NewWorker(q, sender, testMetrics)

	stopped := make(chan struct{})
	go func() {
		worker.Run(context.Background())
		close(stopped)
	}()

	q.Close()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop on queue close")
	}
}
