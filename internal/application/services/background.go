package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"board-service/internal/infrastructure/messaging"
)

// Background runs fire-and-forget side effects (event fan-out, email) with a
// deadline. Failures are logged and never reach the request that caused them.
type Background struct {
	wg        sync.WaitGroup
	timeout   time.Duration
	publisher messaging.Publisher
	log       *slog.Logger
}

func NewBackground(publisher messaging.Publisher, timeout time.Duration, log *slog.Logger) *Background {
	if publisher == nil {
		publisher = messaging.Noop{}
	}
	return &Background{publisher: publisher, timeout: timeout, log: log}
}

func (b *Background) Go(task string, fn func(ctx context.Context) error) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			b.log.Error("background task failed", "task", task, "error", err)
		}
	}()
}

func (b *Background) Emit(t messaging.EventType, projectID uuid.UUID, payload any) {
	event := messaging.NewEvent(t, projectID, payload)
	b.Go(string(t), func(ctx context.Context) error {
		return b.publisher.Publish(ctx, event)
	})
}

// Wait blocks until every started task has finished.
func (b *Background) Wait() {
	b.wg.Wait()
}
