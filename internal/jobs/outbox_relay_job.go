package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/metrics"

	"github.com/robfig/cron/v3"
)

// DefaultOutboxBatchSize bounds how many events one relay run moves.
const DefaultOutboxBatchSize = 100

// OutboxRelayJob moves committed events from the outbox to the broker and the
// websocket hub. Events are marked published only after the broker accepted
// them, so a failed run is retried by the next one and consumers must
// tolerate duplicates.
type OutboxRelayJob struct {
	outbox    ports.OutboxStore
	publisher ports.EventPublisher
	notifier  ports.Notifier
	batchSize int
	schedule  string
	cron      *cron.Cron
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func NewOutboxRelayJob(
	outbox ports.OutboxStore,
	publisher ports.EventPublisher,
	notifier ports.Notifier,
	schedule string,
	batchSize int,
	m *metrics.Metrics,
	logger *slog.Logger,
) *OutboxRelayJob {
	if batchSize <= 0 {
		batchSize = DefaultOutboxBatchSize
	}
	return &OutboxRelayJob{
		outbox:    outbox,
		publisher: publisher,
		notifier:  notifier,
		batchSize: batchSize,
		schedule:  schedule,
		cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:    logger.With("component", "outbox_relay_job"),
		metrics:   m,
	}
}

// RunOnce relays one batch and returns how many events were published.
func (j *OutboxRelayJob) RunOnce(ctx context.Context) (int, error) {
	events, err := j.outbox.FetchPending(ctx, j.batchSize)
	if err != nil {
		return 0, fmt.Errorf("fetch pending events: %w", err)
	}
	if len(events) == 0 {
		return 0, nil
	}

	if err = j.publisher.Publish(ctx, events...); err != nil {
		return 0, fmt.Errorf("publish events: %w", err)
	}

	ids := make([]kernel.UUID, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	if err = j.outbox.MarkPublished(ctx, ids, time.Now().UTC()); err != nil {
		return 0, fmt.Errorf("mark events published: %w", err)
	}

	if j.notifier != nil {
		for _, e := range events {
			j.notifier.Notify(e)
		}
	}
	if j.metrics != nil {
		j.metrics.OutboxRelayedTotal.Add(float64(len(events)))
	}
	return len(events), nil
}

func (j *OutboxRelayJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		n, err := j.RunOnce(ctx)
		if err != nil {
			if j.metrics != nil {
				j.metrics.OutboxFailedTotal.Inc()
			}
			j.logger.ErrorContext(ctx, "Outbox relay failed", "error", err)
			return
		}
		if n > 0 {
			j.logger.DebugContext(ctx, "Outbox events relayed", "count", n)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Outbox relay job started", "schedule", j.schedule)
	return nil
}

// Stop waits for a running relay to finish.
func (j *OutboxRelayJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Outbox relay job stopped")
}
