package notify

import (
	"context"
	"log/slog"
	"time"

	"jobfair-booking/internal/infra/repository"
	"jobfair-booking/internal/pkg/clock"
	"jobfair-booking/internal/pkg/config"
)

// Dispatcher polls the notification outbox and hands due jobs to the
// Sender. Booking commands only insert rows; a failed delivery is retried
// with backoff and never affects the booking that produced it.
type Dispatcher struct {
	repo   *repository.NotificationRepository
	sender Sender
	clock  clock.Clock
	cfg    config.NotifyConfig
	logger *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

func NewDispatcher(
	repo *repository.NotificationRepository,
	sender Sender,
	clock clock.Clock,
	cfg config.NotifyConfig,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		repo:   repo,
		sender: sender,
		clock:  clock,
		cfg:    cfg,
		logger: logger,
	}
}

func (d *Dispatcher) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.done = make(chan struct{})

	go d.run(ctx)
}

func (d *Dispatcher) Stop(ctx context.Context) error {
	if d.cancel == nil {
		return nil
	}
	d.cancel()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run(ctx context.Context) {
	defer close(d.done)

	ticker := time.NewTicker(d.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.dispatchBatch(ctx)
		}
	}
}

func (d *Dispatcher) dispatchBatch(ctx context.Context) {
	now := d.clock.Now()

	jobs, err := d.repo.ClaimPending(ctx, d.cfg.BatchSize, now)
	if err != nil {
		d.logger.Error("failed to claim notification jobs", "error", err.Error())
		return
	}

	for _, job := range jobs {
		if err := d.sender.Send(ctx, job.Kind, job.Topic, job.Payload); err != nil {
			d.logger.Warn("notification delivery failed",
				"job_id", job.ID,
				"topic", job.Topic,
				"attempt", job.Attempts+1,
				"error", err.Error(),
			)

			retryAt := now.Add(retryDelay(job.Attempts))
			if err := d.repo.MarkFailed(ctx, job.ID, d.cfg.MaxAttempts, retryAt); err != nil {
				d.logger.Error("failed to record notification failure", "job_id", job.ID, "error", err.Error())
			}
			continue
		}

		if err := d.repo.MarkSent(ctx, job.ID); err != nil {
			d.logger.Error("failed to mark notification sent", "job_id", job.ID, "error", err.Error())
		}
	}
}

const retryBase = 30 * time.Second

func retryDelay(attempts int32) time.Duration {
	return time.Duration(1<<attempts) * retryBase
}
