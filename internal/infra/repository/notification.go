package repository

import (
	"context"
	"time"

	"jobfair-booking/internal/infra"
	"jobfair-booking/internal/infra/db"
	"jobfair-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// NotificationJob is one outbox row awaiting delivery.
type NotificationJob struct {
	ID       uuid.UUID
	Kind     string
	Topic    string
	Payload  []byte
	Attempts int32
}

type NotificationRepository struct {
	db db.DBTX
}

func NewNotificationRepository(dbtx db.DBTX) *NotificationRepository {
	return &NotificationRepository{db: dbtx}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	const q = `
		INSERT INTO notification_jobs (id, kind, topic, payload, status, run_at)
		VALUES ($1, $2, $3, $4, 'pending', $5)
	`
	_, err := r.db.Exec(ctx, q,
		pgconv.UUIDToPgtype(uuid.New()),
		kind,
		topic,
		payload,
		pgconv.TimeToPgtype(runAt),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to enqueue notification", err)
	}
	return nil
}

// ClaimPending atomically moves up to limit due jobs to 'processing' and
// returns them. SKIP LOCKED keeps concurrent dispatchers off each other's
// batches.
func (r *NotificationRepository) ClaimPending(ctx context.Context, limit int32, now time.Time) ([]NotificationJob, error) {
	const q = `
		UPDATE notification_jobs
		SET status = 'processing', updated_at = now()
		WHERE id IN (
			SELECT id FROM notification_jobs
			WHERE status = 'pending' AND run_at <= $1
			ORDER BY run_at
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, kind, topic, payload, attempts
	`
	rows, err := r.db.Query(ctx, q, pgconv.TimeToPgtype(now), limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim notification jobs", err)
	}
	defer rows.Close()

	var jobs []NotificationJob
	for rows.Next() {
		var job NotificationJob
		var id pgtype.UUID
		if err := rows.Scan(&id, &job.Kind, &job.Topic, &job.Payload, &job.Attempts); err != nil {
			return nil, infra.WrapRepoErr("failed to scan notification job", err)
		}
		job.ID = uuid.UUID(id.Bytes)
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read notification jobs", err)
	}
	return jobs, nil
}

func (r *NotificationRepository) MarkSent(ctx context.Context, id uuid.UUID) error {
	const q = `
		UPDATE notification_jobs
		SET status = 'sent', attempts = attempts + 1, updated_at = now()
		WHERE id = $1
	`
	if _, err := r.db.Exec(ctx, q, pgconv.UUIDToPgtype(id)); err != nil {
		return infra.WrapRepoErr("failed to mark notification sent", err)
	}
	return nil
}

// MarkFailed reschedules a claimed job with backoff until maxAttempts,
// then parks it as failed.
func (r *NotificationRepository) MarkFailed(ctx context.Context, id uuid.UUID, maxAttempts int32, retryAt time.Time) error {
	const q = `
		UPDATE notification_jobs
		SET attempts = attempts + 1,
		    status = CASE WHEN attempts + 1 >= $2 THEN 'failed' ELSE 'pending' END,
		    run_at = $3,
		    updated_at = now()
		WHERE id = $1
	`
	if _, err := r.db.Exec(ctx, q, pgconv.UUIDToPgtype(id), maxAttempts, pgconv.TimeToPgtype(retryAt)); err != nil {
		return infra.WrapRepoErr("failed to mark notification failed", err)
	}
	return nil
}
