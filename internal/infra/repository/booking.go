package repository

import (
	"context"

	"jobfair-booking/internal/domain/booking"
	"jobfair-booking/internal/infra"
	"jobfair-booking/internal/infra/db"
	"jobfair-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(dbtx db.DBTX) *BookingRepository {
	return &BookingRepository{db: dbtx}
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	const q = `
		INSERT INTO bookings (id, company_id, user_id, appt_date, time_slot)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, q,
		pgconv.UUIDToPgtype(b.ID()),
		pgconv.UUIDToPgtype(b.CompanyID()),
		pgconv.UUIDToPgtype(b.UserID()),
		pgconv.DateToPgtype(b.ApptDate()),
		b.TimeSlot(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create booking", err)
	}
	return nil
}

func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	const q = `
		UPDATE bookings
		SET company_id = $2, appt_date = $3, time_slot = $4, updated_at = now()
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, q,
		pgconv.UUIDToPgtype(b.ID()),
		pgconv.UUIDToPgtype(b.CompanyID()),
		pgconv.DateToPgtype(b.ApptDate()),
		b.TimeSlot(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM bookings WHERE id = $1`
	tag, err := r.db.Exec(ctx, q, pgconv.UUIDToPgtype(id))
	if err != nil {
		return infra.WrapRepoErr("failed to delete booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BookingRepository) DeleteByCompany(ctx context.Context, companyID uuid.UUID) (int64, error) {
	const q = `DELETE FROM bookings WHERE company_id = $1`
	tag, err := r.db.Exec(ctx, q, pgconv.UUIDToPgtype(companyID))
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete company bookings", err)
	}
	return tag.RowsAffected(), nil
}
