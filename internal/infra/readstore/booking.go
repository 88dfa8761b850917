package readstore

import (
	"context"
	"time"

	"jobfair-booking/internal/infra"
	"jobfair-booking/internal/infra/db"
	"jobfair-booking/internal/pkg/pgconv"
	"jobfair-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbtx}
}

const bookingListQuery = `
	SELECT b.id, b.company_id, c.name, b.user_id, b.appt_date, b.time_slot, b.created_at
	FROM bookings b
	JOIN companies c ON c.id = b.company_id
`

func (s *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	const q = `
		SELECT b.id, b.company_id, c.name, c.address, c.tel, c.website,
		       b.user_id, u.name, u.email,
		       b.appt_date, b.time_slot, b.created_at, b.updated_at
		FROM bookings b
		JOIN companies c ON c.id = b.company_id
		JOIN users u ON u.id = b.user_id
		WHERE b.id = $1
	`
	row := s.db.QueryRow(ctx, q, pgconv.UUIDToPgtype(id))

	var (
		view                 queries.BookingView
		bid, cid, uid        pgtype.UUID
		apptDate             pgtype.Date
		createdAt, updatedAt pgtype.Timestamptz
	)
	err := row.Scan(
		&bid, &cid, &view.CompanyName, &view.CompanyAddress, &view.CompanyTel, &view.CompanyWebsite,
		&uid, &view.UserName, &view.UserEmail,
		&apptDate, &view.TimeSlot, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}

	view.ID = uuid.UUID(bid.Bytes)
	view.CompanyID = uuid.UUID(cid.Bytes)
	view.UserID = uuid.UUID(uid.Bytes)
	view.ApptDate = pgconv.DateFromPgtype(apptDate)
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	view.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &view, nil
}

func (s *BookingReadStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*queries.BookingListItem, error) {
	const q = bookingListQuery + `
		WHERE b.user_id = $1
		ORDER BY b.appt_date, b.time_slot
	`
	rows, err := s.db.Query(ctx, q, pgconv.UUIDToPgtype(userID))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings by user", err)
	}
	return scanBookingList(rows)
}

func (s *BookingReadStore) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*queries.BookingListItem, error) {
	const q = bookingListQuery + `
		WHERE b.company_id = $1
		ORDER BY b.appt_date, b.time_slot
	`
	rows, err := s.db.Query(ctx, q, pgconv.UUIDToPgtype(companyID))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings by company", err)
	}
	return scanBookingList(rows)
}

func (s *BookingReadStore) ListAll(ctx context.Context) ([]*queries.BookingListItem, error) {
	const q = bookingListQuery + `
		ORDER BY b.appt_date, b.time_slot
	`
	rows, err := s.db.Query(ctx, q)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	return scanBookingList(rows)
}

func (s *BookingReadStore) ReservedSlots(ctx context.Context, companyID uuid.UUID, date time.Time) ([]string, error) {
	const q = `
		SELECT time_slot
		FROM company_slots
		WHERE company_id = $1 AND slot_date = $2
	`
	rows, err := s.db.Query(ctx, q, pgconv.UUIDToPgtype(companyID), pgconv.DateToPgtype(date))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reserved slots", err)
	}
	defer rows.Close()

	var slots []string
	for rows.Next() {
		var slot string
		if err := rows.Scan(&slot); err != nil {
			return nil, infra.WrapRepoErr("failed to scan reserved slot", err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read reserved slots", err)
	}
	return slots, nil
}

func scanBookingList(rows pgx.Rows) ([]*queries.BookingListItem, error) {
	defer rows.Close()

	var items []*queries.BookingListItem
	for rows.Next() {
		var (
			item          queries.BookingListItem
			bid, cid, uid pgtype.UUID
			apptDate      pgtype.Date
			createdAt     pgtype.Timestamptz
		)
		err := rows.Scan(&bid, &cid, &item.CompanyName, &uid, &apptDate, &item.TimeSlot, &createdAt)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking row", err)
		}
		item.ID = uuid.UUID(bid.Bytes)
		item.CompanyID = uuid.UUID(cid.Bytes)
		item.UserID = uuid.UUID(uid.Bytes)
		item.ApptDate = pgconv.DateFromPgtype(apptDate)
		item.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read booking rows", err)
	}
	return items, nil
}
