package commands

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"jobfair-booking/internal/domain/booking"
	"jobfair-booking/internal/domain/user"
	"jobfair-booking/internal/infra"
	"jobfair-booking/internal/pkg/clock"
	"jobfair-booking/internal/pkg/errs"
	"jobfair-booking/internal/pkg/patch"
	"jobfair-booking/internal/usecase/queries"
	"jobfair-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookParams struct {
	CompanyID uuid.UUID
	ApptDate  time.Time
	TimeSlot  string
}

type RescheduleParams struct {
	CompanyID *uuid.UUID
	ApptDate  *time.Time
	TimeSlot  *string
}

// BookingCommands is the allocation engine: it validates a requested
// (company, date, slot) against catalog, ledger and quota, then creates,
// relocates or releases the booking and its ledger entry in one
// transaction.
type BookingCommands interface {
	Book(ctx context.Context, actorID uuid.UUID, actorRole user.Role, params BookParams) (*queries.BookingView, error)
	Reschedule(ctx context.Context, actorID uuid.UUID, actorRole user.Role, bookingID uuid.UUID, params RescheduleParams) (*queries.BookingView, error)
	Cancel(ctx context.Context, actorID uuid.UUID, actorRole user.Role, bookingID uuid.UUID) error
}

type bookingCommandsImpl struct {
	uow            shared.UnitOfWork
	bookingQueries queries.BookingQueries
	catalog        *booking.Catalog
	clock          clock.Clock
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	bookingQueries queries.BookingQueries,
	catalog *booking.Catalog,
	clock clock.Clock,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:            uow,
		bookingQueries: bookingQueries,
		catalog:        catalog,
		clock:          clock,
	}
}

func (c *bookingCommandsImpl) Book(
	ctx context.Context,
	actorID uuid.UUID,
	actorRole user.Role,
	params BookParams,
) (*queries.BookingView, error) {
	if params.CompanyID == uuid.Nil || params.TimeSlot == "" || params.ApptDate.IsZero() {
		return nil, errs.ErrDomainValidation
	}
	if err := c.validateTarget(params.ApptDate, params.TimeSlot); err != nil {
		return nil, err
	}

	var bookingID uuid.UUID
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := c.companySnapshot(ctx, tx, params.CompanyID); err != nil {
			return err
		}

		// Per-user lock closes the count-then-insert race on the quota.
		if err := tx.LockUserBookings(ctx, actorID); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		taken, err := tx.Reads().HasReservation(ctx, params.CompanyID, params.ApptDate, params.TimeSlot)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if taken {
			return errs.ErrSlotConflict
		}

		if !actorRole.IsAdmin() {
			count, err := tx.Reads().CountActiveBookings(ctx, actorID)
			if err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			if count >= booking.MaxActiveBookingsPerUser {
				return errs.ErrQuotaExceeded
			}
		}

		entity, err := booking.NewBooking(c.catalog, params.CompanyID, actorID, params.ApptDate, params.TimeSlot)
		if err != nil {
			return c.mapCatalogErr(err)
		}

		// Ledger entry first: its unique index is the slot arbiter, so a
		// racing request fails here and never reaches the booking insert.
		if err := tx.Companies().AddReservation(ctx, params.CompanyID, entity.ApptDate(), entity.TimeSlot()); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.ErrSlotConflict
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := tx.Bookings().Create(ctx, entity); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		bookingID = entity.ID()
		return c.enqueueConfirmation(ctx, tx, bookingID, "booking_confirmed")
	})
	if err != nil {
		return nil, err
	}

	return c.bookingQueries.GetByIDSystem(ctx, bookingID)
}

func (c *bookingCommandsImpl) Reschedule(
	ctx context.Context,
	actorID uuid.UUID,
	actorRole user.Role,
	bookingID uuid.UUID,
	params RescheduleParams,
) (*queries.BookingView, error) {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().BookingByID(ctx, bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrBookingNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if snap.UserID != actorID && !actorRole.IsAdmin() {
			return errs.ErrForbidden
		}

		newCompanyID := patch.Coalesce(params.CompanyID, snap.CompanyID)
		newDate := booking.NormalizeDate(patch.Coalesce(params.ApptDate, snap.ApptDate))
		newSlot := patch.Coalesce(params.TimeSlot, snap.TimeSlot)

		if err := c.validateTarget(newDate, newSlot); err != nil {
			return err
		}

		entity := booking.ReconstructBooking(
			snap.ID, snap.CompanyID, snap.UserID,
			snap.ApptDate, snap.TimeSlot,
			snap.CreatedAt, snap.UpdatedAt,
		)

		oldCompanyID, oldDate, oldSlot := snap.CompanyID, booking.NormalizeDate(snap.ApptDate), snap.TimeSlot
		if !entity.Relocate(newCompanyID, newDate, newSlot) {
			// Nothing changed: skip ledger mutation, refresh the record only.
			if err := tx.Bookings().Update(ctx, entity); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			return c.enqueueConfirmation(ctx, tx, bookingID, "booking_rescheduled")
		}

		if _, err := c.companySnapshot(ctx, tx, oldCompanyID); err != nil {
			return err
		}
		if newCompanyID != oldCompanyID {
			if _, err := c.companySnapshot(ctx, tx, newCompanyID); err != nil {
				return err
			}
		}

		taken, err := tx.Reads().HasReservation(ctx, newCompanyID, newDate, newSlot)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if taken {
			return errs.ErrSlotConflict
		}

		// Both ledger sides commit with the booking update or not at all;
		// removal before insertion keeps same-company moves free of
		// transient duplicates.
		if err := tx.Companies().RemoveReservation(ctx, oldCompanyID, oldDate, oldSlot); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := tx.Companies().AddReservation(ctx, newCompanyID, newDate, newSlot); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.ErrSlotConflict
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := tx.Bookings().Update(ctx, entity); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		return c.enqueueConfirmation(ctx, tx, bookingID, "booking_rescheduled")
	})
	if err != nil {
		return nil, err
	}

	return c.bookingQueries.GetByIDSystem(ctx, bookingID)
}

func (c *bookingCommandsImpl) Cancel(
	ctx context.Context,
	actorID uuid.UUID,
	actorRole user.Role,
	bookingID uuid.UUID,
) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().BookingByID(ctx, bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrBookingNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if snap.UserID != actorID && !actorRole.IsAdmin() {
			return errs.ErrForbidden
		}

		// The owning company may already be gone; ledger removal is a
		// no-op then and the cancel still succeeds.
		if err := tx.Companies().RemoveReservation(ctx, snap.CompanyID, snap.ApptDate, snap.TimeSlot); err != nil {
			if !infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
		}

		if err := tx.Bookings().Delete(ctx, bookingID); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (c *bookingCommandsImpl) validateTarget(date time.Time, slotID string) error {
	return c.mapCatalogErr(c.catalog.ValidateSlot(date, slotID))
}

func (c *bookingCommandsImpl) mapCatalogErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, booking.ErrOutsideCampaign):
		return errs.ErrOutOfWindow
	case errors.Is(err, booking.ErrUnknownSlot):
		return errs.ErrInvalidSlot
	default:
		return errs.Mark(err, errs.ErrDomainValidation)
	}
}

func (c *bookingCommandsImpl) companySnapshot(ctx context.Context, tx shared.Tx, id uuid.UUID) (*shared.CompanySnapshot, error) {
	snap, err := tx.Reads().CompanyByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrCompanyNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return snap, nil
}

// enqueueConfirmation writes the outbox job inside the transaction. The
// dispatcher picks it up after commit; nothing here waits on delivery.
func (c *bookingCommandsImpl) enqueueConfirmation(ctx context.Context, tx shared.Tx, bookingID uuid.UUID, topic string) error {
	payload, err := json.Marshal(map[string]any{
		"booking_id": bookingID,
		"type":       topic,
	})
	if err != nil {
		slog.Warn("failed to encode confirmation payload", "booking_id", bookingID, "error", err.Error())
		return nil
	}

	if err := tx.Notifications().CreateJob(ctx, "email", topic, payload, c.clock.Now()); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}
