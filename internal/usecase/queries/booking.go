package queries

import (
	"context"
	"time"

	"jobfair-booking/internal/domain/booking"
	"jobfair-booking/internal/domain/company"
	"jobfair-booking/internal/domain/user"
	"jobfair-booking/internal/infra"
	"jobfair-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

type BookingQueries interface {
	// GetByID enforces owner-or-admin access.
	GetByID(ctx context.Context, actorID uuid.UUID, actorRole user.Role, id uuid.UUID) (*BookingView, error)
	// GetByIDSystem bypasses access checks; for internal read-after-write.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error)
	// List is role-scoped: non-admins see their own bookings, admins see
	// all bookings or one company's when companyID is set.
	List(ctx context.Context, actorID uuid.UUID, actorRole user.Role, companyID *uuid.UUID) ([]*BookingListItem, error)
	// AvailableSlots returns the catalog minus the company's reservations
	// for the day, in catalog order.
	AvailableSlots(ctx context.Context, companyID uuid.UUID, date time.Time) ([]string, error)
}

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*BookingListItem, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*BookingListItem, error)
	ListAll(ctx context.Context) ([]*BookingListItem, error)
	// ReservedSlots returns the slot ids present in the company's ledger
	// for the given day.
	ReservedSlots(ctx context.Context, companyID uuid.UUID, date time.Time) ([]string, error)
}

type CompanyExistenceStore interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type bookingQueriesImpl struct {
	store        BookingReadStore
	companyStore CompanyExistenceStore
	catalog      *booking.Catalog
}

func NewBookingQueries(store BookingReadStore, companyStore CompanyExistenceStore, catalog *booking.Catalog) BookingQueries {
	return &bookingQueriesImpl{
		store:        store,
		companyStore: companyStore,
		catalog:      catalog,
	}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, actorID uuid.UUID, actorRole user.Role, id uuid.UUID) (*BookingView, error) {
	view, err := q.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, err
	}

	if view.UserID != actorID && !actorRole.IsAdmin() {
		return nil, errs.ErrForbidden
	}

	return view, nil
}

func (q *bookingQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrBookingNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (q *bookingQueriesImpl) List(ctx context.Context, actorID uuid.UUID, actorRole user.Role, companyID *uuid.UUID) ([]*BookingListItem, error) {
	var (
		items []*BookingListItem
		err   error
	)

	switch {
	case !actorRole.IsAdmin():
		items, err = q.store.ListByUser(ctx, actorID)
	case companyID != nil:
		items, err = q.store.ListByCompany(ctx, *companyID)
	default:
		items, err = q.store.ListAll(ctx)
	}

	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return items, nil
}

func (q *bookingQueriesImpl) AvailableSlots(ctx context.Context, companyID uuid.UUID, date time.Time) ([]string, error) {
	exists, err := q.companyStore.Exists(ctx, companyID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if !exists {
		return nil, errs.ErrCompanyNotFound
	}

	reservedSlots, err := q.store.ReservedSlots(ctx, companyID, booking.NormalizeDate(date))
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	entries := make([]company.ReservedSlot, 0, len(reservedSlots))
	for _, s := range reservedSlots {
		entries = append(entries, company.ReservedSlot{Date: date, TimeSlot: s})
	}
	ledger := company.NewLedger(entries)

	return q.catalog.Available(ledger.ReservedOn(date)), nil
}
