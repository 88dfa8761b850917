package booking

import (
	"time"

	"github.com/google/uuid"
)

// MaxActiveBookingsPerUser caps simultaneously live bookings for non-admin
// users. Admins are exempt.
const MaxActiveBookingsPerUser = 3

// Booking owns one (company, date, slot) reservation for one user. The pair
// (ApptDate, TimeSlot) must be present in the owning company's ledger for as
// long as the booking exists.
type Booking struct {
	id        uuid.UUID
	companyID uuid.UUID
	userID    uuid.UUID
	apptDate  time.Time
	timeSlot  string
	createdAt time.Time
	updatedAt time.Time
}

func NewBooking(catalog *Catalog, companyID, userID uuid.UUID, apptDate time.Time, timeSlot string) (*Booking, error) {
	if err := catalog.ValidateSlot(apptDate, timeSlot); err != nil {
		return nil, err
	}
	return &Booking{
		id:        uuid.New(),
		companyID: companyID,
		userID:    userID,
		apptDate:  NormalizeDate(apptDate),
		timeSlot:  timeSlot,
	}, nil
}

func ReconstructBooking(
	id, companyID, userID uuid.UUID,
	apptDate time.Time,
	timeSlot string,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:        id,
		companyID: companyID,
		userID:    userID,
		apptDate:  NormalizeDate(apptDate),
		timeSlot:  timeSlot,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// Relocate moves the booking to a new (company, date, slot) target. The
// target must already be validated against the catalog; Relocate reports
// whether anything actually changed so callers can skip ledger mutation on
// no-op reschedules.
func (b *Booking) Relocate(companyID uuid.UUID, apptDate time.Time, timeSlot string) bool {
	day := NormalizeDate(apptDate)
	if b.companyID == companyID && b.apptDate.Equal(day) && b.timeSlot == timeSlot {
		return false
	}
	b.companyID = companyID
	b.apptDate = day
	b.timeSlot = timeSlot
	return true
}

// IsOwnedBy reports whether the user may operate on this booking without
// admin privileges.
func (b *Booking) IsOwnedBy(userID uuid.UUID) bool {
	return b.userID == userID
}

func (b *Booking) ID() uuid.UUID        { return b.id }
func (b *Booking) CompanyID() uuid.UUID { return b.companyID }
func (b *Booking) UserID() uuid.UUID    { return b.userID }
func (b *Booking) ApptDate() time.Time  { return b.apptDate }
func (b *Booking) TimeSlot() string     { return b.timeSlot }
func (b *Booking) CreatedAt() time.Time { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }
