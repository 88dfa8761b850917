//go:build unit || e2e

package builder

import (
	"time"

	"jobfair-booking/internal/domain/booking"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	CompanyID uuid.UUID
	UserID    uuid.UUID
	ApptDate  time.Time
	TimeSlot  string
	Catalog   *booking.Catalog
}

func NewBookingBuilder(catalog *booking.Catalog) *BookingBuilder {
	return &BookingBuilder{
		CompanyID: uuid.New(),
		UserID:    uuid.New(),
		ApptDate:  catalog.CampaignStart(),
		TimeSlot:  catalog.Slots()[0],
		Catalog:   catalog,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) BuildDomain() (*booking.Booking, error) {
	return booking.NewBooking(b.Catalog, b.CompanyID, b.UserID, b.ApptDate, b.TimeSlot)
}
