package testutil

import (
	"time"

	"jobfair-booking/internal/domain/booking"
)

var CampaignSlots = []string{
	"09:00-10:00", "10:00-11:00", "11:00-12:00", "12:00-13:00",
	"13:00-14:00", "14:00-15:00", "15:00-16:00", "16:00-17:00",
}

var (
	CampaignStart = time.Date(2022, 5, 10, 0, 0, 0, 0, time.UTC)
	CampaignEnd   = time.Date(2022, 5, 13, 0, 0, 0, 0, time.UTC)
)

// NewTestCatalog builds the production slot catalog used across tests.
func NewTestCatalog() *booking.Catalog {
	catalog, err := booking.NewCatalog(CampaignSlots, CampaignStart, CampaignEnd)
	if err != nil {
		panic("failed to build test catalog: " + err.Error())
	}
	return catalog
}

// Day returns a UTC date inside the campaign window, offset days after
// the campaign start.
func Day(offset int) time.Time {
	return CampaignStart.AddDate(0, 0, offset)
}
