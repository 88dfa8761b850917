package booking

import (
	"errors"
	"time"
)

var (
	ErrEmptyCatalog    = errors.New("catalog must contain at least one slot")
	ErrInvalidWindow   = errors.New("campaign start must not be after campaign end")
	ErrUnknownSlot     = errors.New("slot is not in the catalog")
	ErrOutsideCampaign = errors.New("date is outside the campaign window")
)

// NormalizeDate truncates a timestamp to its calendar day in UTC. Every date
// comparison in the booking core goes through this one function so that
// time-of-day and timezone components can never make equal days unequal.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Catalog is the immutable enumeration of bookable time slots plus the
// campaign date window. It is built once from configuration and injected;
// it has no side effects and no failure modes after construction.
type Catalog struct {
	slots     []string
	slotIndex map[string]int
	start     time.Time
	end       time.Time
}

func NewCatalog(slots []string, start, end time.Time) (*Catalog, error) {
	if len(slots) == 0 {
		return nil, ErrEmptyCatalog
	}
	start = NormalizeDate(start)
	end = NormalizeDate(end)
	if start.After(end) {
		return nil, ErrInvalidWindow
	}

	index := make(map[string]int, len(slots))
	ordered := make([]string, len(slots))
	for i, s := range slots {
		index[s] = i
		ordered[i] = s
	}

	return &Catalog{
		slots:     ordered,
		slotIndex: index,
		start:     start,
		end:       end,
	}, nil
}

// Slots returns the catalog slots in their fixed order. The returned slice
// is a copy; the catalog itself never changes.
func (c *Catalog) Slots() []string {
	out := make([]string, len(c.slots))
	copy(out, c.slots)
	return out
}

func (c *Catalog) CampaignStart() time.Time { return c.start }
func (c *Catalog) CampaignEnd() time.Time   { return c.end }

func (c *Catalog) IsValidSlot(slotID string) bool {
	_, ok := c.slotIndex[slotID]
	return ok
}

// WithinCampaign reports whether the date, normalized to a calendar day,
// lies inside the inclusive campaign window.
func (c *Catalog) WithinCampaign(date time.Time) bool {
	day := NormalizeDate(date)
	return !day.Before(c.start) && !day.After(c.end)
}

// ValidateSlot checks slot membership and window in the order the booking
// operations require: window first, then slot identity.
func (c *Catalog) ValidateSlot(date time.Time, slotID string) error {
	if !c.WithinCampaign(date) {
		return ErrOutsideCampaign
	}
	if !c.IsValidSlot(slotID) {
		return ErrUnknownSlot
	}
	return nil
}

// Available subtracts the reserved slot ids from the catalog, preserving
// catalog order.
func (c *Catalog) Available(reserved map[string]struct{}) []string {
	out := make([]string, 0, len(c.slots))
	for _, s := range c.slots {
		if _, taken := reserved[s]; !taken {
			out = append(out, s)
		}
	}
	return out
}
