package company

import (
	"errors"
	"time"

	"jobfair-booking/internal/domain/booking"
)

// ErrDuplicateReservation marks a programming error: AddReservation called
// without first checking HasReservation. It is never a user-facing failure.
var ErrDuplicateReservation = errors.New("reservation pair already present in ledger")

// ReservedSlot is one (date, slot) pair currently booked for a company.
type ReservedSlot struct {
	Date     time.Time
	TimeSlot string
}

// Ledger is a company's record of reserved (date, slot) pairs. Dates are
// normalized to calendar days on every operation; no pair ever appears
// twice.
type Ledger struct {
	entries []ReservedSlot
	index   map[ledgerKey]struct{}
}

type ledgerKey struct {
	day  int64
	slot string
}

func NewLedger(entries []ReservedSlot) *Ledger {
	l := &Ledger{
		index: make(map[ledgerKey]struct{}, len(entries)),
	}
	for _, e := range entries {
		// Tolerate duplicate rows from a damaged source: keep the first.
		if l.HasReservation(e.Date, e.TimeSlot) {
			continue
		}
		l.insert(e.Date, e.TimeSlot)
	}
	return l
}

func (l *Ledger) HasReservation(date time.Time, slotID string) bool {
	_, ok := l.index[keyOf(date, slotID)]
	return ok
}

// AddReservation inserts the pair. The caller must have verified
// !HasReservation first; a duplicate insert is reported as
// ErrDuplicateReservation rather than silently doubling the slot.
func (l *Ledger) AddReservation(date time.Time, slotID string) error {
	if l.HasReservation(date, slotID) {
		return ErrDuplicateReservation
	}
	l.insert(date, slotID)
	return nil
}

// RemoveReservation deletes the matching pair if present. Removing an
// absent pair is a no-op so retries and partial failures stay safe.
func (l *Ledger) RemoveReservation(date time.Time, slotID string) {
	k := keyOf(date, slotID)
	if _, ok := l.index[k]; !ok {
		return
	}
	delete(l.index, k)

	day := booking.NormalizeDate(date)
	for i, e := range l.entries {
		if e.TimeSlot == slotID && e.Date.Equal(day) {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			break
		}
	}
}

// Entries returns the reserved pairs in insertion order.
func (l *Ledger) Entries() []ReservedSlot {
	out := make([]ReservedSlot, len(l.entries))
	copy(out, l.entries)
	return out
}

// ReservedOn returns the set of slot ids booked on the given day.
func (l *Ledger) ReservedOn(date time.Time) map[string]struct{} {
	day := booking.NormalizeDate(date)
	out := make(map[string]struct{})
	for _, e := range l.entries {
		if e.Date.Equal(day) {
			out[e.TimeSlot] = struct{}{}
		}
	}
	return out
}

func (l *Ledger) Len() int {
	return len(l.entries)
}

func (l *Ledger) insert(date time.Time, slotID string) {
	day := booking.NormalizeDate(date)
	l.entries = append(l.entries, ReservedSlot{Date: day, TimeSlot: slotID})
	l.index[keyOf(date, slotID)] = struct{}{}
}

func keyOf(date time.Time, slotID string) ledgerKey {
	return ledgerKey{day: booking.NormalizeDate(date).Unix(), slot: slotID}
}
