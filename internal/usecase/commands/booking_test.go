//go:build unit

package commands_test

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"jobfair-booking/internal/domain/booking"
	"jobfair-booking/internal/domain/user"
	"jobfair-booking/internal/pkg/clock"
	"jobfair-booking/internal/pkg/errs"
	"jobfair-booking/internal/usecase/commands"
	"jobfair-booking/internal/usecase/queries"
	"jobfair-booking/tests/common/fake"
	"jobfair-booking/tests/common/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type BookingCommandsSuite struct {
	suite.Suite

	store    *fake.Store
	commands commands.BookingCommands
	queries  queries.BookingQueries

	userID    uuid.UUID
	adminID   uuid.UUID
	companyID uuid.UUID
}

func TestBookingCommandsSuite(t *testing.T) {
	suite.Run(t, new(BookingCommandsSuite))
}

func (s *BookingCommandsSuite) SetupTest() {
	s.store = fake.NewStore()
	catalog := testutil.NewTestCatalog()
	s.queries = queries.NewBookingQueries(s.store, s.store, catalog)
	s.commands = commands.NewBookingCommands(
		s.store, s.queries, catalog,
		clock.NewMockClock(testutil.Day(0)),
	)

	s.userID = s.store.AddUser("alice", "user")
	s.adminID = s.store.AddUser("root", "admin")
	s.companyID = s.store.AddCompany("acme")
}

func (s *BookingCommandsSuite) book(actorID uuid.UUID, role user.Role, companyID uuid.UUID, day int, slot string) (*queries.BookingView, error) {
	return s.commands.Book(context.Background(), actorID, role, commands.BookParams{
		CompanyID: companyID,
		ApptDate:  testutil.Day(day),
		TimeSlot:  slot,
	})
}

func (s *BookingCommandsSuite) mustBook(actorID uuid.UUID, role user.Role, companyID uuid.UUID, day int, slot string) *queries.BookingView {
	view, err := s.book(actorID, role, companyID, day, slot)
	s.Require().NoError(err)
	return view
}

func (s *BookingCommandsSuite) TestBookCreatesBookingAndLedgerPair() {
	view := s.mustBook(s.userID, user.RoleUser, s.companyID, 0, "09:00-10:00")

	s.Equal(s.companyID, view.CompanyID)
	s.Equal(s.userID, view.UserID)
	s.Equal("acme", view.CompanyName)
	s.Equal("09:00-10:00", view.TimeSlot)
	s.True(view.ApptDate.Equal(testutil.Day(0)))

	s.True(s.store.HasLedgerPair(s.companyID, testutil.Day(0), "09:00-10:00"))
	s.Empty(s.store.ConsistencyViolations())

	s.Require().Len(s.store.Jobs, 1)
	s.Equal("email", s.store.Jobs[0].Kind)
	s.Equal("booking_confirmed", s.store.Jobs[0].Topic)
}

func (s *BookingCommandsSuite) TestBookNormalizesTimeOfDay() {
	noon := testutil.Day(1).Add(12*time.Hour + 34*time.Minute)
	_, err := s.commands.Book(context.Background(), s.userID, user.RoleUser, commands.BookParams{
		CompanyID: s.companyID,
		ApptDate:  noon,
		TimeSlot:  "10:00-11:00",
	})
	s.Require().NoError(err)

	// Same calendar day at midnight collides with the stored pair.
	other := s.store.AddUser("bob", "user")
	_, err = s.book(other, user.RoleUser, s.companyID, 1, "10:00-11:00")
	s.Require().ErrorIs(err, errs.ErrSlotConflict)
}

func (s *BookingCommandsSuite) TestBookSlotConflict() {
	s.mustBook(s.userID, user.RoleUser, s.companyID, 0, "09:00-10:00")

	other := s.store.AddUser("bob", "user")
	_, err := s.book(other, user.RoleUser, s.companyID, 0, "09:00-10:00")
	s.Require().ErrorIs(err, errs.ErrSlotConflict)

	s.Equal(1, s.store.BookingCount())
	s.Len(s.store.Jobs, 1)
	s.Empty(s.store.ConsistencyViolations())
}

func (s *BookingCommandsSuite) TestBookSameSlotDifferentDayAllowed() {
	s.mustBook(s.userID, user.RoleUser, s.companyID, 0, "09:00-10:00")

	other := s.store.AddUser("bob", "user")
	_, err := s.book(other, user.RoleUser, s.companyID, 1, "09:00-10:00")
	s.Require().NoError(err)
}

func (s *BookingCommandsSuite) TestBookQuotaExceeded() {
	s.mustBook(s.userID, user.RoleUser, s.companyID, 0, "09:00-10:00")
	s.mustBook(s.userID, user.RoleUser, s.companyID, 0, "10:00-11:00")
	s.mustBook(s.userID, user.RoleUser, s.companyID, 1, "09:00-10:00")

	_, err := s.book(s.userID, user.RoleUser, s.companyID, 1, "10:00-11:00")
	s.Require().ErrorIs(err, errs.ErrQuotaExceeded)
	s.Equal(int(booking.MaxActiveBookingsPerUser), s.store.BookingCount())
}

func (s *BookingCommandsSuite) TestBookAdminExemptFromQuota() {
	slots := []string{"09:00-10:00", "10:00-11:00", "11:00-12:00", "12:00-13:00", "13:00-14:00"}
	for _, slot := range slots {
		s.mustBook(s.adminID, user.RoleAdmin, s.companyID, 2, slot)
	}
	s.Equal(len(slots), s.store.BookingCount())
}

func (s *BookingCommandsSuite) TestBookCancelFreesQuota() {
	first := s.mustBook(s.userID, user.RoleUser, s.companyID, 0, "09:00-10:00")
	s.mustBook(s.userID, user.RoleUser, s.companyID, 0, "10:00-11:00")
	s.mustBook(s.userID, user.RoleUser, s.companyID, 0, "11:00-12:00")

	s.Require().NoError(s.commands.Cancel(context.Background(), s.userID, user.RoleUser, first.ID))

	_, err := s.book(s.userID, user.RoleUser, s.companyID, 0, "12:00-13:00")
	s.Require().NoError(err)
}

func (s *BookingCommandsSuite) TestBookOutsideCampaign() {
	for _, day := range []int{-1, 4} {
		_, err := s.book(s.userID, user.RoleUser, s.companyID, day, "09:00-10:00")
		s.Require().ErrorIs(err, errs.ErrOutOfWindow)
	}
	s.Equal(0, s.store.BookingCount())
}

func (s *BookingCommandsSuite) TestBookUnknownSlot() {
	_, err := s.book(s.userID, user.RoleUser, s.companyID, 0, "17:00-18:00")
	s.Require().ErrorIs(err, errs.ErrInvalidSlot)
}

func (s *BookingCommandsSuite) TestBookCompanyNotFound() {
	_, err := s.book(s.userID, user.RoleUser, uuid.New(), 0, "09:00-10:00")
	s.Require().ErrorIs(err, errs.ErrCompanyNotFound)
}

func (s *BookingCommandsSuite) TestBookMissingParams() {
	_, err := s.commands.Book(context.Background(), s.userID, user.RoleUser, commands.BookParams{
		CompanyID: s.companyID,
		TimeSlot:  "09:00-10:00",
	})
	s.Require().ErrorIs(err, errs.ErrDomainValidation)
}

func (s *BookingCommandsSuite) TestBookConcurrentSameSlotOneWins() {
	users := make([]uuid.UUID, 8)
	for i := range users {
		users[i] = s.store.AddUser("racer"+string(rune('a'+i)), "user")
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for _, id := range users {
		wg.Add(1)
		go func(actorID uuid.UUID) {
			defer wg.Done()
			if _, err := s.book(actorID, user.RoleUser, s.companyID, 3, "16:00-17:00"); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(id)
	}
	wg.Wait()

	s.Equal(1, wins)
	s.Equal(1, s.store.BookingCount())
	s.Empty(s.store.ConsistencyViolations())
}

func (s *BookingCommandsSuite) TestRescheduleMovesLedgerPair() {
	view := s.mustBook(s.userID, user.RoleUser, s.companyID, 0, "09:00-10:00")

	newSlot := "14:00-15:00"
	newDate := testutil.Day(2)
	updated, err := s.commands.Reschedule(context.Background(), s.userID, user.RoleUser, view.ID, commands.RescheduleParams{
		ApptDate: &newDate,
		TimeSlot: &newSlot,
	})
	s.Require().NoError(err)

	s.Equal("14:00-15:00", updated.TimeSlot)
	s.True(updated.ApptDate.Equal(newDate))
	s.False(s.store.HasLedgerPair(s.companyID, testutil.Day(0), "09:00-10:00"))
	s.True(s.store.HasLedgerPair(s.companyID, newDate, newSlot))
	s.Empty(s.store.ConsistencyViolations())

	s.Require().Len(s.store.Jobs, 2)
	s.Equal("booking_rescheduled", s.store.Jobs[1].Topic)
}

func (s *BookingCommandsSuite) TestRescheduleAcrossCompanies() {
	view := s.mustBook(s.userID, user.RoleUser, s.companyID, 0, "09:00-10:00")
	otherCompany := s.store.AddCompany("globex")

	updated, err := s.commands.Reschedule(context.Background(), s.userID, user.RoleUser, view.ID, commands.RescheduleParams{
		CompanyID: &otherCompany,
	})
	s.Require().NoError(err)

	s.Equal(otherCompany, updated.CompanyID)
	s.False(s.store.HasLedgerPair(s.companyID, testutil.Day(0), "09:00-10:00"))
	s.True(s.store.HasLedgerPair(otherCompany, testutil.Day(0), "09:00-10:00"))
	s.Empty(s.store.ConsistencyViolations())
}

func (s *BookingCommandsSuite) TestRescheduleNoopKeepsLedger() {
	view := s.mustBook(s.userID, user.RoleUser, s.companyID, 0, "09:00-10:00")

	sameSlot := "09:00-10:00"
	sameDate := testutil.Day(0)
	_, err := s.commands.Reschedule(context.Background(), s.userID, user.RoleUser, view.ID, commands.RescheduleParams{
		ApptDate: &sameDate,
		TimeSlot: &sameSlot,
	})
	s.Require().NoError(err)

	s.Equal(1, s.store.LedgerSize())
	s.True(s.store.HasLedgerPair(s.companyID, testutil.Day(0), "09:00-10:00"))
}

func (s *BookingCommandsSuite) TestRescheduleConflictRollsBack() {
	view := s.mustBook(s.userID, user.RoleUser, s.companyID, 0, "09:00-10:00")
	other := s.store.AddUser("bob", "user")
	s.mustBook(other, user.RoleUser, s.companyID, 0, "10:00-11:00")

	taken := "10:00-11:00"
	_, err := s.commands.Reschedule(context.Background(), s.userID, user.RoleUser, view.ID, commands.RescheduleParams{
		TimeSlot: &taken,
	})
	s.Require().ErrorIs(err, errs.ErrSlotConflict)

	// The original pair survives a failed move.
	s.True(s.store.HasLedgerPair(s.companyID, testutil.Day(0), "09:00-10:00"))
	s.Empty(s.store.ConsistencyViolations())
}

func (s *BookingCommandsSuite) TestRescheduleOutsideCampaign() {
	view := s.mustBook(s.userID, user.RoleUser, s.companyID, 0, "09:00-10:00")

	late := testutil.Day(10)
	_, err := s.commands.Reschedule(context.Background(), s.userID, user.RoleUser, view.ID, commands.RescheduleParams{
		ApptDate: &late,
	})
	s.Require().ErrorIs(err, errs.ErrOutOfWindow)
}

func (s *BookingCommandsSuite) TestRescheduleForbiddenForNonOwner() {
	view := s.mustBook(s.userID, user.RoleUser, s.companyID, 0, "09:00-10:00")
	other := s.store.AddUser("bob", "user")

	slot := "10:00-11:00"
	_, err := s.commands.Reschedule(context.Background(), other, user.RoleUser, view.ID, commands.RescheduleParams{
		TimeSlot: &slot,
	})
	s.Require().ErrorIs(err, errs.ErrForbidden)
}

func (s *BookingCommandsSuite) TestRescheduleAdminMayMoveAnyBooking() {
	view := s.mustBook(s.userID, user.RoleUser, s.companyID, 0, "09:00-10:00")

	slot := "10:00-11:00"
	updated, err := s.commands.Reschedule(context.Background(), s.adminID, user.RoleAdmin, view.ID, commands.RescheduleParams{
		TimeSlot: &slot,
	})
	s.Require().NoError(err)
	s.Equal(slot, updated.TimeSlot)
	s.Equal(s.userID, updated.UserID)
}

func (s *BookingCommandsSuite) TestRescheduleNotFound() {
	slot := "10:00-11:00"
	_, err := s.commands.Reschedule(context.Background(), s.userID, user.RoleUser, uuid.New(), commands.RescheduleParams{
		TimeSlot: &slot,
	})
	s.Require().ErrorIs(err, errs.ErrBookingNotFound)
}

func (s *BookingCommandsSuite) TestCancelReleasesSlot() {
	view := s.mustBook(s.userID, user.RoleUser, s.companyID, 0, "09:00-10:00")

	s.Require().NoError(s.commands.Cancel(context.Background(), s.userID, user.RoleUser, view.ID))

	s.Equal(0, s.store.BookingCount())
	s.Equal(0, s.store.LedgerSize())

	// The slot is immediately bookable again.
	other := s.store.AddUser("bob", "user")
	_, err := s.book(other, user.RoleUser, s.companyID, 0, "09:00-10:00")
	s.Require().NoError(err)
}

func (s *BookingCommandsSuite) TestCancelTwiceReportsNotFound() {
	view := s.mustBook(s.userID, user.RoleUser, s.companyID, 0, "09:00-10:00")

	s.Require().NoError(s.commands.Cancel(context.Background(), s.userID, user.RoleUser, view.ID))
	err := s.commands.Cancel(context.Background(), s.userID, user.RoleUser, view.ID)
	s.Require().ErrorIs(err, errs.ErrBookingNotFound)
}

func (s *BookingCommandsSuite) TestCancelForbiddenForNonOwner() {
	view := s.mustBook(s.userID, user.RoleUser, s.companyID, 0, "09:00-10:00")
	other := s.store.AddUser("bob", "user")

	err := s.commands.Cancel(context.Background(), other, user.RoleUser, view.ID)
	s.Require().ErrorIs(err, errs.ErrForbidden)
	s.Equal(1, s.store.BookingCount())
}

func (s *BookingCommandsSuite) TestCancelAdminMayCancelAnyBooking() {
	view := s.mustBook(s.userID, user.RoleUser, s.companyID, 0, "09:00-10:00")

	s.Require().NoError(s.commands.Cancel(context.Background(), s.adminID, user.RoleAdmin, view.ID))
	s.Equal(0, s.store.BookingCount())
}

// Random Book/Reschedule/Cancel sequences across users and companies; the
// booking table and the ledger must agree, and no non-admin may hold more
// than three bookings, after every single step.
func (s *BookingCommandsSuite) TestRandomOperationSequencesStayConsistent() {
	rng := rand.New(rand.NewSource(20220510))

	// Fixed participant order keeps the whole sequence reproducible from
	// the seed.
	users := []uuid.UUID{
		s.userID,
		s.store.AddUser("bob", "user"),
		s.store.AddUser("carol", "user"),
		s.adminID,
	}
	roles := map[uuid.UUID]user.Role{
		users[0]: user.RoleUser,
		users[1]: user.RoleUser,
		users[2]: user.RoleUser,
		users[3]: user.RoleAdmin,
	}
	companies := []uuid.UUID{
		s.companyID,
		s.store.AddCompany("globex"),
		s.store.AddCompany("initech"),
	}

	type liveBooking struct {
		id    uuid.UUID
		owner uuid.UUID
	}
	var live []liveBooking

	allowed := []error{
		errs.ErrSlotConflict,
		errs.ErrQuotaExceeded,
		errs.ErrOutOfWindow,
		errs.ErrForbidden,
	}
	requireAllowed := func(err error, step int) {
		for _, sentinel := range allowed {
			if errors.Is(err, sentinel) {
				return
			}
		}
		s.Require().NoError(err, "unexpected failure at step %d", step)
	}

	for step := range 500 {
		actor := users[rng.Intn(len(users))]
		role := roles[actor]
		companyID := companies[rng.Intn(len(companies))]
		// -1 and 4 fall outside the campaign window.
		day := rng.Intn(6) - 1
		slot := testutil.CampaignSlots[rng.Intn(len(testutil.CampaignSlots))]

		op := rng.Intn(3)
		if len(live) == 0 {
			op = 0
		}
		switch op {
		case 0:
			view, err := s.book(actor, role, companyID, day, slot)
			if err == nil {
				live = append(live, liveBooking{id: view.ID, owner: actor})
			} else {
				requireAllowed(err, step)
			}
		case 1:
			pick := live[rng.Intn(len(live))]
			params := commands.RescheduleParams{}
			if rng.Intn(2) == 0 {
				params.CompanyID = &companyID
			}
			if rng.Intn(2) == 0 {
				d := testutil.Day(day)
				params.ApptDate = &d
			}
			if rng.Intn(2) == 0 {
				moved := slot
				params.TimeSlot = &moved
			}
			_, err := s.commands.Reschedule(context.Background(), actor, role, pick.id, params)
			if err != nil {
				requireAllowed(err, step)
			}
		case 2:
			idx := rng.Intn(len(live))
			err := s.commands.Cancel(context.Background(), actor, role, live[idx].id)
			if err == nil {
				live = append(live[:idx], live[idx+1:]...)
			} else {
				requireAllowed(err, step)
			}
		}

		s.Require().Empty(s.store.ConsistencyViolations(), "ledger drift at step %d", step)
		for id, r := range roles {
			if r != user.RoleAdmin {
				s.Require().LessOrEqual(s.store.ActiveBookings(id), 3, "quota breach at step %d", step)
			}
		}
	}

	s.Equal(len(live), s.store.BookingCount())
	s.Equal(s.store.BookingCount(), s.store.LedgerSize())
}
