//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"jobfair-booking/internal/domain/user"
	"jobfair-booking/internal/pkg/clock"
	"jobfair-booking/internal/pkg/errs"
	"jobfair-booking/internal/usecase/commands"
	"jobfair-booking/internal/usecase/queries"
	"jobfair-booking/tests/common/fake"
	"jobfair-booking/tests/common/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type bookingQueriesEnv struct {
	store    *fake.Store
	queries  queries.BookingQueries
	commands commands.BookingCommands

	userID    uuid.UUID
	otherID   uuid.UUID
	adminID   uuid.UUID
	companyID uuid.UUID
}

func newBookingQueriesEnv(t *testing.T) *bookingQueriesEnv {
	t.Helper()

	store := fake.NewStore()
	catalog := testutil.NewTestCatalog()
	q := queries.NewBookingQueries(store, store, catalog)
	c := commands.NewBookingCommands(store, q, catalog, clock.NewMockClock(testutil.Day(0)))

	return &bookingQueriesEnv{
		store:     store,
		queries:   q,
		commands:  c,
		userID:    store.AddUser("alice", "user"),
		otherID:   store.AddUser("bob", "user"),
		adminID:   store.AddUser("root", "admin"),
		companyID: store.AddCompany("acme"),
	}
}

func (e *bookingQueriesEnv) book(t *testing.T, actorID uuid.UUID, role user.Role, companyID uuid.UUID, day int, slot string) *queries.BookingView {
	t.Helper()

	view, err := e.commands.Book(context.Background(), actorID, role, commands.BookParams{
		CompanyID: companyID,
		ApptDate:  testutil.Day(day),
		TimeSlot:  slot,
	})
	require.NoError(t, err)
	return view
}

func TestBookingQueries_GetByID(t *testing.T) {
	env := newBookingQueriesEnv(t)
	view := env.book(t, env.userID, user.RoleUser, env.companyID, 0, "09:00-10:00")

	t.Run("owner reads own booking", func(t *testing.T) {
		got, err := env.queries.GetByID(context.Background(), env.userID, user.RoleUser, view.ID)
		require.NoError(t, err)
		require.Equal(t, view.ID, got.ID)
		require.Equal(t, "acme", got.CompanyName)
	})

	t.Run("admin reads any booking", func(t *testing.T) {
		got, err := env.queries.GetByID(context.Background(), env.adminID, user.RoleAdmin, view.ID)
		require.NoError(t, err)
		require.Equal(t, env.userID, got.UserID)
	})

	t.Run("other user is rejected", func(t *testing.T) {
		_, err := env.queries.GetByID(context.Background(), env.otherID, user.RoleUser, view.ID)
		require.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := env.queries.GetByID(context.Background(), env.userID, user.RoleUser, uuid.New())
		require.ErrorIs(t, err, errs.ErrBookingNotFound)
	})
}

func TestBookingQueries_List(t *testing.T) {
	env := newBookingQueriesEnv(t)
	globex := env.store.AddCompany("globex")

	env.book(t, env.userID, user.RoleUser, env.companyID, 0, "09:00-10:00")
	env.book(t, env.userID, user.RoleUser, globex, 0, "09:00-10:00")
	env.book(t, env.otherID, user.RoleUser, env.companyID, 1, "09:00-10:00")

	t.Run("user sees own bookings only", func(t *testing.T) {
		items, err := env.queries.List(context.Background(), env.userID, user.RoleUser, nil)
		require.NoError(t, err)
		require.Len(t, items, 2)
		for _, item := range items {
			require.Equal(t, env.userID, item.UserID)
		}
	})

	t.Run("company filter is ignored for non-admins", func(t *testing.T) {
		items, err := env.queries.List(context.Background(), env.otherID, user.RoleUser, &globex)
		require.NoError(t, err)
		require.Len(t, items, 1)
		require.Equal(t, env.otherID, items[0].UserID)
	})

	t.Run("admin sees everything", func(t *testing.T) {
		items, err := env.queries.List(context.Background(), env.adminID, user.RoleAdmin, nil)
		require.NoError(t, err)
		require.Len(t, items, 3)
	})

	t.Run("admin scopes to one company", func(t *testing.T) {
		items, err := env.queries.List(context.Background(), env.adminID, user.RoleAdmin, &globex)
		require.NoError(t, err)
		require.Len(t, items, 1)
		require.Equal(t, globex, items[0].CompanyID)
	})
}

func TestBookingQueries_AvailableSlots(t *testing.T) {
	env := newBookingQueriesEnv(t)

	t.Run("all slots open on a fresh day", func(t *testing.T) {
		slots, err := env.queries.AvailableSlots(context.Background(), env.companyID, testutil.Day(0))
		require.NoError(t, err)
		require.Equal(t, testutil.CampaignSlots, slots)
	})

	t.Run("reserved slots drop out in catalog order", func(t *testing.T) {
		env.book(t, env.userID, user.RoleUser, env.companyID, 1, "10:00-11:00")
		env.book(t, env.otherID, user.RoleUser, env.companyID, 1, "16:00-17:00")

		slots, err := env.queries.AvailableSlots(context.Background(), env.companyID, testutil.Day(1))
		require.NoError(t, err)
		require.Equal(t, []string{
			"09:00-10:00", "11:00-12:00", "12:00-13:00",
			"13:00-14:00", "14:00-15:00", "15:00-16:00",
		}, slots)
	})

	t.Run("time of day on the query date is ignored", func(t *testing.T) {
		env.book(t, env.userID, user.RoleUser, env.companyID, 2, "09:00-10:00")

		noon := testutil.Day(2).Add(12 * time.Hour)
		slots, err := env.queries.AvailableSlots(context.Background(), env.companyID, noon)
		require.NoError(t, err)
		require.NotContains(t, slots, "09:00-10:00")
		require.Len(t, slots, len(testutil.CampaignSlots)-1)
	})

	t.Run("other days stay untouched", func(t *testing.T) {
		slots, err := env.queries.AvailableSlots(context.Background(), env.companyID, testutil.Day(3))
		require.NoError(t, err)
		require.Len(t, slots, len(testutil.CampaignSlots))
	})

	t.Run("unknown company", func(t *testing.T) {
		_, err := env.queries.AvailableSlots(context.Background(), uuid.New(), testutil.Day(0))
		require.ErrorIs(t, err, errs.ErrCompanyNotFound)
	})
}
