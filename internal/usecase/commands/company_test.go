//go:build unit

package commands_test

import (
	"context"
	"testing"

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

type companyCommandsEnv struct {
	store    *fake.Store
	commands commands.CompanyCommands
	bookings commands.BookingCommands
}

func newCompanyCommandsEnv() *companyCommandsEnv {
	store := fake.NewStore()
	catalog := testutil.NewTestCatalog()
	companyQueries := queries.NewCompanyQueries(store.CompanyReads())
	bookingQueries := queries.NewBookingQueries(store, store, catalog)

	return &companyCommandsEnv{
		store:    store,
		commands: commands.NewCompanyCommands(store, companyQueries),
		bookings: commands.NewBookingCommands(store, bookingQueries, catalog, clock.NewMockClock(testutil.Day(0))),
	}
}

func validParams() commands.CompanyParams {
	return commands.CompanyParams{
		Name:        "Acme Robotics",
		Description: "Industrial robots",
		Address:     "1-2-3 Shibuya",
		Tel:         "0312345678",
		Website:     "https://acme.example.com",
	}
}

func TestCompanyCommands_Create(t *testing.T) {
	t.Run("creates a company", func(t *testing.T) {
		env := newCompanyCommandsEnv()

		view, err := env.commands.Create(context.Background(), validParams())
		require.NoError(t, err)
		require.Equal(t, "Acme Robotics", view.Name)
		require.NotEqual(t, uuid.Nil, view.ID)
	})

	t.Run("rejects a duplicate name", func(t *testing.T) {
		env := newCompanyCommandsEnv()

		_, err := env.commands.Create(context.Background(), validParams())
		require.NoError(t, err)

		_, err = env.commands.Create(context.Background(), validParams())
		require.ErrorIs(t, err, errs.ErrCompanyNameTaken)
	})

	t.Run("rejects invalid profile fields", func(t *testing.T) {
		env := newCompanyCommandsEnv()

		params := validParams()
		params.Tel = "not-a-number"
		_, err := env.commands.Create(context.Background(), params)
		require.ErrorIs(t, err, errs.ErrDomainValidation)
	})
}

func TestCompanyCommands_Update(t *testing.T) {
	t.Run("updates the profile", func(t *testing.T) {
		env := newCompanyCommandsEnv()
		created, err := env.commands.Create(context.Background(), validParams())
		require.NoError(t, err)

		params := validParams()
		params.Address = "4-5-6 Shinjuku"
		updated, err := env.commands.Update(context.Background(), created.ID, params)
		require.NoError(t, err)
		require.Equal(t, "4-5-6 Shinjuku", updated.Address)
	})

	t.Run("unknown company", func(t *testing.T) {
		env := newCompanyCommandsEnv()

		_, err := env.commands.Update(context.Background(), uuid.New(), validParams())
		require.ErrorIs(t, err, errs.ErrCompanyNotFound)
	})
}

func TestCompanyCommands_Delete(t *testing.T) {
	t.Run("removes the company with its bookings and reserved slots", func(t *testing.T) {
		env := newCompanyCommandsEnv()
		created, err := env.commands.Create(context.Background(), validParams())
		require.NoError(t, err)

		userID := env.store.AddUser("alice", "user")
		_, err = env.bookings.Book(context.Background(), userID, user.RoleUser, commands.BookParams{
			CompanyID: created.ID,
			ApptDate:  testutil.Day(0),
			TimeSlot:  "09:00-10:00",
		})
		require.NoError(t, err)

		require.NoError(t, env.commands.Delete(context.Background(), created.ID))

		require.Equal(t, 0, env.store.BookingCount())
		require.Equal(t, 0, env.store.LedgerSize())
		require.Empty(t, env.store.ConsistencyViolations())
	})

	t.Run("unknown company", func(t *testing.T) {
		env := newCompanyCommandsEnv()

		err := env.commands.Delete(context.Background(), uuid.New())
		require.ErrorIs(t, err, errs.ErrCompanyNotFound)
	})
}
