//go:build e2e

package dbtest

import (
	"context"
	"testing"
	"time"

	"jobfair-booking/internal/pkg/password"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// TestPassword is the plaintext behind every seeded account.
const TestPassword = "password123"

// ResetDB truncates all application tables so each subtest starts from a
// clean slate.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := pool.Exec(ctx, `
		TRUNCATE TABLE bookings, company_slots, notification_jobs, companies, users
		RESTART IDENTITY CASCADE`)
	return err
}

// CreateTestUser inserts an account directly; role is "user" or "admin".
func CreateTestUser(t *testing.T, pool *pgxpool.Pool, email, role string) uuid.UUID {
	t.Helper()

	hash, err := password.HashPassword(TestPassword)
	require.NoError(t, err)

	id := uuid.New()
	_, err = pool.Exec(context.Background(), `
		INSERT INTO users (id, name, email, tel, password_hash, role, is_active)
		VALUES ($1, $2, $3, '0312345678', $4, $5, true)`,
		id, "Test "+role, email, hash, role)
	require.NoError(t, err)
	return id
}

// CreateTestCompany inserts an exhibiting company directly.
func CreateTestCompany(t *testing.T, pool *pgxpool.Pool, name string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO companies (id, name, description, address, tel, website)
		VALUES ($1, $2, 'Seeded company', '1-2-3 Test', '0312345678', 'https://example.com')`,
		id, name)
	require.NoError(t, err)
	return id
}

// CountRows is a small assertion helper for table state.
func CountRows(t *testing.T, pool *pgxpool.Pool, table string) int {
	t.Helper()

	var n int
	err := pool.QueryRow(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n)
	require.NoError(t, err)
	return n
}
